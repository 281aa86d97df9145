package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/3lielnashar/Customers-map/internal/provider"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReverseGeocoder is a mock implementation of the ReverseGeocoder interface
type MockReverseGeocoder struct {
	mock.Mock
}

func (m *MockReverseGeocoder) ReverseGeocode(ctx context.Context, lat float64, lng float64) (string, error) {
	args := m.Called(ctx, lat, lng)
	return args.String(0), args.Error(1)
}

func TestEnricher_Address(t *testing.T) {
	tests := []struct {
		name        string
		mockAddress string
		mockError   error
		expected    string
	}{
		{
			name:        "provider returns an address",
			mockAddress: "Paris, France",
			expected:    "Paris, France",
		},
		{
			name:      "provider has no results",
			mockError: fmt.Errorf("%w: status ZERO_RESULTS", provider.ErrNoResults),
			expected:  AddressNotFound,
		},
		{
			name:     "provider returns an empty address",
			expected: AddressNotFound,
		},
		{
			name:      "network failure",
			mockError: errors.New("dial tcp: connection refused"),
			expected:  AddressLookupFailed,
		},
		{
			name:      "http status failure",
			mockError: &provider.StatusError{Endpoint: "/geocode/json", StatusCode: 500},
			expected:  AddressLookupFailed,
		},
		{
			name:      "timeout",
			mockError: context.DeadlineExceeded,
			expected:  AddressLookupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geocoder := new(MockReverseGeocoder)
			geocoder.On("ReverseGeocode", mock.Anything, 48.8566, 2.3522).Return(tt.mockAddress, tt.mockError).Once()

			enricher := NewEnricher(geocoder, time.Second, zerolog.Nop())

			assert.Equal(t, tt.expected, enricher.Address(context.Background(), 48.8566, 2.3522))
			geocoder.AssertExpectations(t)
		})
	}
}

func TestEnricher_AppliesTimeout(t *testing.T) {
	geocoder := new(MockReverseGeocoder)
	geocoder.On("ReverseGeocode", mock.Anything, 1.0, 2.0).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(250*time.Millisecond), deadline, 200*time.Millisecond)
		}).
		Return("", context.DeadlineExceeded)

	enricher := NewEnricher(geocoder, 250*time.Millisecond, zerolog.Nop())

	assert.Equal(t, AddressLookupFailed, enricher.Address(context.Background(), 1, 2))
}
