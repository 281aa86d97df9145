package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMapsService is a mock implementation of the MapsService interface
type MockMapsService struct {
	mock.Mock
}

func (m *MockMapsService) SearchPlaces(ctx context.Context, query string) (json.RawMessage, error) {
	args := m.Called(ctx, query)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *MockMapsService) Directions(ctx context.Context, origin, destination string) (json.RawMessage, error) {
	args := m.Called(ctx, origin, destination)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func TestMapsHandler_SearchPlaces(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		mockBody       json.RawMessage
		mockError      error
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing query parameter",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "Query parameter is required"},
		},
		{
			name:           "provider body is passed through",
			query:          "coffee in Cairo",
			mockBody:       json.RawMessage(`{"results":[{"name":"Cafe"}],"status":"OK"}`),
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"results": []interface{}{map[string]interface{}{"name": "Cafe"}},
				"status":  "OK",
			},
		},
		{
			name:           "provider failure",
			query:          "coffee",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   map[string]interface{}{"error": "Place search failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockMapsService)
			handler := NewMapsHandler(mockSvc)

			if tt.query != "" {
				mockSvc.On("SearchPlaces", mock.Anything, tt.query).Return(tt.mockBody, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/places/search", nil)
			if tt.query != "" {
				q := req.URL.Query()
				q.Add("query", tt.query)
				req.URL.RawQuery = q.Encode()
			}
			w := httptest.NewRecorder()

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.SearchPlaces(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeBody(t, w))
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestMapsHandler_Directions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origin         string
		destination    string
		mockBody       json.RawMessage
		mockError      error
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing destination",
			origin:         "Cairo",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "Origin and destination parameters are required"},
		},
		{
			name:           "missing origin",
			destination:    "Giza",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "Origin and destination parameters are required"},
		},
		{
			name:           "route returned",
			origin:         "Cairo",
			destination:    "Giza",
			mockBody:       json.RawMessage(`{"routes":[],"status":"ZERO_RESULTS"}`),
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]interface{}{"routes": []interface{}{}, "status": "ZERO_RESULTS"},
		},
		{
			name:           "provider failure",
			origin:         "Cairo",
			destination:    "Giza",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   map[string]interface{}{"error": "Directions request failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockMapsService)
			handler := NewMapsHandler(mockSvc)

			expectCall := tt.origin != "" && tt.destination != ""
			if expectCall {
				mockSvc.On("Directions", mock.Anything, tt.origin, tt.destination).Return(tt.mockBody, tt.mockError)
			}

			params := url.Values{}
			if tt.origin != "" {
				params.Set("origin", tt.origin)
			}
			if tt.destination != "" {
				params.Set("destination", tt.destination)
			}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/directions?"+params.Encode(), nil)

			handler.Directions(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeBody(t, w))
			if expectCall {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}
