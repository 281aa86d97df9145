package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/3lielnashar/Customers-map/internal/models"
	"github.com/3lielnashar/Customers-map/internal/repository"
)

// memStore is an in-memory LocationStore for service tests. Ids are decimal
// integers; anything else is treated as a malformed id.
type memStore struct {
	mu     sync.Mutex
	nextID int
	docs   []models.Document

	deleteAllCalls  int
	replaceAllCalls int
	replaceAllErr   error
}

func newMemStore(docs ...models.Document) *memStore {
	s := &memStore{}
	for _, d := range docs {
		s.nextID++
		if d.ID == "" {
			d.ID = strconv.Itoa(s.nextID)
		}
		s.docs = append(s.docs, d)
	}
	return s
}

func toDocument(id string, loc models.Location) models.Document {
	return models.Document{
		ID:          id,
		Name:        loc.Name,
		Description: loc.Description.Value(),
		Comment:     loc.Comment.Value(),
		Address:     loc.Address.Value(),
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
	}
}

func (s *memStore) index(id string) (int, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return -1, repository.ErrInvalidID
	}
	for i, d := range s.docs {
		if d.ID == id {
			return i, nil
		}
	}
	return -1, nil
}

func (s *memStore) InsertOne(_ context.Context, loc models.Location) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.docs = append(s.docs, toDocument(id, loc))
	return id, nil
}

func (s *memStore) FindOne(_ context.Context, id string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	d := s.docs[i]
	return &d, nil
}

func (s *memStore) FindMany(_ context.Context, filter models.Filter) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Document
	for _, d := range s.docs {
		name, _ := d.Name.(string)
		if filter.NameContains == "" || strings.Contains(strings.ToLower(name), strings.ToLower(filter.NameContains)) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) UpdateOne(_ context.Context, id string, patch models.Patch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, nil
	}
	d := &s.docs[i]
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Description != nil {
		d.Description = patch.Description.Value()
	}
	if patch.Comment != nil {
		d.Comment = patch.Comment.Value()
	}
	if patch.Address != nil {
		d.Address = patch.Address.Value()
	}
	if patch.Latitude != nil {
		d.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		d.Longitude = *patch.Longitude
	}
	return 1, nil
}

func (s *memStore) DeleteOne(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, nil
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return 1, nil
}

func (s *memStore) DeleteByName(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.docs {
		if d.Name == name {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteAllCalls++
	s.docs = nil
	return nil
}

func (s *memStore) InsertMany(_ context.Context, locs []models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range locs {
		s.nextID++
		s.docs = append(s.docs, toDocument(strconv.Itoa(s.nextID), loc))
	}
	return nil
}

func (s *memStore) ReplaceAll(_ context.Context, locs []models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceAllCalls++
	if s.replaceAllErr != nil {
		return s.replaceAllErr
	}
	s.docs = nil
	for _, loc := range locs {
		s.nextID++
		s.docs = append(s.docs, toDocument(strconv.Itoa(s.nextID), loc))
	}
	return nil
}

func (s *memStore) all() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Document(nil), s.docs...)
}
