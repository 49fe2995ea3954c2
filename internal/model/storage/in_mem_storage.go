package storage

import (
	"context"
	"sync"

	"max.ks1230/income-planner/internal/entity/document"
)

type docKey struct {
	ownerID string
	key     string
}

type InMemStorage struct {
	mu   sync.RWMutex
	docs map[docKey]document.Document
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{docs: make(map[docKey]document.Document)}
}

func (s *InMemStorage) GetDocument(_ context.Context, ownerID, key string) (document.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docKey{ownerID, key}]
	if !ok {
		return document.Document{}, false, nil
	}
	doc.Value = append([]byte(nil), doc.Value...)
	return doc, true, nil
}

func (s *InMemStorage) SaveDocument(_ context.Context, ownerID, key string, doc document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.Value = append([]byte(nil), doc.Value...)
	s.docs[docKey{ownerID, key}] = doc
	return nil
}
