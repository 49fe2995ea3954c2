// Package docstore implements the per-owner document store contract: get, set with
// per-key merge, and subscribe to live snapshots of one key.
package docstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/income-planner/internal/clock"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/logger"
)

// Storage is the durable side of the store: one value per owner and key.
type Storage interface {
	GetDocument(ctx context.Context, ownerID, key string) (document.Document, bool, error)
	SaveDocument(ctx context.Context, ownerID, key string, doc document.Document) error
}

type documentCache interface {
	GetDocument(ownerID, key string) (document.Document, bool, error)
	CacheDocument(ownerID, key string, doc document.Document) error
	InvalidateDocument(ownerID, key string) error
}

type changePublisher interface {
	PublishChange(ctx context.Context, change document.Change) error
}

type Store struct {
	storage   Storage
	cache     documentCache
	publisher changePublisher
	hub       *Hub
	clock     clock.Clock
}

type Option func(*Store)

func WithCache(cache documentCache) Option {
	return func(s *Store) {
		s.cache = cache
	}
}

// WithPublisher sends changes through an external feed. The feed consumer is expected
// to dispatch them into Hub; without a publisher changes are dispatched in-process.
func WithPublisher(publisher changePublisher) Option {
	return func(s *Store) {
		s.publisher = publisher
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		clock:   clock.System{},
	}
	s.hub = NewHub(s.loadStored)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Hub() *Hub {
	return s.hub
}

func (s *Store) Get(ctx context.Context, ownerID, key string) (json.RawMessage, bool, error) {
	doc, found, err := s.getDocument(ctx, ownerID, key)
	if err != nil || !found {
		return nil, found, err
	}
	return doc.Value, true, nil
}

func (s *Store) getDocument(ctx context.Context, ownerID, key string) (document.Document, bool, error) {
	if s.cache != nil {
		doc, found, err := s.cache.GetDocument(ownerID, key)
		if err == nil && found {
			return doc, true, nil
		}
	}

	doc, found, err := s.storage.GetDocument(ctx, ownerID, key)
	if err != nil {
		return document.Document{}, false, errors.Wrap(err, "get document")
	}
	if found && s.cache != nil {
		if err = s.cache.CacheDocument(ownerID, key, doc); err != nil {
			logger.Error("failed to cache document", zap.Error(err), zap.String("owner", ownerID), zap.String("key", key))
		}
	}
	return doc, found, nil
}

// Set replaces the value stored under key; other keys of the owner are untouched.
func (s *Store) Set(ctx context.Context, ownerID, key string, value json.RawMessage) error {
	doc := document.Document{
		Value:     append(json.RawMessage(nil), value...),
		UpdatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveDocument(ctx, ownerID, key, doc); err != nil {
		return errors.Wrap(err, "set document")
	}
	s.invalidateCache(ownerID, key)

	change := document.Change{
		OwnerID:   ownerID,
		Key:       key,
		UpdatedAt: doc.UpdatedAt,
	}
	if s.publisher == nil {
		s.hub.Dispatch(change)
		return nil
	}
	return errors.Wrap(s.publisher.PublishChange(ctx, change), "publish change")
}

// invalidateCache drops the cached copy instead of overwriting it: with concurrent
// writers the last cache write is not necessarily the last stored value.
func (s *Store) invalidateCache(ownerID, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDocument(ownerID, key); err != nil {
		logger.Error("failed to invalidate cached document", zap.Error(err), zap.String("owner", ownerID))
	}
}

// loadStored reads storage directly for change delivery; the cache may lag behind a write.
func (s *Store) loadStored(ctx context.Context, ownerID, key string) (json.RawMessage, error) {
	doc, found, err := s.storage.GetDocument(ctx, ownerID, key)
	if err != nil {
		return nil, errors.Wrap(err, "load document")
	}
	if !found {
		return nil, nil
	}
	return doc.Value, nil
}

// Subscribe delivers the current value (nil when absent) followed by every later change.
// Each delivery reads storage, so the last one always carries the stored value.
// Callbacks run on a dedicated goroutine, never on the caller's.
func (s *Store) Subscribe(ownerID, key string, onData func(json.RawMessage), onError func(error)) (unsubscribe func()) {
	return s.hub.subscribe(ownerID, key, onData, onError).unsubscribe
}
