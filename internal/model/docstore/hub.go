package docstore

import (
	"context"
	"encoding/json"
	"sync"

	"max.ks1230/income-planner/internal/entity/document"
)

type topic struct {
	ownerID string
	key     string
}

// loader reads the value currently stored under a topic; nil when absent.
type loader func(ctx context.Context, ownerID, key string) (json.RawMessage, error)

// Hub fans document changes out to the subscriptions of the matching owner and key.
// A change only marks subscriptions stale: each one re-reads storage before delivering,
// so notifications that arrive out of order still settle on the stored value.
type Hub struct {
	load loader

	mu   sync.RWMutex
	subs map[topic]map[*subscription]struct{}
}

func NewHub(load loader) *Hub {
	return &Hub{
		load: load,
		subs: make(map[topic]map[*subscription]struct{}),
	}
}

func (h *Hub) Dispatch(c document.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[topic{c.OwnerID, c.Key}] {
		sub.markStale()
	}
}

// Fail reports a feed failure to every subscription.
func (h *Hub) Fail(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, subs := range h.subs {
		for sub := range subs {
			sub.fail(err)
		}
	}
}

// subscribe registers a subscription whose first delivery is the current value.
func (h *Hub) subscribe(ownerID, key string, onData func(json.RawMessage), onError func(error)) *subscription {
	sub := &subscription{
		hub:     h,
		topic:   topic{ownerID, key},
		onData:  onData,
		onError: onError,
		stale:   true,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	sub.wake <- struct{}{}

	h.mu.Lock()
	if h.subs[sub.topic] == nil {
		h.subs[sub.topic] = make(map[*subscription]struct{})
	}
	h.subs[sub.topic][sub] = struct{}{}
	h.mu.Unlock()

	go sub.run()
	return sub
}

func (h *Hub) remove(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[sub.topic], sub)
	if len(h.subs[sub.topic]) == 0 {
		delete(h.subs, sub.topic)
	}
}

func (h *Hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, subs := range h.subs {
		n += len(subs)
	}
	return n
}

// subscription delivers on its own goroutine. Any number of changes queued while a
// delivery runs collapse into one re-read; feed failures keep their own slot and are
// never replaced by a snapshot.
type subscription struct {
	hub     *Hub
	topic   topic
	onData  func(json.RawMessage)
	onError func(error)

	mu      sync.Mutex
	stale   bool
	failure error

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func (s *subscription) markStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) fail(err error) {
	s.mu.Lock()
	s.failure = err
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
			s.mu.Lock()
			failure, stale := s.failure, s.stale
			s.failure, s.stale = nil, false
			s.mu.Unlock()

			if failure != nil && !s.report(failure) {
				return
			}
			if !stale {
				continue
			}
			value, err := s.hub.load(context.Background(), s.topic.ownerID, s.topic.key)
			if err != nil {
				if !s.report(err) {
					return
				}
				continue
			}
			if s.closed() {
				return
			}
			s.onData(value)
		}
	}
}

func (s *subscription) report(err error) bool {
	if s.closed() {
		return false
	}
	if s.onError != nil {
		s.onError(err)
	}
	return true
}

func (s *subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *subscription) unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
}
