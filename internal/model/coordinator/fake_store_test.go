package coordinator

import (
	"context"
	"encoding/json"
	"sync"

	"max.ks1230/income-planner/internal/entity/income"
)

type fakeSub struct {
	ownerID string
	key     string
	onData  func(json.RawMessage)
	onError func(error)
	active  bool
}

type fakeStore struct {
	mu     sync.Mutex
	writes []income.Timeline
	owners []string
	setErr error
	subs   []*fakeSub

	gate    chan struct{}
	entered chan struct{}
}

func (s *fakeStore) Set(_ context.Context, ownerID, _ string, value json.RawMessage) error {
	var tl income.Timeline
	if err := json.Unmarshal(value, &tl); err != nil {
		return err
	}

	s.mu.Lock()
	gate, entered := s.gate, s.entered
	s.mu.Unlock()
	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.writes = append(s.writes, tl)
	s.owners = append(s.owners, ownerID)
	return nil
}

func (s *fakeStore) Subscribe(ownerID, key string, onData func(json.RawMessage), onError func(error)) func() {
	sub := &fakeSub{ownerID: ownerID, key: key, onData: onData, onError: onError, active: true}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		sub.active = false
		s.mu.Unlock()
	}
}

// holdWrites blocks every Set until release is called. entered receives once per
// blocked Set.
func (s *fakeStore) holdWrites() (entered <-chan struct{}, release func()) {
	gate, in := make(chan struct{}), make(chan struct{}, 8)

	s.mu.Lock()
	s.gate, s.entered = gate, in
	s.mu.Unlock()

	return in, func() {
		s.mu.Lock()
		s.gate, s.entered = nil, nil
		s.mu.Unlock()
		close(gate)
	}
}

func (s *fakeStore) failWrites(err error) {
	s.mu.Lock()
	s.setErr = err
	s.mu.Unlock()
}

// push delivers raw to every subscription, including inactive ones, so tests can
// check that stale callbacks are ignored.
func (s *fakeStore) push(raw string) {
	s.mu.Lock()
	subs := append([]*fakeSub(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		if raw == "" {
			sub.onData(nil)
			continue
		}
		sub.onData(json.RawMessage(raw))
	}
}

func (s *fakeStore) pushTimeline(tl income.Timeline) {
	raw, err := json.Marshal(tl)
	if err != nil {
		panic(err)
	}
	s.push(string(raw))
}

func (s *fakeStore) fail(err error) {
	s.mu.Lock()
	subs := append([]*fakeSub(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.onError(err)
	}
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func (s *fakeStore) lastWrite() income.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[len(s.writes)-1]
}

func (s *fakeStore) activeSubs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sub := range s.subs {
		if sub.active {
			n++
		}
	}
	return n
}
