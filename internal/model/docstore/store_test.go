package docstore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/income-planner/internal/clock"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/model/storage"
)

const waitFor = time.Second

type recorder struct {
	mu     sync.Mutex
	values []string
	errs   []error
}

func (r *recorder) onData(v json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v == nil {
		r.values = append(r.values, "<nil>")
		return
	}
	r.values = append(r.values, string(v))
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return ""
	}
	return r.values[len(r.values)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

func (r *recorder) errCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func Test_OnSubscribeToAbsentDocument_ShouldDeliverNil(t *testing.T) {
	s := New(storage.NewInMemStorage())
	rec := &recorder{}

	unsubscribe := s.Subscribe("1", document.KeyIncomeData, rec.onData, rec.onError)
	defer unsubscribe()

	assert.Eventually(t, func() bool { return rec.last() == "<nil>" }, waitFor, time.Millisecond)
}

func Test_OnSet_ShouldDeliverSnapshotToSameOwnerAndKeyOnly(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewInMemStorage())
	mine, other, family := &recorder{}, &recorder{}, &recorder{}

	defer s.Subscribe("1", document.KeyIncomeData, mine.onData, mine.onError)()
	defer s.Subscribe("2", document.KeyIncomeData, other.onData, other.onError)()
	defer s.Subscribe("1", document.KeyFamilyData, family.onData, family.onError)()
	assert.Eventually(t, func() bool { return mine.count() == 1 && other.count() == 1 && family.count() == 1 }, waitFor, time.Millisecond)

	require.NoError(t, s.Set(ctx, "1", document.KeyIncomeData, json.RawMessage(`{"incomes":[]}`)))

	assert.Eventually(t, func() bool { return mine.last() == `{"incomes":[]}` }, waitFor, time.Millisecond)
	assert.Equal(t, "<nil>", other.last())
	assert.Equal(t, "<nil>", family.last())

	value, found, err := s.Get(ctx, "1", document.KeyIncomeData)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"incomes":[]}`, string(value))
}

func Test_OnUnsubscribe_ShouldStopDelivery(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewInMemStorage())
	rec := &recorder{}

	unsubscribe := s.Subscribe("1", document.KeyIncomeData, rec.onData, rec.onError)
	assert.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, time.Millisecond)
	unsubscribe()
	unsubscribe()

	require.NoError(t, s.Set(ctx, "1", document.KeyIncomeData, json.RawMessage(`{}`)))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, 0, s.Hub().size())
}

func Test_OnFeedFailure_ShouldReportToSubscribers(t *testing.T) {
	s := New(storage.NewInMemStorage())
	rec := &recorder{}
	defer s.Subscribe("1", document.KeyIncomeData, rec.onData, rec.onError)()
	assert.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, time.Millisecond)

	s.Hub().Fail(errors.New("broker down"))

	assert.Eventually(t, func() bool { return rec.errCount() == 1 }, waitFor, time.Millisecond)
}

type fakePublisher struct {
	mu      sync.Mutex
	changes []document.Change
	err     error
}

func (p *fakePublisher) PublishChange(_ context.Context, c document.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return p.err
}

func Test_OnSetWithPublisher_ShouldPublishInsteadOfDispatching(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	pub := &fakePublisher{}
	s := New(storage.NewInMemStorage(), WithPublisher(pub), WithClock(clock.NewFrozen(at)))
	rec := &recorder{}
	defer s.Subscribe("1", document.KeyIncomeData, rec.onData, rec.onError)()
	assert.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, time.Millisecond)

	require.NoError(t, s.Set(context.Background(), "1", document.KeyIncomeData, json.RawMessage(`{"v":1}`)))

	require.Len(t, pub.changes, 1)
	assert.Equal(t, "1", pub.changes[0].OwnerID)
	assert.Equal(t, document.KeyIncomeData, pub.changes[0].Key)
	assert.Equal(t, at, pub.changes[0].UpdatedAt)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, rec.count())

	s.Hub().Dispatch(pub.changes[0])
	assert.Eventually(t, func() bool { return rec.last() == `{"v":1}` }, waitFor, time.Millisecond)
}

func Test_OnPublishFailure_ShouldReturnError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("no brokers")}
	s := New(storage.NewInMemStorage(), WithPublisher(pub))

	err := s.Set(context.Background(), "1", document.KeyIncomeData, json.RawMessage(`{}`))

	assert.Error(t, err)
}

type fakeCache struct {
	mu          sync.Mutex
	docs        map[string]document.Document
	invalidated int
	failCache   bool
}

func (c *fakeCache) GetDocument(ownerID, key string) (document.Document, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[ownerID+":"+key]
	return doc, ok, nil
}

func (c *fakeCache) CacheDocument(ownerID, key string, doc document.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failCache {
		return errors.New("cache down")
	}
	c.docs[ownerID+":"+key] = doc
	return nil
}

func (c *fakeCache) InvalidateDocument(ownerID, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, ownerID+":"+key)
	c.invalidated++
	return nil
}

func Test_OnCachedDocument_ShouldServeFromCache(t *testing.T) {
	cache := &fakeCache{docs: map[string]document.Document{
		"1:" + document.KeyFamilyData: {Value: json.RawMessage(`{"members":[]}`)},
	}}
	s := New(storage.NewInMemStorage(), WithCache(cache))

	value, found, err := s.Get(context.Background(), "1", document.KeyFamilyData)

	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"members":[]}`, string(value))
}

func Test_OnSet_ShouldInvalidateCachedDocument(t *testing.T) {
	ctx := context.Background()
	cache := &fakeCache{docs: map[string]document.Document{
		"1:" + document.KeyIncomeData: {Value: json.RawMessage(`{"v":0}`)},
	}}
	s := New(storage.NewInMemStorage(), WithCache(cache))

	require.NoError(t, s.Set(ctx, "1", document.KeyIncomeData, json.RawMessage(`{"v":1}`)))

	assert.Equal(t, 1, cache.invalidated)
	value, _, err := s.Get(ctx, "1", document.KeyIncomeData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(value))
}

func Test_OnBrokenCache_ShouldStillServeStorage(t *testing.T) {
	ctx := context.Background()
	cache := &fakeCache{docs: map[string]document.Document{}, failCache: true}
	s := New(storage.NewInMemStorage(), WithCache(cache))

	require.NoError(t, s.Set(ctx, "1", document.KeyIncomeData, json.RawMessage(`{}`)))
	value, found, err := s.Get(ctx, "1", document.KeyIncomeData)

	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{}`, string(value))
}

// stallingStorage holds SaveDocument of one value after it has been stored,
// so that its change is announced after a later write.
type stallingStorage struct {
	Storage
	stallOn string
	saved   chan struct{}
	release chan struct{}
}

func (s *stallingStorage) SaveDocument(ctx context.Context, ownerID, key string, doc document.Document) error {
	if err := s.Storage.SaveDocument(ctx, ownerID, key, doc); err != nil {
		return err
	}
	if string(doc.Value) == s.stallOn {
		close(s.saved)
		<-s.release
	}
	return nil
}

func Test_OnChangesAnnouncedOutOfOrder_ShouldSettleOnStoredValue(t *testing.T) {
	ctx := context.Background()
	stalling := &stallingStorage{
		Storage: storage.NewInMemStorage(),
		stallOn: `"A"`,
		saved:   make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(stalling)
	rec := &recorder{}
	defer s.Subscribe("1", document.KeyIncomeData, rec.onData, rec.onError)()
	assert.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, time.Millisecond)

	slowDone := make(chan error, 1)
	go func() { slowDone <- s.Set(ctx, "1", document.KeyIncomeData, json.RawMessage(`"A"`)) }()
	<-stalling.saved
	require.NoError(t, s.Set(ctx, "1", document.KeyIncomeData, json.RawMessage(`"B"`)))
	assert.Eventually(t, func() bool { return rec.last() == `"B"` }, waitFor, time.Millisecond)

	delivered := rec.count()
	close(stalling.release)
	require.NoError(t, <-slowDone)

	assert.Eventually(t, func() bool { return rec.count() > delivered }, waitFor, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, `"B"`, rec.last())
	stored, _, err := s.Get(ctx, "1", document.KeyIncomeData)
	require.NoError(t, err)
	assert.Equal(t, `"B"`, string(stored))
}

func Test_OnFailureQueuedBeforeInitialRead_ShouldReportBoth(t *testing.T) {
	reading := make(chan struct{})
	release := make(chan struct{})
	h := NewHub(func(context.Context, string, string) (json.RawMessage, error) {
		close(reading)
		<-release
		return json.RawMessage(`{}`), nil
	})
	rec := &recorder{}
	sub := h.subscribe("1", document.KeyIncomeData, rec.onData, rec.onError)
	defer sub.unsubscribe()

	<-reading
	h.Fail(errors.New("broker down"))
	close(release)

	assert.Eventually(t, func() bool { return rec.count() == 1 && rec.errCount() == 1 }, waitFor, time.Millisecond)
	assert.Equal(t, `{}`, rec.last())
}

func Test_OnChangeAfterFailure_ShouldKeepFailure(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	h := NewHub(func(context.Context, string, string) (json.RawMessage, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			<-release
		}
		return json.RawMessage(`{}`), nil
	})
	rec := &recorder{}
	sub := h.subscribe("1", document.KeyIncomeData, rec.onData, rec.onError)
	defer sub.unsubscribe()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, waitFor, time.Millisecond)
	h.Fail(errors.New("broker down"))
	h.Dispatch(document.Change{OwnerID: "1", Key: document.KeyIncomeData})
	close(release)

	assert.Eventually(t, func() bool { return rec.count() == 2 && rec.errCount() == 1 }, waitFor, time.Millisecond)
}
