// Package coordinator keeps one owner's income timeline in sync with the remote
// document store: edits apply locally at once, per-cell edits are debounced into a
// single write of the whole timeline, and every inbound snapshot replaces local state.
package coordinator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"

	"max.ks1230/income-planner/internal/clock"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/entity/household"
	"max.ks1230/income-planner/internal/entity/income"
	"max.ks1230/income-planner/internal/entity/user"
	"max.ks1230/income-planner/internal/logger"
	"max.ks1230/income-planner/internal/model/records"
	"max.ks1230/income-planner/internal/model/timeline"
)

const (
	DefaultDebounce     = 500 * time.Millisecond
	defaultWriteTimeout = 10 * time.Second
	replicaTimeout      = 2 * time.Second
)

type documentStore interface {
	Set(ctx context.Context, ownerID, key string, value json.RawMessage) error
	Subscribe(ownerID, key string, onData func(json.RawMessage), onError func(error)) (unsubscribe func())
}

type localReplica interface {
	GetDocument(ctx context.Context, ownerID, key string) (document.Document, bool, error)
	SaveDocument(ctx context.Context, ownerID, key string, doc document.Document) error
}

type Option func(*Coordinator)

func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		c.delay = d
	}
}

func WithClock(cl clock.Clock) Option {
	return func(c *Coordinator) {
		c.clock = cl
	}
}

// WithReplica keeps a working copy on the device; it is shown while the first snapshot loads.
func WithReplica(r localReplica) Option {
	return func(c *Coordinator) {
		c.replica = r
	}
}

func WithListener(l func(Status)) Option {
	return func(c *Coordinator) {
		c.listener = l
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.writeTimeout = d
	}
}

func WithWriterID(id string) Option {
	return func(c *Coordinator) {
		c.writerID = id
	}
}

type Coordinator struct {
	store        documentStore
	replica      localReplica
	clock        clock.Clock
	years        *timeline.Generator
	delay        time.Duration
	writeTimeout time.Duration
	writerID     string
	listener     func(Status)

	// writeMu admits one outbound write at a time.
	writeMu sync.Mutex

	mu          sync.Mutex
	state       State
	owner       user.Owner
	current     income.Timeline
	lastErr     error
	generation  uint64
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	pending     *time.Timer
	pendingSeq  uint64
	inFlight    int
	dirty       bool
	seeded      bool
	// foreignSinceWrite is set when another writer's snapshot replaced local state
	// after the latest write started.
	foreignSinceWrite bool
}

func New(store documentStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:        store,
		clock:        clock.System{},
		delay:        DefaultDebounce,
		writeTimeout: defaultWriteTimeout,
		writerID:     uuid.NewString(),
		current:      income.NewTimeline(),
		ctx:          context.Background(),
		cancel:       func() {},
		unsubscribe:  func() {},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.years = timeline.NewGenerator(c.clock)
	return c
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Coordinator) Owner() user.Owner {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// Timeline returns the local copy, including edits not yet written.
func (c *Coordinator) Timeline() income.Timeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Coordinator) Years() *timeline.Generator {
	return c.years
}

// SignIn moves to Loading and subscribes to the owner's income document. Signing in as
// another owner signs the current one out first.
func (c *Coordinator) SignIn(owner user.Owner) {
	if owner.IsZero() {
		c.SignOut()
		return
	}

	c.mu.Lock()
	if c.state != Unauthenticated && c.owner.ID == owner.ID {
		c.owner.DisplayName = owner.DisplayName
		c.mu.Unlock()
		return
	}
	stop := c.resetLocked()
	c.generation++
	gen := c.generation
	c.owner = owner
	c.state = Loading
	c.ctx, c.cancel = context.WithCancel(context.Background())
	status := c.statusLocked()
	c.mu.Unlock()

	stop()
	logger.Info("owner signed in", zap.String("owner", owner.ID))
	c.notify(status)

	c.loadReplica(gen, owner.ID)

	unsubscribe := c.store.Subscribe(owner.ID, document.KeyIncomeData, c.onSnapshot(gen), c.onSubscriptionError(gen))

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		unsubscribe()
		return
	}
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// SignOut cancels the pending write, unsubscribes and resets to the empty default.
// Nothing is deleted remotely.
func (c *Coordinator) SignOut() {
	c.mu.Lock()
	if c.state == Unauthenticated {
		c.mu.Unlock()
		return
	}
	ownerID := c.owner.ID
	stop := c.resetLocked()
	c.generation++
	c.owner = user.Owner{}
	c.state = Unauthenticated
	status := c.statusLocked()
	c.mu.Unlock()

	stop()
	logger.Info("owner signed out", zap.String("owner", ownerID))
	c.notify(status)
}

func (c *Coordinator) Close() {
	c.SignOut()
}

// UpdateCell applies the edit locally and re-arms the debounce timer; only the last edit
// inside the window triggers a write.
func (c *Coordinator) UpdateCell(year int, field income.Field, value int) error {
	c.mu.Lock()
	if err := c.checkEditableLocked("update cell"); err != nil {
		c.mu.Unlock()
		return err
	}
	c.current = records.UpdateCell(c.current, year, field, value)
	c.dirty = true
	c.armDebounceLocked()
	ownerID, snapshot := c.owner.ID, c.current
	c.mu.Unlock()

	c.saveReplica(ownerID, snapshot)
	return nil
}

// Initialize seeds an empty timeline once per session from the household identity and
// writes it at once. It reports whether seeding happened.
func (c *Coordinator) Initialize(ctx context.Context, id household.Identity) (bool, error) {
	c.mu.Lock()
	if c.state == Unauthenticated {
		c.mu.Unlock()
		logger.Warn("initialize while unauthenticated")
		return false, ErrNotAuthenticated
	}
	if c.state != Synced || c.seeded || !c.current.IsEmpty() || id.SelfBirthYear == 0 {
		c.mu.Unlock()
		return false, nil
	}
	years := c.years.YearRange(id.SelfBirthYear)
	if len(years) == 0 {
		c.mu.Unlock()
		return false, nil
	}
	c.seeded = true
	c.cancelPendingLocked()
	c.current = records.SeedMissingYears(c.current, years, id.SelfInitialIncome, id.PartnerInitialIncome)
	c.dirty = true
	gen := c.generation
	c.mu.Unlock()

	logger.Info("seeding income timeline", zap.Int("years", len(years)))
	return true, c.flush(ctx, gen, true)
}

// Save writes the local copy immediately. It is the recovery path after a failed write.
func (c *Coordinator) Save(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkEditableLocked("save"); err != nil {
		c.mu.Unlock()
		return err
	}
	c.cancelPendingLocked()
	gen := c.generation
	c.mu.Unlock()

	return c.flush(ctx, gen, true)
}

// ReapplyRequest is a prepared, not yet confirmed, overwrite of every year's income.
type ReapplyRequest struct {
	c   *Coordinator
	gen uint64

	SelfValue    int
	PartnerValue int
	// AffectedYears counts the years that will be overwritten, or seeded when Seeds is set.
	AffectedYears int
	Seeds         bool

	years []int
}

// RequestReapply prepares a destructive reapplication. Nothing changes until Confirm.
// birthYear bounds the seeding range used when the timeline is empty.
func (c *Coordinator) RequestReapply(selfValue, partnerValue, birthYear int) (*ReapplyRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEditableLocked("reapply initial income"); err != nil {
		return nil, err
	}
	req := &ReapplyRequest{
		c:             c,
		gen:           c.generation,
		SelfValue:     selfValue,
		PartnerValue:  partnerValue,
		AffectedYears: c.current.Len(),
	}
	if c.current.IsEmpty() {
		req.years = c.years.YearRange(birthYear)
		req.AffectedYears = len(req.years)
		req.Seeds = true
	}
	if req.AffectedYears == 0 {
		return nil, ErrNothingToApply
	}
	return req, nil
}

// Confirm performs the overwrite and writes it at once, bypassing the debounce.
func (r *ReapplyRequest) Confirm(ctx context.Context) error {
	c := r.c
	c.mu.Lock()
	if r.gen != c.generation {
		c.mu.Unlock()
		return ErrStaleRequest
	}
	if err := c.checkEditableLocked("confirm reapply"); err != nil {
		c.mu.Unlock()
		return err
	}
	c.cancelPendingLocked()
	c.current = records.ReapplyInitialIncome(c.current, r.SelfValue, r.PartnerValue, r.years)
	c.dirty = true
	c.seeded = true
	ownerID := c.owner.ID
	c.mu.Unlock()

	logger.Info("reapplying initial income",
		zap.String("owner", ownerID),
		zap.Int("years", r.AffectedYears),
	)
	return c.flush(ctx, r.gen, true)
}

func (c *Coordinator) checkEditableLocked(op string) error {
	switch c.state {
	case Unauthenticated:
		logger.Warn("mutation ignored: not authenticated", zap.String("op", op))
		return ErrNotAuthenticated
	case Loading:
		logger.Warn("mutation ignored: still loading", zap.String("op", op), zap.String("owner", c.owner.ID))
		return ErrNotSynced
	}
	return nil
}

func (c *Coordinator) armDebounceLocked() {
	if c.pending != nil && c.pending.Stop() {
		counterCoalescedEdits.Inc()
	}
	c.pendingSeq++
	gen, seq := c.generation, c.pendingSeq
	c.pending = time.AfterFunc(c.delay, func() {
		c.flushDebounced(gen, seq)
	})
}

func (c *Coordinator) cancelPendingLocked() bool {
	if c.pending == nil {
		return false
	}
	c.pending.Stop()
	c.pending = nil
	c.pendingSeq++
	return true
}

func (c *Coordinator) flushDebounced(gen, seq uint64) {
	c.mu.Lock()
	if gen != c.generation || seq != c.pendingSeq || c.pending == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	ctx := c.ctx
	c.mu.Unlock()

	_ = c.flush(ctx, gen, false)
}

// flush writes the whole local timeline as it is when the write starts. A debounced
// flush is skipped when a snapshot has replaced the edits it was armed for.
func (c *Coordinator) flush(ctx context.Context, gen uint64, force bool) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleRequest
	}
	if !force && !c.dirty {
		c.mu.Unlock()
		return nil
	}
	ownerID := c.owner.ID
	payload := c.current
	c.dirty = false
	c.foreignSinceWrite = false
	c.inFlight++
	c.mu.Unlock()

	payload.UpdatedAt = c.clock.Now()
	payload.UpdatedBy = c.writerID
	err := c.send(ctx, ownerID, payload)

	c.mu.Lock()
	c.inFlight--
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleRequest
	}
	if err != nil {
		c.dirty = true
		c.state = Error
		c.lastErr = &PersistenceError{Op: "write", Err: err}
		status := c.statusLocked()
		c.mu.Unlock()

		logger.Error("failed to write income data", zap.Error(err), zap.String("owner", ownerID))
		c.notify(status)
		return status.Err
	}
	if c.current.Equal(payload) {
		c.current = payload
	}
	if c.state == Error && isWriteError(c.lastErr) {
		c.state = Synced
		c.lastErr = nil
	}
	status, snapshot := c.statusLocked(), c.current
	c.mu.Unlock()

	c.notify(status)
	c.saveReplica(ownerID, snapshot)
	return nil
}

func (c *Coordinator) send(ctx context.Context, ownerID string, payload income.Timeline) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "writeIncomeData")
	defer span.Finish()
	span.SetTag("owner", ownerID)

	raw, err := json.Marshal(payload)
	if err != nil {
		ext.Error.Set(span, true)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	start := time.Now()
	err = c.store.Set(ctx, ownerID, document.KeyIncomeData, raw)
	observeWrite(time.Since(start), err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

// onSnapshot replaces local state with every inbound snapshot. A snapshot written by this
// coordinator is only an acknowledgment when local state holds something at least as new;
// see holdsNewerLocked. Any applied snapshot cancels the pending debounced write.
func (c *Coordinator) onSnapshot(gen uint64) func(json.RawMessage) {
	return func(raw json.RawMessage) {
		tl, err := decodeTimeline(raw)

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.state = Error
			c.lastErr = &PersistenceError{Op: "read", Err: err}
			status := c.statusLocked()
			c.mu.Unlock()

			counterSnapshots.WithLabelValues("invalid").Inc()
			logger.Error("invalid income snapshot", zap.Error(err), zap.String("owner", status.OwnerID))
			c.notify(status)
			return
		}

		own := tl.UpdatedBy != "" && tl.UpdatedBy == c.writerID
		if own && c.state != Loading && c.holdsNewerLocked() {
			c.mu.Unlock()
			counterSnapshots.WithLabelValues("acknowledged").Inc()
			return
		}
		if c.cancelPendingLocked() {
			counterCancelledWrites.Inc()
			logger.Info("pending write cancelled by snapshot", zap.String("owner", c.owner.ID))
		}
		c.current = tl
		c.dirty = false
		c.foreignSinceWrite = !own
		c.state = Synced
		c.lastErr = nil
		status := c.statusLocked()
		c.mu.Unlock()

		counterSnapshots.WithLabelValues("applied").Inc()
		c.notify(status)
		c.saveReplica(status.OwnerID, tl)
	}
}

// holdsNewerLocked reports whether an echo of our own write has nothing to add: local
// edits are not written yet, or local state still holds our latest write because no
// other writer's snapshot was applied since it started. After a feed error without
// unsaved edits the echo is applied to recover.
func (c *Coordinator) holdsNewerLocked() bool {
	if c.pending != nil || c.dirty {
		return true
	}
	return c.state == Synced && !c.foreignSinceWrite
}

func (c *Coordinator) onSubscriptionError(gen uint64) func(error) {
	return func(err error) {
		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		c.state = Error
		c.lastErr = &PersistenceError{Op: "subscribe", Err: err}
		status := c.statusLocked()
		c.mu.Unlock()

		logger.Error("income subscription failed", zap.Error(err), zap.String("owner", status.OwnerID))
		c.notify(status)
	}
}

// resetLocked drops everything tied to the current session. The returned func
// unsubscribes and must be called after releasing the lock.
func (c *Coordinator) resetLocked() func() {
	c.cancelPendingLocked()
	c.cancel()
	unsubscribe := c.unsubscribe
	c.unsubscribe = func() {}
	c.ctx, c.cancel = context.Background(), func() {}
	c.current = income.NewTimeline()
	c.lastErr = nil
	c.dirty = false
	c.seeded = false
	c.foreignSinceWrite = false
	return unsubscribe
}

func (c *Coordinator) statusLocked() Status {
	return Status{
		OwnerID: c.owner.ID,
		State:   c.state,
		Err:     c.lastErr,
	}
}

func (c *Coordinator) notify(status Status) {
	if c.listener != nil {
		c.listener(status)
	}
}

func (c *Coordinator) loadReplica(gen uint64, ownerID string) {
	if c.replica == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), replicaTimeout)
	defer cancel()

	doc, found, err := c.replica.GetDocument(ctx, ownerID, document.KeyIncomeData)
	if err != nil {
		logger.Error("failed to read local replica", zap.Error(err), zap.String("owner", ownerID))
		return
	}
	if !found {
		return
	}
	tl, err := decodeTimeline(doc.Value)
	if err != nil {
		logger.Error("invalid local replica", zap.Error(err), zap.String("owner", ownerID))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen && c.state == Loading {
		c.current = tl
	}
}

func (c *Coordinator) saveReplica(ownerID string, tl income.Timeline) {
	if c.replica == nil || ownerID == "" {
		return
	}
	raw, err := json.Marshal(tl)
	if err != nil {
		logger.Error("failed to encode local replica", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), replicaTimeout)
	defer cancel()

	err = c.replica.SaveDocument(ctx, ownerID, document.KeyIncomeData, document.Document{
		Value:     raw,
		UpdatedAt: c.clock.Now(),
	})
	if err != nil {
		logger.Error("failed to save local replica", zap.Error(err), zap.String("owner", ownerID))
	}
}

func decodeTimeline(raw json.RawMessage) (income.Timeline, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return income.NewTimeline(), nil
	}
	var tl income.Timeline
	if err := json.Unmarshal(raw, &tl); err != nil {
		return income.Timeline{}, err
	}
	return tl, nil
}

func isWriteError(err error) bool {
	perr, ok := err.(*PersistenceError)
	return ok && perr.Op == "write"
}
