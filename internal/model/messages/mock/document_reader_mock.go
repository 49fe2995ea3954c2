package mock

// Maintained by hand in the layout of minimock v3.0.10; regenerate with the directive below.

//go:generate minimock -i max.ks1230/income-planner/internal/model/messages.documentReader -o ./mock/document_reader_mock.go -n DocumentReaderMock

import (
	"context"
	"encoding/json"
	"sync"
	mm_atomic "sync/atomic"
	mm_time "time"

	"github.com/gojuno/minimock/v3"
)

// DocumentReaderMock implements messages.documentReader
type DocumentReaderMock struct {
	t minimock.Tester

	funcGet          func(ctx context.Context, ownerID string, key string) (raw json.RawMessage, found bool, err error)
	inspectFuncGet   func(ctx context.Context, ownerID string, key string)
	afterGetCounter  uint64
	beforeGetCounter uint64
	GetMock          mDocumentReaderMockGet
}

// NewDocumentReaderMock returns a mock for messages.documentReader
func NewDocumentReaderMock(t minimock.Tester) *DocumentReaderMock {
	m := &DocumentReaderMock{t: t}
	if controller, ok := t.(minimock.MockController); ok {
		controller.RegisterMocker(m)
	}

	m.GetMock = mDocumentReaderMockGet{mock: m}
	m.GetMock.callArgs = []*DocumentReaderMockGetParams{}

	return m
}

type mDocumentReaderMockGet struct {
	mock               *DocumentReaderMock
	defaultExpectation *DocumentReaderMockGetExpectation
	expectations       []*DocumentReaderMockGetExpectation

	callArgs []*DocumentReaderMockGetParams
	mutex    sync.RWMutex
}

// DocumentReaderMockGetExpectation specifies expectation struct of the messages.documentReader.Get
type DocumentReaderMockGetExpectation struct {
	mock    *DocumentReaderMock
	params  *DocumentReaderMockGetParams
	results *DocumentReaderMockGetResults
	Counter uint64
}

// DocumentReaderMockGetParams contains parameters of the messages.documentReader.Get
type DocumentReaderMockGetParams struct {
	ctx     context.Context
	ownerID string
	key     string
}

// DocumentReaderMockGetResults contains results of the messages.documentReader.Get
type DocumentReaderMockGetResults struct {
	raw   json.RawMessage
	found bool
	err   error
}

// Expect sets up expected params for messages.documentReader.Get
func (mmGet *mDocumentReaderMockGet) Expect(ctx context.Context, ownerID string, key string) *mDocumentReaderMockGet {
	if mmGet.mock.funcGet != nil {
		mmGet.mock.t.Fatalf("DocumentReaderMock.Get mock is already set by Set")
	}

	if mmGet.defaultExpectation == nil {
		mmGet.defaultExpectation = &DocumentReaderMockGetExpectation{}
	}

	mmGet.defaultExpectation.params = &DocumentReaderMockGetParams{ctx, ownerID, key}
	for _, e := range mmGet.expectations {
		if minimock.Equal(e.params, mmGet.defaultExpectation.params) {
			mmGet.mock.t.Fatalf("Expectation set by When has same params: %#v", *mmGet.defaultExpectation.params)
		}
	}

	return mmGet
}

// Inspect accepts an inspector function that has same arguments as the messages.documentReader.Get
func (mmGet *mDocumentReaderMockGet) Inspect(f func(ctx context.Context, ownerID string, key string)) *mDocumentReaderMockGet {
	if mmGet.mock.inspectFuncGet != nil {
		mmGet.mock.t.Fatalf("Inspect function is already set for DocumentReaderMock.Get")
	}

	mmGet.mock.inspectFuncGet = f

	return mmGet
}

// Return sets up results that will be returned by messages.documentReader.Get
func (mmGet *mDocumentReaderMockGet) Return(raw json.RawMessage, found bool, err error) *DocumentReaderMock {
	if mmGet.mock.funcGet != nil {
		mmGet.mock.t.Fatalf("DocumentReaderMock.Get mock is already set by Set")
	}

	if mmGet.defaultExpectation == nil {
		mmGet.defaultExpectation = &DocumentReaderMockGetExpectation{mock: mmGet.mock}
	}
	mmGet.defaultExpectation.results = &DocumentReaderMockGetResults{raw, found, err}
	return mmGet.mock
}

// Set uses given function f to mock the messages.documentReader.Get method
func (mmGet *mDocumentReaderMockGet) Set(f func(ctx context.Context, ownerID string, key string) (raw json.RawMessage, found bool, err error)) *DocumentReaderMock {
	if mmGet.defaultExpectation != nil {
		mmGet.mock.t.Fatalf("Default expectation is already set for the messages.documentReader.Get method")
	}

	if len(mmGet.expectations) > 0 {
		mmGet.mock.t.Fatalf("Some expectations are already set for the messages.documentReader.Get method")
	}

	mmGet.mock.funcGet = f
	return mmGet.mock
}

// When sets expectation for the messages.documentReader.Get which will trigger the result defined by the following
// Then helper
func (mmGet *mDocumentReaderMockGet) When(ctx context.Context, ownerID string, key string) *DocumentReaderMockGetExpectation {
	if mmGet.mock.funcGet != nil {
		mmGet.mock.t.Fatalf("DocumentReaderMock.Get mock is already set by Set")
	}

	expectation := &DocumentReaderMockGetExpectation{
		mock:   mmGet.mock,
		params: &DocumentReaderMockGetParams{ctx, ownerID, key},
	}
	mmGet.expectations = append(mmGet.expectations, expectation)
	return expectation
}

// Then sets up messages.documentReader.Get return parameters for the expectation previously defined by the When method
func (e *DocumentReaderMockGetExpectation) Then(raw json.RawMessage, found bool, err error) *DocumentReaderMock {
	e.results = &DocumentReaderMockGetResults{raw, found, err}
	return e.mock
}

// Get implements messages.documentReader
func (mmGet *DocumentReaderMock) Get(ctx context.Context, ownerID string, key string) (raw json.RawMessage, found bool, err error) {
	mm_atomic.AddUint64(&mmGet.beforeGetCounter, 1)
	defer mm_atomic.AddUint64(&mmGet.afterGetCounter, 1)

	if mmGet.inspectFuncGet != nil {
		mmGet.inspectFuncGet(ctx, ownerID, key)
	}

	mm_params := &DocumentReaderMockGetParams{ctx, ownerID, key}

	// Record call args
	mmGet.GetMock.mutex.Lock()
	mmGet.GetMock.callArgs = append(mmGet.GetMock.callArgs, mm_params)
	mmGet.GetMock.mutex.Unlock()

	for _, e := range mmGet.GetMock.expectations {
		if minimock.Equal(e.params, mm_params) {
			mm_atomic.AddUint64(&e.Counter, 1)
			return e.results.raw, e.results.found, e.results.err
		}
	}

	if mmGet.GetMock.defaultExpectation != nil {
		mm_atomic.AddUint64(&mmGet.GetMock.defaultExpectation.Counter, 1)
		mm_want := mmGet.GetMock.defaultExpectation.params
		mm_got := DocumentReaderMockGetParams{ctx, ownerID, key}
		if mm_want != nil && !minimock.Equal(*mm_want, mm_got) {
			mmGet.t.Errorf("DocumentReaderMock.Get got unexpected parameters, want: %#v, got: %#v%s\n", *mm_want, mm_got, minimock.Diff(*mm_want, mm_got))
		}

		mm_results := mmGet.GetMock.defaultExpectation.results
		if mm_results == nil {
			mmGet.t.Fatal("No results are set for the DocumentReaderMock.Get")
		}
		return (*mm_results).raw, (*mm_results).found, (*mm_results).err
	}
	if mmGet.funcGet != nil {
		return mmGet.funcGet(ctx, ownerID, key)
	}
	mmGet.t.Fatalf("Unexpected call to DocumentReaderMock.Get. %v %v %v", ctx, ownerID, key)
	return
}

// GetAfterCounter returns a count of finished DocumentReaderMock.Get invocations
func (mmGet *DocumentReaderMock) GetAfterCounter() uint64 {
	return mm_atomic.LoadUint64(&mmGet.afterGetCounter)
}

// GetBeforeCounter returns a count of DocumentReaderMock.Get invocations
func (mmGet *DocumentReaderMock) GetBeforeCounter() uint64 {
	return mm_atomic.LoadUint64(&mmGet.beforeGetCounter)
}

// Calls returns a list of arguments used in each call to DocumentReaderMock.Get.
// The list is in the same order as the calls were made (i.e. recent calls have a higher index)
func (mmGet *mDocumentReaderMockGet) Calls() []*DocumentReaderMockGetParams {
	mmGet.mutex.RLock()

	argCopy := make([]*DocumentReaderMockGetParams, len(mmGet.callArgs))
	copy(argCopy, mmGet.callArgs)

	mmGet.mutex.RUnlock()

	return argCopy
}

// MinimockGetDone returns true if the count of the Get invocations corresponds
// the number of defined expectations
func (m *DocumentReaderMock) MinimockGetDone() bool {
	for _, e := range m.GetMock.expectations {
		if mm_atomic.LoadUint64(&e.Counter) < 1 {
			return false
		}
	}

	// if default expectation was set then invocations count should be greater than zero
	if m.GetMock.defaultExpectation != nil && mm_atomic.LoadUint64(&m.afterGetCounter) < 1 {
		return false
	}
	// if func was set then invocations count should be greater than zero
	if m.funcGet != nil && mm_atomic.LoadUint64(&m.afterGetCounter) < 1 {
		return false
	}
	return true
}

// MinimockGetInspect logs each unmet expectation
func (m *DocumentReaderMock) MinimockGetInspect() {
	for _, e := range m.GetMock.expectations {
		if mm_atomic.LoadUint64(&e.Counter) < 1 {
			m.t.Errorf("Expected call to DocumentReaderMock.Get with params: %#v", *e.params)
		}
	}

	// if default expectation was set then invocations count should be greater than zero
	if m.GetMock.defaultExpectation != nil && mm_atomic.LoadUint64(&m.afterGetCounter) < 1 {
		if m.GetMock.defaultExpectation.params == nil {
			m.t.Error("Expected call to DocumentReaderMock.Get")
		} else {
			m.t.Errorf("Expected call to DocumentReaderMock.Get with params: %#v", *m.GetMock.defaultExpectation.params)
		}
	}
	// if func was set then invocations count should be greater than zero
	if m.funcGet != nil && mm_atomic.LoadUint64(&m.afterGetCounter) < 1 {
		m.t.Error("Expected call to DocumentReaderMock.Get")
	}
}

// MinimockFinish checks that all mocked methods have been called the expected number of times
func (m *DocumentReaderMock) MinimockFinish() {
	if !m.minimockDone() {
		m.MinimockGetInspect()
		m.t.FailNow()
	}
}

// MinimockWait waits for all mocked methods to be called the expected number of times
func (m *DocumentReaderMock) MinimockWait(timeout mm_time.Duration) {
	timeoutCh := mm_time.After(timeout)
	for {
		if m.minimockDone() {
			return
		}
		select {
		case <-timeoutCh:
			m.MinimockFinish()
			return
		case <-mm_time.After(10 * mm_time.Millisecond):
		}
	}
}

func (m *DocumentReaderMock) minimockDone() bool {
	done := true
	return done &&
		m.MinimockGetDone()
}
