package mock

// Maintained by hand in the layout of minimock v3.0.10; regenerate with the directive below.

//go:generate minimock -i max.ks1230/income-planner/internal/model/messages.config -o ./mock/config_mock.go -n ConfigMock

import (
	mm_atomic "sync/atomic"
	mm_time "time"

	"github.com/gojuno/minimock/v3"
)

// ConfigMock implements messages.config
type ConfigMock struct {
	t minimock.Tester

	funcTableYears          func() (i1 int)
	inspectFuncTableYears   func()
	afterTableYearsCounter  uint64
	beforeTableYearsCounter uint64
	TableYearsMock          mConfigMockTableYears
}

// NewConfigMock returns a mock for messages.config
func NewConfigMock(t minimock.Tester) *ConfigMock {
	m := &ConfigMock{t: t}
	if controller, ok := t.(minimock.MockController); ok {
		controller.RegisterMocker(m)
	}

	m.TableYearsMock = mConfigMockTableYears{mock: m}

	return m
}

type mConfigMockTableYears struct {
	mock               *ConfigMock
	defaultExpectation *ConfigMockTableYearsExpectation
	expectations       []*ConfigMockTableYearsExpectation
}

// ConfigMockTableYearsExpectation specifies expectation struct of the messages.config.TableYears
type ConfigMockTableYearsExpectation struct {
	mock    *ConfigMock
	results *ConfigMockTableYearsResults
	Counter uint64
}

// ConfigMockTableYearsResults contains results of the messages.config.TableYears
type ConfigMockTableYearsResults struct {
	i1 int
}

// Expect sets up expected params for messages.config.TableYears
func (mmTableYears *mConfigMockTableYears) Expect() *mConfigMockTableYears {
	if mmTableYears.mock.funcTableYears != nil {
		mmTableYears.mock.t.Fatalf("ConfigMock.TableYears mock is already set by Set")
	}

	if mmTableYears.defaultExpectation == nil {
		mmTableYears.defaultExpectation = &ConfigMockTableYearsExpectation{}
	}

	return mmTableYears
}

// Inspect accepts an inspector function that has same arguments as the messages.config.TableYears
func (mmTableYears *mConfigMockTableYears) Inspect(f func()) *mConfigMockTableYears {
	if mmTableYears.mock.inspectFuncTableYears != nil {
		mmTableYears.mock.t.Fatalf("Inspect function is already set for ConfigMock.TableYears")
	}

	mmTableYears.mock.inspectFuncTableYears = f

	return mmTableYears
}

// Return sets up results that will be returned by messages.config.TableYears
func (mmTableYears *mConfigMockTableYears) Return(i1 int) *ConfigMock {
	if mmTableYears.mock.funcTableYears != nil {
		mmTableYears.mock.t.Fatalf("ConfigMock.TableYears mock is already set by Set")
	}

	if mmTableYears.defaultExpectation == nil {
		mmTableYears.defaultExpectation = &ConfigMockTableYearsExpectation{mock: mmTableYears.mock}
	}
	mmTableYears.defaultExpectation.results = &ConfigMockTableYearsResults{i1}
	return mmTableYears.mock
}

// Set uses given function f to mock the messages.config.TableYears method
func (mmTableYears *mConfigMockTableYears) Set(f func() (i1 int)) *ConfigMock {
	if mmTableYears.defaultExpectation != nil {
		mmTableYears.mock.t.Fatalf("Default expectation is already set for the messages.config.TableYears method")
	}

	if len(mmTableYears.expectations) > 0 {
		mmTableYears.mock.t.Fatalf("Some expectations are already set for the messages.config.TableYears method")
	}

	mmTableYears.mock.funcTableYears = f
	return mmTableYears.mock
}

// TableYears implements messages.config
func (mmTableYears *ConfigMock) TableYears() (i1 int) {
	mm_atomic.AddUint64(&mmTableYears.beforeTableYearsCounter, 1)
	defer mm_atomic.AddUint64(&mmTableYears.afterTableYearsCounter, 1)

	if mmTableYears.inspectFuncTableYears != nil {
		mmTableYears.inspectFuncTableYears()
	}

	if mmTableYears.TableYearsMock.defaultExpectation != nil {
		mm_atomic.AddUint64(&mmTableYears.TableYearsMock.defaultExpectation.Counter, 1)
		mm_results := mmTableYears.TableYearsMock.defaultExpectation.results
		if mm_results == nil {
			mmTableYears.t.Fatal("No results are set for the ConfigMock.TableYears")
		}
		return (*mm_results).i1
	}
	if mmTableYears.funcTableYears != nil {
		return mmTableYears.funcTableYears()
	}
	mmTableYears.t.Fatalf("Unexpected call to ConfigMock.TableYears.")
	return
}

// TableYearsAfterCounter returns a count of finished ConfigMock.TableYears invocations
func (mmTableYears *ConfigMock) TableYearsAfterCounter() uint64 {
	return mm_atomic.LoadUint64(&mmTableYears.afterTableYearsCounter)
}

// TableYearsBeforeCounter returns a count of ConfigMock.TableYears invocations
func (mmTableYears *ConfigMock) TableYearsBeforeCounter() uint64 {
	return mm_atomic.LoadUint64(&mmTableYears.beforeTableYearsCounter)
}

// MinimockTableYearsDone returns true if the count of the TableYears invocations corresponds
// the number of defined expectations
func (m *ConfigMock) MinimockTableYearsDone() bool {
	for _, e := range m.TableYearsMock.expectations {
		if mm_atomic.LoadUint64(&e.Counter) < 1 {
			return false
		}
	}

	// if default expectation was set then invocations count should be greater than zero
	if m.TableYearsMock.defaultExpectation != nil && mm_atomic.LoadUint64(&m.afterTableYearsCounter) < 1 {
		return false
	}
	// if func was set then invocations count should be greater than zero
	if m.funcTableYears != nil && mm_atomic.LoadUint64(&m.afterTableYearsCounter) < 1 {
		return false
	}
	return true
}

// MinimockTableYearsInspect logs each unmet expectation
func (m *ConfigMock) MinimockTableYearsInspect() {
	for _, e := range m.TableYearsMock.expectations {
		if mm_atomic.LoadUint64(&e.Counter) < 1 {
			m.t.Error("Expected call to ConfigMock.TableYears")
		}
	}

	// if default expectation was set then invocations count should be greater than zero
	if m.TableYearsMock.defaultExpectation != nil && mm_atomic.LoadUint64(&m.afterTableYearsCounter) < 1 {
		m.t.Error("Expected call to ConfigMock.TableYears")
	}
	// if func was set then invocations count should be greater than zero
	if m.funcTableYears != nil && mm_atomic.LoadUint64(&m.afterTableYearsCounter) < 1 {
		m.t.Error("Expected call to ConfigMock.TableYears")
	}
}

// MinimockFinish checks that all mocked methods have been called the expected number of times
func (m *ConfigMock) MinimockFinish() {
	if !m.minimockDone() {
		m.MinimockTableYearsInspect()
		m.t.FailNow()
	}
}

// MinimockWait waits for all mocked methods to be called the expected number of times
func (m *ConfigMock) MinimockWait(timeout mm_time.Duration) {
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

func (m *ConfigMock) minimockDone() bool {
	done := true
	return done &&
		m.MinimockTableYearsDone()
}
