package coordinator

import (
	"fmt"

	"github.com/pkg/errors"
)

type State int

const (
	Unauthenticated State = iota
	Loading
	Synced
	Error
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Loading:
		return "loading"
	case Synced:
		return "synced"
	case Error:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotSynced        = errors.New("income data is not loaded yet")
	ErrStaleRequest     = errors.New("request belongs to a closed session")
	ErrNothingToApply   = errors.New("no years to apply the income to")
)

// PersistenceError is a failed read, write or subscription against the remote store.
// Local state is kept when it happens.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + " income data: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Cause() error {
	return e.Err
}

// Status is what listeners observe after every transition.
type Status struct {
	OwnerID string
	State   State
	Err     error
}
