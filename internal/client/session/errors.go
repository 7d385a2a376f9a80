package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication classifies failed sign-in and demo sign-in calls.
	ErrAuthentication = errors.New("authentication failed")
	// ErrRegistration classifies failed register calls.
	ErrRegistration = errors.New("registration failed")
	// ErrStorage is the cause when the durable slot could not be read or written.
	ErrStorage = errors.New("session storage failure")
	// ErrInvalidRecord is the cause when a record would violate its invariants.
	ErrInvalidRecord = errors.New("invalid identity record")
	// ErrOperationInFlight is returned by a guarded store while another
	// asynchronous operation is outstanding.
	ErrOperationInFlight = errors.New("another session operation is in progress")
)

// Op names a store operation.
type Op string

const (
	OpInitialize   Op = "initialize"
	OpSignIn       Op = "sign_in"
	OpRegister     Op = "register"
	OpSignOut      Op = "sign_out"
	OpUpdateRecord Op = "update_record"
	OpDemoSignIn   Op = "demo_sign_in"
)

// Error is returned by every failing store operation. Kind is one of the
// package sentinels; Err is the underlying cause. Both are matched by
// errors.Is.
type Error struct {
	Op   Op
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op Op, kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// storageError marks cause as a storage failure while keeping it matchable.
func storageError(cause error) error {
	return fmt.Errorf("%w: %w", ErrStorage, cause)
}
