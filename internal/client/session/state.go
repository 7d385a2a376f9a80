package session

import "github.com/aurahood/aurahood/internal/client/models"

// State is the lifecycle position of a Store.
type State int

const (
	// StateUninitialized is the state before Initialize has completed once.
	StateUninitialized State = iota
	// StateLoading means an asynchronous operation is outstanding.
	StateLoading
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is a consistent view of the store at one instant. Identity is a
// private copy, or nil when nobody is signed in.
type Snapshot struct {
	State         State
	Identity      *models.Identity
	Loading       bool
	Authenticated bool
}

// Name returns the display name of the signed-in identity, or "".
func (s Snapshot) Name() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Name
}
