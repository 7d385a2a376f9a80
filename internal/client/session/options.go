package session

import (
	"time"

	"github.com/aurahood/aurahood/internal/common"
	"github.com/aurahood/aurahood/internal/logging"
	"github.com/google/uuid"
)

// Recorder receives operation outcomes. The metrics package provides a
// Prometheus implementation.
type Recorder interface {
	ObserveOperation(op string, err error, elapsed time.Duration)
	SetAuthenticated(authenticated bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error, time.Duration) {}
func (nopRecorder) SetAuthenticated(bool)                         {}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithClock overrides the source of createdAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the source of new identity ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithStorageKey changes the name of the durable slot.
func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithInFlightGuard makes SignIn, Register and DemoSignIn fail with
// ErrOperationInFlight while another asynchronous operation is outstanding,
// instead of racing it.
func WithInFlightGuard() Option {
	return func(s *Store) { s.guard = true }
}

func defaults(s *Store) {
	s.logger = logging.Discard()
	s.recorder = nopRecorder{}
	s.now = func() time.Time { return time.Now().UTC() }
	s.newID = uuid.NewString
	s.key = common.DefaultSessionKey
}
