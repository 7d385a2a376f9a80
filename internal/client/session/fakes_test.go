package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aurahood/aurahood/internal/client/models"
	"github.com/aurahood/aurahood/internal/client/repositories/metadata"
	"github.com/aurahood/aurahood/internal/client/services"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// ---- fake authenticator ----

// fakeAuth accepts everything unless an error is configured. Verify blocks
// on a per-email gate when one is installed, announcing itself on started.
type fakeAuth struct {
	mu            sync.Mutex
	verifyErr     error
	enrollErr     error
	demoErr       error
	enrollEntries map[string][]byte
	gates         map[string]chan struct{}
	started       chan string

	verifyCalls int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{gates: map[string]chan struct{}{}, started: make(chan string, 16)}
}

// gate makes Verify for email wait until the returned channel is closed.
func (f *fakeAuth) gate(email string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[email] = ch
	return ch
}

func (f *fakeAuth) Verify(ctx context.Context, email string, _ []byte) error {
	f.mu.Lock()
	f.verifyCalls++
	gate := f.gates[email]
	err := f.verifyErr
	f.mu.Unlock()

	select {
	case f.started <- email:
	default:
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeAuth) Enroll(ctx context.Context, _ string, _ []byte) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.enrollEntries, f.enrollErr
}

func (f *fakeAuth) DemoAccess(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.demoErr
}

var _ services.Authenticator = (*fakeAuth)(nil)

// ---- faulty repository ----

// faultyRepo wraps a real repository and fails the configured calls.
type faultyRepo struct {
	metadata.Repository
	getErr     error
	setErr     error
	setManyErr error
	deleteErr  error
}

func (r *faultyRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.Repository.Get(ctx, key)
}

func (r *faultyRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.setErr != nil {
		return r.setErr
	}
	return r.Repository.Set(ctx, key, value)
}

func (r *faultyRepo) SetMany(ctx context.Context, entries map[string][]byte) error {
	if r.setManyErr != nil {
		return r.setManyErr
	}
	return r.Repository.SetMany(ctx, entries)
}

func (r *faultyRepo) Delete(ctx context.Context, key string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.Repository.Delete(ctx, key)
}

// ---- fake recorder ----

type recordedOp struct {
	op  string
	err error
}

type fakeRecorder struct {
	mu            sync.Mutex
	ops           []recordedOp
	authenticated bool
}

func (r *fakeRecorder) ObserveOperation(op string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{op: op, err: err})
}

func (r *fakeRecorder) SetAuthenticated(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authenticated = v
}

// ---- helpers ----

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func newTestStore(repo metadata.Repository, auth services.Authenticator, opts ...Option) *Store {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	}
	return New(repo, auth, append(base, opts...)...)
}

func slot(t *testing.T, repo metadata.Repository) []byte {
	t.Helper()
	raw, err := repo.Get(context.Background(), "aurahood_user")
	require.NoError(t, err)
	return raw
}

func storedIdentity(t *testing.T, repo metadata.Repository) models.Identity {
	t.Helper()
	raw := slot(t, repo)
	require.NotNil(t, raw, "slot must hold a record")
	id, err := models.DecodeIdentity(raw)
	require.NoError(t, err)
	return id
}
