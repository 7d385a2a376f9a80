// Package session owns the signed-in Aurahood identity. A Store holds at most
// one Identity, keeps it in step with a single durable slot in the metadata
// repository, and is the only writer of that slot.
//
// Lifecycle:
//
//	Uninitialized --Initialize--> Loading --> Unauthenticated | Authenticated
//
// SignIn, Register and DemoSignIn pass through Loading while the
// authenticator is consulted. SignOut and UpdateRecord never suspend.
//
// Overlapping mutating calls are last-completion-wins unless the store is
// built with WithInFlightGuard. The in-memory record always equals the
// persisted one because the slot write and the swap happen under one lock.
package session

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/aurahood/aurahood/internal/client/models"
	"github.com/aurahood/aurahood/internal/client/repositories/metadata"
	"github.com/aurahood/aurahood/internal/client/services"
	"github.com/aurahood/aurahood/internal/logging"
)

type listener struct {
	id int
	fn func(Snapshot)
}

// Store is safe for concurrent use.
type Store struct {
	repo     metadata.Repository
	auth     services.Authenticator
	logger   logging.Logger
	recorder Recorder
	now      func() time.Time
	newID    func() string
	key      string
	guard    bool

	// commit serializes slot access with the in-memory swap that follows it.
	commit sync.Mutex

	mu           sync.Mutex
	record       *models.Identity
	inFlight     int
	initialized  bool
	settled      bool // some operation has resolved; Uninitialized until then
	listeners    []listener
	nextListener int
}

// New builds a Store over repo and auth. Call Initialize once before relying
// on IsAuthenticated.
func New(repo metadata.Repository, auth services.Authenticator, opts ...Option) *Store {
	s := &Store{repo: repo, auth: auth}
	defaults(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads a previously persisted identity. A missing, unreadable or
// corrupt slot leaves the store unauthenticated; the failure is only logged.
func (s *Store) Initialize(ctx context.Context) {
	start := time.Now()
	s.mutate(func() bool {
		s.inFlight++
		return true
	})

	s.commit.Lock()
	rec := s.load(ctx)
	s.mutate(func() bool {
		s.inFlight--
		s.record = rec
		s.initialized = true
		s.settled = true
		return true
	})
	s.commit.Unlock()

	s.recorder.ObserveOperation(string(OpInitialize), nil, time.Since(start))
}

func (s *Store) load(ctx context.Context) *models.Identity {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn(ctx, "session slot unreadable, starting signed out", "key", s.key, "error", err)
		return nil
	}
	if raw == nil {
		s.logger.Debug(ctx, "no stored session", "key", s.key)
		return nil
	}

	id, err := models.DecodeIdentity(raw)
	if err != nil {
		s.logger.Warn(ctx, "discarding corrupt session record", "key", s.key, "error", err)
		return nil
	}
	s.logger.Info(ctx, "session restored", "email", id.Email, "id", id.ID)
	return &id
}

// SignIn verifies email and credential and, on success, activates a new
// identity whose name is derived from the email.
func (s *Store) SignIn(ctx context.Context, email string, credential []byte) error {
	return s.observe(OpSignIn, func() error {
		rec := models.DemoIdentity(s.now())
		rec.ID = s.newID()
		rec.Email = strings.TrimSpace(email)
		rec.Name = DisplayNameFromEmail(email)
		if err := rec.Validate(); err != nil {
			return newError(OpSignIn, ErrAuthentication, fmt.Errorf("%w: %w", ErrInvalidRecord, err))
		}

		if err := s.begin(OpSignIn, ErrAuthentication); err != nil {
			return err
		}

		if err := s.auth.Verify(ctx, rec.Email, credential); err != nil {
			s.finish(nil, false)
			s.logger.Warn(ctx, "sign-in rejected", "email", rec.Email, "error", err)
			return newError(OpSignIn, ErrAuthentication, err)
		}

		if err := s.activate(ctx, rec, nil); err != nil {
			s.logger.Error(ctx, "sign-in not persisted", "email", rec.Email, "error", err)
			return newError(OpSignIn, ErrAuthentication, err)
		}
		s.logger.Info(ctx, "signed in", "email", rec.Email, "id", rec.ID)
		return nil
	})
}

// Register creates and activates a new identity with the starting balances.
// Entries returned by the authenticator's Enroll are written in the same
// atomic batch as the record.
func (s *Store) Register(ctx context.Context, name, email string, credential []byte) error {
	return s.observe(OpRegister, func() error {
		name, email = strings.TrimSpace(name), strings.TrimSpace(email)
		if name == "" || email == "" {
			return newError(OpRegister, ErrRegistration, fmt.Errorf("%w: name and email are required", ErrInvalidRecord))
		}

		if err := s.begin(OpRegister, ErrRegistration); err != nil {
			return err
		}

		extra, err := s.auth.Enroll(ctx, email, credential)
		if err != nil {
			s.finish(nil, false)
			s.logger.Warn(ctx, "registration rejected", "email", email, "error", err)
			return newError(OpRegister, ErrRegistration, err)
		}

		rec := models.Identity{
			ID:         s.newID(),
			Name:       name,
			Email:      email,
			Roles:      []string{models.RoleUser},
			AuraPoints: models.StartingAuraPoints,
			TrustScore: models.StartingTrustScore,
			CreatedAt:  s.now(),
		}
		if err := s.activate(ctx, rec, extra); err != nil {
			s.logger.Error(ctx, "registration not persisted", "email", email, "error", err)
			return newError(OpRegister, ErrRegistration, err)
		}
		s.logger.Info(ctx, "registered", "email", email, "id", rec.ID)
		return nil
	})
}

// DemoSignIn activates the fixed demo identity without verification.
func (s *Store) DemoSignIn(ctx context.Context) error {
	return s.observe(OpDemoSignIn, func() error {
		if err := s.begin(OpDemoSignIn, ErrAuthentication); err != nil {
			return err
		}

		if err := s.auth.DemoAccess(ctx); err != nil {
			s.finish(nil, false)
			return newError(OpDemoSignIn, ErrAuthentication, err)
		}

		rec := models.DemoIdentity(s.now())
		if err := s.activate(ctx, rec, nil); err != nil {
			s.logger.Error(ctx, "demo sign-in not persisted", "error", err)
			return newError(OpDemoSignIn, ErrAuthentication, err)
		}
		s.logger.Info(ctx, "demo sign-in", "email", rec.Email)
		return nil
	})
}

// SignOut forgets the identity and removes the slot. It never fails: a
// slot that cannot be deleted is logged and will be read again by the next
// Initialize.
func (s *Store) SignOut(ctx context.Context) {
	start := time.Now()

	s.commit.Lock()
	var email string
	s.mutate(func() bool {
		if s.record == nil && s.settled {
			return false
		}
		if s.record != nil {
			email = s.record.Email
		}
		s.record = nil
		s.settled = true
		return true
	})
	err := s.repo.Delete(context.WithoutCancel(ctx), s.key)
	s.commit.Unlock()

	if err != nil {
		s.logger.Error(ctx, "session slot not removed", "key", s.key, "error", err)
	} else if email != "" {
		s.logger.Info(ctx, "signed out", "email", email)
	}
	s.recorder.ObserveOperation(string(OpSignOut), nil, time.Since(start))
}

// UpdateRecord merges patch into the current identity and persists it. It
// is a no-op when nobody is signed in or the patch is empty. A merged record
// that would be incomplete or out of range is rejected with
// ErrInvalidRecord and nothing changes.
func (s *Store) UpdateRecord(ctx context.Context, patch models.Patch) error {
	return s.observe(OpUpdateRecord, func() error {
		if patch.Empty() {
			return nil
		}

		s.commit.Lock()
		defer s.commit.Unlock()

		s.mu.Lock()
		cur := s.record
		s.mu.Unlock()
		if cur == nil {
			return nil
		}

		merged := patch.Apply(*cur)
		if err := merged.Validate(); err != nil {
			return newError(OpUpdateRecord, ErrInvalidRecord, err)
		}

		raw, err := merged.Encode()
		if err != nil {
			return newError(OpUpdateRecord, ErrStorage, err)
		}
		if err := s.repo.Set(ctx, s.key, raw); err != nil {
			s.logger.Error(ctx, "record update not persisted", "email", cur.Email, "error", err)
			return newError(OpUpdateRecord, ErrStorage, err)
		}

		s.mutate(func() bool {
			s.record = &merged
			return true
		})
		return nil
	})
}

// Snapshot returns the current state. The identity in it is a copy.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Identity returns a copy of the signed-in identity.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return models.Identity{}, false
	}
	return s.record.Clone(), true
}

// Loading reports whether Initialize has yet to complete or an operation
// is outstanding.
func (s *Store) Loading() bool {
	return s.Snapshot().Loading
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record != nil
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Initialized reports whether Initialize has completed at least once.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Subscribe registers fn to be called with a fresh Snapshot after every
// state change. fn runs outside the state lock and may read the store, but
// must not call its mutating operations. The returned func removes the
// subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// begin enters Loading for op, or rejects it when guarded and busy.
func (s *Store) begin(op Op, kind error) error {
	var busy bool
	s.mutate(func() bool {
		if s.guard && s.inFlight > 0 {
			busy = true
			return false
		}
		s.inFlight++
		return true
	})
	if busy {
		return newError(op, kind, ErrOperationInFlight)
	}
	return nil
}

// finish leaves Loading, replacing the record when replace is set.
func (s *Store) finish(rec *models.Identity, replace bool) {
	s.mutate(func() bool {
		s.inFlight--
		s.settled = true
		if replace {
			s.record = rec
		}
		return true
	})
}

// activate persists rec, plus extra entries, in one batch and then makes it
// the current identity. The caller must have called begin.
func (s *Store) activate(ctx context.Context, rec models.Identity, extra map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		s.finish(nil, false)
		return err
	}

	raw, err := rec.Encode()
	if err != nil {
		s.finish(nil, false)
		return storageError(err)
	}
	entries := make(map[string][]byte, len(extra)+1)
	maps.Copy(entries, extra)
	entries[s.key] = raw

	s.commit.Lock()
	defer s.commit.Unlock()

	// Verification has already succeeded; a late cancel must not tear the batch.
	if err := s.repo.SetMany(context.WithoutCancel(ctx), entries); err != nil {
		s.finish(nil, false)
		return storageError(err)
	}
	s.finish(&rec, true)
	return nil
}

func (s *Store) observe(op Op, fn func() error) error {
	start := time.Now()
	err := fn()
	s.recorder.ObserveOperation(string(op), err, time.Since(start))
	return err
}

// mutate applies fn under the lock and, when fn reports a change, notifies
// subscribers with the resulting snapshot.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.recorder.SetAuthenticated(snap.Authenticated)
	s.mu.Unlock()

	for _, notify := range fns {
		notify(snap.clone())
	}
}

func (s *Store) stateLocked() State {
	switch {
	case s.inFlight > 0:
		return StateLoading
	case s.record != nil:
		return StateAuthenticated
	case !s.settled:
		return StateUninitialized
	}
	return StateUnauthenticated
}

func (s *Store) snapshotLocked() Snapshot {
	st := s.stateLocked()
	snap := Snapshot{
		State:         st,
		Loading:       st == StateLoading || st == StateUninitialized,
		Authenticated: s.record != nil,
	}
	if s.record != nil {
		c := s.record.Clone()
		snap.Identity = &c
	}
	return snap
}

func (s Snapshot) clone() Snapshot {
	if s.Identity != nil {
		c := s.Identity.Clone()
		s.Identity = &c
	}
	return s
}
