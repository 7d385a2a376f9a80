package session

import (
	"context"

	"github.com/aurahood/aurahood/internal/client/models"
)

// Consumer is everything a view may do with the session. Views depend on
// this interface only and never see the repository or the authenticator.
//
// SignOut is synchronous; the other mutations resolve once the store has
// committed, and subscribers are notified of every intermediate state.
type Consumer interface {
	Snapshot() Snapshot
	Identity() (models.Identity, bool)
	Loading() bool
	IsAuthenticated() bool
	Subscribe(fn func(Snapshot)) (unsubscribe func())

	SignIn(ctx context.Context, email string, credential []byte) error
	Register(ctx context.Context, name, email string, credential []byte) error
	SignOut(ctx context.Context)
	UpdateRecord(ctx context.Context, patch models.Patch) error
	DemoSignIn(ctx context.Context) error
}

var _ Consumer = (*Store)(nil)
