// Package services contains application services for the Aurahood client.
// This file defines credential verification: a simulated round trip that
// accepts any request after a delay, and a local scheme that checks
// credentials enrolled at registration.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aurahood/aurahood/internal/client/repositories/metadata"
	"github.com/aurahood/aurahood/internal/common"
	"github.com/aurahood/aurahood/internal/cryptox"
)

var (
	ErrUnknownAccount    = errors.New("unknown account")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmptyCredential   = errors.New("credential must not be empty")
)

// Authenticator decides whether a sign-in, registration or demo request may
// proceed. Implementations are the only place the session store suspends.
//
// Contract:
//   - Verify: nil when the email/credential pair is accepted.
//   - Enroll: accepts a new account and returns metadata entries that must
//     be persisted atomically with the new session record (may be empty).
//   - DemoAccess: pause before the demo identity is activated.
//
// All methods must honor context cancellation.
type Authenticator interface {
	Verify(ctx context.Context, email string, credential []byte) error
	Enroll(ctx context.Context, email string, credential []byte) (map[string][]byte, error)
	DemoAccess(ctx context.Context) error
}

// SimulatedAuthenticator stands in for a remote identity provider: every
// request succeeds once its delay has elapsed.
type SimulatedAuthenticator struct {
	SignInDelay   time.Duration
	RegisterDelay time.Duration
	DemoDelay     time.Duration
}

func NewSimulatedAuthenticator(signIn, register, demo time.Duration) *SimulatedAuthenticator {
	return &SimulatedAuthenticator{SignInDelay: signIn, RegisterDelay: register, DemoDelay: demo}
}

func (a *SimulatedAuthenticator) Verify(ctx context.Context, _ string, _ []byte) error {
	return wait(ctx, a.SignInDelay)
}

func (a *SimulatedAuthenticator) Enroll(ctx context.Context, _ string, _ []byte) (map[string][]byte, error) {
	if err := wait(ctx, a.RegisterDelay); err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *SimulatedAuthenticator) DemoAccess(ctx context.Context) error {
	return wait(ctx, a.DemoDelay)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CredentialAuthenticator verifies credentials against a salt and verifier
// kept in the metadata repository. The credential is stretched with argon2id
// and only a hash of the derived key is stored.
type CredentialAuthenticator struct {
	repo      metadata.Repository
	demoDelay time.Duration
}

func NewCredentialAuthenticator(repo metadata.Repository, demoDelay time.Duration) *CredentialAuthenticator {
	return &CredentialAuthenticator{repo: repo, demoDelay: demoDelay}
}

// SaltKey and VerifierKey name the metadata entries for email.
func SaltKey(email string) string {
	return common.CredentialKeyPrefix + NormalizeEmail(email) + ":salt"
}

func VerifierKey(email string) string {
	return common.CredentialKeyPrefix + NormalizeEmail(email) + ":verifier"
}

// NormalizeEmail trims and lower-cases email for key lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *CredentialAuthenticator) Verify(ctx context.Context, email string, credential []byte) error {
	salt, err := a.repo.Get(ctx, SaltKey(email))
	if err != nil {
		return fmt.Errorf("load salt: %w", err)
	}
	verifier, err := a.repo.Get(ctx, VerifierKey(email))
	if err != nil {
		return fmt.Errorf("load verifier: %w", err)
	}
	if salt == nil || verifier == nil {
		return ErrUnknownAccount
	}

	if !cryptox.CheckCredential(credential, salt, verifier) {
		return ErrInvalidCredential
	}
	return nil
}

// Enroll generates a fresh salt and verifier for email. Enrolling an email
// again replaces its credential.
func (a *CredentialAuthenticator) Enroll(ctx context.Context, email string, credential []byte) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(credential) == 0 {
		return nil, ErrEmptyCredential
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveMasterKey(credential, salt)
	defer common.WipeByteArray(key)

	return map[string][]byte{
		SaltKey(email):     salt,
		VerifierKey(email): cryptox.MakeVerifier(key),
	}, nil
}

func (a *CredentialAuthenticator) DemoAccess(ctx context.Context) error {
	return wait(ctx, a.demoDelay)
}

var (
	_ Authenticator = (*SimulatedAuthenticator)(nil)
	_ Authenticator = (*CredentialAuthenticator)(nil)
)
