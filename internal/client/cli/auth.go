package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aurahood/aurahood/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// User-facing failure notices. Details go to the log only.
const (
	MsgLoginFailed        = "Login failed. Please try again."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgDemoFailed         = "Demo login failed. Please try again."
)

// ErrNotSignedIn is returned by commands that need an identity.
var ErrNotSignedIn = errors.New("not signed in")

// Register prompts for a display name, email and password and creates a new
// account. On success the dashboard becomes the current view.
//
// The password byte slice is wiped before returning. Store failures are
// shown as a generic notice and returned.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fmt.Fprintln(a.out, "Creating your account...")
	if err := a.session.Register(ctx, name, email, password); err != nil {
		a.logger.Warn(ctx, "registration failed", "email", email, "error", err)
		fmt.Fprintln(a.out, MsgRegistrationFailed)
		return err
	}

	a.navigate(ViewDashboard)
	a.greet("Welcome to Aurahood, %s!")
	return nil
}

// Login prompts for credentials and signs in. On success the dashboard
// becomes the current view; on failure the previous session, if any, is
// kept.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fmt.Fprintln(a.out, "Signing in...")
	if err := a.session.SignIn(ctx, email, password); err != nil {
		a.logger.Warn(ctx, "login failed", "email", email, "error", err)
		fmt.Fprintln(a.out, MsgLoginFailed)
		return err
	}

	a.navigate(ViewDashboard)
	a.greet("Welcome back, %s!")
	return nil
}

// Demo signs in as the demo identity.
func (a *App) Demo(ctx context.Context) error {
	fmt.Fprintln(a.out, "Loading demo account...")
	if err := a.session.DemoSignIn(ctx); err != nil {
		a.logger.Warn(ctx, "demo login failed", "error", err)
		fmt.Fprintln(a.out, MsgDemoFailed)
		return err
	}

	a.navigate(ViewDashboard)
	a.greet("Welcome back, %s!")
	return nil
}

// Logout ends the session and returns to the landing view. It cannot fail.
func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut(ctx)
	a.navigate(ViewLanding)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) greet(format string) {
	if id, ok := a.session.Identity(); ok {
		fmt.Fprintf(a.out, format+"\n", id.Name)
	}
}
