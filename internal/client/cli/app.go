package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aurahood/aurahood/internal/client/config"
	"github.com/aurahood/aurahood/internal/client/metrics"
	"github.com/aurahood/aurahood/internal/client/repositories/metadata"
	"github.com/aurahood/aurahood/internal/client/services"
	"github.com/aurahood/aurahood/internal/client/session"
	"github.com/aurahood/aurahood/internal/client/storage"
	"github.com/aurahood/aurahood/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// View is the screen the user is currently on.
type View string

const (
	ViewLanding   View = "landing"
	ViewDashboard View = "dashboard"
)

// App is the interactive client. It talks to the session only through
// session.Consumer.
type App struct {
	config   *config.Config
	session  session.Consumer
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	registry *prometheus.Registry
	closer   io.Closer

	mu          sync.Mutex
	last        session.Snapshot
	view        View
	unsubscribe func()
}

// NewApp wires storage, verification, metrics and the session store from c,
// and restores any persisted session before returning.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(c.LogLevel, os.Stderr)

	repo, closer, err := storage.Open(ctx, c, logger)
	if err != nil {
		logger.Error(ctx, "error initializing storage", "driver", c.StorageDriver, "error", err)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	opts := []session.Option{
		session.WithLogger(logger.With("component", "session")),
		session.WithRecorder(metrics.New(registry)),
		session.WithStorageKey(c.SessionKey),
	}
	if c.GuardInFlight {
		opts = append(opts, session.WithInFlightGuard())
	}
	store := session.New(repo, newAuthenticator(c, repo), opts...)

	a := newApp(store, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.registry = registry
	a.closer = closer

	store.Initialize(ctx)
	if store.IsAuthenticated() {
		a.navigate(ViewDashboard)
	}
	return a, nil
}

func newAuthenticator(c *config.Config, repo metadata.Repository) services.Authenticator {
	if c.Verification == config.VerificationCredential {
		return services.NewCredentialAuthenticator(repo, c.DemoDelay)
	}
	return services.NewSimulatedAuthenticator(c.SignInDelay, c.RegisterDelay, c.DemoDelay)
}

// newApp builds an App over an existing consumer and keeps the last
// published snapshot for the prompt.
func newApp(c session.Consumer, logger logging.Logger, r *bufio.Reader, w io.Writer) *App {
	a := &App{session: c, logger: logger, reader: r, out: w, view: ViewLanding}
	a.last = c.Snapshot()
	a.unsubscribe = c.Subscribe(a.onSessionChange)
	return a
}

func (a *App) onSessionChange(s session.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = s
}

func (a *App) navigate(v View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = v
}

func (a *App) currentView() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// getStatus renders "(<name> <view>)" for the prompt.
func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if name := a.last.Name(); name != "" {
		return fmt.Sprintf("(%s %s)", name, a.view)
	}
	return fmt.Sprintf("(%s)", a.view)
}

// Run serves metrics when configured, then blocks in the REPL until the user
// exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close(ctx)

	if a.config != nil && a.config.MetricsAddr != "" && a.registry != nil {
		go func() {
			if err := metrics.Serve(ctx, a.config.MetricsAddr, a.registry); err != nil {
				a.logger.Error(ctx, "metrics endpoint stopped", "addr", a.config.MetricsAddr, "error", err)
			}
		}()
		a.logger.Info(ctx, "serving metrics", "addr", a.config.MetricsAddr)
	}

	a.Root(ctx)
}

// Root prints the welcome banner and runs the REPL on the app reader.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Aurahood (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close drops the subscription and releases storage.
func (a *App) Close(ctx context.Context) {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.closer != nil {
		if err := a.closer.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			a.logger.Warn(ctx, "error closing storage", "error", err)
		}
	}
}
