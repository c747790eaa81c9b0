package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/medquery/internal/client/client"
	"github.com/dmitrijs2005/medquery/internal/client/config"
	"github.com/dmitrijs2005/medquery/internal/client/models"
	"github.com/dmitrijs2005/medquery/internal/client/services"
	"github.com/dmitrijs2005/medquery/internal/client/session"
	"github.com/dmitrijs2005/medquery/internal/client/storage"
	"github.com/dmitrijs2005/medquery/internal/client/tokenstore"
	"github.com/dmitrijs2005/medquery/internal/filex"
	"github.com/dmitrijs2005/medquery/internal/logging"
)

// sessionService is the part of *session.Manager the CLI uses.
type sessionService interface {
	Start(ctx context.Context) error
	Login(ctx context.Context, email, password string, role models.Role, opts ...session.LoginOption) (*models.User, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Logout(ctx context.Context)
	State() session.State
	Claims() (tokenstore.Claims, bool)
	Subscribe() (<-chan session.State, func())
	Close()
}

type App struct {
	config    *config.Config
	session   sessionService
	assistant services.AssistantService
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	closers   []func() error
}

// NewApp wires storage, the API client, the session and the services.
// An empty cfg.StoragePath runs without persistent storage.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	a := &App{config: cfg, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	var store storage.Storage
	if cfg.StoragePath != "" {
		path, err := filex.EnsureParentDir(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("storage directory: %w", err)
		}
		s, err := storage.Open(ctx, path)
		if err != nil {
			// Continue without persistence.
			log.Warn(ctx, "persistent storage unavailable", "path", path, "error", err)
		} else {
			store = s
			a.closers = append(a.closers, s.Close)
		}
	}

	tokens := tokenstore.New(store, log)

	api, err := client.NewHTTPClient(cfg.ServerURL, tokens,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log))
	if err != nil {
		return nil, err
	}

	mgr := session.NewManager(api, tokens, store, log)
	a.session = mgr
	a.assistant = services.NewAssistantService(api, mgr)

	return a, nil
}

// Run resolves the session and then serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if err := a.session.Start(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not reach the server to confirm your session; please log in again.")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.watchSession(ctx)

	a.Root(ctx)
}

func (a *App) close() {
	a.session.Close()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

// watchSession tells the user when the server ends a session on its own.
// Explicit logins and logouts advance the epoch and are not reported.
func (a *App) watchSession(ctx context.Context) {
	states, unsubscribe := a.session.Subscribe()
	defer unsubscribe()

	var last session.State
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if forcedLogout(last, st) {
				printlnFn("\nYour session has expired. Please log in again.")
			}
			last = st
		}
	}
}

func forcedLogout(prev, next session.State) bool {
	return prev.Authenticated() && next.Status == session.Unauthenticated && prev.Epoch == next.Epoch
}
