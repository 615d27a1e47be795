// Package session is the client's auth gate: it tracks whether someone is
// signed in, persists the session and notifies subscribers of every change.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

type State int

const (
	Anonymous State = iota
	Loading
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Change is what subscribers receive. Err is set when a sign-in failed.
type Change struct {
	State   State
	Session *models.Session
	Err     error
}

// Authenticator is the remote side of sign-in and sign-out.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
}

// Store persists the session between runs.
type Store interface {
	Load() (*models.Session, error)
	Save(s *models.Session) error
	Clear() error
}

// Gate holds the process-wide session state.
type Gate struct {
	mu      sync.Mutex
	state   State
	session *models.Session
	subs    map[int]func(Change)
	nextSub int

	auth   Authenticator
	store  Store
	logger logging.Logger
}

func NewGate(a Authenticator, s Store, logger logging.Logger) *Gate {
	return &Gate{
		auth:   a,
		store:  s,
		subs:   map[int]func(Change){},
		logger: logger.With("module", "session"),
	}
}

// Restore picks up a session stored by an earlier run.
func (g *Gate) Restore() error {
	session, err := g.store.Load()
	if err != nil {
		return err
	}
	if session == nil {
		g.set(Change{State: Anonymous})
		return nil
	}
	g.set(Change{State: Authenticated, Session: session})
	return nil
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Session() *models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Subscribe registers fn for every later change and returns a function
// that removes it.
func (g *Gate) Subscribe(fn func(Change)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, id)
	}
}

// SignIn moves to loading, then to authenticated, or back to anonymous with
// the provider's error unchanged. It never retries.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	g.set(Change{State: Loading})

	session, err := g.auth.SignIn(ctx, email, password)
	if err != nil {
		g.set(Change{State: Anonymous, Err: err})
		return err
	}
	if err := g.store.Save(session); err != nil {
		g.logger.Warn(ctx, "session not persisted", "error", err)
	}

	g.logger.Info(ctx, "signed in", "email", session.User.Email)
	g.set(Change{State: Authenticated, Session: session})
	return nil
}

// SignOut calls the provider and forgets the local session either way; the
// published change flips the gate to anonymous.
func (g *Gate) SignOut(ctx context.Context) error {
	remoteErr := g.auth.SignOut(ctx)
	if remoteErr != nil {
		g.logger.Warn(ctx, "remote sign-out failed", "error", remoteErr)
	}
	if err := g.store.Clear(); err != nil {
		return err
	}
	g.set(Change{State: Anonymous})
	if remoteErr != nil {
		return fmt.Errorf("signed out locally: %w", remoteErr)
	}
	return nil
}

// Require guards the admin surface.
func (g *Gate) Require() error {
	if g.State() != Authenticated {
		return fmt.Errorf("%w: sign in first", common.ErrorUnauthorized)
	}
	return nil
}

func (g *Gate) set(c Change) {
	g.mu.Lock()
	g.state = c.State
	g.session = c.Session
	subs := make([]func(Change), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
}
