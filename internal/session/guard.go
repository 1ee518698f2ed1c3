package session

import (
	"context"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrNoSession means no token is stored; no validation call was made.
	ErrNoSession = errors.New("no session: please login first")
	// ErrSessionExpired means the backend rejected the stored token, which
	// has been cleared as a side effect.
	ErrSessionExpired = errors.New("session expired: please login again")
)

// AuthClient is the slice of the API client the guard needs.
type AuthClient interface {
	Me(ctx context.Context) (*api.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// Guard gates access to protected operations. A missing token fails
// immediately with zero network calls; a present token is validated with
// exactly one current-user call, never retried. A rejection is
// authoritative and clears the stored token.
type Guard struct {
	store  *Store
	client AuthClient
	log    *zap.Logger
}

func NewGuard(store *Store, client AuthClient, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{store: store, client: client, log: log}
}

func (g *Guard) Check(ctx context.Context) (*api.User, error) {
	if g.store.Token() == "" {
		return nil, ErrNoSession
	}

	user, err := g.client.Me(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			if clearErr := g.store.Clear(); clearErr != nil {
				g.log.Warn("failed to clear rejected token", zap.Error(clearErr))
			}
			g.log.Info("session token rejected, cleared")
			return nil, ErrSessionExpired
		}
		// Transport or server failure: the token may still be good, keep it.
		return nil, err
	}
	return user, nil
}

// Login exchanges credentials for a token and persists it.
func (g *Guard) Login(ctx context.Context, email, password string) (*api.User, error) {
	token, err := g.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.New("backend returned an empty token")
	}
	if err := g.store.SetToken(token); err != nil {
		return nil, err
	}
	return g.client.Me(ctx)
}

// Logout drops the session.
func (g *Guard) Logout() error {
	return g.store.Clear()
}
