package session

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/pkg/errors"
)

type fakeAuth struct {
	meCalls    int
	meUser     *api.User
	meErr      error
	loginToken string
	loginErr   error
}

func (f *fakeAuth) Me(ctx context.Context) (*api.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.meUser, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func newTestStore(t *testing.T, token string) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "token"))
	if token != "" {
		if err := store.SetToken(token); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestGuardNoTokenFailsWithoutNetworkCall(t *testing.T) {
	auth := &fakeAuth{}
	guard := NewGuard(newTestStore(t, ""), auth, nil)

	_, err := guard.Check(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("Check err = %v, want ErrNoSession", err)
	}
	if auth.meCalls != 0 {
		t.Fatalf("meCalls = %d, want 0", auth.meCalls)
	}
}

func TestGuardRejectedTokenClearsAndNeverRetries(t *testing.T) {
	store := newTestStore(t, "expired-token")
	auth := &fakeAuth{meErr: &api.Error{Status: http.StatusUnauthorized, Body: "unauthenticated"}}
	guard := NewGuard(store, auth, nil)

	_, err := guard.Check(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Check err = %v, want ErrSessionExpired", err)
	}
	if auth.meCalls != 1 {
		t.Fatalf("meCalls = %d, want exactly 1", auth.meCalls)
	}
	if store.Token() != "" {
		t.Fatalf("token not cleared after rejection")
	}

	// The next check must not issue another validation call either.
	if _, err := guard.Check(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("second Check err = %v, want ErrNoSession", err)
	}
	if auth.meCalls != 1 {
		t.Fatalf("meCalls after second check = %d, want 1", auth.meCalls)
	}
}

func TestGuardTransportErrorKeepsToken(t *testing.T) {
	store := newTestStore(t, "maybe-good-token")
	auth := &fakeAuth{meErr: errors.New("connection refused")}
	guard := NewGuard(store, auth, nil)

	_, err := guard.Check(context.Background())
	if err == nil {
		t.Fatal("Check succeeded, want error")
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Fatal("transport failure treated as expired session")
	}
	if store.Token() != "maybe-good-token" {
		t.Fatalf("token cleared on transport failure")
	}
}

func TestGuardValidTokenReturnsUser(t *testing.T) {
	store := newTestStore(t, "good-token")
	auth := &fakeAuth{meUser: &api.User{ID: 7, Name: "Asha"}}
	guard := NewGuard(store, auth, nil)

	user, err := guard.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("user.ID = %d, want 7", user.ID)
	}
	if auth.meCalls != 1 {
		t.Fatalf("meCalls = %d, want 1", auth.meCalls)
	}
}

func TestGuardLoginStoresToken(t *testing.T) {
	store := newTestStore(t, "")
	auth := &fakeAuth{loginToken: "fresh-token", meUser: &api.User{ID: 1}}
	guard := NewGuard(store, auth, nil)

	if _, err := guard.Login(context.Background(), "a@b.test", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if store.Token() != "fresh-token" {
		t.Fatalf("token = %q, want fresh-token", store.Token())
	}

	if err := guard.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.Token() != "" {
		t.Fatal("token survived logout")
	}
}

func TestGuardLoginRejectsEmptyToken(t *testing.T) {
	store := newTestStore(t, "")
	auth := &fakeAuth{loginToken: ""}
	guard := NewGuard(store, auth, nil)

	if _, err := guard.Login(context.Background(), "a@b.test", "secret"); err == nil {
		t.Fatal("Login accepted an empty token")
	}
	if store.Token() != "" {
		t.Fatal("empty token was stored")
	}
}
