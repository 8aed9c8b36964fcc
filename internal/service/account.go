package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"booking-service/internal/account"
	"booking-service/internal/storage"
)

// AccountService keeps the logged-in identity in the session
type AccountService struct {
	sessions  storage.SessionStorage
	accounts  account.AccountClient
	search    *SearchService
	refresher *PriceRefresher
}

// NewAccountService creates a new account service instance.
// search and refresher may be nil; they are only told to forget a session on logout.
func NewAccountService(sessions storage.SessionStorage, accounts account.AccountClient, search *SearchService, refresher *PriceRefresher) *AccountService {
	return &AccountService{
		sessions:  sessions,
		accounts:  accounts,
		search:    search,
		refresher: refresher,
	}
}

// Register signs the user up and remembers whatever identity the backend returned
func (a *AccountService) Register(ctx context.Context, sessionID string, req account.RegistrationRequest) (*account.Identity, error) {
	session, err := a.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	identity, err := a.accounts.Register(ctx, req)
	if err != nil {
		slog.Warn("Registration failed", "session_id", sessionID, "username", req.Username, "error", err)
		return nil, err
	}

	session.User = identity
	if err := a.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save identity: %w", err)
	}
	return identity, nil
}

// Login authenticates against the backend and stores the identity and token
func (a *AccountService) Login(ctx context.Context, sessionID, username, password string) (*account.Identity, error) {
	session, err := a.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	identity, err := a.accounts.Login(ctx, username, password)
	if err != nil {
		slog.Warn("Login failed", "session_id", sessionID, "username", username, "error", err)
		return nil, err
	}

	session.User = identity
	if err := a.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save identity: %w", err)
	}
	return identity, nil
}

// CurrentUser returns the session's identity. An identity whose token has expired
// is cleared from the session and reported as account.ErrNotLoggedIn.
func (a *AccountService) CurrentUser(ctx context.Context, sessionID string) (*account.Identity, error) {
	session, err := a.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.User == nil {
		return nil, account.ErrNotLoggedIn
	}

	if session.User.Expired(time.Now()) {
		slog.Info("Auth token expired, clearing identity", "session_id", sessionID, "username", session.User.Username)
		session.User = nil
		if err := a.sessions.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to clear identity: %w", err)
		}
		return nil, account.ErrNotLoggedIn
	}
	return session.User, nil
}

// Logout clears the whole session: identity, route, cached distance and booking
func (a *AccountService) Logout(ctx context.Context, sessionID string) error {
	if a.refresher != nil {
		a.refresher.Unwatch(sessionID)
	}
	if a.search != nil {
		a.search.Forget(sessionID)
	}

	if err := a.sessions.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return err
	}
	return nil
}
