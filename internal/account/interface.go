package account

import "context"

// AccountClient defines the interface for backend account operations
type AccountClient interface {
	Register(ctx context.Context, req RegistrationRequest) (*Identity, error)
	Login(ctx context.Context, username, password string) (*Identity, error)
}
