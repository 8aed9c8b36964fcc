package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	registerPath = "/auth/register"
	loginPath    = "/auth/login"
)

// Common errors
var (
	ErrRegistrationFailed = errors.New("registration failed")
	ErrLoginFailed        = errors.New("login failed")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// RegistrationRequest is the body the backend expects on sign-up
type RegistrationRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	Address   string  `json:"address"`
	Gender    string  `json:"gender"`
	LastName  string  `json:"last_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Identity is the logged-in user as remembered in the session
type Identity struct {
	Username  string     `json:"username" dynamodbav:"username"`
	Role      string     `json:"role" dynamodbav:"role"`
	Email     string     `json:"email" dynamodbav:"email"`
	Address   string     `json:"address" dynamodbav:"address"`
	Token     string     `json:"token,omitempty" dynamodbav:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
}

// Expired reports whether the identity's token has passed its expiry at now.
// Identities without a known expiry never expire here.
func (i *Identity) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// Client handles communication with the backend auth endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new account client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Register submits a sign-up. Any non-2xx or non-JSON answer is ErrRegistrationFailed.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) (*Identity, error) {
	var resp identityResponse
	if err := c.postJSON(ctx, registerPath, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	identity := resp.identity()
	// the backend may answer with only a message; fall back to what was submitted
	if identity.Username == "" {
		identity.Username = req.Username
		identity.Email = req.Email
		identity.Role = req.Role
		identity.Address = req.Address
	}
	return identity, nil
}

// Login exchanges credentials for an auth token
func (c *Client) Login(ctx context.Context, username, password string) (*Identity, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: username,
		Password: password,
	}

	var resp identityResponse
	if err := c.postJSON(ctx, loginPath, body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: no token in response", ErrLoginFailed)
	}

	identity := resp.identity()
	if identity.Username == "" {
		identity.Username = username
	}
	if exp, err := TokenExpiry(identity.Token); err != nil {
		slog.Warn("Could not read token expiry", "username", identity.Username, "error", err)
	} else {
		identity.ExpiresAt = exp
	}
	return identity, nil
}

type identityResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

func (r identityResponse) identity() *Identity {
	return &Identity{
		Username: r.Username,
		Role:     r.Role,
		Email:    r.Email,
		Address:  r.Address,
		Token:    r.Token,
	}
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	jsonData, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	return nil
}
