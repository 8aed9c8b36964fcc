package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Backend stands in for the remote pricing and auth backend
type Backend struct {
	server *httptest.Server

	mu           sync.Mutex
	quoteBody    string
	pricingCalls int
	lastForm     map[string]string
	passwords    map[string]string
	tokenTTL     time.Duration
}

// NewBackend starts a backend whose pricing endpoint fails until SetQuote is called
func NewBackend() *Backend {
	b := &Backend{
		passwords: make(map[string]string),
		tokenTTL:  time.Hour,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cab1", b.handleQuote)
	mux.HandleFunc("/auth/register", b.handleRegister)
	mux.HandleFunc("/auth/login", b.handleLogin)
	b.server = httptest.NewServer(mux)
	return b
}

// URL is the base URL to hand to the pricing and account clients
func (b *Backend) URL() string {
	return b.server.URL
}

// Close shuts the backend down
func (b *Backend) Close() {
	b.server.Close()
}

// SetQuote makes the pricing endpoint answer with body. An empty body makes it fail.
func (b *Backend) SetQuote(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quoteBody = body
}

// PricingCalls reports how many pricing queries were received
func (b *Backend) PricingCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pricingCalls
}

// LastPricingForm returns the form fields of the latest pricing query
func (b *Backend) LastPricingForm() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	form := make(map[string]string, len(b.lastForm))
	for k, v := range b.lastForm {
		form[k] = v
	}
	return form
}

// AddUser lets username log in with password without registering first
func (b *Backend) AddUser(username, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.passwords[username] = password
}

func (b *Backend) handleQuote(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()

	b.mu.Lock()
	b.pricingCalls++
	b.lastForm = make(map[string]string)
	for key := range r.PostForm {
		b.lastForm[key] = r.PostForm.Get(key)
	}
	body := b.quoteBody
	b.mu.Unlock()

	if body == "" {
		http.Error(w, "pricing unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Address  string `json:"address"`
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	_, exists := b.passwords[req.Username]
	if !exists {
		b.passwords[req.Username] = req.Password
	}
	b.mu.Unlock()

	if exists {
		http.Error(w, "username taken", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "registered"})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	password, ok := b.passwords[req.Username]
	ttl := b.tokenTTL
	b.mu.Unlock()

	if !ok || password != req.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := IssueToken(req.Username, time.Now().Add(ttl))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token":    token,
		"username": req.Username,
		"role":     "USER",
		"email":    req.Username + "@example.com",
		"address":  "Pune",
	})
}

// IssueToken signs a JWT for username that expires at expiresAt
func IssueToken(username string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
}
