package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "asha",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("Expected path '/auth/register', got %s", r.URL.Path)
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha", body["username"])
		assert.Equal(t, "Kulkarni", body["last_name"])
		assert.Equal(t, 18.52, body["latitude"])
		assert.Equal(t, "USER", body["role"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message": "registered"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	identity, err := client.Register(context.Background(), RegistrationRequest{
		Username:  "asha",
		Email:     "asha@example.com",
		Phone:     "9800000000",
		Password:  "secret",
		Role:      "USER",
		Address:   "Pune",
		Gender:    "female",
		LastName:  "Kulkarni",
		Latitude:  18.52,
		Longitude: 73.85,
	})
	require.NoError(t, err)

	assert.Equal(t, "asha", identity.Username)
	assert.Equal(t, "asha@example.com", identity.Email)
	assert.Equal(t, "USER", identity.Role)
	assert.Equal(t, "Pune", identity.Address)
}

func TestClient_Register_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "email taken"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Register(context.Background(), RegistrationRequest{Username: "asha"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegistrationFailed))
}

func TestClient_Register_NonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Register(context.Background(), RegistrationRequest{Username: "asha"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegistrationFailed))
}

func TestClient_Login(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signedToken(t, exp)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("Expected path '/auth/login', got %s", r.URL.Path)
		}

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha", body["username"])
		assert.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]string{
			"token":    token,
			"username": "asha",
			"role":     "USER",
			"email":    "asha@example.com",
			"address":  "Pune",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	identity, err := client.Login(context.Background(), "asha", "secret")
	require.NoError(t, err)

	assert.Equal(t, token, identity.Token)
	assert.Equal(t, "USER", identity.Role)
	require.NotNil(t, identity.ExpiresAt)
	assert.True(t, exp.Equal(*identity.ExpiresAt))
}

func TestClient_Login_NoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"username": "asha"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Login(context.Background(), "asha", "secret")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoginFailed))
}

func TestClient_Login_OpaqueToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token": "opaque-session-token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	identity, err := client.Login(context.Background(), "asha", "secret")
	require.NoError(t, err)

	assert.Equal(t, "asha", identity.Username)
	assert.Nil(t, identity.ExpiresAt)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2027, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := TokenExpiry(signedToken(t, exp))
	require.NoError(t, err)
	assert.True(t, exp.Equal(*got))

	_, err = TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestIdentity_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	assert.True(t, (&Identity{ExpiresAt: &past}).Expired(now))
	assert.True(t, (&Identity{ExpiresAt: &now}).Expired(now))
	assert.False(t, (&Identity{ExpiresAt: &future}).Expired(now))
	assert.False(t, (&Identity{}).Expired(now))
}
