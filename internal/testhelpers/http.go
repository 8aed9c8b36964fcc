package testhelpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"booking-service/internal/account"
	"booking-service/internal/service"
)

// HTTPClient drives the booking API over HTTP for tests
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	SessionID string
}

// NewHTTPClient creates a client for the booking API at baseURL
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// SearchRequest mirrors the body of POST /search
type SearchRequest struct {
	Form       string  `json:"form"`
	Pickup     string  `json:"pickup"`
	Drop       string  `json:"drop"`
	Date       string  `json:"date"`
	ReturnDate string  `json:"return_date"`
	Time       string  `json:"time"`
	DistanceKm float64 `json:"distance_km"`
}

// StatusError is returned when the API answers with an unexpected status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("booking service returned status %d: %s", e.Code, e.Body)
}

// StartSession creates a session and remembers its id for later calls
func (c *HTTPClient) StartSession() (string, error) {
	var resp map[string]string
	if err := c.do("POST", "/sessions", nil, http.StatusCreated, &resp); err != nil {
		return "", err
	}
	c.SessionID = resp["session_id"]
	return c.SessionID, nil
}

// Search submits a search form
func (c *HTTPClient) Search(req SearchRequest) (*service.SearchResult, error) {
	var result service.SearchResult
	if err := c.do("POST", "/search", req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Offers fetches the current offers of the last search
func (c *HTTPClient) Offers() (*service.SearchResult, error) {
	var result service.SearchResult
	if err := c.do("GET", "/offers", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CloseSearch tears down the results view
func (c *HTTPClient) CloseSearch() error {
	return c.do("DELETE", "/search", nil, http.StatusNoContent, nil)
}

// Book presses "Book Now" on a category
func (c *HTTPClient) Book(category string) (*service.Handoff, error) {
	var handoff service.Handoff
	body := map[string]string{"category": category}
	if err := c.do("POST", "/bookings", body, http.StatusCreated, &handoff); err != nil {
		return nil, err
	}
	return &handoff, nil
}

// Invoice fetches the breakdown. A non-empty path is used as-is, e.g. a handoff's next URL.
func (c *HTTPClient) Invoice(path string) (*service.InvoiceView, error) {
	if path == "" {
		path = "/invoice"
	}
	var view service.InvoiceView
	if err := c.do("GET", path, nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Register signs a user up
func (c *HTTPClient) Register(req account.RegistrationRequest) (*account.Identity, error) {
	var identity account.Identity
	if err := c.do("POST", "/register", req, http.StatusCreated, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Login authenticates a user
func (c *HTTPClient) Login(username, password string) (*account.Identity, error) {
	var identity account.Identity
	body := map[string]string{"username": username, "password": password}
	if err := c.do("POST", "/login", body, http.StatusOK, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout clears the session
func (c *HTTPClient) Logout() error {
	return c.do("POST", "/logout", nil, http.StatusNoContent, nil)
}

func (c *HTTPClient) do(method, path string, in interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.SessionID != "" {
		req.Header.Set("X-Session-ID", c.SessionID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
