package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"booking-service/internal/account"
	"booking-service/internal/fare"
	"booking-service/internal/service"
	"booking-service/internal/storage"
	"booking-service/internal/ui"

	"github.com/gorilla/mux"
)

// SessionHeader carries the session id on every session-scoped request
const SessionHeader = "X-Session-ID"

// HTTPHandler handles HTTP requests for the booking service
type HTTPHandler struct {
	search    *service.SearchService
	booking   *service.BookingService
	accounts  *service.AccountService
	refresher *service.PriceRefresher
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(search *service.SearchService, booking *service.BookingService, accounts *service.AccountService, refresher *service.PriceRefresher) *HTTPHandler {
	return &HTTPHandler{
		search:    search,
		booking:   booking,
		accounts:  accounts,
		refresher: refresher,
	}
}

// RegisterRoutes sets up HTTP routes
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	router.HandleFunc("/search", h.Search).Methods("POST")
	router.HandleFunc("/search", h.SearchFromQuery).Methods("GET")
	router.HandleFunc("/search", h.CloseSearch).Methods("DELETE")
	router.HandleFunc("/offers", h.GetOffers).Methods("GET")
	router.HandleFunc("/bookings", h.Book).Methods("POST")
	router.HandleFunc("/invoice", h.GetInvoice).Methods("GET")
	router.HandleFunc("/register", h.Register).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")
	router.HandleFunc("/logout", h.Logout).Methods("POST")
	router.HandleFunc("/me", h.CurrentUser).Methods("GET")
	router.HandleFunc("/stats", h.GetStats).Methods("GET")
}

// Health returns service health status
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// CreateSession starts a new visitor session
func (h *HTTPHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.search.CreateSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID})
}

// SearchRequest is a submitted search form
type SearchRequest struct {
	Form       string  `json:"form"` // one-way, round-trip, rental, airport-pickup, airport-drop, local
	Pickup     string  `json:"pickup"`
	Drop       string  `json:"drop"`
	Date       string  `json:"date"`
	ReturnDate string  `json:"return_date"`
	Time       string  `json:"time"`
	DistanceKm float64 `json:"distance_km"`
}

// Search prices a submitted search form and starts refreshing its prices
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	h.runSearch(w, r, req)
}

// SearchFromQuery prices a search carried in results-page URL parameters
func (h *HTTPHandler) SearchFromQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	form := q.Get("form")
	if form == "" {
		// results links carry the trip type rather than the tab
		form = formForTripType(q.Get("tripType"))
	}

	// ParseFloat accepts "NaN" and "Inf"; neither is a distance
	distanceKm, err := strconv.ParseFloat(q.Get("distance"), 64)
	if err != nil {
		distanceKm = 0
	}
	distanceKm = fare.NormalizeDistance(distanceKm)

	h.runSearch(w, r, SearchRequest{
		Form:       form,
		Pickup:     q.Get("pickup"),
		Drop:       q.Get("drop"),
		Date:       q.Get("date"),
		ReturnDate: q.Get("returnDate"),
		Time:       q.Get("time"),
		DistanceKm: distanceKm,
	})
}

func (h *HTTPHandler) runSearch(w http.ResponseWriter, r *http.Request, req SearchRequest) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	kind, err := ui.ParseFormKind(req.Form)
	if err != nil {
		writeError(w, err)
		return
	}

	route, err := kind.Route(ui.SearchForm{
		Pickup:     req.Pickup,
		Drop:       req.Drop,
		Date:       req.Date,
		ReturnDate: req.ReturnDate,
		Time:       req.Time,
		DistanceKm: req.DistanceKm,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.search.Search(r.Context(), sessionID, route)
	if err != nil {
		writeError(w, err)
		return
	}

	h.refresher.Watch(sessionID)
	writeJSON(w, http.StatusOK, result)
}

// CloseSearch stops refreshing prices for a closed results view
func (h *HTTPHandler) CloseSearch(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	h.refresher.Unwatch(sessionID)
	h.search.Forget(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// GetOffers returns the current offers for the session's search
func (h *HTTPHandler) GetOffers(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := h.search.Offers(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// BookRequest is a "Book Now" press
type BookRequest struct {
	Category string `json:"category"`
}

// Book hands the chosen offer over to the invoice view
func (h *HTTPHandler) Book(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	category, ok := fare.ParseCategory(req.Category)
	if !ok {
		http.Error(w, "Invalid category", http.StatusBadRequest)
		return
	}

	handoff, err := h.booking.Book(r.Context(), sessionID, category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, handoff)
}

// GetInvoice returns the fare breakdown of the selected offer
func (h *HTTPHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	view, err := h.booking.Invoice(r.Context(), r.Header.Get(SessionHeader), r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Register signs a user up
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req account.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	identity, err := h.accounts.Register(r.Context(), sessionID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, identity)
}

// LoginRequest carries user credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a user
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	identity, err := h.accounts.Login(r.Context(), sessionID, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

// CurrentUser returns the logged-in identity of the session
func (h *HTTPHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	identity, err := h.accounts.CurrentUser(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

// Logout clears the session
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Logout(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CounterView is one statistic for the count-up strip
type CounterView struct {
	Label  string `json:"label"`
	Target int    `json:"target"`
	State  string `json:"state"`
	Frames []int  `json:"frames"`
}

const statsFrames = 20

var siteStats = []struct {
	label  string
	target int
}{
	{"Happy Customers", 25000},
	{"Cities Covered", 150},
	{"Cars Available", 500},
	{"Trips Completed", 100000},
}

// GetStats returns the statistics strip with precomputed count-up frames
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	views := make([]CounterView, 0, len(siteStats))
	for _, stat := range siteStats {
		counter := ui.NewCounter(stat.label, stat.target, 2*time.Second)
		views = append(views, CounterView{
			Label:  counter.Label,
			Target: counter.Target,
			State:  counter.State().String(),
			Frames: counter.Frames(statsFrames),
		})
	}

	writeJSON(w, http.StatusOK, views)
}

func formForTripType(tripType string) string {
	t, _ := fare.ParseTripType(tripType)
	switch t {
	case fare.RoundTrip:
		return ui.FormRoundTrip.String()
	case fare.RentalTrip:
		return ui.FormRental.String()
	default:
		return ui.FormOneWay.String()
	}
}

func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		http.Error(w, "Missing "+SessionHeader+" header", http.StatusBadRequest)
		return "", false
	}
	return sessionID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, ui.ErrInvalidForm):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrDistanceUnknown):
		http.Error(w, "Route distance is unknown. Please search again.", http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrUnknownCategory):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNoSearch), errors.Is(err, service.ErrNoBooking):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, account.ErrRegistrationFailed):
		http.Error(w, "Registration failed. Please try again.", http.StatusBadGateway)
	case errors.Is(err, account.ErrNotLoggedIn):
		http.Error(w, "Not logged in", http.StatusUnauthorized)
	case errors.Is(err, account.ErrLoginFailed):
		http.Error(w, "Login failed. Check your username and password.", http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
