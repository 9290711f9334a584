package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/SThor/spendform/pkg/config"
	"github.com/SThor/spendform/pkg/form"
	"github.com/SThor/spendform/pkg/geo"
	"github.com/SThor/spendform/pkg/models"
	"github.com/SThor/spendform/pkg/suggest"
)

// HistoryFunc lazily fetches one payee's transaction history when the
// dataset snapshot carries none for it.
type HistoryFunc func(payeeID string) ([]models.PayeeTransaction, error)

// Server exposes the suggestion engine and per-session form state over a
// JSON API. The dataset snapshot is immutable; only the session form states
// and the lazily fetched payee histories mutate.
type Server struct {
	config       *config.Config
	logger       *log.Logger
	mux          *http.ServeMux
	dataset      models.Dataset
	history      HistoryFunc
	historyCache sync.Map
	sessions     sync.Map
}

// New creates a new HTTP server over a dataset snapshot. history may be nil
// when the snapshot already carries all payee histories, as fixtures do.
func New(cfg *config.Config, dataset models.Dataset, history HistoryFunc, logger *log.Logger) *Server {
	return &Server{
		config:  cfg,
		logger:  logger,
		mux:     http.NewServeMux(),
		dataset: dataset,
		history: history,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/payees", s.withLogging(s.handlePayees))
	s.mux.HandleFunc("/api/payees/", s.withLogging(s.handlePayeeSuggestions))
	s.mux.HandleFunc("/api/categories", s.withLogging(s.handleCategories))
	s.mux.HandleFunc("/api/autofill", s.withLogging(s.handleAutofill))
	s.mux.HandleFunc("/api/form/", s.withLogging(s.handleForm))
}

// handlePayees returns the grouped payee suggestions, proximity-ranked when
// the request carries the user position.
func (s *Server) handlePayees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	position := parsePosition(r)
	groups := suggest.GroupForAutocomplete(s.dataset.Payees, s.dataset.Locations, position)

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"groups": groups,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handlePayeeSuggestions returns the top categories a payee's history
// suggests, resolved to labels via the flat category lookup.
func (s *Server) handlePayeeSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/payees/")
	payeeID := strings.TrimSuffix(rest, "/suggested")
	if payeeID == "" || payeeID == rest {
		s.respondError(w, r, http.StatusBadRequest, "payee id required", nil)
		return
	}

	flat, _ := suggest.Flatten(s.dataset.CategoryGroups)
	labels := make(map[string]string, len(flat))
	for _, cat := range flat {
		labels[cat.ID] = cat.Name
	}

	items := make([]models.SuggestionItem, 0, 3)
	for _, categoryID := range suggest.ByPayeeHistory(s.payeeHistory(payeeID)) {
		items = append(items, models.SuggestionItem{Value: categoryID, Label: labels[categoryID]})
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"categories": items,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	_, grouped := suggest.Flatten(s.dataset.CategoryGroups)
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"groups": grouped,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleAutofill resolves the most common SettleUp category for a free-text
// query. No match is a success with found=false, never an error.
func (s *Server) handleAutofill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	query := r.URL.Query().Get("q")
	mode := suggest.MatchMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = suggest.MatchContains
	}

	category, found := suggest.MostCommonCategory(s.dataset.GroupTransactions, query, mode)
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"category": category,
		"found":    found,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// eventRequest is one form transition posted by the UI.
type eventRequest struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Value  string `json:"value"`
	Label  string `json:"label"`
	Name   string `json:"name"`
	Amount int64  `json:"amount_milliunits"`
}

// handleForm serves GET /api/form/{session} and POST /api/form/{session}/events.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/form/")
	sessionID := strings.TrimSuffix(rest, "/events")
	if sessionID == "" {
		s.respondError(w, r, http.StatusBadRequest, "session id required", nil)
		return
	}

	controller := s.session(sessionID)

	switch {
	case r.Method == http.MethodGet && sessionID == rest:
		s.respondState(w, controller.State())
	case r.Method == http.MethodPost && sessionID != rest:
		var event eventRequest
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid event body", err)
			return
		}
		state, err := s.applyEvent(controller, event)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.respondState(w, state)
	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

func (s *Server) applyEvent(controller *form.Controller, event eventRequest) (form.State, error) {
	item := &models.SuggestionItem{Value: event.Value, Label: event.Label}
	if event.Value == "" {
		item = nil
	}

	switch event.Type {
	case "select_payee":
		return controller.SelectPayee(event.Text, item), nil
	case "select_category":
		return controller.SelectCategory(event.Text, item), nil
	case "set_amount":
		return controller.SetAmount(event.Amount), nil
	case "set_swile_amount":
		return controller.SetSwileAmount(event.Amount), nil
	case "set_settleup_category":
		return controller.SetSettleUpCategory(event.Text), nil
	case "toggle_target":
		return controller.ToggleTarget(event.Name), nil
	case "toggle_account":
		return controller.ToggleAccount(event.Name), nil
	default:
		return form.State{}, fmt.Errorf("unknown event type %q", event.Type)
	}
}

// payeeHistory resolves a payee's transaction history: the snapshot first,
// then the lazy-fetch cache, then one fetch whose result is cached. A failed
// fetch degrades to no suggestions rather than an error response.
func (s *Server) payeeHistory(payeeID string) []models.PayeeTransaction {
	if history, ok := s.dataset.PayeeHistory[payeeID]; ok {
		return history
	}
	if cached, ok := s.historyCache.Load(payeeID); ok {
		return cached.([]models.PayeeTransaction)
	}
	if s.history == nil {
		return nil
	}

	history, err := s.history(payeeID)
	if err != nil {
		s.logger.Warn("failed to fetch payee history", "payee", payeeID, "err", err)
		return nil
	}
	cached, _ := s.historyCache.LoadOrStore(payeeID, history)
	return cached.([]models.PayeeTransaction)
}

// session returns the controller for a session id, creating it on first use.
func (s *Server) session(id string) *form.Controller {
	if value, ok := s.sessions.Load(id); ok {
		return value.(*form.Controller)
	}

	controller := form.NewController(s.logger, form.Defaults{
		CategorySymbol:   s.config.Form.DefaultCategorySymbol,
		SwileAmountMilli: s.config.Form.DefaultSwileAmount,
	}, s.dataset.GroupTransactions, s.config.Form.AutofillDelay())

	actual, _ := s.sessions.LoadOrStore(id, controller)
	return actual.(*form.Controller)
}

func (s *Server) respondState(w http.ResponseWriter, state form.State) {
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"state":    state,
		"sections": state.Sections(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func parsePosition(r *http.Request) *geo.Coordinate {
	coord, ok := geo.Parse(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))
	if !ok {
		return nil
	}
	return &coord
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
