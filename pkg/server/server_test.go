package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/SThor/spendform/pkg/config"
	"github.com/SThor/spendform/pkg/geo"
	"github.com/SThor/spendform/pkg/models"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Form: config.FormConfig{
			DefaultCategorySymbol: "❓",
			DefaultSwileAmount:    -25000,
			AutofillDelayMs:       5,
		},
	}
	dataset := models.Dataset{
		Payees: []models.Payee{
			{ID: "p1", Name: "Monoprix"},
			{ID: "p2", Name: "Auchan"},
			{ID: "t1", Name: "Transfer: Savings", Transfer: true},
		},
		Locations: []models.PayeeLocation{
			{PayeeID: "p1", Coordinate: geo.Coordinate{Lat: 48.857, Lng: 2.352}},
		},
		CategoryGroups: []models.CategoryGroup{
			{ID: "g1", Name: "Food", Categories: []models.Category{
				{ID: "c1", Name: "🍕 Dining"},
				{ID: "c2", Name: "Snacks", Deleted: true},
			}},
		},
		PayeeHistory: map[string][]models.PayeeTransaction{
			"p1": {{CategoryID: "c1"}, {CategoryID: "c1"}, {CategoryID: "c2"}},
		},
		GroupTransactions: []models.GroupTransaction{
			{Purpose: "Monoprix", Category: "🛒"},
		},
	}
	s := New(cfg, dataset, nil, log.Default())
	s.setupRoutes()
	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Invalid JSON response for %s %s: %v", method, path, err)
	}
	return rec, payload
}

func TestHandlePayeesGroupsWithPosition(t *testing.T) {
	s := testServer(t)

	rec, payload := doRequest(t, s, http.MethodGet, "/api/payees?lat=48.8566&lng=2.3522", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	groups, ok := payload["groups"].([]any)
	if !ok || len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %v", payload["groups"])
	}
	first := groups[0].(map[string]any)
	if first["label"] != "Closest to you" {
		t.Errorf("Expected the proximity group first, got %v", first["label"])
	}
}

func TestHandlePayeesWithoutPosition(t *testing.T) {
	s := testServer(t)

	_, payload := doRequest(t, s, http.MethodGet, "/api/payees", "")
	groups := payload["groups"].([]any)
	if len(groups) != 2 {
		t.Fatalf("Expected saved + transfers only, got %d groups", len(groups))
	}
	first := groups[0].(map[string]any)
	if first["label"] != "Saved Payees" {
		t.Errorf("Expected saved payees first, got %v", first["label"])
	}
}

func TestHandleCategoriesExcludesDeleted(t *testing.T) {
	s := testServer(t)

	_, payload := doRequest(t, s, http.MethodGet, "/api/categories", "")
	groups := payload["groups"].([]any)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 category group, got %d", len(groups))
	}
	items := groups[0].(map[string]any)["items"].([]any)
	if len(items) != 1 {
		t.Errorf("Deleted category leaked into display: %v", items)
	}
}

func TestHandlePayeeSuggestions(t *testing.T) {
	s := testServer(t)

	_, payload := doRequest(t, s, http.MethodGet, "/api/payees/p1/suggested", "")
	categories := payload["categories"].([]any)
	if len(categories) != 2 {
		t.Fatalf("Expected 2 suggested categories, got %v", categories)
	}
	top := categories[0].(map[string]any)
	if top["value"] != "c1" || top["label"] != "🍕 Dining" {
		t.Errorf("Unexpected top suggestion: %v", top)
	}
}

func TestHandlePayeeSuggestionsFetchesMissingHistory(t *testing.T) {
	s := testServer(t)

	fetches := 0
	s.history = func(payeeID string) ([]models.PayeeTransaction, error) {
		fetches++
		if payeeID != "p2" {
			t.Fatalf("Unexpected history fetch for %q", payeeID)
		}
		return []models.PayeeTransaction{{CategoryID: "c1"}}, nil
	}

	// p2 has no snapshot history, so the fetcher fills in.
	_, payload := doRequest(t, s, http.MethodGet, "/api/payees/p2/suggested", "")
	categories := payload["categories"].([]any)
	if len(categories) != 1 {
		t.Fatalf("Expected 1 suggested category, got %v", categories)
	}
	if categories[0].(map[string]any)["value"] != "c1" {
		t.Errorf("Unexpected suggestion: %v", categories[0])
	}

	// The second request serves from the cache.
	doRequest(t, s, http.MethodGet, "/api/payees/p2/suggested", "")
	if fetches != 1 {
		t.Errorf("Expected a single upstream fetch, got %d", fetches)
	}

	// Snapshot history still wins over the fetcher.
	doRequest(t, s, http.MethodGet, "/api/payees/p1/suggested", "")
	if fetches != 1 {
		t.Errorf("Expected no fetch for a payee the snapshot covers, got %d", fetches)
	}
}

func TestHandleAutofill(t *testing.T) {
	s := testServer(t)

	_, payload := doRequest(t, s, http.MethodGet, "/api/autofill?q=mono", "")
	if payload["found"] != true || payload["category"] != "🛒" {
		t.Errorf("Unexpected autofill payload: %v", payload)
	}

	_, payload = doRequest(t, s, http.MethodGet, "/api/autofill?q=nothing", "")
	if payload["found"] != false {
		t.Errorf("Expected found=false for no match, got %v", payload)
	}
}

func TestHandleFormEvents(t *testing.T) {
	s := testServer(t)

	_, payload := doRequest(t, s, http.MethodPost, "/api/form/sess-1/events",
		`{"type": "set_amount", "amount_milliunits": -12000}`)
	state := payload["state"].(map[string]any)
	if state["amount_milliunits"] != float64(-12000) {
		t.Errorf("Amount was not applied: %v", state)
	}
	sections := payload["sections"].(map[string]any)
	if sections["accounts"] != true {
		t.Errorf("Expected accounts section visible: %v", sections)
	}

	_, payload = doRequest(t, s, http.MethodPost, "/api/form/sess-1/events",
		`{"type": "select_category", "text": "🍕 Dining", "value": "c1", "label": "🍕 Dining"}`)
	state = payload["state"].(map[string]any)
	if state["settleup_category"] != "🍕" {
		t.Errorf("Expected derived SettleUp symbol, got %v", state["settleup_category"])
	}

	// The session keeps its state across requests.
	_, payload = doRequest(t, s, http.MethodGet, "/api/form/sess-1", "")
	state = payload["state"].(map[string]any)
	if state["category_id"] != "c1" {
		t.Errorf("Session state was lost: %v", state)
	}
}

func TestHandleFormUnknownEvent(t *testing.T) {
	s := testServer(t)

	rec, _ := doRequest(t, s, http.MethodPost, "/api/form/sess-2/events", `{"type": "explode"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown event type, got %d", rec.Code)
	}
}

func TestHandleFormSessionsAreIsolated(t *testing.T) {
	s := testServer(t)

	doRequest(t, s, http.MethodPost, "/api/form/sess-a/events", `{"type": "set_amount", "amount_milliunits": -5000}`)
	_, payload := doRequest(t, s, http.MethodGet, "/api/form/sess-b", "")
	state := payload["state"].(map[string]any)
	if state["amount_milliunits"] != float64(0) {
		t.Errorf("Session b saw session a's amount: %v", state)
	}
}
