package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"finwise/internal/advisor"
	"finwise/internal/extract"
	"finwise/internal/storage"
	"finwise/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.Open(context.Background(), storage.NewMemory())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := NewServer(":0", st, advisor.New(0), extract.NewSimulated(0), 5*time.Minute)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := get(srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "FinWise") {
		t.Fatal("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := get(srv, path); rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	if rr := get(srv, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status=%d, want 404", rr.Code)
	}
}

func TestCreateTransactionValidationAndSuccess(t *testing.T) {
	srv := newTestServer(t)

	// Wrong method
	if rr := get(srv, "/transactions"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr := postForm(srv, "/transactions", url.Values{
		"amount": {"abc"}, "description": {"x"}, "category": {"Shopping"}, "kind": {"expense"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Missing description
	rr = postForm(srv, "/transactions", url.Values{
		"amount": {"1.23"}, "description": {""}, "category": {"Shopping"}, "kind": {"expense"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Success
	rr = postForm(srv, "/transactions", url.Values{
		"amount": {"45.50"}, "description": {"Groceries"}, "category": {"Groceries"},
		"kind": {"expense"}, "date": {"2025-10-03"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success fragment: %s", rr.Body.String())
	}
	if rr.Header().Get("HX-Trigger") != "records:changed" {
		t.Fatal("missing HX-Trigger header")
	}

	if got := len(srv.store.Transactions()); got != 1 {
		t.Fatalf("stored %d transactions, want 1", got)
	}
}

func TestDashboardReflectsMutations(t *testing.T) {
	srv := newTestServer(t)

	rr := get(srv, "/ui/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "$0.00") {
		t.Fatalf("empty dashboard should show zero totals: %s", rr.Body.String())
	}

	postForm(srv, "/transactions", url.Values{
		"amount": {"1000.00"}, "description": {"Salary"}, "category": {"Other"}, "kind": {"income"},
	})

	// The cached view must have been invalidated by the mutation.
	rr = get(srv, "/ui/dashboard")
	if !strings.Contains(rr.Body.String(), "$1000.00") {
		t.Fatalf("dashboard missing new income: %s", rr.Body.String())
	}
}

func TestTransactionListFiltering(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/transactions", url.Values{
		"amount": {"45.50"}, "description": {"Groceries run"}, "category": {"Groceries"}, "kind": {"expense"},
	})
	postForm(srv, "/transactions", url.Values{
		"amount": {"12.00"}, "description": {"Cinema"}, "category": {"Entertainment"}, "kind": {"expense"},
	})

	rr := get(srv, "/ui/transactions?q=cinema")
	body := rr.Body.String()
	if !strings.Contains(body, "Cinema") || strings.Contains(body, "Groceries run") {
		t.Fatalf("filter not applied: %s", body)
	}

	rr = get(srv, "/ui/transactions?category=Groceries")
	body = rr.Body.String()
	if !strings.Contains(body, "Groceries run") || strings.Contains(body, "Cinema") {
		t.Fatalf("category filter not applied: %s", body)
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/goals", url.Values{
		"name": {"Vacation"}, "targetAmount": {"1000.00"},
		"deadline": {"2026-06-01"}, "category": {"Vacation"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create goal status=%d: %s", rr.Code, rr.Body.String())
	}

	goals := srv.store.Goals()
	if len(goals) != 1 {
		t.Fatalf("stored %d goals", len(goals))
	}

	rr = postForm(srv, "/goals/contribute", url.Values{
		"id": {goals[0].ID}, "amount": {"250.00"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("contribute status=%d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "$250.00") {
		t.Fatalf("contribution response missing balance: %s", rr.Body.String())
	}

	rr = postForm(srv, "/goals/contribute", url.Values{
		"id": {"missing"}, "amount": {"10.00"},
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown goal status=%d, want 404", rr.Code)
	}

	rr = get(srv, "/ui/goals")
	if !strings.Contains(rr.Body.String(), "Vacation") {
		t.Fatalf("goal list missing goal: %s", rr.Body.String())
	}
}

func TestAssistantQuery(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/assistant", url.Values{"query": {"give me an overview"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("assistant status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Financial Overview") {
		t.Fatalf("unexpected assistant reply: %s", rr.Body.String())
	}

	rr = postForm(srv, "/assistant", url.Values{"query": {""}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty query status=%d, want 422", rr.Code)
	}
}

func TestScanReturnsPrefilledForm(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("receipt", "receipt.jpg")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("fake image bytes"))
	_ = mw.Close()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("scan status=%d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Receipt from") {
		t.Fatalf("scan response missing extracted description: %s", rr.Body.String())
	}

	// No file uploaded
	rr = postForm(srv, "/scan", url.Values{})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing file status=%d, want 422", rr.Code)
	}
}

func TestExports(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/transactions", url.Values{
		"amount": {"45.50"}, "description": {"Groceries"}, "category": {"Groceries"},
		"kind": {"expense"}, "date": {"2025-10-03"},
	})

	rr := get(srv, "/export/csv")
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("csv content type = %q", got)
	}
	if !strings.Contains(rr.Body.String(), "Date,Description,Category,Type,Amount,Running Total") {
		t.Fatalf("csv missing header: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "-45.50") {
		t.Fatalf("csv missing signed amount: %s", rr.Body.String())
	}

	rr = get(srv, "/export/xls")
	if !strings.Contains(rr.Body.String(), "Workbook") {
		t.Fatalf("xls export missing workbook element: %s", rr.Body.String())
	}

	rr = get(srv, "/export/statement")
	if !strings.Contains(rr.Body.String(), "Running Total") {
		t.Fatalf("statement missing columns: %s", rr.Body.String())
	}

	// Filters narrow the export
	rr = get(srv, "/export/csv?kind=income")
	if strings.Contains(rr.Body.String(), "Groceries") {
		t.Fatalf("filtered export should exclude expenses: %s", rr.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rr := get(srv, "/ui/dashboard")
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing X-Content-Type-Options")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatal("missing X-Frame-Options")
	}
}
