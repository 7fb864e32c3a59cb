package http

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finwise/internal/core"
	"finwise/internal/finance"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// filterFromQuery reads the shared list-filter parameters. The same filter
// drives the transaction list and every export.
func filterFromQuery(values url.Values) finance.ListFilter {
	f := finance.ListFilter{
		Search:   sanitizeInput(values.Get("q")),
		Category: sanitizeInput(values.Get("category")),
	}
	switch values.Get("kind") {
	case "income":
		f.Kind = core.Income
	case "expense":
		f.Kind = core.Expense
	}
	return f
}

// parseFormDate reads an HTML date input, defaulting to today when empty.
func parseFormDate(value string, now time.Time) (core.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return core.DateOf(now), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return core.DateOf(t), nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeSuccess(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}
