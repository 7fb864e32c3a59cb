package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"finwise/internal/core"
	"finwise/internal/finance"
)

type transactionListView struct {
	Rows       []txRow
	Count      int
	Query      string
	Category   string
	Kind       string
	Categories []string
	Methods    []string
	Today      string
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	filter := filterFromQuery(r.URL.Query())
	rows := finance.FilterList(s.store.Transactions(), filter)

	view := transactionListView{
		Count:      len(rows),
		Query:      filter.Search,
		Category:   filter.Category,
		Kind:       string(filter.Kind),
		Categories: core.TransactionCategories,
		Methods:    core.PaymentMethods,
		Today:      s.now().Format("2006-01-02"),
	}
	for _, t := range rows {
		view.Rows = append(view.Rows, transactionRow(t))
	}
	s.render(w, r, "transactions.html", view)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}

	date, err := parseFormDate(r.Form.Get("date"), s.now())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid date")
		return
	}

	tx := core.Transaction{
		Amount:        core.Money{Cents: cents},
		Category:      sanitizeInput(r.Form.Get("category")),
		Description:   sanitizeInput(r.Form.Get("description")),
		Date:          date,
		Kind:          core.Kind(strings.TrimSpace(r.Form.Get("kind"))),
		PaymentMethod: sanitizeInput(r.Form.Get("paymentMethod")),
	}

	created, err := s.store.AddTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid data: "+err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "records:changed")
	writeSuccess(w, "Recorded "+created.Description+" ("+created.Amount.Format()+")")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeError(w, http.StatusUnprocessableEntity, "Missing transaction id")
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "records:changed")
	w.WriteHeader(http.StatusOK)
}

// handleScan runs the receipt extractor over an uploaded image and returns a
// pre-filled expense form for review.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var receipt []byte
	if err := r.ParseMultipartForm(10 << 20); err == nil {
		if file, _, err := r.FormFile("receipt"); err == nil {
			receipt, _ = io.ReadAll(file)
			_ = file.Close()
		}
	}
	if len(receipt) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "No receipt image uploaded")
		return
	}

	result, err := s.extractor.Extract(r.Context(), receipt)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		slog.ErrorContext(r.Context(), "Receipt extraction error", "error", err)
		writeError(w, http.StatusInternalServerError, "Receipt scan failed")
		return
	}

	data := struct {
		Amount      string
		Category    string
		Description string
		Date        string
		Categories  []string
	}{
		Amount:      result.Amount.String(),
		Category:    result.Category,
		Description: result.Description,
		Date:        s.now().Format("2006-01-02"),
		Categories:  core.TransactionCategories,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.render(w, r, "scan_result.html", data)
}

// isValidationError distinguishes bad input from storage failures.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidKind,
		core.ErrEmptyDescription,
		core.ErrEmptyCategory,
		core.ErrEmptyName,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return strings.Contains(err.Error(), "too long")
}
