package http

import (
	"log/slog"
	"net/http"

	"finwise/internal/finance"
	"finwise/internal/report"
)

// Exports honor the same filter parameters as the transaction list, so the
// download always matches what is on screen.

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	txs := finance.FilterList(s.store.Transactions(), filterFromQuery(r.URL.Query()))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := report.CSV(w, txs); err != nil {
		slog.ErrorContext(r.Context(), "CSV export error", "error", err)
	}
}

func (s *Server) handleExportXLS(w http.ResponseWriter, r *http.Request) {
	txs := finance.FilterList(s.store.Transactions(), filterFromQuery(r.URL.Query()))

	w.Header().Set("Content-Type", "application/vnd.ms-excel")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xls"`)
	if err := report.SpreadsheetML(w, txs); err != nil {
		slog.ErrorContext(r.Context(), "Workbook export error", "error", err)
	}
}

func (s *Server) handleExportStatement(w http.ResponseWriter, r *http.Request) {
	txs := finance.FilterList(s.store.Transactions(), filterFromQuery(r.URL.Query()))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.txt"`)
	if err := report.Statement(w, txs); err != nil {
		slog.ErrorContext(r.Context(), "Statement export error", "error", err)
	}
}
