package http

import (
	"log/slog"
	"net/http"
)

const (
	dashboardCacheKey = "dashboard"
	reportsCacheKey   = "reports"
)

// render executes a template, falling back to an inline error fragment so a
// partial never comes back empty.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", name)
		_, _ = w.Write([]byte(`<div class="error">Rendering failed</div>`))
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	view, ok := s.dashCache.Get(dashboardCacheKey)
	if !ok {
		view = s.buildDashboard(s.now())
		s.dashCache.Set(dashboardCacheKey, view)
	} else {
		slog.DebugContext(r.Context(), "Dashboard cache hit")
	}
	s.render(w, r, "dashboard.html", view)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	view, ok := s.reportsCache.Get(reportsCacheKey)
	if !ok {
		view = s.buildReports(s.now())
		s.reportsCache.Set(reportsCacheKey, view)
	} else {
		slog.DebugContext(r.Context(), "Reports cache hit")
	}
	s.render(w, r, "reports.html", view)
}
