// Package http serves the tracker UI: one index shell plus htmx partials for
// each tab, mutation endpoints, the assistant, the receipt scanner and the
// export downloads.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finwise/internal/advisor"
	"finwise/internal/cache"
	"finwise/internal/extract"
	"finwise/internal/store"
	appweb "finwise/web"
)

type Server struct {
	http.Server
	templates *template.Template
	store     *store.Store
	advisor   *advisor.Advisor
	extractor extract.Extractor

	rateLimiter *rateLimiter

	// Cached view models, purged on every mutation.
	dashCache    *cache.LRU[dashboardView]
	reportsCache *cache.LRU[reportsView]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once

	now func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, st *store.Store, adv *advisor.Advisor, ext extract.Extractor, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            st,
		advisor:          adv,
		extractor:        ext,
		rateLimiter:      newRateLimiter(),
		dashCache:        cache.NewLRU[dashboardView](8, cacheTTL),
		reportsCache:     cache.NewLRU[reportsView](8, cacheTTL),
		stopCacheCleanup: make(chan struct{}),
		now:              time.Now,
	}

	go s.startCacheCleanup()

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// Tab partials
	mux.HandleFunc("/ui/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/ui/transactions", s.withSecurityHeaders(s.handleTransactionList))
	mux.HandleFunc("/ui/reports", s.withSecurityHeaders(s.handleReports))
	mux.HandleFunc("/ui/goals", s.withSecurityHeaders(s.handleGoalList))
	mux.HandleFunc("/ui/assistant", s.withSecurityHeaders(s.handleAssistantPanel))

	// Mutations
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("/transactions/delete", s.withSecurityHeaders(s.handleDeleteTransaction))
	mux.HandleFunc("/goals", s.withSecurityHeaders(s.handleCreateGoal))
	mux.HandleFunc("/goals/contribute", s.withSecurityHeaders(s.handleContribute))
	mux.HandleFunc("/goals/delete", s.withSecurityHeaders(s.handleDeleteGoal))

	// Assistant and receipt scan
	mux.HandleFunc("/assistant", s.withSecurityHeaders(s.handleAssistantQuery))
	mux.HandleFunc("/scan", s.withSecurityHeaders(s.handleScan))

	// Exports
	mux.HandleFunc("/export/csv", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("/export/xls", s.withSecurityHeaders(s.handleExportXLS))
	mux.HandleFunc("/export/statement", s.withSecurityHeaders(s.handleExportStatement))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			dashCleaned := s.dashCache.CleanExpired()
			reportsCleaned := s.reportsCache.CleanExpired()
			if dashCleaned > 0 || reportsCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"dashboard_entries_removed", dashCleaned,
					"reports_entries_removed", reportsCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// invalidateViews drops every cached view model. Called after any mutation.
func (s *Server) invalidateViews() {
	s.dashCache.Purge()
	s.reportsCache.Purge()
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today string
	}{
		Today: s.now().Format("2006-01-02"),
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
