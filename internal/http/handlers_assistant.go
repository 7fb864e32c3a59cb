package http

import (
	"log/slog"
	"net/http"

	"finwise/internal/advisor"
)

func (s *Server) handleAssistantPanel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		Greeting     string
		QuickActions []string
	}{
		Greeting:     advisor.Greeting,
		QuickActions: advisor.QuickActions,
	}
	s.render(w, r, "assistant.html", data)
}

func (s *Server) handleAssistantQuery(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	query := sanitizeInput(r.Form.Get("query"))
	if query == "" {
		writeError(w, http.StatusUnprocessableEntity, "Empty question")
		return
	}

	reply, err := s.advisor.AdviseContext(r.Context(), query, s.store.Transactions(), s.store.Goals())
	if err != nil {
		// The client canceled while the assistant was "thinking".
		slog.DebugContext(r.Context(), "Assistant query canceled", "error", err)
		return
	}

	data := struct {
		Query string
		Reply string
	}{Query: query, Reply: reply}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.render(w, r, "assistant_reply.html", data)
}
