package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"finwise/internal/core"
	"finwise/internal/finance"
	"finwise/internal/store"
)

type goalRow struct {
	ID            string
	Name          string
	Category      string
	Target        string
	Current       string
	Remaining     string
	Deadline      string
	ProgressPct   string
	Width         int
	DaysRemaining int
	MonthlyPace   string
	Funded        bool
}

type goalListView struct {
	Rows       []goalRow
	Progress   string
	Categories []string
	Today      string
}

func (s *Server) handleGoalList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	goals := s.store.Goals()
	now := s.now()

	view := goalListView{
		Progress:   fmt.Sprintf("%.1f%%", finance.GoalsProgress(goals)),
		Categories: core.GoalCategories,
		Today:      now.Format("2006-01-02"),
	}
	for _, g := range goals {
		p := finance.GoalPacing(g, now)
		width := int(p.ProgressPct)
		if width > 100 {
			width = 100
		}
		view.Rows = append(view.Rows, goalRow{
			ID:            g.ID,
			Name:          g.Name,
			Category:      g.Category,
			Target:        g.TargetAmount.Format(),
			Current:       g.CurrentAmount.Format(),
			Remaining:     p.Remaining.Format(),
			Deadline:      g.Deadline.Format("01/02/2006"),
			ProgressPct:   fmt.Sprintf("%.0f%%", p.ProgressPct),
			Width:         width,
			DaysRemaining: p.DaysRemaining,
			MonthlyPace:   p.RequiredMonthlyPace.Format(),
			Funded:        p.Remaining.Cents <= 0,
		})
	}
	s.render(w, r, "goals.html", view)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("targetAmount")))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid target amount")
		return
	}

	deadline, err := parseFormDate(r.Form.Get("deadline"), s.now())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid deadline")
		return
	}

	goal := core.Goal{
		Name:         sanitizeInput(r.Form.Get("name")),
		TargetAmount: core.Money{Cents: cents},
		Deadline:     deadline,
		Category:     sanitizeInput(r.Form.Get("category")),
	}

	created, err := s.store.AddGoal(r.Context(), goal)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid data: "+err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Goal create error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save goal")
		return
	}

	w.Header().Set("HX-Trigger", "records:changed")
	writeSuccess(w, "Goal created: "+created.Name+" ("+created.TargetAmount.Format()+")")
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	goalID := strings.TrimSpace(r.Form.Get("id"))
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid contribution amount")
		return
	}

	updated, err := s.store.Contribute(r.Context(), goalID, core.Money{Cents: cents})
	switch {
	case errors.Is(err, store.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "Invalid contribution amount")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Goal contribution error", "error", err, "id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to record contribution")
		return
	}

	w.Header().Set("HX-Trigger", "records:changed")
	writeSuccess(w, "Added to "+updated.Name+", now at "+updated.CurrentAmount.Format())
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeError(w, http.StatusUnprocessableEntity, "Missing goal id")
		return
	}
	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Goal delete error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	w.Header().Set("HX-Trigger", "records:changed")
	w.WriteHeader(http.StatusOK)
}
