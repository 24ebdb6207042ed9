package http

import (
	"net/http"

	"lupa/internal/core"
)

type categoriesResponse struct {
	Type       core.TransactionType `json:"type"`
	Categories []string             `json:"categories"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(snap.Dashboard).Write(w)
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(snap.Monthly).Write(w)
}

func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(snap.Daily).Write(w)
}

// handleFeePreview never fails on a half-typed amount; it previews zero.
func (s *Server) handleFeePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	preview, err := s.dashboard.FeePreview(r.Context(), q.Get("amount"), q.Get("payment_method"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(preview).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	t, err := core.ParseTransactionType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, core.Invalid("type", err))
		return
	}
	NewJSONResponse().Body(categoriesResponse{Type: t, Categories: core.CategoriesFor(t)}).Write(w)
}
