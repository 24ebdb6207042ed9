package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lupa/internal/core"
)

func (s *Server) handleListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := s.ledger.ListPaymentMethods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(methods).Write(w)
}

func (s *Server) handleCreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	fee, _, err := p.Fee()
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := s.ledger.SavePaymentMethod(r.Context(), core.PaymentMethodInput{Name: p.Get("name"), Fee: fee})
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(m).Write(w)
}

func (s *Server) handleUpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch core.PaymentMethodPatch
	patch.Name = optionalString(p, "name")
	fee, ok, err := p.Fee()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ok {
		patch.Fee = &fee
	}
	m, err := s.ledger.UpdatePaymentMethod(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(m).Write(w)
}

func (s *Server) handleDeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeletePaymentMethod(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
