package http

import (
	"errors"
	"net/http"

	"lupa/internal/core"
)

var errResetNotConfirmed = errors.New("add confirm=true to remove all data")

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.ledger.ListCustomers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(customers).Write(w)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, _, err := p.OptionalMoney("credit_limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.ledger.SaveCustomer(r.Context(), core.CustomerInput{
		Name:        p.Get("name"),
		Phone:       p.Get("phone"),
		Email:       p.Get("email"),
		Address:     p.Get("address"),
		Document:    p.Get("document"),
		CreditLimit: limit,
		Notes:       p.Get("notes"),
		Tags:        p.Strings("tags"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(c).Write(w)
}

// handleResetData wipes every collection. It needs ?confirm=true.
func (s *Server) handleResetData(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, r, core.Invalid("confirm", errResetNotConfirmed))
		return
	}
	if err := s.ledger.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
