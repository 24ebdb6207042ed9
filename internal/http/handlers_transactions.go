package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lupa/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var t core.TransactionType
	if v := r.URL.Query().Get("type"); v != "" {
		parsed, err := core.ParseTransactionType(v)
		if err != nil {
			writeError(w, r, core.Invalid("type", err))
			return
		}
		t = parsed
	}
	txs, err := s.ledger.ListTransactions(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(txs).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.GetTransaction(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(tx).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := transactionInput(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.ledger.SaveTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(tx).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := transactionPatch(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.ledger.UpdateTransaction(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(tx).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func transactionInput(p *RequestBodyParser) (core.TransactionInput, error) {
	t, err := core.ParseTransactionType(p.Get("type"))
	if err != nil {
		return core.TransactionInput{}, core.Invalid("type", err)
	}
	amount, ok, err := p.Money("amount")
	if err != nil {
		return core.TransactionInput{}, err
	}
	if !ok {
		return core.TransactionInput{}, core.Invalid("amount", core.ErrInvalidAmount)
	}
	date, _, err := p.Date("date")
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Type:          t,
		Amount:        amount,
		Description:   p.Get("description"),
		Category:      p.Get("category"),
		PaymentMethod: p.Get("payment_method"),
		Date:          date,
		Notes:         p.Get("notes"),
	}, nil
}

func transactionPatch(p *RequestBodyParser) (core.TransactionPatch, error) {
	var patch core.TransactionPatch
	if p.Has("type") {
		t, err := core.ParseTransactionType(p.Get("type"))
		if err != nil {
			return patch, core.Invalid("type", err)
		}
		patch.Type = &t
	}
	if amount, ok, err := p.Money("amount"); err != nil {
		return patch, err
	} else if ok {
		patch.Amount = &amount
	}
	if p.Has("date") {
		d, err := core.ParseDate(p.Get("date"))
		if err != nil {
			return patch, core.Invalid("date", err)
		}
		patch.Date = &d
	}
	patch.Description = optionalString(p, "description")
	patch.Category = optionalString(p, "category")
	patch.PaymentMethod = optionalString(p, "payment_method")
	patch.Notes = optionalString(p, "notes")
	return patch, nil
}

func optionalString(p *RequestBodyParser, key string) *string {
	if v, ok := p.String(key); ok {
		return &v
	}
	return nil
}
