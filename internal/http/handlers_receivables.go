package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lupa/internal/core"
)

func (s *Server) handleListReceivables(w http.ResponseWriter, r *http.Request) {
	status := core.ReceivableStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, r, core.Invalid("status", core.ErrInvalidStatus))
		return
	}
	recs, err := s.ledger.ListReceivables(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(recs).Write(w)
}

func (s *Server) handleGetReceivable(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ledger.GetReceivable(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(rec).Write(w)
}

func (s *Server) handleReceivableSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(snap.Receivables).Write(w)
}

func (s *Server) handleCreateReceivable(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := receivableInput(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.ledger.SaveReceivable(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(rec).Write(w)
}

func (s *Server) handleUpdateReceivable(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := receivablePatch(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.ledger.UpdateReceivable(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(rec).Write(w)
}

func (s *Server) handleAddReceivablePayment(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	amount, ok, err := p.Money("amount")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, core.Invalid("amount", core.ErrInvalidAmount))
		return
	}
	date, _, err := p.Date("payment_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.ledger.AddReceivablePayment(r.Context(), mux.Vars(r)["id"], core.PaymentInput{
		Amount:        amount,
		PaymentMethod: p.Get("payment_method"),
		PaymentDate:   date,
		Notes:         p.Get("notes"),
		ReceiptNumber: p.Get("receipt_number"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(rec).Write(w)
}

func (s *Server) handleDeleteReceivable(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteReceivable(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func receivableInput(p *RequestBodyParser) (core.ReceivableInput, error) {
	original, ok, err := p.Money("original_amount")
	if err != nil {
		return core.ReceivableInput{}, err
	}
	if !ok {
		return core.ReceivableInput{}, core.Invalid("original_amount", core.ErrInvalidAmount)
	}
	lateFee, _, err := p.OptionalMoney("late_fee")
	if err != nil {
		return core.ReceivableInput{}, err
	}
	rate, _, err := p.Percent("interest_rate")
	if err != nil {
		return core.ReceivableInput{}, err
	}
	issue, _, err := p.Date("issue_date")
	if err != nil {
		return core.ReceivableInput{}, err
	}
	due, _, err := p.Date("due_date")
	if err != nil {
		return core.ReceivableInput{}, err
	}
	return core.ReceivableInput{
		CustomerName:     p.Get("customer_name"),
		CustomerPhone:    p.Get("customer_phone"),
		CustomerEmail:    p.Get("customer_email"),
		CustomerDocument: p.Get("customer_document"),
		Type:             core.ReceivableType(p.Get("type")),
		Description:      p.Get("description"),
		ReferenceNumber:  p.Get("reference_number"),
		OriginalAmount:   original,
		InterestRate:     rate,
		LateFee:          lateFee,
		IssueDate:        issue,
		DueDate:          due,
		Notes:            p.Get("notes"),
	}, nil
}

func receivablePatch(p *RequestBodyParser) (core.ReceivablePatch, error) {
	patch := core.ReceivablePatch{
		CustomerName:     optionalString(p, "customer_name"),
		CustomerPhone:    optionalString(p, "customer_phone"),
		CustomerEmail:    optionalString(p, "customer_email"),
		CustomerDocument: optionalString(p, "customer_document"),
		Description:      optionalString(p, "description"),
		ReferenceNumber:  optionalString(p, "reference_number"),
		Notes:            optionalString(p, "notes"),
	}
	if p.Has("type") {
		t := core.ReceivableType(p.Get("type"))
		patch.Type = &t
	}
	if m, ok, err := p.Money("original_amount"); err != nil {
		return patch, err
	} else if ok {
		patch.OriginalAmount = &m
	}
	if m, ok, err := p.OptionalMoney("late_fee"); err != nil {
		return patch, err
	} else if ok {
		patch.LateFee = &m
	}
	if f, ok, err := p.Percent("interest_rate"); err != nil {
		return patch, err
	} else if ok {
		patch.InterestRate = &f
	}
	if p.Has("due_date") {
		d, err := core.ParseDate(p.Get("due_date"))
		if err != nil {
			return patch, core.Invalid("due_date", err)
		}
		patch.DueDate = &d
	}
	if p.Has("status") {
		st := core.ReceivableStatus(p.Get("status"))
		if !st.Valid() {
			return patch, core.Invalid("status", core.ErrInvalidStatus)
		}
		patch.Status = &st
	}
	return patch, nil
}
