package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lupa/internal/core"
)

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	status := core.BillStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, r, core.Invalid("status", core.ErrInvalidStatus))
		return
	}
	bills, err := s.ledger.ListBills(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(bills).Write(w)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	b, err := s.ledger.GetBill(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(b).Write(w)
}

func (s *Server) handleBillSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(snap.Bills).Write(w)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := billInput(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.ledger.SaveBill(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(b).Write(w)
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := billPatch(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.ledger.UpdateBill(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(b).Write(w)
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	p, err := NewRequestBodyParser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	key := "paid_on"
	if !p.Has(key) {
		key = "payment_date"
	}
	paidOn, _, err := p.Date(key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.ledger.PayBill(r.Context(), mux.Vars(r)["id"], p.Get("payment_method"), paidOn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(b).Write(w)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBill(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func billInput(p *RequestBodyParser) (core.BillInput, error) {
	original, ok, err := p.Money("original_amount")
	if err != nil {
		return core.BillInput{}, err
	}
	if !ok {
		return core.BillInput{}, core.Invalid("original_amount", core.ErrInvalidAmount)
	}
	discount, _, err := p.OptionalMoney("discount_amount")
	if err != nil {
		return core.BillInput{}, err
	}
	interest, _, err := p.OptionalMoney("interest_amount")
	if err != nil {
		return core.BillInput{}, err
	}
	due, _, err := p.Date("due_date")
	if err != nil {
		return core.BillInput{}, err
	}
	return core.BillInput{
		Barcode:        p.Get("barcode"),
		LineCode:       p.Get("line_code"),
		Title:          p.Get("title"),
		Company:        p.Get("company"),
		Category:       p.Get("category"),
		OriginalAmount: original,
		DiscountAmount: discount,
		InterestAmount: interest,
		DueDate:        due,
		Notes:          p.Get("notes"),
	}, nil
}

func billPatch(p *RequestBodyParser) (core.BillPatch, error) {
	patch := core.BillPatch{
		Barcode:  optionalString(p, "barcode"),
		LineCode: optionalString(p, "line_code"),
		Title:    optionalString(p, "title"),
		Company:  optionalString(p, "company"),
		Category: optionalString(p, "category"),
		Notes:    optionalString(p, "notes"),
	}
	if m, ok, err := p.Money("original_amount"); err != nil {
		return patch, err
	} else if ok {
		patch.OriginalAmount = &m
	}
	if m, ok, err := p.OptionalMoney("discount_amount"); err != nil {
		return patch, err
	} else if ok {
		patch.DiscountAmount = &m
	}
	if m, ok, err := p.OptionalMoney("interest_amount"); err != nil {
		return patch, err
	} else if ok {
		patch.InterestAmount = &m
	}
	if p.Has("due_date") {
		d, err := core.ParseDate(p.Get("due_date"))
		if err != nil {
			return patch, core.Invalid("due_date", err)
		}
		patch.DueDate = &d
	}
	if p.Has("status") {
		st := core.BillStatus(p.Get("status"))
		if !st.Valid() {
			return patch, core.Invalid("status", core.ErrInvalidStatus)
		}
		patch.Status = &st
	}
	return patch, nil
}
