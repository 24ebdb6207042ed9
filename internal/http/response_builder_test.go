package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"lupa/internal/core"
)

func TestJSONResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusCreated).Header("X-Test", "1").Body(map[string]int{"n": 1}).Write(rr)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Fatalf("content type = %q", got)
	}
	if rr.Header().Get("X-Test") != "1" {
		t.Fatalf("custom header missing")
	}
	if strings.TrimSpace(rr.Body.String()) != `{"n":1}` {
		t.Fatalf("body = %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(rr)
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Fatalf("nil body: status=%d len=%d", rr.Code, rr.Body.Len())
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
		wantField string
	}{
		{"validation", core.Invalid("amount", core.ErrInvalidAmount), http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error(), "amount"},
		{"wrapped validation", fmt.Errorf("save: %w", core.Invalid("date", core.ErrMissingDate)), http.StatusUnprocessableEntity, core.ErrMissingDate.Error(), "date"},
		{"not found", &core.NotFoundError{Kind: "transaction", ID: "x"}, http.StatusNotFound, (&core.NotFoundError{Kind: "transaction", ID: "x"}).Error(), ""},
		{"malformed", fmt.Errorf("%w: eof", ErrMalformedBody), http.StatusBadRequest, "malformed request body: eof", ""},
		{"storage", &core.StorageError{Op: "get", Err: errors.New("disk")}, http.StatusInternalServerError, "storage unavailable", ""},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			var body errorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantError || body.Field != tt.wantField {
				t.Fatalf("body = %+v, want error %q field %q", body, tt.wantError, tt.wantField)
			}
		})
	}
}
