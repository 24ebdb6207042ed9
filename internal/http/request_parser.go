package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"lupa/internal/core"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON object or a form-encoded body and exposes
// its fields as trimmed strings. JSON numbers keep their literal text.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	err      error
}

// NewRequestBodyParser reads and decodes the body. Decode failures wrap
// ErrMalformedBody.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, error) {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if p.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, p.err)
	}
	if err := p.parse(r.Header.Get("Content-Type")); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return p, nil
}

func (p *RequestBodyParser) parse(contentType string) error {
	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}
	if strings.HasPrefix(contentType, "application/json") || trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		return dec.Decode(&p.jsonData)
	}
	var err error
	p.formData, err = url.ParseQuery(string(trimmed))
	return err
}

// Has reports whether key was sent, even with an empty value. A JSON null
// counts as absent.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		return ok && v != nil
	}
	_, ok := p.formData[key]
	return ok
}

func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		return sanitizeInput(stringValue(p.jsonData[key]))
	}
	return sanitizeInput(p.formData.Get(key))
}

// String returns the value of key and whether it was sent.
func (p *RequestBodyParser) String(key string) (string, bool) {
	return p.Get(key), p.Has(key)
}

// Strings reads a list sent as a JSON array or as comma separated text.
// Form bodies may also repeat the key. Blank entries are dropped.
func (p *RequestBodyParser) Strings(key string) []string {
	var raw []string
	if p.jsonData != nil {
		switch v := p.jsonData[key].(type) {
		case []any:
			for _, e := range v {
				raw = append(raw, stringValue(e))
			}
		default:
			raw = strings.Split(stringValue(v), ",")
		}
	} else {
		for _, v := range p.formData[key] {
			raw = append(raw, strings.Split(v, ",")...)
		}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = sanitizeInput(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// Money parses a strictly positive amount.
func (p *RequestBodyParser) Money(key string) (core.Money, bool, error) {
	if !p.Has(key) {
		return core.Money{}, false, nil
	}
	cents, err := core.ParseDecimalToCents(p.Get(key))
	if err != nil {
		return core.Money{}, true, core.Invalid(key, err)
	}
	return core.Money{Cents: cents}, true, nil
}

// OptionalMoney parses an amount that may be zero. An empty value is zero.
func (p *RequestBodyParser) OptionalMoney(key string) (core.Money, bool, error) {
	if !p.Has(key) {
		return core.Money{}, false, nil
	}
	s := p.Get(key)
	if s == "" {
		return core.Money{}, true, nil
	}
	cents, err := core.ParseNonNegativeCents(s)
	if err != nil {
		return core.Money{}, true, core.Invalid(key, err)
	}
	return core.Money{Cents: cents}, true, nil
}

// Date parses YYYY-MM-DD. An empty value reads as absent.
func (p *RequestBodyParser) Date(key string) (core.Date, bool, error) {
	s := p.Get(key)
	if !p.Has(key) || s == "" {
		return core.Date{}, false, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, true, core.Invalid(key, err)
	}
	return d, true, nil
}

// Percent parses a non-negative percentage such as an interest rate.
func (p *RequestBodyParser) Percent(key string) (float64, bool, error) {
	if !p.Has(key) {
		return 0, false, nil
	}
	f, err := core.ParseFee(p.Get(key))
	if err != nil {
		return 0, true, core.Invalid(key, err)
	}
	return f, true, nil
}

// Fee reads "fee" as a percent. When only "fee_rate" is sent it is taken as
// a fraction and converted, so 0.035 and 3.5 mean the same fee.
func (p *RequestBodyParser) Fee() (float64, bool, error) {
	if p.Has("fee") {
		return p.Percent("fee")
	}
	rate, ok, err := p.Percent("fee_rate")
	if !ok || err != nil {
		return 0, ok, err
	}
	return core.PercentFromRate(rate), true, nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput trims and drops control characters other than tab and
// newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
