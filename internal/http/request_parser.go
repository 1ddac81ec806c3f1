// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data:
// path ids, query flags and JSON or form encoded bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"lifelog/internal/core"
)

// maxBodyBytes bounds request bodies; the largest field is a journal text.
const maxBodyBytes = 64 << 10

var errMalformedBody = errors.New("malformed request body")

// PathID parses the mux variable name as a record id.
func PathID(r *http.Request, name string) (core.ID, error) {
	return core.ParseID(mux.Vars(r)[name])
}

// Confirmed reports whether the request carries confirm=true (or 1, yes).
func Confirmed(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("confirm"))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// RequireConfirmation returns ErrConfirmationRequired unless Confirmed.
func RequireConfirmation(r *http.Request) error {
	if !Confirmed(r) {
		return ErrConfirmationRequired
	}
	return nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once, up to maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if p.err == nil && len(p.body) > maxBodyBytes {
			p.err = fmt.Errorf("%w: body exceeds %d bytes", errMalformedBody, maxBodyBytes)
		}
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.Contains(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: %v", errMalformedBody, err)
			return p.err
		}
		return nil
	}

	form, err := url.ParseQuery(trimmed)
	if err != nil {
		p.err = fmt.Errorf("%w: %v", errMalformedBody, err)
		return p.err
	}
	p.formData = form
	return nil
}

// Get returns a trimmed, sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// GetText is Get without trimming inner whitespace, for multi-line text.
func (p *RequestBodyParser) GetText(key string) string {
	if p.jsonData != nil {
		if v, ok := p.jsonData[key].(string); ok {
			return sanitizeText(v)
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeText(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was present in the body.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// GetRaw returns the raw body bytes.
func (p *RequestBodyParser) GetRaw() []byte {
	return p.body
}

// ParseBody reads and parses the request body in one step.
func ParseBody(r *http.Request) (*RequestBodyParser, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p, nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// sanitizeInput trims and drops control characters other than tab.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s))
}

// sanitizeText keeps newlines.
func sanitizeText(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
