package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"lifelog/internal/core"
)

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		key         string
		want        string
		wantJSON    bool
	}{
		{"json string", `{"title":"  Run  "}`, "application/json", "title", "Run", true},
		{"json number", `{"amount":12.5}`, "application/json", "amount", "12.5", true},
		{"json missing key", `{"title":"x"}`, "application/json", "amount", "", true},
		{"form", "title=Read+daily&amount=3", "application/x-www-form-urlencoded", "title", "Read daily", false},
		{"control chars dropped", "{\"title\":\"a\\u0007b\"}", "", "title", "ab", true},
		{"empty body", "", "", "title", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			p, err := ParseBody(req)
			if err != nil {
				t.Fatalf("ParseBody() error = %v", err)
			}
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
		})
	}
}

func TestRequestBodyParser_Malformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	_, err := ParseBody(req)
	if !errors.Is(err, errMalformedBody) {
		t.Fatalf("expected errMalformedBody, got %v", err)
	}
	if StatusFor(err) != http.StatusBadRequest {
		t.Errorf("StatusFor() = %d, want 400", StatusFor(err))
	}
}

func TestRequestBodyParser_TooLarge(t *testing.T) {
	body := `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if _, err := ParseBody(req); !errors.Is(err, errMalformedBody) {
		t.Fatalf("expected errMalformedBody, got %v", err)
	}
}

func TestRequestBodyParser_GetTextKeepsNewlines(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"line one\nline two\n"}`))
	p, err := ParseBody(req)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.GetText("text"); got != "line one\nline two" {
		t.Errorf("GetText() = %q", got)
	}
	if !p.Has("text") || p.Has("title") {
		t.Error("Has() reports wrong keys")
	}
}

func TestConfirmed(t *testing.T) {
	for query, want := range map[string]bool{
		"":              false,
		"?confirm=true": true,
		"?confirm=1":    true,
		"?confirm=YES":  true,
		"?confirm=no":   false,
	} {
		req := httptest.NewRequest(http.MethodDelete, "/api/streaks/1"+query, nil)
		if got := Confirmed(req); got != want {
			t.Errorf("Confirmed(%q) = %v, want %v", query, got, want)
		}
	}
}

func TestPathID(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := PathID(req, "id")
	if err != nil || id != core.ID(42) {
		t.Errorf("PathID() = %v, %v", id, err)
	}

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "abc"})
	if _, err := PathID(req, "id"); !errors.Is(err, core.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
