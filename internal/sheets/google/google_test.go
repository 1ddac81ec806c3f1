package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"lifelog/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type fakeSheets struct {
	mu      sync.Mutex
	cleared []string
	updated [][]any
	method  []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.method = append(f.method, r.Method)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		f.cleared = append(f.cleared, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		if r.URL.Query().Get("valueInputOption") != "USER_ENTERED" {
			http.Error(w, "missing valueInputOption", http.StatusBadRequest)
			return
		}
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.updated = vr.Values
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"values":[["ID","Date"],["1","2025-01-02"]]}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return NewWithService(svc, Config{SpreadsheetID: "sheet-1"}, nil)
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	if err == nil || !strings.Contains(err.Error(), "GOOGLE_SPREADSHEET_ID") {
		t.Fatalf("expected missing spreadsheet error, got %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "x"}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "x", ServiceAccountFile: "/nonexistent/sa.json"}, nil)
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected file error, got %v", err)
	}
}

func TestReplaceLedger(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	txs := []core.Transaction{{
		ID: 1, Title: "Books", Amount: core.Money{Cents: 3999},
		Category: core.CategoryAcademics, Kind: core.KindExpense,
		Date: time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
	}}
	if err := c.ReplaceLedger(context.Background(), txs); err != nil {
		t.Fatalf("ReplaceLedger: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.cleared) != 1 {
		t.Fatalf("expected one clear call, got %v", fake.cleared)
	}
	if fake.method[0] != http.MethodPost || fake.method[1] != http.MethodPut {
		t.Fatalf("clear must precede update, got %v", fake.method)
	}
	if len(fake.updated) != 1+1+5 {
		t.Fatalf("unexpected rows written: %v", fake.updated)
	}
	if fake.updated[1][2] != "Books" || fake.updated[1][5] != "39.99" {
		t.Fatalf("unexpected data row: %v", fake.updated[1])
	}
}

func TestReadLedger(t *testing.T) {
	c := newTestClient(t, &fakeSheets{})
	rows, err := c.ReadLedger(context.Background())
	if err != nil {
		t.Fatalf("ReadLedger: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "2025-01-02" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestReplaceLedger_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
	}))
	if err := c.ReplaceLedger(context.Background(), nil); err == nil {
		t.Fatal("expected an error from a failing server")
	}
}

func TestNilService(t *testing.T) {
	c := &Client{}
	if err := c.ReplaceLedger(context.Background(), nil); err == nil {
		t.Fatal("expected error with nil service")
	}
	if _, err := c.ReadLedger(context.Background()); err == nil {
		t.Fatal("expected error with nil service")
	}
}
