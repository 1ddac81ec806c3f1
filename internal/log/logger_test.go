package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Output: &buf}).WithComponent(ComponentStreak)
	logger.Info("hello", FieldCount, 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry[FieldComponent] != ComponentStreak {
		t.Errorf("component = %v, want %q", entry[FieldComponent], ComponentStreak)
	}
	if entry[FieldCount] != float64(2) {
		t.Errorf("count = %v, want 2", entry[FieldCount])
	}
}

func TestFromContext(t *testing.T) {
	logger := Discard().WithComponent(ComponentHTTP)
	if got := FromContext(NewContext(context.Background(), logger)); got != logger {
		t.Errorf("FromContext returned a different logger")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Errorf("fallback component = %q, want unknown", got.Component())
	}
}

func TestStructuredLoggerLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Format: "json", Output: &buf}))
	sl.LogError(context.Background(), "publish failed", errors.New("boom"), OpCreate,
		NewFields().WithChange("money", OpCreate, "7"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	for k, want := range map[string]any{
		FieldError:     "boom",
		FieldOperation: OpCreate,
		FieldTracker:   "money",
		FieldRecordID:  "7",
		"level":        "ERROR",
	} {
		if entry[k] != want {
			t.Errorf("%s = %v, want %v", k, entry[k], want)
		}
	}
}

func TestFieldsSkipEmptyValues(t *testing.T) {
	f := NewFields().WithError(nil).WithChange("streak", OpDelete, "").WithHTTPRequest("GET", "/", "", "")
	if _, ok := f[FieldError]; ok {
		t.Error("nil error should not be recorded")
	}
	if _, ok := f[FieldRecordID]; ok {
		t.Error("empty record id should not be recorded")
	}
	if _, ok := f[FieldUserAgent]; ok {
		t.Error("empty user agent should not be recorded")
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice length = %d, want %d", len(f.ToSlice()), 2*len(f))
	}
}
