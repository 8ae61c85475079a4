package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_WritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Service: "catalog-api", Version: "1.2.3", Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	log.Warn().Str("component", "store").Msg("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("entry is not json: %v", err)
	}
	want := map[string]string{
		"level":     "warn",
		"message":   "visible",
		"component": "store",
		"service":   "catalog-api",
		"version":   "1.2.3",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: expected %q, got %v", k, v, entry[k])
		}
	}
	if _, ok := entry["time"]; !ok {
		t.Errorf("expected a timestamp")
	}
}

func TestNew_LoggersAreIndependent(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	debugLog := New(Options{Level: "debug", Output: &debugBuf})
	errorLog := New(Options{Level: "error", Output: &errorBuf})

	debugLog.Debug().Msg("kept")
	errorLog.Debug().Msg("dropped")

	if !strings.Contains(debugBuf.String(), "kept") {
		t.Fatalf("expected the debug entry, got %q", debugBuf.String())
	}
	if errorBuf.Len() != 0 {
		t.Fatalf("expected nothing below error, got %q", errorBuf.String())
	}
}

func TestNew_OmitsEmptyIdentity(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})
	log.Info().Msg("hello")

	if strings.Contains(buf.String(), `"service"`) || strings.Contains(buf.String(), `"version"`) {
		t.Fatalf("unexpected identity fields: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
