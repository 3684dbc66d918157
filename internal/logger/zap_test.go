package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, WarnLevel, ConsoleFormat)

	log.Infow("hidden_event")
	log.Warnw("visible_event", "k", "v")
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden_event") {
		t.Fatalf("info entry should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible_event") || !strings.Contains(out, "WARN") {
		t.Fatalf("warn entry missing: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, DebugLevel, JSONFormat)

	log.Infow("upload_saved", "name", "a.txt")
	_ = log.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "upload_saved" || entry["name"] != "a.txt" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestToZapLevel_UnknownFallsBackToInfo(t *testing.T) {
	if got := toZapLevel("loud"); got != defaultZapLevel {
		t.Fatalf("got %v, want %v", got, defaultZapLevel)
	}
}
