package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	log.Info("hidden")
	log.Warn("shown", "tokens", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at default level:\n%s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "tokens=3") {
		t.Errorf("warn record missing:\n%s", out)
	}

	buf.Reset()
	debug, err := New(Options{Writer: &buf, Level: slog.LevelDebug})
	if err != nil {
		t.Fatal(err)
	}
	debug.Debug("phase", "name", "lex")
	if !strings.Contains(buf.String(), "name=lex") {
		t.Errorf("debug record missing:\n%s", buf.String())
	}
}

func TestNewFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "cimi.log")

	log, err := New(Options{Writer: &buf, File: path, Level: slog.LevelInfo})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("parsed", "diagnostics", 0)
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}
	if err := log.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if !strings.Contains(buf.String(), "msg=parsed") {
		t.Errorf("text handler missed the record:\n%s", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file is not JSON: %v\n%s", err, data)
	}
	if rec["msg"] != "parsed" || rec["level"] != "INFO" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewFileError(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "cimi.log")})
	if err == nil {
		t.Fatal("New succeeded with an unwritable log file")
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("dropped")
	if err := log.Close(); err != nil {
		t.Error(err)
	}
}
