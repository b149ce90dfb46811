package util

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDataDirHonoursXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)
	if got := DataDir("spt"); got != filepath.Join(base, "spt") {
		t.Fatalf("DataDir = %q", got)
	}
}

func TestReportsDirUsesDocuments(t *testing.T) {
	docs := t.TempDir()
	t.Setenv("XDG_DOCUMENTS_DIR", docs)
	if got := ReportsDir("spt"); got != filepath.Join(docs, "SPT") {
		t.Fatalf("ReportsDir = %q", got)
	}
}

func TestLookupUserDir(t *testing.T) {
	data := "# XDG_DOCUMENTS_DIR=\"$HOME/Old\"\nXDG_DESKTOP_DIR=\"$HOME/Desktop\"\nXDG_DOCUMENTS_DIR=\"$HOME/Docs\"\n"
	if got, ok := lookupUserDir(strings.NewReader(data), "XDG_DOCUMENTS_DIR"); !ok || got != "$HOME/Docs" {
		t.Fatalf("lookupUserDir = %q, %v", got, ok)
	}
	if got, ok := lookupUserDir(strings.NewReader(data), "XDG_MUSIC_DIR"); ok {
		t.Fatalf("expected no match, got %q", got)
	}
}

func TestDocumentsDirReadsUserDirsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DOCUMENTS_DIR", "")
	if err := os.MkdirAll(filepath.Join(home, ".config"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, ".config", "user-dirs.dirs"), []byte("XDG_DOCUMENTS_DIR=\"$HOME/Papers\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if got := DocumentsDir(); got != filepath.Join(home, "Papers") {
		t.Fatalf("DocumentsDir = %q", got)
	}
	if got := expandHome("~/notes"); got != filepath.Join(home, "notes") {
		t.Fatalf("expandHome = %q", got)
	}
}

func TestEnsureDirAndOpenLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	f, err := OpenLogFile(dir, "spt.log")
	if err != nil {
		t.Fatalf("OpenLogFile failed: %v", err)
	}
	defer f.Close()
	if _, err := os.Stat(filepath.Join(dir, "spt.log")); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestLoggerWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogging(LogConfig{Level: "debug", Output: &buf})
	t.Cleanup(func() { ConfigureLogging(LogConfig{Output: os.Stderr}) })

	l := Logger("timer")
	l.Info().Msg("hello")
	LogError("save failed", errors.New("disk full"))
	LogError("ignored", nil)

	out := buf.String()
	if !strings.Contains(out, `"component":"timer"`) || !strings.Contains(out, `"message":"hello"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if !strings.Contains(out, "disk full") || strings.Contains(out, "ignored") {
		t.Fatalf("LogError output wrong: %s", out)
	}
}

func TestHelpers(t *testing.T) {
	if BoolToInt(true) != 1 || BoolToInt(false) != 0 {
		t.Fatalf("BoolToInt wrong")
	}
	if !IntToBool(1) || IntToBool(0) {
		t.Fatalf("IntToBool wrong")
	}
	if Deref(Ptr(5)) != 5 || Deref[int](nil) != 0 {
		t.Fatalf("Ptr/Deref wrong")
	}
	if Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 || Clamp(5, 0, 10) != 5 {
		t.Fatalf("Clamp wrong")
	}
}
