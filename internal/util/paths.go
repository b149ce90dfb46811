package util

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DataDir returns the per-user data directory for app, honouring XDG_DATA_HOME.
func DataDir(app string) string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), app)
}

// ReportsDir is where exported session reports are written: an upper-cased
// app folder inside the user's documents directory.
func ReportsDir(app string) string {
	return filepath.Join(DocumentsDir(), strings.ToUpper(app))
}

// DocumentsDir resolves XDG_DOCUMENTS_DIR from the environment, then from
// ~/.config/user-dirs.dirs, then falls back to ~/Documents.
func DocumentsDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); base != "" {
		return expandHome(base)
	}
	home := homeDir()
	if home == "" {
		return "."
	}
	if f, err := os.Open(filepath.Join(home, ".config", "user-dirs.dirs")); err == nil {
		defer f.Close()
		if dir, ok := lookupUserDir(f, "XDG_DOCUMENTS_DIR"); ok {
			return expandHome(dir)
		}
	}
	return filepath.Join(home, "Documents")
}

// EnsureDir creates dir (and parents) when missing and returns it.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func xdgDir(env string, fallback ...string) string {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return base
	}
	home := homeDir()
	if home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// lookupUserDir reads a user-dirs.dirs stream for key=value.
func lookupUserDir(r io.Reader, key string) (string, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if dir, ok := parseUserDirLine(scanner.Text(), key); ok {
			return dir, true
		}
	}
	return "", false
}

func parseUserDirLine(line, key string) (string, bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return "", false
	}
	value, ok := strings.CutPrefix(line, key+"=")
	if !ok {
		return "", false
	}
	value = strings.Trim(value, "\"")
	return value, value != ""
}

func expandHome(path string) string {
	switch {
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(homeDir(), path[2:])
	case strings.Contains(path, "$HOME"):
		return strings.ReplaceAll(path, "$HOME", homeDir())
	}
	return path
}
