package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	got := ExpandPath("~/data/saarthi.db")
	want := filepath.Join(home, "data", "saarthi.db")
	if got != want {
		t.Errorf("ExpandPath(~/data/saarthi.db) = %q, want %q", got, want)
	}

	if got := ExpandPath("~"); got != home {
		t.Errorf("ExpandPath(~) = %q, want %q", got, home)
	}
}

func TestExpandPathEnvVars(t *testing.T) {
	t.Setenv("SAARTHI_TEST_DIR", "/tmp/saarthi-test")

	got := ExpandPath("$SAARTHI_TEST_DIR/db.sqlite")
	if got != "/tmp/saarthi-test/db.sqlite" {
		t.Errorf("ExpandPath = %q", got)
	}
}

func TestDatabasePathFallsBackToDefault(t *testing.T) {
	got := DatabasePath("")
	if got == "" || got == DefaultDatabasePath {
		t.Errorf("DatabasePath(\"\") = %q, want an expanded path", got)
	}

	if got := DatabasePath("/explicit/path.db"); got != "/explicit/path.db" {
		t.Errorf("DatabasePath(/explicit/path.db) = %q", got)
	}
}
