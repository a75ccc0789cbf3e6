package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{Name: "gemini api key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   "), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(Source{Name: "gemini api key", File: path})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadInlineValue(t *testing.T) {
	got, err := Load(Source{Value: " inline "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("expected inline, got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ABANG_TEST_KEY", "env-secret")

	got, err := Load(Source{Name: "key", Env: "ABANG_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-secret" {
		t.Fatalf("expected env value, got %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("ABANG_TEST_MISSING", "")

	_, err := Load(Source{Name: "gemini api key", Env: "ABANG_TEST_MISSING"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "ABANG_TEST_MISSING") {
		t.Fatalf("expected env hint in error, got %v", err)
	}

	if _, err := Load(Source{}); err == nil || !strings.Contains(err.Error(), "secret is not configured") {
		t.Fatalf("expected default name in error, got %v", err)
	}
}
