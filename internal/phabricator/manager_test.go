package phabricator

import (
	"testing"
	"time"
)

func TestManager_DefaultClientIsLazyAndShared(t *testing.T) {
	m := NewManager("https://phab.example.com/api", "default-token", 10*time.Second)

	first, err := m.Get("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := m.Get("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first != second {
		t.Error("Expected the default client to be reused")
	}
}

func TestManager_PerCallTokenOverrides(t *testing.T) {
	m := NewManager("https://phab.example.com/api", "default-token", 10*time.Second)

	personal, err := m.Get("personal-token")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	shared, err := m.Get("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if personal == shared {
		t.Error("Expected a fresh client for a personal token")
	}
	if personal.token != "personal-token" {
		t.Errorf("Expected personal token, got %q", personal.token)
	}
}

func TestManager_MissingDefaultToken(t *testing.T) {
	m := NewManager("https://phab.example.com/api", "", 10*time.Second)

	if _, err := m.Get(""); err == nil {
		t.Fatal("Expected an error when no token is available")
	}
	if _, err := m.Get("  "); err == nil {
		t.Fatal("Expected whitespace token to be treated as absent")
	}
}
