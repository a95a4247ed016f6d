package remote

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileSessionStoreRoundTrip(t *testing.T) {
	store, err := NewFileSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	session := &Session{
		UserID:      "u1",
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
	if err := store.SaveSession(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	got, err := store.GetSession()
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.UserID != "u1" || got.AccessToken != "token" {
		t.Errorf("Session mismatch: %+v", got)
	}
}

func TestFileSessionStoreMissing(t *testing.T) {
	store, err := NewFileSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, err := store.GetSession(); err == nil {
		t.Error("Expected error for missing session file")
	}
}

func TestFileSessionStoreExpired(t *testing.T) {
	store, err := NewFileSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	session := &Session{
		UserID:      "u1",
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	if err := store.SaveSession(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	if _, err := store.GetSession(); err == nil {
		t.Error("Expected expired session to be treated as missing")
	}
}
