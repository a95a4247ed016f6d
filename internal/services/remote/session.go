package remote

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SessionStore defines the interface for storing and retrieving the current
// user session. Authentication itself happens outside this service; we only
// consume the resulting identity.
type SessionStore interface {
	GetSession() (*Session, error)
	SaveSession(session *Session) error
}

// Session represents the authenticated user identity and its bearer token
type Session struct {
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileSessionStore implements SessionStore using a JSON file
type FileSessionStore struct {
	filepath string
}

// NewFileSessionStore creates a new file-based session store
func NewFileSessionStore(filepath string) (*FileSessionStore, error) {
	return &FileSessionStore{filepath: filepath}, nil
}

// GetSession retrieves the session from the file. An expired session is
// treated the same as a missing one.
func (s *FileSessionStore) GetSession() (*Session, error) {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session file not found")
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

// SaveSession saves the session to the file
func (s *FileSessionStore) SaveSession(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filepath, data, 0600)
}
