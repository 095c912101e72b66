// Package session provides per-viewer state for hosted graph views.
//
// A session records what one viewer has changed about the graph: the view
// mode and the positions of dragged (pinned) nodes. The HTTP API keeps one
// session per browser; the CLI keeps one in a file so `explore` resumes where
// it stopped.
//
// Implementations of [Store] exist for different backends:
//   - memory: In-memory storage for development/testing
//   - redis: Redis-backed storage for multi-instance deployments
//   - file: File-based storage for CLI applications
//
// # Usage
//
//	store := session.NewMemoryStore()
//
//	sess := session.New(graph.ModeVibe, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/vibegraph/pkg/graph"
)

// Session stores the view state of one viewer.
type Session struct {
	ID        string          `json:"id"`
	Mode      graph.ViewMode  `json:"mode"`
	Pins      graph.Positions `json:"pins"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records a change and extends the expiry by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates a new session in the given mode.
func New(mode graph.ViewMode, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Mode:      mode,
		Pins:      graph.Positions{},
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Local returns the session used by the CLI. It has a fixed ID so repeated
// runs find it.
func Local(ttl time.Duration) *Session {
	s := New(graph.ModeVibe, ttl)
	s.ID = LocalID
	return s
}

// LocalID is the ID of the CLI session.
const LocalID = "local"
