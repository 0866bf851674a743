package resumes

import (
	"context"
	"time"
)

// Resume is a session-owned document plus the slot for a staged AI
// suggestion.
type Resume struct {
	ID        string
	SessionID string
	Document  ResumeDocument
	Pending   *PendingSuggestion
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repo defines storage operations for session resumes. Documents live for
// the session only; there is no durable persistence.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	Get(ctx context.Context, sessionID, resumeID string) (Resume, error)
	// Update applies fn to the stored resume under the write lock, making
	// the mutation atomic: a failed fn leaves the stored value unchanged
	// and readers never observe a partial write.
	Update(ctx context.Context, sessionID, resumeID string, fn func(*Resume) error) (Resume, error)
}
