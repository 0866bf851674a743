package resumes

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use. State
// is lost when the process exits, which is the intended lifecycle.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]Resume),
	}
}

// Create stores the resume.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[resume.ID] = cloneResume(resume)
	return nil
}

// Get returns a resume by ID for a session.
func (r *MemoryRepo) Get(ctx context.Context, sessionID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	if resume.SessionID != sessionID {
		return Resume{}, ErrForbidden
	}
	return cloneResume(resume), nil
}

// Update applies fn to the stored resume under the write lock.
func (r *MemoryRepo) Update(ctx context.Context, sessionID, resumeID string, fn func(*Resume) error) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	if stored.SessionID != sessionID {
		return Resume{}, ErrForbidden
	}

	working := cloneResume(stored)
	if err := fn(&working); err != nil {
		return Resume{}, err
	}
	working.UpdatedAt = time.Now().UTC()
	r.byID[resumeID] = cloneResume(working)
	return working, nil
}

func cloneResume(resume Resume) Resume {
	out := resume
	out.Document = resume.Document.Clone()
	if resume.Pending != nil {
		pending := *resume.Pending
		pending.Suggestions = append([]string(nil), resume.Pending.Suggestions...)
		if resume.Pending.EnhancedDocument != nil {
			doc := resume.Pending.EnhancedDocument.Clone()
			pending.EnhancedDocument = &doc
		}
		out.Pending = &pending
	}
	return out
}
