package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ResumeID   string         `json:"resumeId"`
	Document   ResumeDocument `json:"document"`
	HasPending bool           `json:"hasPending"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func toResponse(resume Resume) ResumeResponse {
	return ResumeResponse{
		ResumeID:   resume.ID,
		Document:   resume.Document,
		HasPending: resume.Pending != nil,
		CreatedAt:  resume.CreatedAt,
		UpdatedAt:  resume.UpdatedAt,
	}
}

// EntryResponse reports a newly created list entry.
type EntryResponse struct {
	EntryID  string         `json:"entryId"`
	Document ResumeDocument `json:"document"`
}
