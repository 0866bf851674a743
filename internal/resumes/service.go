package resumes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/assist"
	"resume-builder/internal/shared/metrics"
)

// Service contains the editor operations and the stage-then-commit flow for
// AI suggestions. Every mutation goes through Repo.Update, so it either
// fully applies or not at all.
type Service struct {
	Repo   Repo
	Assist *assist.Service
}

// Create builds a new placeholder-populated resume for a session.
func (s *Service) Create(ctx context.Context, sessionID string) (Resume, error) {
	if sessionID == "" {
		return Resume{}, fmt.Errorf("%w: session id required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	resume := Resume{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Document:  NewDocument(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Get returns a resume for a session.
func (s *Service) Get(ctx context.Context, sessionID, resumeID string) (Resume, error) {
	return s.Repo.Get(ctx, sessionID, resumeID)
}

// SetPersonalField replaces one personal field.
func (s *Service) SetPersonalField(ctx context.Context, sessionID, resumeID, field, value string) (Resume, error) {
	return s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		return SetPersonalField(&resume.Document, field, value)
	})
}

// SetSummary replaces the summary text.
func (s *Service) SetSummary(ctx context.Context, sessionID, resumeID, value string) (Resume, error) {
	return s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		SetSummary(&resume.Document, value)
		return nil
	})
}

// SetListField replaces one field of the entry at index. The index is
// checked against the live list under the write lock; a stale index from a
// raced edit surfaces as ErrNotFound rather than reaching the editor's
// contract panic.
func (s *Service) SetListField(ctx context.Context, sessionID, resumeID, section string, index int, field, value string) (Resume, error) {
	if !IsListSection(section) {
		return Resume{}, fmt.Errorf("%w: section %s", ErrInvalidInput, section)
	}
	return s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		if index < 0 || index >= listLen(&resume.Document, section) {
			return fmt.Errorf("%w: %s[%d]", ErrNotFound, section, index)
		}
		return SetListField(&resume.Document, section, index, field, value)
	})
}

// AddEntry appends a fresh entry to the section and returns its identifier.
func (s *Service) AddEntry(ctx context.Context, sessionID, resumeID, section string) (Resume, string, error) {
	var entryID string
	resume, err := s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		id, err := AddEntry(&resume.Document, section)
		if err != nil {
			return err
		}
		entryID = id
		return nil
	})
	if err != nil {
		return Resume{}, "", err
	}
	return resume, entryID, nil
}

// RemoveEntry removes an entry by identifier; absent identifiers are a no-op.
func (s *Service) RemoveEntry(ctx context.Context, sessionID, resumeID, section, entryID string) (Resume, error) {
	return s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		return RemoveEntry(&resume.Document, section, entryID)
	})
}

// SetImage converts uploaded image bytes to a data URL and stores it. On a
// failed conversion the stored image is left unchanged.
func (s *Service) SetImage(ctx context.Context, sessionID, resumeID string, data []byte, declaredType string) (Resume, error) {
	dataURL, err := EncodeImage(data, declaredType)
	if err != nil {
		return Resume{}, err
	}
	return s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		resume.Document.Personal.Image = dataURL
		return nil
	})
}

// Optimize sends the text at target through the AI gateway and stages the
// result for confirmation. The live document is not touched; a previously
// staged suggestion is superseded.
func (s *Service) Optimize(ctx context.Context, sessionID, resumeID string, target Target) (PendingSuggestion, error) {
	resume, err := s.Repo.Get(ctx, sessionID, resumeID)
	if err != nil {
		return PendingSuggestion{}, err
	}

	content, resolved, err := resolveTarget(&resume.Document, target)
	if err != nil {
		return PendingSuggestion{}, err
	}

	result, err := s.Assist.RunOptimize(ctx, content)
	if err != nil {
		return PendingSuggestion{}, err
	}

	pending := PendingSuggestion{
		ID:            uuid.NewString(),
		Kind:          PendingFieldOptimization,
		Target:        resolved,
		OptimizedText: result.OptimizedContent,
		Suggestions:   result.Suggestions,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.stage(ctx, sessionID, resumeID, pending); err != nil {
		return PendingSuggestion{}, err
	}
	return pending, nil
}

// Enhance sends the full document through the AI gateway and stages the
// enhanced document for confirmation. Entry identifiers in the result may
// differ from the live document's.
func (s *Service) Enhance(ctx context.Context, sessionID, resumeID, prompt string) (PendingSuggestion, error) {
	resume, err := s.Repo.Get(ctx, sessionID, resumeID)
	if err != nil {
		return PendingSuggestion{}, err
	}

	docJSON, err := json.Marshal(resume.Document)
	if err != nil {
		return PendingSuggestion{}, err
	}

	result, err := s.Assist.RunEnhance(ctx, docJSON, prompt)
	if err != nil {
		return PendingSuggestion{}, err
	}

	if err := ValidateDocumentJSON(result.EnhancedResume); err != nil {
		return PendingSuggestion{}, &assist.ServiceError{Op: "enhance resume", Err: err}
	}

	var enhanced ResumeDocument
	if err := json.Unmarshal(result.EnhancedResume, &enhanced); err != nil {
		return PendingSuggestion{}, &assist.ServiceError{Op: "enhance resume", Err: err}
	}
	fillMissingIDs(&enhanced)

	pending := PendingSuggestion{
		ID:               uuid.NewString(),
		Kind:             PendingDocumentEnhancement,
		EnhancedDocument: &enhanced,
		Suggestions:      result.Suggestions,
		CreatedAt:        time.Now().UTC(),
	}
	if _, err := s.stage(ctx, sessionID, resumeID, pending); err != nil {
		return PendingSuggestion{}, err
	}
	return pending, nil
}

// GetPending returns the staged suggestion.
func (s *Service) GetPending(ctx context.Context, sessionID, resumeID string) (PendingSuggestion, error) {
	resume, err := s.Repo.Get(ctx, sessionID, resumeID)
	if err != nil {
		return PendingSuggestion{}, err
	}
	if resume.Pending == nil {
		return PendingSuggestion{}, ErrNoPending
	}
	return *resume.Pending, nil
}

// AcceptPending commits the staged suggestion to the live document and
// consumes the slot. A field optimization whose target entry was removed in
// the meantime fails with ErrPendingConflict and changes nothing.
func (s *Service) AcceptPending(ctx context.Context, sessionID, resumeID, pendingID string) (Resume, error) {
	resume, err := s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		if resume.Pending == nil {
			return ErrNoPending
		}
		if resume.Pending.ID != pendingID {
			return ErrPendingConflict
		}

		switch resume.Pending.Kind {
		case PendingFieldOptimization:
			if err := applyOptimization(&resume.Document, resume.Pending.Target, resume.Pending.OptimizedText); err != nil {
				return err
			}
		case PendingDocumentEnhancement:
			if resume.Pending.EnhancedDocument == nil {
				return ErrPendingConflict
			}
			resume.Document = resume.Pending.EnhancedDocument.Clone()
		default:
			return ErrPendingConflict
		}

		resume.Pending = nil
		return nil
	})
	if err != nil {
		return Resume{}, err
	}
	metrics.IncSuggestionAccepted()
	return resume, nil
}

// RejectPending discards the staged suggestion; the document is untouched.
func (s *Service) RejectPending(ctx context.Context, sessionID, resumeID, pendingID string) error {
	_, err := s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		if resume.Pending == nil {
			return ErrNoPending
		}
		if resume.Pending.ID != pendingID {
			return ErrPendingConflict
		}
		resume.Pending = nil
		return nil
	})
	if err != nil {
		return err
	}
	metrics.IncSuggestionRejected()
	return nil
}

func (s *Service) stage(ctx context.Context, sessionID, resumeID string, pending PendingSuggestion) (Resume, error) {
	return s.Repo.Update(ctx, sessionID, resumeID, func(resume *Resume) error {
		resume.Pending = &pending
		return nil
	})
}

// resolveTarget returns the optimizable text at target and the target with
// the entry identifier captured, so the commit can survive index shifts.
func resolveTarget(doc *ResumeDocument, target Target) (string, Target, error) {
	switch target.Section {
	case "summary":
		return doc.Summary, Target{Section: "summary"}, nil
	case SectionExperience:
		if target.Index < 0 || target.Index >= len(doc.Experience) {
			return "", Target{}, fmt.Errorf("%w: experience[%d]", ErrNotFound, target.Index)
		}
		if target.Field != "description" {
			return "", Target{}, fmt.Errorf("%w: experience.%s is not optimizable", ErrInvalidInput, target.Field)
		}
		entry := doc.Experience[target.Index]
		return entry.Description, Target{Section: SectionExperience, Index: target.Index, Field: "description", EntryID: entry.ID}, nil
	case SectionEducation:
		if target.Index < 0 || target.Index >= len(doc.Education) {
			return "", Target{}, fmt.Errorf("%w: education[%d]", ErrNotFound, target.Index)
		}
		if target.Field != "description" {
			return "", Target{}, fmt.Errorf("%w: education.%s is not optimizable", ErrInvalidInput, target.Field)
		}
		entry := doc.Education[target.Index]
		return entry.Description, Target{Section: SectionEducation, Index: target.Index, Field: "description", EntryID: entry.ID}, nil
	}
	return "", Target{}, fmt.Errorf("%w: section %s is not optimizable", ErrInvalidInput, target.Section)
}

// applyOptimization writes text to the staged target, re-resolving list
// entries by identifier.
func applyOptimization(doc *ResumeDocument, target Target, text string) error {
	switch target.Section {
	case "summary":
		doc.Summary = text
		return nil
	case SectionExperience:
		for i := range doc.Experience {
			if doc.Experience[i].ID == target.EntryID {
				doc.Experience[i].Description = text
				return nil
			}
		}
	case SectionEducation:
		for i := range doc.Education {
			if doc.Education[i].ID == target.EntryID {
				doc.Education[i].Description = text
				return nil
			}
		}
	}
	return ErrPendingConflict
}

// fillMissingIDs assigns fresh identifiers to entries the AI returned
// without one, and to duplicates.
func fillMissingIDs(doc *ResumeDocument) {
	seen := make(map[string]struct{}, len(doc.Experience)+len(doc.Education)+len(doc.Skills))
	assign := func(id *string) {
		if *id != "" {
			if _, dup := seen[*id]; !dup {
				seen[*id] = struct{}{}
				return
			}
		}
		*id = uuid.NewString()
		seen[*id] = struct{}{}
	}
	for i := range doc.Experience {
		assign(&doc.Experience[i].ID)
	}
	for i := range doc.Education {
		assign(&doc.Education[i].ID)
	}
	for i := range doc.Skills {
		assign(&doc.Skills[i].ID)
	}
}

func listLen(doc *ResumeDocument, section string) int {
	switch section {
	case SectionExperience:
		return len(doc.Experience)
	case SectionEducation:
		return len(doc.Education)
	case SectionSkills:
		return len(doc.Skills)
	}
	return 0
}
