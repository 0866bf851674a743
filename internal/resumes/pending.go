package resumes

import "time"

// Pending suggestion kinds.
const (
	PendingFieldOptimization   = "field_optimization"
	PendingDocumentEnhancement = "document_enhancement"
)

// Target names the document location a field optimization was staged for.
// Section is "summary" or a list section; Index and Field apply only to list
// sections.
type Target struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Field   string `json:"field"`
	EntryID string `json:"entryId,omitempty"`
}

// PendingSuggestion is an AI result staged for explicit confirmation. It is
// held apart from the live document; nothing is applied until the session
// accepts it, and rejecting it leaves the document byte-identical to its
// pre-request state.
type PendingSuggestion struct {
	ID               string          `json:"id"`
	Kind             string          `json:"kind"`
	Target           Target          `json:"target,omitempty"`
	OptimizedText    string          `json:"optimizedText,omitempty"`
	EnhancedDocument *ResumeDocument `json:"enhancedDocument,omitempty"`
	Suggestions      []string        `json:"suggestions"`
	CreatedAt        time.Time       `json:"createdAt"`
}
