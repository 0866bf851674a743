package resumes

import "errors"

var (
	// ErrNotFound indicates an entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates access is not allowed.
	ErrForbidden = errors.New("forbidden")

	// ErrUnknownField indicates a mutation named a field that does not exist
	// on the targeted section.
	ErrUnknownField = errors.New("unknown field")

	// ErrNoPending indicates no staged suggestion exists for the document.
	ErrNoPending = errors.New("no pending suggestion")

	// ErrPendingConflict indicates the staged suggestion no longer matches
	// the live document, or a stale pending ID was supplied.
	ErrPendingConflict = errors.New("pending suggestion conflict")
)
