package assist

import "fmt"

// ServiceError is the single error shape the UI-facing layer sees for any AI
// gateway failure: unreachable backend, rejected request, or an empty or
// malformed result. It carries one human-readable message; the document is
// always left untouched by the failed operation.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
