package health

// Service encapsulates health-related checks.
type Service struct {
	provider string
}

// NewService constructs a new health service. provider names the configured
// AI backend, or "none" when assistance is disabled.
func NewService(provider string) *Service {
	return &Service{provider: provider}
}

// Status returns a simple health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{"ok": true, "aiProvider": s.provider}
}
