package assist

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

// Service is the action layer in front of the AI gateway. It maps every
// failure mode to *ServiceError and never retries a failed call.
type Service struct {
	Gateway llm.Gateway
}

// NewService constructs a Service.
func NewService(gateway llm.Gateway) *Service {
	return &Service{Gateway: gateway}
}

// RunOptimize sends a text fragment through the gateway's optimize operation.
func (s *Service) RunOptimize(ctx context.Context, content string) (llm.OptimizeResult, error) {
	if strings.TrimSpace(content) == "" {
		return llm.OptimizeResult{}, &ServiceError{Op: "optimize content", Err: errors.New("nothing to optimize")}
	}

	metrics.IncOptimizeStarted()
	start := time.Now()
	result, err := s.Gateway.OptimizeContent(ctx, content)
	metrics.ObserveGatewayDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncOptimizeFailed()
		telemetry.Error("assist.optimize.failed", map[string]any{"error": err.Error()})
		return llm.OptimizeResult{}, &ServiceError{Op: "optimize content", Err: err}
	}
	if strings.TrimSpace(result.OptimizedContent) == "" {
		metrics.IncOptimizeFailed()
		return llm.OptimizeResult{}, &ServiceError{Op: "optimize content", Err: errors.New("received an empty response from the AI service")}
	}

	metrics.IncOptimizeCompleted()
	return result, nil
}

// RunEnhance sends the full resume document through the gateway's enhance
// operation.
func (s *Service) RunEnhance(ctx context.Context, resumeJSON json.RawMessage, prompt string) (llm.EnhanceResult, error) {
	if len(resumeJSON) == 0 {
		return llm.EnhanceResult{}, &ServiceError{Op: "enhance resume", Err: errors.New("empty resume document")}
	}

	metrics.IncEnhanceStarted()
	start := time.Now()
	result, err := s.Gateway.EnhanceResume(ctx, resumeJSON, prompt)
	metrics.ObserveGatewayDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncEnhanceFailed()
		telemetry.Error("assist.enhance.failed", map[string]any{"error": err.Error()})
		return llm.EnhanceResult{}, &ServiceError{Op: "enhance resume", Err: err}
	}
	if len(result.EnhancedResume) == 0 {
		metrics.IncEnhanceFailed()
		return llm.EnhanceResult{}, &ServiceError{Op: "enhance resume", Err: errors.New("received an empty response from the AI service")}
	}

	metrics.IncEnhanceCompleted()
	return result, nil
}
