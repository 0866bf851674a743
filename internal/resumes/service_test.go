package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"resume-builder/internal/assist"
	"resume-builder/internal/llm"
)

type fakeGateway struct {
	optimize func(content string) (llm.OptimizeResult, error)
	enhance  func(resumeJSON json.RawMessage, prompt string) (llm.EnhanceResult, error)
}

func (f fakeGateway) OptimizeContent(ctx context.Context, content string) (llm.OptimizeResult, error) {
	_ = ctx
	if f.optimize == nil {
		return llm.OptimizeResult{OptimizedContent: "optimized: " + content}, nil
	}
	return f.optimize(content)
}

func (f fakeGateway) EnhanceResume(ctx context.Context, resumeJSON json.RawMessage, prompt string) (llm.EnhanceResult, error) {
	_ = ctx
	if f.enhance == nil {
		return llm.EnhanceResult{EnhancedResume: resumeJSON}, nil
	}
	return f.enhance(resumeJSON, prompt)
}

func newTestService(gw llm.Gateway) *Service {
	return &Service{Repo: NewMemoryRepo(), Assist: assist.NewService(gw)}
}

func mustCreate(t *testing.T, svc *Service, sessionID string) Resume {
	t.Helper()
	resume, err := svc.Create(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return resume
}

func docJSON(t *testing.T, svc *Service, sessionID, resumeID string) []byte {
	t.Helper()
	resume, err := svc.Get(context.Background(), sessionID, resumeID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	raw, err := json.Marshal(resume.Document)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(fakeGateway{})
	ctx := context.Background()

	resume := mustCreate(t, svc, "session-1")
	got, err := svc.Get(ctx, "session-1", resume.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Document.Personal.Name != "Your Name" {
		t.Fatalf("name = %q, want placeholder", got.Document.Personal.Name)
	}

	if _, err := svc.Get(ctx, "session-2", resume.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("cross-session get err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, "session-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing get err = %v, want ErrNotFound", err)
	}
}

func TestOptimizeStagesWithoutMutating(t *testing.T) {
	svc := newTestService(fakeGateway{})
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")
	before := docJSON(t, svc, "s1", resume.ID)

	pending, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: "summary"})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if pending.Kind != PendingFieldOptimization {
		t.Fatalf("kind = %q", pending.Kind)
	}
	if pending.OptimizedText == "" {
		t.Fatal("no optimized text staged")
	}

	if after := docJSON(t, svc, "s1", resume.ID); string(after) != string(before) {
		t.Fatal("document mutated by staging")
	}

	got, err := svc.GetPending(ctx, "s1", resume.ID)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if got.ID != pending.ID {
		t.Fatalf("pending id = %q, want %q", got.ID, pending.ID)
	}
}

func TestOptimizeSupersedesPrevious(t *testing.T) {
	svc := newTestService(fakeGateway{})
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")

	first, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: "summary"})
	if err != nil {
		t.Fatalf("first optimize: %v", err)
	}
	second, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: SectionExperience, Index: 0, Field: "description"})
	if err != nil {
		t.Fatalf("second optimize: %v", err)
	}

	got, err := svc.GetPending(ctx, "s1", resume.ID)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if got.ID != second.ID {
		t.Fatalf("pending id = %q, want the superseding %q", got.ID, second.ID)
	}
	if _, err := svc.AcceptPending(ctx, "s1", resume.ID, first.ID); !errors.Is(err, ErrPendingConflict) {
		t.Fatalf("accept superseded err = %v, want ErrPendingConflict", err)
	}
}

func TestAcceptOptimizationWritesExactText(t *testing.T) {
	gw := fakeGateway{optimize: func(content string) (llm.OptimizeResult, error) {
		_ = content
		return llm.OptimizeResult{OptimizedContent: "A sharper summary.", Suggestions: []string{"tightened wording"}}, nil
	}}
	svc := newTestService(gw)
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")

	pending, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: "summary"})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	updated, err := svc.AcceptPending(ctx, "s1", resume.ID, pending.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Document.Summary != "A sharper summary." {
		t.Fatalf("summary = %q", updated.Document.Summary)
	}
	if _, err := svc.GetPending(ctx, "s1", resume.ID); !errors.Is(err, ErrNoPending) {
		t.Fatalf("pending after accept err = %v, want ErrNoPending", err)
	}
}

func TestAcceptOptimizationSurvivesIndexShift(t *testing.T) {
	svc := newTestService(fakeGateway{})
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")

	_, entryID, err := svc.AddEntry(ctx, "s1", resume.ID, SectionExperience)
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if _, err := svc.SetListField(ctx, "s1", resume.ID, SectionExperience, 1, "description", "drove releases"); err != nil {
		t.Fatalf("set description: %v", err)
	}

	pending, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: SectionExperience, Index: 1, Field: "description"})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	// remove the entry ahead of the target so its index shifts
	first, err := svc.Get(ctx, "s1", resume.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.RemoveEntry(ctx, "s1", resume.ID, SectionExperience, first.Document.Experience[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	updated, err := svc.AcceptPending(ctx, "s1", resume.ID, pending.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(updated.Document.Experience) != 1 || updated.Document.Experience[0].ID != entryID {
		t.Fatalf("unexpected experience list: %+v", updated.Document.Experience)
	}
	if updated.Document.Experience[0].Description != "optimized: drove releases" {
		t.Fatalf("description = %q", updated.Document.Experience[0].Description)
	}
}

func TestAcceptConflictsWhenTargetRemoved(t *testing.T) {
	svc := newTestService(fakeGateway{})
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")

	pending, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: SectionExperience, Index: 0, Field: "description"})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if _, err := svc.RemoveEntry(ctx, "s1", resume.ID, SectionExperience, pending.Target.EntryID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	before := docJSON(t, svc, "s1", resume.ID)

	if _, err := svc.AcceptPending(ctx, "s1", resume.ID, pending.ID); !errors.Is(err, ErrPendingConflict) {
		t.Fatalf("accept err = %v, want ErrPendingConflict", err)
	}
	if after := docJSON(t, svc, "s1", resume.ID); string(after) != string(before) {
		t.Fatal("document changed by conflicting accept")
	}
}

func TestRejectLeavesDocumentByteIdentical(t *testing.T) {
	svc := newTestService(fakeGateway{})
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")
	before := docJSON(t, svc, "s1", resume.ID)

	pending, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: "summary"})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if err := svc.RejectPending(ctx, "s1", resume.ID, pending.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if after := docJSON(t, svc, "s1", resume.ID); string(after) != string(before) {
		t.Fatal("document changed across stage and reject")
	}
	if _, err := svc.GetPending(ctx, "s1", resume.ID); !errors.Is(err, ErrNoPending) {
		t.Fatalf("pending after reject err = %v, want ErrNoPending", err)
	}
}

func TestAcceptWithoutPending(t *testing.T) {
	svc := newTestService(fakeGateway{})
	resume := mustCreate(t, svc, "s1")

	if _, err := svc.AcceptPending(context.Background(), "s1", resume.ID, "anything"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("err = %v, want ErrNoPending", err)
	}
}

func TestEnhanceAcceptReplacesDocument(t *testing.T) {
	gw := fakeGateway{enhance: func(resumeJSON json.RawMessage, prompt string) (llm.EnhanceResult, error) {
		_ = prompt
		var doc ResumeDocument
		if err := json.Unmarshal(resumeJSON, &doc); err != nil {
			return llm.EnhanceResult{}, err
		}
		doc.Summary = "Enhanced summary."
		// strip entry ids the way a model tends to
		for i := range doc.Skills {
			doc.Skills[i].ID = ""
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return llm.EnhanceResult{}, err
		}
		return llm.EnhanceResult{EnhancedResume: raw, Suggestions: []string{"rewrote summary"}}, nil
	}}
	svc := newTestService(gw)
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")

	pending, err := svc.Enhance(ctx, "s1", resume.ID, "make it sharper")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if pending.Kind != PendingDocumentEnhancement {
		t.Fatalf("kind = %q", pending.Kind)
	}

	updated, err := svc.AcceptPending(ctx, "s1", resume.ID, pending.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Document.Summary != "Enhanced summary." {
		t.Fatalf("summary = %q", updated.Document.Summary)
	}
	seen := map[string]struct{}{}
	for _, s := range updated.Document.Skills {
		if s.ID == "" {
			t.Fatal("skill entry left without id")
		}
		if _, dup := seen[s.ID]; dup {
			t.Fatalf("duplicate skill id %s", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
}

func TestEnhanceRejectsMalformedResult(t *testing.T) {
	gw := fakeGateway{enhance: func(resumeJSON json.RawMessage, prompt string) (llm.EnhanceResult, error) {
		_, _ = resumeJSON, prompt
		return llm.EnhanceResult{EnhancedResume: json.RawMessage(`{"summary": 42}`)}, nil
	}}
	svc := newTestService(gw)
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")

	_, err := svc.Enhance(ctx, "s1", resume.ID, "")
	var svcErr *assist.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want *assist.ServiceError", err)
	}
	if _, err := svc.GetPending(ctx, "s1", resume.ID); !errors.Is(err, ErrNoPending) {
		t.Fatal("malformed result was staged")
	}
}

func TestGatewayErrorPassesThrough(t *testing.T) {
	gw := fakeGateway{optimize: func(content string) (llm.OptimizeResult, error) {
		_ = content
		return llm.OptimizeResult{}, errors.New("upstream 500")
	}}
	svc := newTestService(gw)
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")
	before := docJSON(t, svc, "s1", resume.ID)

	_, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: "summary"})
	var svcErr *assist.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want *assist.ServiceError", err)
	}
	if svcErr.Error() != "failed to optimize content: upstream 500" {
		t.Fatalf("message = %q", svcErr.Error())
	}

	if after := docJSON(t, svc, "s1", resume.ID); string(after) != string(before) {
		t.Fatal("document changed on gateway failure")
	}
	if _, err := svc.GetPending(ctx, "s1", resume.ID); !errors.Is(err, ErrNoPending) {
		t.Fatal("failed optimize left a staged suggestion")
	}
}

func TestOptimizeRejectsNonDescriptionField(t *testing.T) {
	svc := newTestService(fakeGateway{})
	resume := mustCreate(t, svc, "s1")

	_, err := svc.Optimize(context.Background(), "s1", resume.ID, Target{Section: SectionExperience, Index: 0, Field: "company"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestOptimizeEmptyContent(t *testing.T) {
	svc := newTestService(fakeGateway{})
	ctx := context.Background()
	resume := mustCreate(t, svc, "s1")

	if _, err := svc.SetSummary(ctx, "s1", resume.ID, "   "); err != nil {
		t.Fatalf("set summary: %v", err)
	}
	_, err := svc.Optimize(ctx, "s1", resume.ID, Target{Section: "summary"})
	var svcErr *assist.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want *assist.ServiceError", err)
	}
}

func TestStaleListIndexIsNotFound(t *testing.T) {
	svc := newTestService(fakeGateway{})
	resume := mustCreate(t, svc, "s1")

	_, err := svc.SetListField(context.Background(), "s1", resume.ID, SectionExperience, 5, "description", "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
