package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

func newInterviewSvc(repo *stubInterviewRepo, pub *recordingPublisher) ports.InterviewService {
	return NewInterviewService(repo, pub, zerolog.Nop())
}

func TestInterviewService_Create_Defaults(t *testing.T) {
	repo := newStubInterviewRepo()
	pub := &recordingPublisher{}
	svc := newInterviewSvc(repo, pub)

	iv, err := svc.Create(context.Background(), userIdentity("u1"), ports.CreateInterviewInput{JobRole: "Backend Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if iv.Status != domain.InterviewScheduled {
		t.Fatalf("expected scheduled, got %s", iv.Status)
	}
	if iv.Type != domain.TypeMixed || iv.Difficulty != domain.DifficultyMedium {
		t.Fatalf("unexpected defaults: %s/%s", iv.Type, iv.Difficulty)
	}
	if len(iv.Questions) != 5 {
		t.Fatalf("expected 5 bank questions, got %d", len(iv.Questions))
	}
	if iv.Title != "Backend Engineer mock interview" {
		t.Fatalf("unexpected title %q", iv.Title)
	}
	if got := pub.types(); len(got) != 1 || got[0] != domain.ActivityInterviewCreated {
		t.Fatalf("unexpected activity: %v", got)
	}
}

func TestInterviewService_Create_Validation(t *testing.T) {
	svc := newInterviewSvc(newStubInterviewRepo(), &recordingPublisher{})

	_, err := svc.Create(context.Background(), userIdentity("u1"), ports.CreateInterviewInput{Type: "trivia", Difficulty: "impossible"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"job_role", "type", "difficulty"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("missing violation for %s: %v", f, ve.Fields)
		}
	}
}

func TestInterviewService_Start(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newInterviewSvc(newStubInterviewRepo(), pub)

	iv, err := svc.Start(context.Background(), userIdentity("u1"), ports.CreateInterviewInput{
		JobRole: "SRE", Type: domain.TypeTechnical, QuestionCount: 3,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if iv.Status != domain.InterviewInProgress || iv.StartedAt == nil {
		t.Fatalf("expected in_progress with start time, got %s %v", iv.Status, iv.StartedAt)
	}
	if len(iv.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(iv.Questions))
	}
	if got := pub.types(); len(got) != 1 || got[0] != domain.ActivityInterviewStarted {
		t.Fatalf("unexpected activity: %v", got)
	}
}

func TestInterviewService_Ownership(t *testing.T) {
	svc := newInterviewSvc(newStubInterviewRepo(), &recordingPublisher{})
	iv, _ := svc.Create(context.Background(), userIdentity("owner"), ports.CreateInterviewInput{JobRole: "PM"})

	if _, err := svc.Get(context.Background(), userIdentity("intruder"), iv.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), userIdentity("intruder"), iv.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}

	admin := &domain.Identity{UserID: "root", Role: domain.RoleAdmin}
	if _, err := svc.Get(context.Background(), admin, iv.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestInterviewService_Get_NotFound(t *testing.T) {
	svc := newInterviewSvc(newStubInterviewRepo(), &recordingPublisher{})

	if _, err := svc.Get(context.Background(), userIdentity("u1"), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInterviewService_List_ScopedToCaller(t *testing.T) {
	svc := newInterviewSvc(newStubInterviewRepo(), &recordingPublisher{})
	ctx := context.Background()
	_, _ = svc.Create(ctx, userIdentity("u1"), ports.CreateInterviewInput{JobRole: "A", Type: domain.TypeTechnical})
	_, _ = svc.Create(ctx, userIdentity("u1"), ports.CreateInterviewInput{JobRole: "B", Type: domain.TypeBehavioral})
	_, _ = svc.Create(ctx, userIdentity("u2"), ports.CreateInterviewInput{JobRole: "C"})

	all, err := svc.List(ctx, userIdentity("u1"), "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 interviews, got %d", len(all))
	}

	tech, _ := svc.List(ctx, userIdentity("u1"), "", domain.TypeTechnical)
	if len(tech) != 1 || tech[0].JobRole != "A" {
		t.Fatalf("type filter failed: %+v", tech)
	}
}

func TestInterviewService_Update_Transitions(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newInterviewSvc(newStubInterviewRepo(), pub)
	ctx := context.Background()
	who := userIdentity("u1")
	iv, _ := svc.Create(ctx, who, ports.CreateInterviewInput{JobRole: "QA"})

	if _, err := svc.Update(ctx, who, iv.ID, ports.UpdateInterviewInput{Status: strPtr("completed")}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	updated, err := svc.Update(ctx, who, iv.ID, ports.UpdateInterviewInput{Status: strPtr("in_progress"), Notes: strPtr("warm-up done")})
	if err != nil {
		t.Fatalf("update to in_progress: %v", err)
	}
	if updated.StartedAt == nil || updated.Notes != "warm-up done" {
		t.Fatalf("unexpected interview after update: %+v", updated)
	}

	done, err := svc.Update(ctx, who, iv.ID, ports.UpdateInterviewInput{Status: strPtr("completed"), Score: floatPtr(82)})
	if err != nil {
		t.Fatalf("update to completed: %v", err)
	}
	if done.CompletedAt == nil || done.Score == nil || *done.Score != 82 {
		t.Fatalf("unexpected completed interview: %+v", done)
	}

	types := pub.types()
	if types[len(types)-1] != domain.ActivityInterviewCompleted {
		t.Fatalf("expected completion activity, got %v", types)
	}
}

func TestInterviewService_Update_ScoreRange(t *testing.T) {
	svc := newInterviewSvc(newStubInterviewRepo(), &recordingPublisher{})
	who := userIdentity("u1")
	iv, _ := svc.Create(context.Background(), who, ports.CreateInterviewInput{JobRole: "QA"})

	_, err := svc.Update(context.Background(), who, iv.ID, ports.UpdateInterviewInput{Score: floatPtr(140)})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["score"] == "" {
		t.Fatalf("expected score violation, got %v", err)
	}
}

func TestInterviewService_Delete(t *testing.T) {
	repo := newStubInterviewRepo()
	svc := newInterviewSvc(repo, &recordingPublisher{})
	who := userIdentity("u1")
	iv, _ := svc.Create(context.Background(), who, ports.CreateInterviewInput{JobRole: "QA"})

	if err := svc.Delete(context.Background(), who, iv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected repo to be empty")
	}
}

func TestInterviewService_Create_RepoError(t *testing.T) {
	repo := newStubInterviewRepo()
	repo.createErr = errors.New("db down")
	svc := newInterviewSvc(repo, &recordingPublisher{})

	if _, err := svc.Create(context.Background(), userIdentity("u1"), ports.CreateInterviewInput{JobRole: "QA"}); err == nil {
		t.Fatalf("expected error")
	}
}
