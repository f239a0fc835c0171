package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/gatetrack/internal/apperr"
	"github.com/stemsi/gatetrack/internal/model"
	"github.com/stemsi/gatetrack/internal/repository"
	"github.com/stemsi/gatetrack/internal/storage"
)

func TestMarkVerifiedPersists(t *testing.T) {
	repo := repository.NewSessionRepository(storage.NewMemoryStore(), zerolog.Nop())
	practice := NewPracticeService(repo, zerolog.Nop())
	verification := NewVerificationService(repo, zerolog.Nop())
	ctx := context.Background()

	session, _ := practice.CreateSession(ctx, model.CreateSessionRequest{
		Subject:       "Networks",
		StartQuestion: 1,
		EndQuestion:   4,
	})
	session, _ = practice.SetSingleChoice(ctx, session, 1, model.OptionA)
	session, _ = practice.SetSingleChoice(ctx, session, 2, model.OptionB)
	session, _ = practice.FinishSession(ctx, session)

	session, err := verification.MarkVerified(ctx, session, 1, true)
	if err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	session, err = verification.MarkVerified(ctx, session, 2, false)
	if err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}

	if session.CorrectCount() != 1 || session.IncorrectCount() != 1 {
		t.Errorf("counts = %d/%d, want 1/1", session.CorrectCount(), session.IncorrectCount())
	}
	if got, want := session.AccuracyRate(), 1.0/4.0; got != want {
		t.Errorf("AccuracyRate = %v, want %v", got, want)
	}

	stored := repo.LoadSessions(ctx)[0]
	if stored.CorrectCount() != 1 || stored.IncorrectCount() != 1 {
		t.Errorf("stored counts = %d/%d, want 1/1", stored.CorrectCount(), stored.IncorrectCount())
	}
	q, _ := stored.Question(1)
	if !q.Verified || !q.IsCorrect {
		t.Errorf("stored question 1 = %+v, want verified correct", q)
	}
}

func TestMarkVerifiedRequiresCompletion(t *testing.T) {
	repo := repository.NewSessionRepository(storage.NewMemoryStore(), zerolog.Nop())
	practice := NewPracticeService(repo, zerolog.Nop())
	verification := NewVerificationService(repo, zerolog.Nop())
	ctx := context.Background()

	session, _ := practice.CreateSession(ctx, model.CreateSessionRequest{
		Subject:       "Networks",
		StartQuestion: 1,
		EndQuestion:   3,
	})

	if _, err := verification.MarkVerified(ctx, session, 1, true); apperr.CodeOf(err) != apperr.ErrSessionNotCompleted {
		t.Errorf("err = %v, want SESSION_NOT_COMPLETED", err)
	}
}
