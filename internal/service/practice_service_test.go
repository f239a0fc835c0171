package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/gatetrack/internal/apperr"
	"github.com/stemsi/gatetrack/internal/model"
	"github.com/stemsi/gatetrack/internal/repository"
	"github.com/stemsi/gatetrack/internal/storage"
	"github.com/stemsi/gatetrack/internal/validator"
)

func newTestService(t *testing.T) (*PracticeService, *repository.SessionRepository) {
	t.Helper()
	validator.Setup()
	repo := repository.NewSessionRepository(storage.NewMemoryStore(), zerolog.Nop())
	return NewPracticeService(repo, zerolog.Nop()), repo
}

func TestCreateSessionValid(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, model.CreateSessionRequest{
		Subject:       "  Networks  ",
		StartQuestion: 1,
		EndQuestion:   5,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if session.Subject != "Networks" {
		t.Errorf("subject = %q, want trimmed %q", session.Subject, "Networks")
	}
	if len(session.Questions) != 5 {
		t.Errorf("questions = %d, want 5", len(session.Questions))
	}
	if !strings.HasPrefix(session.ID, "session_") {
		t.Errorf("session id = %q, want session_ prefix", session.ID)
	}

	// The new session is persisted immediately.
	if got := repo.LoadSessions(ctx); len(got) != 1 || got[0].ID != session.ID {
		t.Errorf("stored sessions = %v, want the created session", got)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		req       model.CreateSessionRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "empty subject",
			req:       model.CreateSessionRequest{Subject: "   ", StartQuestion: 1, EndQuestion: 5},
			wantField: "subject",
		},
		{
			name:      "start below one",
			req:       model.CreateSessionRequest{Subject: "Networks", StartQuestion: 0, EndQuestion: 5},
			wantField: "startQuestion",
		},
		{
			name:      "end before start",
			req:       model.CreateSessionRequest{Subject: "Networks", StartQuestion: 10, EndQuestion: 5},
			wantField: "endQuestion",
		},
		{
			name:      "range over 100",
			req:       model.CreateSessionRequest{Subject: "Networks", StartQuestion: 10, EndQuestion: 120},
			wantField: "endQuestion",
			wantMsg:   "Maximum 100 questions per session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSession(ctx, tt.req)
			if apperr.CodeOf(err) != apperr.ErrValidation {
				t.Fatalf("err = %v, want VALIDATION_ERROR", err)
			}
			fields := apperr.FieldsOf(err)
			msg, ok := fields[tt.wantField]
			if !ok {
				t.Fatalf("fields = %v, want key %q", fields, tt.wantField)
			}
			if tt.wantMsg != "" && msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}

	// No session produced on any validation failure.
	if got := repo.LoadSessions(ctx); len(got) != 0 {
		t.Errorf("stored sessions = %v, want none", got)
	}
}

func TestBoundaryRangeOfOneHundredIsAllowed(t *testing.T) {
	svc, _ := newTestService(t)

	session, err := svc.CreateSession(context.Background(), model.CreateSessionRequest{
		Subject:       "Networks",
		StartQuestion: 1,
		EndQuestion:   101,
	})
	if err != nil {
		t.Fatalf("CreateSession at span boundary: %v", err)
	}
	if len(session.Questions) != 101 {
		t.Errorf("questions = %d, want 101", len(session.Questions))
	}
}

func TestMutationsAutoSave(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, model.CreateSessionRequest{
		Subject:       "Networks",
		StartQuestion: 1,
		EndQuestion:   5,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	session, err = svc.SetSingleChoice(ctx, session, 2, model.OptionC)
	if err != nil {
		t.Fatalf("SetSingleChoice: %v", err)
	}

	stored := repo.LoadSessions(ctx)
	if len(stored) != 1 {
		t.Fatalf("stored %d sessions, want 1", len(stored))
	}
	if stored[0].AnsweredCount() != 1 {
		t.Errorf("stored copy lags the mutation: answered = %d, want 1", stored[0].AnsweredCount())
	}

	if _, err = svc.SkipQuestion(ctx, session, 3); err != nil {
		t.Fatalf("SkipQuestion: %v", err)
	}
	if got := repo.LoadSessions(ctx)[0].SkippedCount(); got != 1 {
		t.Errorf("stored skipped = %d, want 1", got)
	}
}

func TestSetNumericAnswerBadInputDoesNotSave(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, model.CreateSessionRequest{
		Subject:       "Networks",
		StartQuestion: 1,
		EndQuestion:   3,
	})
	session, err := svc.SetQuestionType(ctx, session, 1, model.QuestionTypeNAT)
	if err != nil {
		t.Fatalf("SetQuestionType: %v", err)
	}
	session, err = svc.SetNumericAnswer(ctx, session, 1, "1.5")
	if err != nil {
		t.Fatalf("SetNumericAnswer: %v", err)
	}

	next, err := svc.SetNumericAnswer(ctx, session, 1, "xyz")
	if err != nil {
		t.Fatalf("bad input returned error: %v", err)
	}
	q, _ := next.Question(1)
	if q.Answer == nil || q.Answer.Value != 1.5 {
		t.Errorf("answer changed on bad input: %+v", q.Answer)
	}
	sq, _ := repo.LoadSessions(ctx)[0].Question(1)
	if sq.Answer == nil || sq.Answer.Value != 1.5 {
		t.Errorf("stored answer changed on bad input: %+v", sq.Answer)
	}
}

func TestFinishSessionFlow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, model.CreateSessionRequest{
		Subject:       "Networks",
		StartQuestion: 1,
		EndQuestion:   3,
	})
	session, _ = svc.SetSingleChoice(ctx, session, 1, model.OptionA)

	session, err := svc.FinishSession(ctx, session)
	if err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	if !session.Completed || session.EndTime == nil {
		t.Fatalf("session not finalized: %+v", session)
	}

	stored := repo.LoadSessions(ctx)[0]
	if !stored.Completed {
		t.Errorf("stored copy not completed")
	}

	// Solving is closed after completion.
	if _, err := svc.SetSingleChoice(ctx, session, 2, model.OptionB); apperr.CodeOf(err) != apperr.ErrSessionCompleted {
		t.Errorf("mutation after finish err = %v, want SESSION_COMPLETED", err)
	}
	if _, err := svc.FinishSession(ctx, session); apperr.CodeOf(err) != apperr.ErrSessionCompleted {
		t.Errorf("double finish err = %v, want SESSION_COMPLETED", err)
	}
}

func TestSessionLookupAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, model.CreateSessionRequest{Subject: "Networks", StartQuestion: 1, EndQuestion: 3})
	b, _ := svc.CreateSession(ctx, model.CreateSessionRequest{Subject: "Algorithms", StartQuestion: 1, EndQuestion: 3})

	got, err := svc.Session(ctx, b.ID)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if got.Subject != "Algorithms" {
		t.Errorf("Session(%s).Subject = %q", b.ID, got.Subject)
	}

	if _, err := svc.Session(ctx, "missing"); apperr.CodeOf(err) != apperr.ErrSessionNotFound {
		t.Errorf("missing session err = %v, want SESSION_NOT_FOUND", err)
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if sessions := svc.Sessions(ctx); len(sessions) != 1 || sessions[0].ID != b.ID {
		t.Errorf("sessions after delete = %v", sessions)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
}
