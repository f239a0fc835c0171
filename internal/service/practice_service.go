package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/gatetrack/internal/apperr"
	"github.com/stemsi/gatetrack/internal/model"
	"github.com/stemsi/gatetrack/internal/repository"
	"github.com/stemsi/gatetrack/internal/validator"
)

// PracticeService drives the session lifecycle: setup, question mutations
// during solving, and completion. Every mutation produces a new session
// value and is persisted immediately, so the stored copy never lags the
// in-memory copy by more than one mutation.
type PracticeService struct {
	repo *repository.SessionRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(repo *repository.SessionRepository, log zerolog.Logger) *PracticeService {
	return &PracticeService{
		repo: repo,
		log:  log.With().Str("component", "practice_service").Logger(),
		now:  time.Now,
	}
}

// CreateSession validates the setup input, builds a fresh session covering
// [start, end] with all questions defaulted to MCQ, and persists it. On
// validation failure no session is created and the error carries the
// field → message map.
func (s *PracticeService) CreateSession(ctx context.Context, req model.CreateSessionRequest) (model.PracticeSession, error) {
	req.Subject = strings.TrimSpace(req.Subject)

	fields := validator.Struct(req)
	if req.EndQuestion-req.StartQuestion > model.MaxQuestionSpan {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields["endQuestion"] = "Maximum 100 questions per session"
	}
	if len(fields) > 0 {
		return model.PracticeSession{}, apperr.NewFields(fields)
	}

	session := model.NewPracticeSession(
		newSessionID(),
		req.Subject,
		req.StartQuestion,
		req.EndQuestion,
		s.now(),
	)

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return model.PracticeSession{}, err
	}

	s.log.Info().
		Str("session_id", session.ID).
		Str("subject", session.Subject).
		Int("questions", len(session.Questions)).
		Msg("session created")

	return session, nil
}

// newSessionID combines a millisecond timestamp with a random component,
// unique across the lifetime of the store.
func newSessionID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// SetQuestionType changes a question's type and persists the result. The
// answer and skipped flag are cleared.
func (s *PracticeService) SetQuestionType(ctx context.Context, session model.PracticeSession, questionID int, t model.QuestionType) (model.PracticeSession, error) {
	next, err := session.SetQuestionType(questionID, t)
	if err != nil {
		return session, err
	}
	return s.persist(ctx, next)
}

// SetSingleChoice records an MCQ answer and persists the result.
func (s *PracticeService) SetSingleChoice(ctx context.Context, session model.PracticeSession, questionID int, choice model.Option) (model.PracticeSession, error) {
	next, err := session.SetSingleChoice(questionID, choice)
	if err != nil {
		return session, err
	}
	return s.persist(ctx, next)
}

// ToggleMultiChoice toggles one MSQ option and persists the result.
func (s *PracticeService) ToggleMultiChoice(ctx context.Context, session model.PracticeSession, questionID int, choice model.Option) (model.PracticeSession, error) {
	next, err := session.ToggleMultiChoice(questionID, choice)
	if err != nil {
		return session, err
	}
	return s.persist(ctx, next)
}

// SetNumericAnswer records a NAT answer parsed from raw input and persists
// the result. Unparsable input leaves the session unchanged and is not an
// error.
func (s *PracticeService) SetNumericAnswer(ctx context.Context, session model.PracticeSession, questionID int, raw string) (model.PracticeSession, error) {
	next, err := session.SetNumericAnswer(questionID, raw)
	if err != nil {
		return session, err
	}
	if _, parsed := model.ParseNumeric(raw); !parsed {
		// Input guard rejected the value; nothing to save.
		return session, nil
	}
	return s.persist(ctx, next)
}

// SkipQuestion marks a question skipped and persists the result.
func (s *PracticeService) SkipQuestion(ctx context.Context, session model.PracticeSession, questionID int) (model.PracticeSession, error) {
	next, err := session.SkipQuestion(questionID)
	if err != nil {
		return session, err
	}
	return s.persist(ctx, next)
}

// FinishSession finalizes the session, setting its end time, and persists
// the result. After this only the verification overlay may mutate it.
func (s *PracticeService) FinishSession(ctx context.Context, session model.PracticeSession) (model.PracticeSession, error) {
	next, err := session.Finish(s.now())
	if err != nil {
		return session, err
	}

	saved, err := s.persist(ctx, next)
	if err != nil {
		return session, err
	}

	s.log.Info().
		Str("session_id", saved.ID).
		Int("answered", saved.AnsweredCount()).
		Int("skipped", saved.SkippedCount()).
		Msg("session completed")

	return saved, nil
}

// Sessions returns all stored sessions sorted by start time, newest first.
func (s *PracticeService) Sessions(ctx context.Context) []model.PracticeSession {
	sessions := s.repo.LoadSessions(ctx)
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	return sessions
}

// Session returns one stored session by id.
func (s *PracticeService) Session(ctx context.Context, id string) (model.PracticeSession, error) {
	for _, session := range s.repo.LoadSessions(ctx) {
		if session.ID == id {
			return session, nil
		}
	}
	return model.PracticeSession{}, apperr.New(apperr.ErrSessionNotFound)
}

// DeleteSession removes a stored session by id.
func (s *PracticeService) DeleteSession(ctx context.Context, id string) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("session_id", id).Msg("session deleted")
	return nil
}

// Subjects returns the stored per-subject statistics.
func (s *PracticeService) Subjects(ctx context.Context) []model.Subject {
	return s.repo.LoadSubjects(ctx)
}

func (s *PracticeService) persist(ctx context.Context, session model.PracticeSession) (model.PracticeSession, error) {
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return session, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}
