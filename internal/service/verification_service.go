package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/gatetrack/internal/model"
	"github.com/stemsi/gatetrack/internal/repository"
)

// VerificationService layers post-completion correctness marking on a
// completed session without touching its answer data.
type VerificationService struct {
	repo *repository.SessionRepository
	log  zerolog.Logger
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(repo *repository.SessionRepository, log zerolog.Logger) *VerificationService {
	return &VerificationService{
		repo: repo,
		log:  log.With().Str("component", "verification_service").Logger(),
	}
}

// MarkVerified records whether one question of a completed session was
// answered correctly and persists the result. Re-marking a verified
// question overwrites its correctness; verification never reverts.
func (s *VerificationService) MarkVerified(ctx context.Context, session model.PracticeSession, questionID int, isCorrect bool) (model.PracticeSession, error) {
	next, err := session.MarkVerified(questionID, isCorrect)
	if err != nil {
		return session, err
	}

	if err := s.repo.SaveSession(ctx, next); err != nil {
		return session, fmt.Errorf("save session: %w", err)
	}

	s.log.Debug().
		Str("session_id", next.ID).
		Int("question_id", questionID).
		Bool("correct", isCorrect).
		Msg("question verified")

	return next, nil
}
