package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/gatetrack/internal/model"
	"github.com/stemsi/gatetrack/internal/storage"
)

// SessionRepository is the sole reader/writer of the practice store. It
// persists the whole session list on every save and recomputes the subject
// statistics from it.
//
// The store is read-modify-write with no locking: two live copies of the
// same stored list will clobber each other, last write wins. Acceptable for
// a single-user, single-focus tool.
type SessionRepository struct {
	store storage.KeyValueStore
	log   zerolog.Logger
}

// NewSessionRepository creates a new SessionRepository over the given store.
func NewSessionRepository(store storage.KeyValueStore, log zerolog.Logger) *SessionRepository {
	return &SessionRepository{
		store: store,
		log:   log.With().Str("component", "session_repository").Logger(),
	}
}

// LoadSessions returns all stored sessions. A missing or unreadable blob
// degrades to an empty list with a logged diagnostic, never an error.
func (r *SessionRepository) LoadSessions(ctx context.Context) []model.PracticeSession {
	blob, err := r.store.Get(ctx, storage.KeySessions)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Warn().Err(err).Msg("loading sessions failed, treating store as empty")
		}
		return nil
	}

	var sessions []model.PracticeSession
	if err := json.Unmarshal([]byte(blob), &sessions); err != nil {
		r.log.Warn().Err(err).Msg("stored sessions are unreadable, treating store as empty")
		return nil
	}
	return sessions
}

// SaveSession upserts the session by id into the stored list, persists the
// whole list, then recomputes the subject statistics from it. Safe to call
// on every in-progress mutation, not only on completion.
func (r *SessionRepository) SaveSession(ctx context.Context, session model.PracticeSession) error {
	sessions := r.LoadSessions(ctx)

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}

	if err := r.writeSessions(ctx, sessions); err != nil {
		return err
	}

	subjects := aggregateSubjects(sessions)
	blob, err := json.Marshal(subjects)
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeySubjects, string(blob)); err != nil {
		return fmt.Errorf("persist subjects: %w", err)
	}
	return nil
}

// DeleteSession removes the session by id and persists the remainder. The
// subjects blob is left as-is; it is reconciled by the next save (known
// limitation).
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	sessions := r.LoadSessions(ctx)

	kept := sessions[:0]
	for _, s := range sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return r.writeSessions(ctx, kept)
}

// LoadSubjects returns the stored subject statistics. Missing or unreadable
// data degrades to an empty list.
func (r *SessionRepository) LoadSubjects(ctx context.Context) []model.Subject {
	blob, err := r.store.Get(ctx, storage.KeySubjects)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Warn().Err(err).Msg("loading subjects failed, treating store as empty")
		}
		return nil
	}

	var subjects []model.Subject
	if err := json.Unmarshal([]byte(blob), &subjects); err != nil {
		r.log.Warn().Err(err).Msg("stored subjects are unreadable, treating store as empty")
		return nil
	}
	return subjects
}

func (r *SessionRepository) writeSessions(ctx context.Context, sessions []model.PracticeSession) error {
	if sessions == nil {
		sessions = []model.PracticeSession{}
	}
	blob, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeySessions, string(blob)); err != nil {
		return fmt.Errorf("persist sessions: %w", err)
	}
	return nil
}
