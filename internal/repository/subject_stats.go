package repository

import (
	"sort"
	"time"

	"github.com/stemsi/gatetrack/internal/model"
)

// aggregateSubjects recomputes the whole subject list from the stored
// sessions. Rebuilding from scratch keeps the statistics idempotent across
// the auto-saves made during solving: a session counts once no matter how
// often it is saved.
func aggregateSubjects(sessions []model.PracticeSession) []model.Subject {
	byName := make(map[string]*model.Subject)

	for _, session := range sessions {
		subject, ok := byName[session.Subject]
		if !ok {
			subject = &model.Subject{Name: session.Subject}
			byName[session.Subject] = subject
		}

		subject.TotalQuestions += len(session.Questions)
		subject.TotalSessions++

		practiced := lastPracticedAt(session)
		if subject.LastPracticed == nil || practiced.After(*subject.LastPracticed) {
			subject.LastPracticed = &practiced
		}
	}

	subjects := make([]model.Subject, 0, len(byName))
	for _, subject := range byName {
		subjects = append(subjects, *subject)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects
}

// lastPracticedAt is the session's end time, falling back to its start time
// while the session is still in progress.
func lastPracticedAt(session model.PracticeSession) time.Time {
	if session.EndTime != nil {
		return *session.EndTime
	}
	return session.StartTime
}
