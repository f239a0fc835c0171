package model

import "time"

// Subject holds rolling per-subject practice statistics. Subjects are
// derived from session saves and never edited directly.
type Subject struct {
	Name           string     `json:"name"`
	TotalQuestions int        `json:"totalQuestions"`
	TotalSessions  int        `json:"totalSessions"`
	LastPracticed  *time.Time `json:"lastPracticed,omitempty"`
}

// CreateSessionRequest is the validated input of the session setup flow.
type CreateSessionRequest struct {
	Subject       string `json:"subject" validate:"required"`
	StartQuestion int    `json:"startQuestion" validate:"min=1"`
	EndQuestion   int    `json:"endQuestion" validate:"gtefield=StartQuestion"`
}
