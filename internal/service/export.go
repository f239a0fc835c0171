package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stemsi/gatetrack/internal/model"
)

// Response status texts in the export artifact.
const (
	StatusAnswered    = "Answered"
	StatusSkipped     = "Skipped"
	StatusNotAnswered = "Not answered"
)

// ExportDocument is the one-way review export. It is written for external
// consumption and never re-imported.
type ExportDocument struct {
	Session   ExportSession    `json:"session"`
	Responses []ExportResponse `json:"responses"`
}

// ExportSession summarizes the exported session.
type ExportSession struct {
	Subject        string     `json:"subject"`
	QuestionRange  string     `json:"questionRange"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	TotalQuestions int        `json:"totalQuestions"`
	Answered       int        `json:"answered"`
	Skipped        int        `json:"skipped"`
}

// ExportResponse is one question's formatted answer.
type ExportResponse struct {
	Question int                `json:"question"`
	Type     model.QuestionType `json:"type"`
	Answer   string             `json:"answer"`
	Status   string             `json:"status"`
}

// BuildExport assembles the export document for a session.
func BuildExport(session model.PracticeSession) ExportDocument {
	responses := make([]ExportResponse, 0, len(session.Questions))
	for _, q := range session.Questions {
		responses = append(responses, ExportResponse{
			Question: q.ID,
			Type:     q.Type,
			Answer:   FormatAnswer(q),
			Status:   answerStatus(q),
		})
	}

	return ExportDocument{
		Session: ExportSession{
			Subject:        session.Subject,
			QuestionRange:  fmt.Sprintf("%d-%d", session.StartQuestion, session.EndQuestion),
			StartTime:      session.StartTime,
			EndTime:        session.EndTime,
			TotalQuestions: len(session.Questions),
			Answered:       session.AnsweredCount(),
			Skipped:        session.SkippedCount(),
		},
		Responses: responses,
	}
}

// FormatAnswer renders a question's answer for display and export: MSQ
// selections joined with ", ", NAT values in plain number form.
func FormatAnswer(q model.Question) string {
	if q.Skipped {
		return StatusSkipped
	}
	if q.Answer == nil {
		return StatusNotAnswered
	}

	switch q.Type {
	case model.QuestionTypeMSQ:
		parts := make([]string, 0, len(q.Answer.Choices))
		for _, c := range q.Answer.Choices {
			parts = append(parts, string(c))
		}
		return strings.Join(parts, ", ")
	case model.QuestionTypeNAT:
		return strconv.FormatFloat(q.Answer.Value, 'f', -1, 64)
	default:
		return string(q.Answer.Choice)
	}
}

func answerStatus(q model.Question) string {
	switch {
	case q.Skipped:
		return StatusSkipped
	case q.Answer != nil:
		return StatusAnswered
	default:
		return StatusNotAnswered
	}
}

// ExportFileName derives the export artifact name from the subject and the
// session's start date, e.g. gate_practice_Computer_Science_2026-08-30.json.
func ExportFileName(session model.PracticeSession) string {
	subject := strings.Join(strings.Fields(session.Subject), "_")
	return fmt.Sprintf("gate_practice_%s_%s.json", subject, session.StartTime.Format("2006-01-02"))
}

// WriteExport writes the session's export document into dir and returns the
// written path.
func WriteExport(dir string, session model.PracticeSession) (string, error) {
	doc := BuildExport(session)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}

	path := filepath.Join(dir, ExportFileName(session))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
