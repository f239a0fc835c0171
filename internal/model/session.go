package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stemsi/gatetrack/internal/apperr"
)

// MaxQuestionSpan caps a session's question range: endQuestion may not
// exceed startQuestion by more than this.
const MaxQuestionSpan = 100

// PracticeSession is one practice attempt over a contiguous question-number
// range for one subject. Questions cover exactly [StartQuestion, EndQuestion]
// with ids ascending and no gaps. Completed is true iff EndTime is set.
//
// Sessions are immutable by convention: every transition returns a new value
// and leaves the receiver untouched.
type PracticeSession struct {
	ID            string     `json:"id"`
	Subject       string     `json:"subject"`
	StartQuestion int        `json:"startQuestion"`
	EndQuestion   int        `json:"endQuestion"`
	Questions     []Question `json:"questions"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	Completed     bool       `json:"completed"`
}

// NewPracticeSession builds a fresh session covering [start, end], all
// questions defaulted to MCQ, unanswered, unskipped. Inputs are assumed
// validated by the setup flow.
func NewPracticeSession(id, subject string, start, end int, startedAt time.Time) PracticeSession {
	questions := make([]Question, 0, end-start+1)
	for i := start; i <= end; i++ {
		questions = append(questions, Question{ID: i, Type: QuestionTypeMCQ})
	}
	return PracticeSession{
		ID:            id,
		Subject:       subject,
		StartQuestion: start,
		EndQuestion:   end,
		Questions:     questions,
		StartTime:     startedAt,
	}
}

// Question returns the question with the given id.
func (s PracticeSession) Question(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// withQuestion returns a copy of s with fn applied to the question with the
// given id. The question list is copied, order preserved.
func (s PracticeSession) withQuestion(id int, fn func(Question) Question) (PracticeSession, error) {
	if s.Completed {
		return s, apperr.New(apperr.ErrSessionCompleted)
	}
	return s.updateQuestion(id, fn)
}

func (s PracticeSession) updateQuestion(id int, fn func(Question) Question) (PracticeSession, error) {
	idx := -1
	for i, q := range s.Questions {
		if q.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, apperr.New(apperr.ErrQuestionNotFound)
	}

	questions := make([]Question, len(s.Questions))
	copy(questions, s.Questions)
	questions[idx] = fn(questions[idx])

	next := s
	next.Questions = questions
	return next, nil
}

// SetQuestionType changes a question's type, clearing its answer and skipped
// flag regardless of prior state.
func (s PracticeSession) SetQuestionType(id int, t QuestionType) (PracticeSession, error) {
	if !t.Valid() {
		return s, apperr.New(apperr.ErrValidation)
	}
	return s.withQuestion(id, func(q Question) Question {
		q.Type = t
		q.Answer = nil
		q.Skipped = false
		return q
	})
}

// SetSingleChoice records an MCQ answer and clears the skipped flag.
func (s PracticeSession) SetSingleChoice(id int, choice Option) (PracticeSession, error) {
	if !choice.Valid() {
		return s, apperr.New(apperr.ErrValidation)
	}
	q, ok := s.Question(id)
	if ok && q.Type != QuestionTypeMCQ {
		return s, apperr.New(apperr.ErrWrongQuestionType)
	}
	return s.withQuestion(id, func(q Question) Question {
		q.Answer = SingleChoice(choice)
		q.Skipped = false
		return q
	})
}

// ToggleMultiChoice toggles one option in an MSQ answer set (symmetric
// difference with {choice}) and clears the skipped flag.
func (s PracticeSession) ToggleMultiChoice(id int, choice Option) (PracticeSession, error) {
	if !choice.Valid() {
		return s, apperr.New(apperr.ErrValidation)
	}
	q, ok := s.Question(id)
	if ok && q.Type != QuestionTypeMSQ {
		return s, apperr.New(apperr.ErrWrongQuestionType)
	}
	return s.withQuestion(id, func(q Question) Question {
		q.Answer = q.Answer.toggled(choice)
		q.Skipped = false
		return q
	})
}

// ParseNumeric parses raw user input as a finite real number.
func ParseNumeric(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// SetNumericAnswer records a NAT answer parsed from raw user input. Input
// that does not parse as a finite number leaves the session unchanged; this
// is a user-input guard, not a failure.
func (s PracticeSession) SetNumericAnswer(id int, raw string) (PracticeSession, error) {
	q, ok := s.Question(id)
	if ok && q.Type != QuestionTypeNAT {
		return s, apperr.New(apperr.ErrWrongQuestionType)
	}

	value, parsed := ParseNumeric(raw)
	if !parsed {
		if s.Completed {
			return s, apperr.New(apperr.ErrSessionCompleted)
		}
		if !ok {
			return s, apperr.New(apperr.ErrQuestionNotFound)
		}
		return s, nil
	}

	return s.withQuestion(id, func(q Question) Question {
		q.Answer = Numeric(value)
		q.Skipped = false
		return q
	})
}

// SkipQuestion marks a question skipped, clearing any answer.
func (s PracticeSession) SkipQuestion(id int) (PracticeSession, error) {
	return s.withQuestion(id, func(q Question) Question {
		q.Skipped = true
		q.Answer = nil
		return q
	})
}

// Finish finalizes the session. A session is finalized exactly once;
// finishing a completed session is rejected.
func (s PracticeSession) Finish(at time.Time) (PracticeSession, error) {
	if s.Completed {
		return s, apperr.New(apperr.ErrSessionCompleted)
	}
	next := s
	next.EndTime = &at
	next.Completed = true
	return next, nil
}

// MarkVerified records the correctness of one question of a completed
// session. It never touches answer, skipped or type, and verification never
// reverts: re-verification overwrites IsCorrect.
func (s PracticeSession) MarkVerified(id int, isCorrect bool) (PracticeSession, error) {
	if !s.Completed {
		return s, apperr.New(apperr.ErrSessionNotCompleted)
	}
	return s.updateQuestion(id, func(q Question) Question {
		q.Verified = true
		q.IsCorrect = isCorrect
		return q
	})
}

// ─── Derived queries (recomputed on demand, never cached) ──────────────────

// AnsweredCount counts questions with an answer present and not skipped.
func (s PracticeSession) AnsweredCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Answered() {
			n++
		}
	}
	return n
}

// SkippedCount counts skipped questions.
func (s PracticeSession) SkippedCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Skipped {
			n++
		}
	}
	return n
}

// RemainingCount counts questions neither answered nor skipped.
func (s PracticeSession) RemainingCount() int {
	return len(s.Questions) - s.AnsweredCount() - s.SkippedCount()
}

// CompletionRate is AnsweredCount over the total question count, in [0, 1].
func (s PracticeSession) CompletionRate() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return float64(s.AnsweredCount()) / float64(len(s.Questions))
}

// CorrectCount counts verified questions marked correct.
func (s PracticeSession) CorrectCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Verified && q.IsCorrect {
			n++
		}
	}
	return n
}

// IncorrectCount counts verified questions marked incorrect.
func (s PracticeSession) IncorrectCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Verified && !q.IsCorrect {
			n++
		}
	}
	return n
}

// AccuracyRate is CorrectCount over the total question count, in [0, 1].
func (s PracticeSession) AccuracyRate() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return float64(s.CorrectCount()) / float64(len(s.Questions))
}

// TypeCount counts questions of the given type.
func (s PracticeSession) TypeCount(t QuestionType) int {
	n := 0
	for _, q := range s.Questions {
		if q.Type == t {
			n++
		}
	}
	return n
}

// Duration returns the elapsed time of a completed session, or false while
// the session is still in progress.
func (s PracticeSession) Duration() (time.Duration, bool) {
	if s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(s.StartTime), true
}
