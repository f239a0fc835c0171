package model

import (
	"encoding/json"
	"sort"
)

// QuestionType discriminates the answer payload a question carries.
type QuestionType string

const (
	QuestionTypeMCQ QuestionType = "MCQ"
	QuestionTypeMSQ QuestionType = "MSQ"
	QuestionTypeNAT QuestionType = "NAT"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeMSQ, QuestionTypeNAT:
		return true
	}
	return false
}

// Option is one of the four answer choices of an MCQ/MSQ question.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// Options lists the four choices in display order.
var Options = []Option{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether o is one of A, B, C, D.
func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// Answer is the tagged answer payload of a question. Exactly one field is
// meaningful, selected by the owning question's type: Choice for MCQ,
// Choices for MSQ (sorted, no duplicates), Value for NAT.
type Answer struct {
	Choice  Option
	Choices []Option
	Value   float64
}

// SingleChoice builds an MCQ answer.
func SingleChoice(o Option) *Answer {
	return &Answer{Choice: o}
}

// MultiChoice builds an MSQ answer from the given options, sorted and
// de-duplicated. Returns nil for an empty selection.
func MultiChoice(opts ...Option) *Answer {
	set := normalizeChoices(opts)
	if len(set) == 0 {
		return nil
	}
	return &Answer{Choices: set}
}

// Numeric builds a NAT answer.
func Numeric(v float64) *Answer {
	return &Answer{Value: v}
}

func normalizeChoices(opts []Option) []Option {
	seen := make(map[Option]bool, len(opts))
	set := make([]Option, 0, len(opts))
	for _, o := range opts {
		if !seen[o] {
			seen[o] = true
			set = append(set, o)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// toggled returns the symmetric difference of the current MSQ selection and
// {o}: o is added if absent, removed if present. Nil means empty selection.
func (a *Answer) toggled(o Option) *Answer {
	var current []Option
	if a != nil {
		current = a.Choices
	}
	next := make([]Option, 0, len(current)+1)
	removed := false
	for _, c := range current {
		if c == o {
			removed = true
			continue
		}
		next = append(next, c)
	}
	if !removed {
		next = append(next, o)
	}
	return MultiChoice(next...)
}

// Question is one entry of a practice session. ID is the exam question
// number, stable and unique within the session. Verification fields are
// only meaningful once Verified is true.
type Question struct {
	ID        int
	Type      QuestionType
	Answer    *Answer
	Skipped   bool
	Verified  bool
	IsCorrect bool
}

// Answered reports whether the question carries an answer and is not skipped.
func (q Question) Answered() bool {
	return q.Answer != nil && !q.Skipped
}

// questionJSON is the persisted shape of a Question. The answer field keeps
// the stored union layout: a bare string (MCQ), a string array (MSQ) or a
// number (NAT).
type questionJSON struct {
	ID        int             `json:"id"`
	Type      QuestionType    `json:"type"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Skipped   bool            `json:"skipped,omitempty"`
	Verified  bool            `json:"verified,omitempty"`
	IsCorrect *bool           `json:"isCorrect,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		ID:       q.ID,
		Type:     q.Type,
		Skipped:  q.Skipped,
		Verified: q.Verified,
	}

	if q.Answer != nil {
		var payload any
		switch q.Type {
		case QuestionTypeMCQ:
			payload = q.Answer.Choice
		case QuestionTypeMSQ:
			payload = q.Answer.Choices
		case QuestionTypeNAT:
			payload = q.Answer.Value
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		out.Answer = raw
	}

	if q.Verified {
		correct := q.IsCorrect
		out.IsCorrect = &correct
	}

	return json.Marshal(out)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var in questionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*q = Question{
		ID:       in.ID,
		Type:     in.Type,
		Skipped:  in.Skipped,
		Verified: in.Verified,
	}
	if in.IsCorrect != nil {
		q.IsCorrect = *in.IsCorrect
	}
	q.Answer = decodeAnswer(in.Type, in.Answer)
	return nil
}

// decodeAnswer parses the stored answer union by the declared question type.
// A payload that does not match the type is dropped rather than failing the
// whole load.
func decodeAnswer(t QuestionType, raw json.RawMessage) *Answer {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	switch t {
	case QuestionTypeMCQ:
		var choice Option
		if err := json.Unmarshal(raw, &choice); err == nil && choice.Valid() {
			return SingleChoice(choice)
		}
	case QuestionTypeMSQ:
		var choices []Option
		if err := json.Unmarshal(raw, &choices); err == nil {
			return MultiChoice(choices...)
		}
	case QuestionTypeNAT:
		var value float64
		if err := json.Unmarshal(raw, &value); err == nil {
			return Numeric(value)
		}
	}
	return nil
}
