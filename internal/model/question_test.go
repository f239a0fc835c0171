package model

import (
	"encoding/json"
	"testing"
)

func TestQuestionMarshalAnswerShapes(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		want     string
	}{
		{
			name:     "MCQ answer is a bare string",
			question: Question{ID: 1, Type: QuestionTypeMCQ, Answer: SingleChoice(OptionB)},
			want:     `{"id":1,"type":"MCQ","answer":"B"}`,
		},
		{
			name:     "MSQ answer is a string array",
			question: Question{ID: 2, Type: QuestionTypeMSQ, Answer: MultiChoice(OptionC, OptionA)},
			want:     `{"id":2,"type":"MSQ","answer":["A","C"]}`,
		},
		{
			name:     "NAT answer is a number",
			question: Question{ID: 3, Type: QuestionTypeNAT, Answer: Numeric(2.5)},
			want:     `{"id":3,"type":"NAT","answer":2.5}`,
		},
		{
			name:     "unanswered omits answer",
			question: Question{ID: 4, Type: QuestionTypeMCQ},
			want:     `{"id":4,"type":"MCQ"}`,
		},
		{
			name:     "skipped question",
			question: Question{ID: 5, Type: QuestionTypeMCQ, Skipped: true},
			want:     `{"id":5,"type":"MCQ","skipped":true}`,
		},
		{
			name:     "verified incorrect keeps isCorrect false",
			question: Question{ID: 6, Type: QuestionTypeMCQ, Answer: SingleChoice(OptionA), Verified: true},
			want:     `{"id":6,"type":"MCQ","answer":"A","verified":true,"isCorrect":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.question)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshal = %s, want %s", data, tt.want)
			}

			var back Question
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			round, err := json.Marshal(back)
			if err != nil {
				t.Fatalf("re-marshal: %v", err)
			}
			if string(round) != tt.want {
				t.Errorf("round-trip = %s, want %s", round, tt.want)
			}
		})
	}
}

func TestDecodeAnswerDropsMismatchedPayloads(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"array stored for MCQ", `{"id":1,"type":"MCQ","answer":["A"]}`},
		{"number stored for MCQ", `{"id":1,"type":"MCQ","answer":4}`},
		{"string stored for NAT", `{"id":1,"type":"NAT","answer":"abc"}`},
		{"unknown option for MCQ", `{"id":1,"type":"MCQ","answer":"E"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Question
			if err := json.Unmarshal([]byte(tt.blob), &q); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if q.Answer != nil {
				t.Errorf("answer = %+v, want nil", q.Answer)
			}
		})
	}
}

func TestMultiChoiceNormalizes(t *testing.T) {
	a := MultiChoice(OptionD, OptionB, OptionD, OptionA)
	want := []Option{OptionA, OptionB, OptionD}
	if len(a.Choices) != len(want) {
		t.Fatalf("choices = %v, want %v", a.Choices, want)
	}
	for i := range want {
		if a.Choices[i] != want[i] {
			t.Errorf("choices[%d] = %s, want %s", i, a.Choices[i], want[i])
		}
	}

	if got := MultiChoice(); got != nil {
		t.Errorf("empty selection = %+v, want nil", got)
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"2.5", 2.5, true},
		{"-0.75", -0.75, true},
		{" 42 ", 42, true},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseNumeric(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseNumeric(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}
