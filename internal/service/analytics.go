package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/stemsi/gatetrack/internal/model"
)

// Overview aggregates the subject statistics shown by the analytics view.
type Overview struct {
	TotalQuestions         int
	TotalSessions          int
	AvgQuestionsPerSession float64
	MostPracticed          *model.Subject
}

// BuildOverview computes cross-subject totals and the most practiced
// subject (by total questions).
func BuildOverview(subjects []model.Subject) Overview {
	var o Overview
	for i := range subjects {
		o.TotalQuestions += subjects[i].TotalQuestions
		o.TotalSessions += subjects[i].TotalSessions
		if o.MostPracticed == nil || subjects[i].TotalQuestions > o.MostPracticed.TotalQuestions {
			o.MostPracticed = &subjects[i]
		}
	}
	if o.TotalSessions > 0 {
		o.AvgQuestionsPerSession = float64(o.TotalQuestions) / float64(o.TotalSessions)
	}
	return o
}

// RecentlyPracticed returns up to n subjects with a recorded practice time,
// most recent first.
func RecentlyPracticed(subjects []model.Subject, n int) []model.Subject {
	recent := make([]model.Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.LastPracticed != nil {
			recent = append(recent, s)
		}
	}
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].LastPracticed.After(*recent[j].LastPracticed)
	})
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}

// FormatDuration renders a session's elapsed time for the history view.
func FormatDuration(start time.Time, end *time.Time) string {
	if end == nil {
		return "In progress"
	}
	minutes := int(end.Sub(start).Minutes())
	return fmt.Sprintf("%d minutes", minutes)
}
