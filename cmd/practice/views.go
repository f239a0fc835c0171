package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/gatetrack/internal/apperr"
	"github.com/stemsi/gatetrack/internal/config"
	"github.com/stemsi/gatetrack/internal/model"
	"github.com/stemsi/gatetrack/internal/service"
)

// app holds the interactive views. All domain logic lives in internal/;
// the views only read lines, dispatch and print.
type app struct {
	cfg          *config.Config
	log          zerolog.Logger
	practice     *service.PracticeService
	verification *service.VerificationService
	in           *bufio.Scanner
	out          io.Writer
}

func (a *app) run(ctx context.Context) error {
	a.printf("GATE Practice Tracker\n")

	for {
		a.printf("\n[1] New session  [2] History  [3] Analytics  [q] Quit\n")
		switch a.prompt("> ") {
		case "1":
			a.setupView(ctx)
		case "2":
			a.historyView(ctx)
		case "3":
			a.analyticsView(ctx)
		case "q", "quit", "exit":
			return nil
		}
	}
}

// setupView collects subject and question range, then runs the solver.
func (a *app) setupView(ctx context.Context) {
	for {
		subject := a.prompt("Subject: ")
		start := a.promptInt("Start question: ", 1)
		end := a.promptInt("End question: ", 10)

		session, err := a.practice.CreateSession(ctx, model.CreateSessionRequest{
			Subject:       subject,
			StartQuestion: start,
			EndQuestion:   end,
		})
		if err != nil {
			if fields := apperr.FieldsOf(err); fields != nil {
				for field, msg := range fields {
					a.printf("  %s: %s\n", field, msg)
				}
				continue
			}
			a.printf("  %v\n", err)
			return
		}

		a.solverView(ctx, session)
		return
	}
}

// solverView is the question-by-question solving loop. Every answer command
// persists immediately.
func (a *app) solverView(ctx context.Context, session model.PracticeSession) {
	current := session.StartQuestion

	a.printf("\nSolving %s, questions %d-%d\n", session.Subject, session.StartQuestion, session.EndQuestion)
	a.printf("Commands: mcq/msq/nat, a-d, <number> (NAT), skip, next, prev, goto N, status, finish\n")

	for {
		q, _ := session.Question(current)
		a.printf("\nQ%d [%s] %s\n", q.ID, q.Type, a.questionState(q))

		line := a.prompt("? ")
		parts := strings.Fields(strings.ToLower(line))
		if len(parts) == 0 {
			continue
		}

		var err error
		switch parts[0] {
		case "mcq":
			session, err = a.practice.SetQuestionType(ctx, session, current, model.QuestionTypeMCQ)
		case "msq":
			session, err = a.practice.SetQuestionType(ctx, session, current, model.QuestionTypeMSQ)
		case "nat":
			session, err = a.practice.SetQuestionType(ctx, session, current, model.QuestionTypeNAT)
		case "a", "b", "c", "d":
			choice := model.Option(strings.ToUpper(parts[0]))
			if q.Type == model.QuestionTypeMSQ {
				session, err = a.practice.ToggleMultiChoice(ctx, session, current, choice)
			} else {
				session, err = a.practice.SetSingleChoice(ctx, session, current, choice)
			}
		case "skip":
			session, err = a.practice.SkipQuestion(ctx, session, current)
		case "next":
			if current < session.EndQuestion {
				current++
			}
		case "prev":
			if current > session.StartQuestion {
				current--
			}
		case "goto":
			if len(parts) > 1 {
				if n, convErr := strconv.Atoi(parts[1]); convErr == nil &&
					n >= session.StartQuestion && n <= session.EndQuestion {
					current = n
				}
			}
		case "status":
			a.printStatus(session)
		case "finish":
			session, err = a.practice.FinishSession(ctx, session)
			if err == nil {
				a.reviewView(ctx, session)
				return
			}
		default:
			if q.Type == model.QuestionTypeNAT {
				session, err = a.practice.SetNumericAnswer(ctx, session, current, parts[0])
			}
		}

		if err != nil {
			a.printf("  %v\n", err)
		}
	}
}

// reviewView shows the completed session summary with export and
// verification commands.
func (a *app) reviewView(ctx context.Context, session model.PracticeSession) {
	a.printStatus(session)
	for _, q := range session.Questions {
		a.printf("  Q%d [%s] %s%s\n", q.ID, q.Type, service.FormatAnswer(q), a.verdict(q))
	}

	a.printf("Commands: mark N correct|wrong, export, back\n")
	for {
		parts := strings.Fields(strings.ToLower(a.prompt("review> ")))
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "mark":
			if len(parts) < 3 {
				a.printf("  usage: mark N correct|wrong\n")
				continue
			}
			n, convErr := strconv.Atoi(parts[1])
			if convErr != nil {
				a.printf("  usage: mark N correct|wrong\n")
				continue
			}
			next, err := a.verification.MarkVerified(ctx, session, n, parts[2] == "correct")
			if err != nil {
				a.printf("  %v\n", err)
				continue
			}
			session = next
			a.printf("  Correct: %d  Incorrect: %d  Accuracy: %.0f%%\n",
				session.CorrectCount(), session.IncorrectCount(), session.AccuracyRate()*100)
		case "export":
			path, err := service.WriteExport(a.cfg.ExportDir, session)
			if err != nil {
				a.printf("  %v\n", err)
				continue
			}
			a.printf("  exported to %s\n", path)
		case "back", "q":
			return
		}
	}
}

// historyView lists stored sessions, newest first.
func (a *app) historyView(ctx context.Context) {
	sessions := a.practice.Sessions(ctx)
	if len(sessions) == 0 {
		a.printf("No practice sessions yet.\n")
		return
	}

	for i, s := range sessions {
		status := "In Progress"
		if s.Completed {
			status = "Completed"
		}
		a.printf("[%d] %s  questions %d-%d  %s  %s  %.1f%%\n",
			i+1, s.Subject, s.StartQuestion, s.EndQuestion,
			s.StartTime.Format("2006-01-02"), status, s.CompletionRate()*100)
		a.printf("    %s  MCQ:%d MSQ:%d NAT:%d\n",
			service.FormatDuration(s.StartTime, s.EndTime),
			s.TypeCount(model.QuestionTypeMCQ),
			s.TypeCount(model.QuestionTypeMSQ),
			s.TypeCount(model.QuestionTypeNAT))
	}

	a.printf("Commands: open N, delete N, back\n")
	for {
		parts := strings.Fields(strings.ToLower(a.prompt("history> ")))
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "open", "delete":
			if len(parts) < 2 {
				continue
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 || n > len(sessions) {
				a.printf("  no such session\n")
				continue
			}
			if parts[0] == "delete" {
				if err := a.practice.DeleteSession(ctx, sessions[n-1].ID); err != nil {
					a.printf("  %v\n", err)
					continue
				}
				a.printf("  deleted\n")
				return
			}
			a.reviewView(ctx, sessions[n-1])
			return
		case "back", "q":
			return
		}
	}
}

// analyticsView prints the cross-subject aggregates.
func (a *app) analyticsView(ctx context.Context) {
	subjects := a.practice.Subjects(ctx)
	if len(subjects) == 0 {
		a.printf("No analytics yet. Start practicing to see your progress.\n")
		return
	}

	overview := service.BuildOverview(subjects)
	a.printf("Total questions: %d\n", overview.TotalQuestions)
	a.printf("Total sessions:  %d\n", overview.TotalSessions)
	a.printf("Avg questions per session: %.1f\n", overview.AvgQuestionsPerSession)
	if overview.MostPracticed != nil {
		a.printf("Most practiced: %s (%d questions)\n",
			overview.MostPracticed.Name, overview.MostPracticed.TotalQuestions)
	}

	a.printf("Recently practiced:\n")
	for _, s := range service.RecentlyPracticed(subjects, 5) {
		a.printf("  %s  %s  (%d sessions)\n",
			s.Name, s.LastPracticed.Format("2006-01-02 15:04"), s.TotalSessions)
	}
}

func (a *app) printStatus(session model.PracticeSession) {
	a.printf("Answered: %d  Skipped: %d  Remaining: %d  Completion: %.1f%%\n",
		session.AnsweredCount(), session.SkippedCount(),
		session.RemainingCount(), session.CompletionRate()*100)
}

func (a *app) questionState(q model.Question) string {
	switch {
	case q.Skipped:
		return "skipped"
	case q.Answer != nil:
		return "answer: " + service.FormatAnswer(q)
	default:
		return "unanswered"
	}
}

func (a *app) verdict(q model.Question) string {
	if !q.Verified {
		return ""
	}
	if q.IsCorrect {
		return "  ✓"
	}
	return "  ✗"
}

func (a *app) prompt(label string) string {
	a.printf("%s", label)
	if !a.in.Scan() {
		return "q"
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) promptInt(label string, fallback int) int {
	raw := a.prompt(label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
