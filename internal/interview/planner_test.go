package interview

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/interview-agent/internal/ai"
)

func TestPlannerBuildsPlan(t *testing.T) {
	scorer := newScriptedScorer()
	source := &memorySource{questions: map[string][]Candidate{
		CategoryBehavioral:      {{Question: "B1"}, {Question: "  "}, {Question: "B2", FollowUpHint: " why? "}, {Question: "B3"}},
		CategorySoftware:        {{Question: "S1"}},
		CategoryProjectDeepDive: {{Question: "P1"}, {Question: "P2"}},
	}}
	cfg := &Config{QuestionsPerCategory: 2}
	planner := newTestPlanner(scorer, source, cfg)

	st, err := planner.Plan(context.Background(), "resume", "Senior Software Engineer\nBuild APIs in Go.", "  Jane Doe ")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if st.Phase != PhaseInterviewing || st.CurrentQuestionIndex != 0 {
		t.Fatalf("unexpected phase %s index %d", st.Phase, st.CurrentQuestionIndex)
	}
	if st.SessionID != "session-1" || !st.StartedAt.Equal(testStart) {
		t.Fatalf("unexpected identity %s %v", st.SessionID, st.StartedAt)
	}

	wantCategories := []string{CategoryBehavioral, CategorySoftware, CategoryProjectDeepDive}
	if !reflect.DeepEqual(st.Plan.Categories, wantCategories) {
		t.Fatalf("unexpected categories %v", st.Plan.Categories)
	}
	if !reflect.DeepEqual(source.requests, wantCategories) {
		t.Fatalf("unexpected source requests %v", source.requests)
	}

	var got []string
	for _, q := range st.Plan.Questions {
		if q.Asked || q.Answer != "" || q.FollowUpAsked {
			t.Fatalf("question %q not in default state", q.Question)
		}
		got = append(got, q.Category+"/"+q.Question)
	}
	// B1 and the blank entry are the two candidates within the limit.
	want := []string{
		CategoryBehavioral + "/B1",
		CategorySoftware + "/S1",
		CategoryProjectDeepDive + "/P1",
		CategoryProjectDeepDive + "/P2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected questions %v", got)
	}

	if st.Plan.Position != "Senior Software Engineer" || st.Plan.DurationMinutes != defaultDurationMinutes {
		t.Fatalf("unexpected plan header %+v", st.Plan)
	}
	if st.CandidateName != "Jane Doe" || st.Plan.CandidateName != "Jane Doe" {
		t.Fatalf("candidate name not trimmed: %q", st.CandidateName)
	}
	if !reflect.DeepEqual(st.Plan.SkillsToAssess, []string{"go", "sql"}) ||
		!reflect.DeepEqual(st.Plan.FocusAreas, []string{"go", "kubernetes"}) {
		t.Fatalf("unexpected skills %v / %v", st.Plan.SkillsToAssess, st.Plan.FocusAreas)
	}

	if len(st.ConversationHistory) != 1 {
		t.Fatalf("expected greeting only, got %d entries", len(st.ConversationHistory))
	}
	greeting := st.ConversationHistory[0]
	if greeting.Speaker != SpeakerInterviewer || greeting.Tag != tagStart || !strings.HasPrefix(greeting.Message, "Hello Jane Doe!") {
		t.Fatalf("unexpected greeting %+v", greeting)
	}
	if st.TotalTokensUsed != 10 {
		t.Fatalf("expected profile tokens to be counted, got %d", st.TotalTokensUsed)
	}
}

func TestPlannerKeepsHintsAndCapsPerCategory(t *testing.T) {
	source := &capIgnoringSource{candidates: []Candidate{
		{Question: "Q1", FollowUpHint: " why? "},
		{Question: ""},
		{Question: "Q2"},
		{Question: "Q3"},
	}}
	planner := newTestPlanner(newScriptedScorer(), source, nil)

	st := mustPlan(t, planner, plainJob)

	// Two categories, two questions each.
	if len(st.Plan.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(st.Plan.Questions))
	}
	first := st.Plan.Questions[0]
	if first.Question != "Q1" || first.FollowUpHint != "why?" {
		t.Fatalf("unexpected first question %+v", first)
	}
	if st.Plan.Questions[1].Question != "Q2" {
		t.Fatalf("blank candidates must be skipped, got %+v", st.Plan.Questions[1])
	}
	if source.lastLimit != defaultPerCategory {
		t.Fatalf("expected limit %d, got %d", defaultPerCategory, source.lastLimit)
	}
}

func TestPlannerCapsConfiguredPerCategory(t *testing.T) {
	source := &capIgnoringSource{candidates: []Candidate{
		{Question: "Q1"}, {Question: "Q2"}, {Question: "Q3"}, {Question: "Q4"},
	}}
	planner := newTestPlanner(newScriptedScorer(), source, &Config{QuestionsPerCategory: 4})

	st := mustPlan(t, planner, plainJob)

	if want := len(st.Plan.Categories) * maxPerCategory; len(st.Plan.Questions) != want {
		t.Fatalf("expected %d questions, got %d", want, len(st.Plan.Questions))
	}
	if source.lastLimit != maxPerCategory {
		t.Fatalf("expected limit %d, got %d", maxPerCategory, source.lastLimit)
	}
}

type capIgnoringSource struct {
	candidates []Candidate
	lastLimit  int
}

func (s *capIgnoringSource) QuestionsByCategory(_ context.Context, _ string, limit int) ([]Candidate, error) {
	s.lastLimit = limit
	return s.candidates, nil
}

func TestPlannerProfileFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply reply
	}{
		{name: "malformed", reply: reply{text: "not json at all", tokens: 4}},
		{name: "transport error", reply: reply{err: errors.New("boom")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scorer := newScriptedScorer().queue(ai.PromptProfileAnalysis, tc.reply)
			st := mustPlan(t, newTestPlanner(scorer, threeQuestionSource(), nil), plainJob)

			if st.Plan.Analysis.Error != profileParseFailed {
				t.Fatalf("expected fallback marker, got %+v", st.Plan.Analysis)
			}
			if !strings.Contains(st.LastError, "profile analysis") {
				t.Fatalf("expected error recorded, got %q", st.LastError)
			}
			if len(st.Plan.Questions) != 3 || st.Phase != PhaseInterviewing {
				t.Fatal("planning must still produce a usable plan")
			}
			if len(st.Plan.SkillsToAssess) != 0 {
				t.Fatalf("unexpected skills %v", st.Plan.SkillsToAssess)
			}
		})
	}
}

func TestPlannerTruncatesProfileInputs(t *testing.T) {
	scorer := newScriptedScorer()
	planner := newTestPlanner(scorer, &memorySource{}, nil)

	resume := strings.Repeat("r", 1500)
	job := strings.Repeat("j", 1200)
	if _, err := planner.Plan(context.Background(), resume, job, "Jane"); err != nil {
		t.Fatalf("plan: %v", err)
	}

	calls := scorer.callsOf(ai.PromptProfileAnalysis)
	if len(calls) != 1 {
		t.Fatalf("expected one profile call, got %d", len(calls))
	}
	if got := len(calls[0].vars["resume"]); got != profileResumeBudget {
		t.Fatalf("resume not truncated: %d", got)
	}
	if got := len(calls[0].vars["job_description"]); got != profileJobBudget {
		t.Fatalf("job description not truncated: %d", got)
	}
}

func TestPlannerSkipsFailingCategory(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	source := threeQuestionSource()
	source.errs = map[string]error{CategoryBehavioral: errors.New("bank offline")}

	planner := NewPlanner(newScriptedScorer(), source, nil, zap.New(core))
	st := mustPlan(t, planner, plainJob)

	if len(st.Plan.Questions) != 1 || st.Plan.Questions[0].Category != CategoryProjectDeepDive {
		t.Fatalf("unexpected questions %+v", st.Plan.Questions)
	}

	entries := observed.FilterMessage("fetching questions failed; category skipped").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["category"]; got != CategoryBehavioral {
		t.Fatalf("unexpected category field %v", got)
	}
}

func TestPlannerRequiresScorer(t *testing.T) {
	planner := NewPlanner(nil, &memorySource{}, nil, nil)
	if _, err := planner.Plan(context.Background(), "", "", "Jane"); err == nil {
		t.Fatal("expected error without scorer")
	}
}

func TestPositionFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Backend Engineer\nDetails", want: "Backend Engineer"},
		{in: "\n\n  Data Scientist  \n", want: "Data Scientist"},
		{in: "", want: unknownPosition},
		{in: strings.Repeat("a", 80), want: strings.Repeat("a", positionLimit)},
	}

	for _, tc := range tests {
		if got := positionFrom(tc.in); got != tc.want {
			t.Fatalf("positionFrom(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
