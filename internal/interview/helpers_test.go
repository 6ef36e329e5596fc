package interview

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spigell/interview-agent/internal/ai"
)

const (
	okScore       = `{"completeness": 4, "clarity": 4, "technical_depth": 3, "relevance": 5, "needs_follow_up": false}`
	followUpScore = `{"completeness": 2, "clarity": 3, "technical_depth": 2, "relevance": 4, "needs_follow_up": true, "follow_up_reason": "too vague"}`
	okProfile     = `{"candidate_skills": ["go", "kubernetes"], "job_requirements": ["go", "sql"], "skill_gaps": ["sql"], "technical_level": "senior", "behavioral_focus": ["ownership"]}`
	okSummary     = `{"overall_assessment": "Solid candidate", "strengths": ["go"], "recommendation": "hire"}`
)

var (
	testStart = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	testEnd   = testStart.Add(20 * time.Minute)
)

type reply struct {
	text   string
	tokens int
	err    error
}

type scorerCall struct {
	kind      ai.PromptKind
	vars      map[string]string
	maxTokens int
}

// scriptedScorer replays queued replies per kind and falls back to a valid
// default reply worth 10 tokens.
type scriptedScorer struct {
	replies map[ai.PromptKind][]reply
	calls   []scorerCall
}

func newScriptedScorer() *scriptedScorer {
	return &scriptedScorer{replies: map[ai.PromptKind][]reply{}}
}

func (s *scriptedScorer) queue(kind ai.PromptKind, replies ...reply) *scriptedScorer {
	s.replies[kind] = append(s.replies[kind], replies...)
	return s
}

func (s *scriptedScorer) Generate(_ context.Context, kind ai.PromptKind, vars map[string]string, maxTokens int) (*ai.Generation, error) {
	s.calls = append(s.calls, scorerCall{kind: kind, vars: vars, maxTokens: maxTokens})

	r := reply{text: defaultReply(kind), tokens: 10}
	if queued := s.replies[kind]; len(queued) > 0 {
		r = queued[0]
		s.replies[kind] = queued[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	return &ai.Generation{Text: r.text, TokensUsed: r.tokens}, nil
}

func (s *scriptedScorer) callsOf(kind ai.PromptKind) []scorerCall {
	var out []scorerCall
	for _, c := range s.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func defaultReply(kind ai.PromptKind) string {
	switch kind {
	case ai.PromptProfileAnalysis:
		return okProfile
	case ai.PromptAnswerScore:
		return okScore
	case ai.PromptFollowUp:
		return "Which trade-offs did you weigh?"
	default:
		return okSummary
	}
}

// blockingScorer never answers before the context is done.
type blockingScorer struct{}

func (blockingScorer) Generate(ctx context.Context, _ ai.PromptKind, _ map[string]string, _ int) (*ai.Generation, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type memorySource struct {
	questions map[string][]Candidate
	errs      map[string]error
	requests  []string
}

func (m *memorySource) QuestionsByCategory(_ context.Context, category string, limit int) ([]Candidate, error) {
	m.requests = append(m.requests, category)
	if err := m.errs[category]; err != nil {
		return nil, err
	}
	out := m.questions[category]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// threeQuestionSource yields three questions for a job description that only
// selects the Behavioral and Project Deep Dive categories.
func threeQuestionSource() *memorySource {
	return &memorySource{questions: map[string][]Candidate{
		CategoryBehavioral: {
			{Question: "Tell me about a conflict at work."},
			{Question: "Describe a failure you learned from."},
		},
		CategoryProjectDeepDive: {
			{Question: "Walk me through your favourite project."},
		},
	}}
}

const plainJob = "Office Manager\nKeep the front desk running."

func newTestPlanner(scorer ai.Scorer, source QuestionSource, cfg *Config) *Planner {
	p := NewPlanner(scorer, source, cfg, nil)
	p.now = func() time.Time { return testStart }
	p.newID = func() string { return "session-1" }
	return p
}

func newTestEngine(scorer ai.Scorer, cfg *Config) *Engine {
	e := NewEngine(scorer, cfg, nil)
	e.now = func() time.Time { return testEnd }
	return e
}

func mustPlan(t *testing.T, p *Planner, jobDescription string) *State {
	t.Helper()
	st, err := p.Plan(context.Background(), "Jane has ten years of Go.", jobDescription, "Jane Doe")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return st
}

func mustStart(t *testing.T, e *Engine, st *State) (*State, string) {
	t.Helper()
	next, prompt, err := e.Start(context.Background(), st)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return next, prompt
}

func mustSubmit(t *testing.T, e *Engine, st *State, answer string) (*State, string) {
	t.Helper()
	next, prompt, err := e.SubmitAnswer(context.Background(), st, answer)
	if err != nil {
		t.Fatalf("submit answer %q: %v", answer, err)
	}
	return next, prompt
}

func countEntries(st *State, speaker Speaker, tagPrefix string) int {
	n := 0
	for _, entry := range st.ConversationHistory {
		if entry.Speaker == speaker && strings.HasPrefix(entry.Tag, tagPrefix) {
			n++
		}
	}
	return n
}
