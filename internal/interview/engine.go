package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/ai"
	"github.com/spigell/interview-agent/internal/logger"
	"github.com/spigell/interview-agent/internal/utils"
)

// Branch is the outcome of DecideFollowUp.
type Branch string

const (
	BranchFollowUp Branch = "follow_up"
	BranchAdvance  Branch = "advance"
)

const noAnswersSummary = "The interview ended before any answers were collected."

// Engine drives a planned interview. It holds no session data: every method
// takes a state and returns an updated copy.
type Engine struct {
	caller
	now func() time.Time
}

// NewEngine returns an Engine. logger may be nil.
func NewEngine(scorer ai.Scorer, cfg *Config, log *zap.Logger) *Engine {
	config := cfg.withDefaults()
	return &Engine{
		caller: caller{
			scorer:  scorer,
			timeout: config.CallTimeout,
			logger:  logger.WithFields(log, zap.String("component", "engine")),
		},
		now: time.Now,
	}
}

// Start asks the first question. A plan without questions is completed right
// away and the closing message is returned instead.
func (e *Engine) Start(ctx context.Context, st *State) (*State, string, error) {
	if st == nil {
		return nil, "", ErrNilState
	}
	if st.Phase != PhaseInterviewing {
		return st, "", &InvalidPhaseError{Op: "start", Phase: st.Phase}
	}

	next := st.Clone()
	log := e.sessionLogger(next)

	if len(next.Plan.Questions) == 0 {
		log.Info("plan has no questions; completing interview")
		e.complete(ctx, next, log)
		prompt, _ := CurrentPrompt(next)
		return next, prompt, nil
	}

	if next.CurrentQuestionIndex != 0 || next.Plan.Questions[0].Asked {
		return st, "", ErrAlreadyStarted
	}

	return next, e.ask(next, log), nil
}

// SubmitAnswer records the answer to the active question, scores it and
// returns the next prompt. The prompt is empty once the interview completes.
func (e *Engine) SubmitAnswer(ctx context.Context, st *State, answer string) (*State, string, error) {
	if st == nil {
		return nil, "", ErrNilState
	}
	if st.Phase != PhaseInterviewing {
		return st, "", &InvalidPhaseError{Op: "submit answer", Phase: st.Phase}
	}

	idx := st.CurrentQuestionIndex
	if idx >= len(st.Plan.Questions) || !st.Plan.Questions[idx].Asked {
		return st, "", ErrNotStarted
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return st, "", ErrEmptyAnswer
	}

	next := st.Clone()
	log := e.sessionLogger(next).With(zap.Int("question_index", idx))
	q := &next.Plan.Questions[idx]

	answeringFollowUp := q.FollowUpAsked
	asked := q.Question
	if answeringFollowUp {
		asked = q.FollowUp
		q.FollowUpAnswer = answer
		next.appendEntry(SpeakerCandidate, answer, followUpAnswerTag(idx))
	} else {
		q.Answer = answer
		next.appendEntry(SpeakerCandidate, answer, answerTag(idx))
	}
	next.CurrentAnswer = answer

	analysis, err := e.analyze(ctx, next, asked, answer)
	if err != nil {
		log.Warn("answer analysis unavailable; not asking a follow-up", zap.Error(err))
		next.recordError(fmt.Errorf("answer analysis: %w", err))
	} else {
		q.Analysis = &analysis
	}
	next.LastAnalysis = analysis
	next.FollowUpNeeded = analysis.NeedsFollowUp

	if DecideFollowUp(next) == BranchFollowUp {
		text := e.followUp(ctx, next, q, log)
		q.FollowUpAsked = true
		q.FollowUp = text
		next.FollowUpNeeded = false
		next.appendEntry(SpeakerInterviewer, text, followUpTag(idx))

		log.Info("asking follow-up", zap.String("reason", analysis.FollowUpReason))
		return next, text, nil
	}

	next.CurrentQuestionIndex++
	next.CurrentAnswer = ""
	next.FollowUpNeeded = false

	if next.CurrentQuestionIndex < len(next.Plan.Questions) {
		return next, e.ask(next, log), nil
	}

	e.complete(ctx, next, log)
	return next, "", nil
}

// DecideFollowUp picks the branch after an answer was scored: a follow-up is
// only asked when requested and none was asked for the question yet.
func DecideFollowUp(st *State) Branch {
	if st == nil || st.CurrentQuestionIndex >= len(st.Plan.Questions) {
		return BranchAdvance
	}
	if st.FollowUpNeeded && !st.Plan.Questions[st.CurrentQuestionIndex].FollowUpAsked {
		return BranchFollowUp
	}
	return BranchAdvance
}

func (e *Engine) ask(st *State, log *zap.Logger) string {
	idx := st.CurrentQuestionIndex
	q := &st.Plan.Questions[idx]
	q.Asked = true
	st.appendEntry(SpeakerInterviewer, q.Question, questionTag(idx))

	log.Info("asking question",
		zap.Int("question_index", idx),
		zap.String("category", q.Category),
	)
	return q.Question
}

func (e *Engine) analyze(ctx context.Context, st *State, question, answer string) (AnswerAnalysis, error) {
	raw, err := e.generate(ctx, st, ai.PromptAnswerScore, map[string]string{
		"question": utils.Truncate(question, scoreQuestionBudget),
		"answer":   utils.Truncate(answer, scoreAnswerBudget),
	}, scoreMaxOutputTokens)
	if err != nil {
		return AnswerAnalysis{}, err
	}
	return parseAnswerAnalysis(raw)
}

func (e *Engine) followUp(ctx context.Context, st *State, q *QuestionItem, log *zap.Logger) string {
	if q.FollowUpHint != "" {
		return q.FollowUpHint
	}

	raw, err := e.generate(ctx, st, ai.PromptFollowUp, map[string]string{
		"question": utils.Truncate(q.Question, followUpQuestionBudget),
		"answer":   utils.Truncate(q.Answer, followUpAnswerBudget),
	}, followUpMaxOutputTokens)
	if err == nil {
		var text string
		if text, err = parseFollowUp(raw); err == nil {
			return text
		}
	}

	log.Warn("follow-up generation failed; using generic follow-up", zap.Error(err))
	st.recordError(fmt.Errorf("follow-up generation: %w", err))
	return fallbackFollowUpQuestion
}

func (e *Engine) complete(ctx context.Context, st *State, log *zap.Logger) {
	summary := e.summarize(ctx, st, log)
	st.Summary = &summary

	closing := fmt.Sprintf("Thank you %s for your time today. We'll be in touch soon with next steps.", st.CandidateName)
	st.appendEntry(SpeakerInterviewer, closing, tagEnd)

	ended := e.now().UTC()
	st.EndedAt = &ended
	st.CurrentAnswer = ""
	// Completion is reachable only from interviewing.
	_ = st.transition(PhaseCompleted)

	log.Info("interview completed", zap.Int("total_tokens_used", st.TotalTokensUsed))
}

func (e *Engine) summarize(ctx context.Context, st *State, log *zap.Logger) Summary {
	if !hasCandidateEntries(st) {
		return Summary{OverallAssessment: noAnswersSummary}
	}

	raw, err := e.generate(ctx, st, ai.PromptSummary, map[string]string{
		"candidate":    st.CandidateName,
		"position":     st.Plan.Position,
		"conversation": recentConversation(st.ConversationHistory),
	}, summaryMaxOutputTokens)
	if err != nil {
		st.recordError(fmt.Errorf("summary: %w", err))
		return Summary{OverallAssessment: "Summary unavailable: the assessment service did not respond."}
	}

	summary, err := parseSummary(raw)
	if err != nil {
		log.Warn("failed to parse summary, keeping raw text", zap.Error(err))
		st.recordError(fmt.Errorf("summary: %w", err))
	}
	return summary
}

// recentConversation renders the last three question/answer pairs.
func recentConversation(history []ConversationEntry) string {
	start := len(history) - summaryWindowEntries
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(history)-start)
	for _, entry := range history[start:] {
		lines = append(lines, fmt.Sprintf("%s: %s", entry.Speaker, utils.Truncate(entry.Message, summaryMessageBudget)))
	}
	return strings.Join(lines, "\n")
}

func hasCandidateEntries(st *State) bool {
	for _, entry := range st.ConversationHistory {
		if entry.Speaker == SpeakerCandidate {
			return true
		}
	}
	return false
}

func (e *Engine) sessionLogger(st *State) *zap.Logger {
	return logger.WithSession(e.logger, st.SessionID, st.CandidateName)
}

// IsInvalidPhase reports whether err is a state machine contract violation.
func IsInvalidPhase(err error) bool {
	return errors.Is(err, ErrInvalidPhase)
}
