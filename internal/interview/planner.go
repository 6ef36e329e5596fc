package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/ai"
	"github.com/spigell/interview-agent/internal/logger"
	"github.com/spigell/interview-agent/internal/utils"
)

const profileParseFailed = "failed to parse analysis"

// Planner builds the initial interview state from a resume and a job description.
type Planner struct {
	caller
	source QuestionSource
	config Config

	now   func() time.Time
	newID func() string
}

// NewPlanner returns a Planner. logger may be nil.
func NewPlanner(scorer ai.Scorer, source QuestionSource, cfg *Config, log *zap.Logger) *Planner {
	config := cfg.withDefaults()
	log = logger.WithFields(log, zap.String("component", "planner"))

	return &Planner{
		caller: caller{scorer: scorer, timeout: config.CallTimeout, logger: log},
		source: source,
		config: config,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Plan analyzes the inputs, selects questions and greets the candidate. The
// returned state is in the interviewing phase; collaborator failures degrade
// the plan instead of failing it.
func (p *Planner) Plan(ctx context.Context, resumeContent, jobDescription, candidateName string) (*State, error) {
	if p.scorer == nil {
		return nil, errors.New("planner: scorer is not configured")
	}

	candidateName = strings.TrimSpace(candidateName)

	st := &State{
		SessionID:           p.newID(),
		StartedAt:           p.now().UTC(),
		ResumeContent:       resumeContent,
		JobDescription:      jobDescription,
		CandidateName:       candidateName,
		ConversationHistory: []ConversationEntry{},
		Phase:               PhasePlanning,
	}

	log := logger.WithSession(p.logger, st.SessionID, candidateName)
	log.Info("planning interview")

	analysis := p.analyzeProfile(ctx, st)
	categories := SelectCategories(jobDescription, p.config.Categories)
	questions := p.selectQuestions(ctx, log, categories)

	st.Plan = Plan{
		CandidateName:   candidateName,
		Position:        positionFrom(jobDescription),
		DurationMinutes: defaultDurationMinutes,
		Categories:      categories,
		Questions:       questions,
		SkillsToAssess:  headStrings(analysis.JobRequirements, skillsToAssessLimit),
		FocusAreas:      headStrings(analysis.CandidateSkills, focusAreasLimit),
		Analysis:        analysis,
	}

	greeting := fmt.Sprintf("Hello %s! Thank you for your time today. I'll ask you about your background and experience. Let's begin.", candidateName)
	st.appendEntry(SpeakerInterviewer, greeting, tagStart)

	// Planning is always left for interviewing; a fresh state cannot regress.
	_ = st.transition(PhaseInterviewing)

	log.Info("interview planned",
		zap.Strings("categories", categories),
		zap.Int("questions", len(questions)),
		zap.Int("total_tokens_used", st.TotalTokensUsed),
	)

	return st, nil
}

func (p *Planner) analyzeProfile(ctx context.Context, st *State) ProfileAnalysis {
	raw, err := p.generate(ctx, st, ai.PromptProfileAnalysis, map[string]string{
		"resume":          utils.Truncate(st.ResumeContent, profileResumeBudget),
		"job_description": utils.Truncate(st.JobDescription, profileJobBudget),
	}, profileMaxOutputTokens)
	if err != nil {
		st.recordError(fmt.Errorf("profile analysis: %w", err))
		return ProfileAnalysis{Error: profileParseFailed}
	}

	analysis, err := parseProfileAnalysis(raw)
	if err != nil {
		p.logger.Warn("failed to parse profile analysis, using fallback", zap.Error(err))
		st.recordError(fmt.Errorf("profile analysis: %w", err))
		return ProfileAnalysis{Error: profileParseFailed}
	}

	return analysis
}

func (p *Planner) selectQuestions(ctx context.Context, log *zap.Logger, categories []string) []QuestionItem {
	questions := make([]QuestionItem, 0, len(categories)*p.config.QuestionsPerCategory)
	if p.source == nil {
		log.Warn("question source is not configured; plan has no questions")
		return questions
	}

	for _, category := range categories {
		candidates, err := p.source.QuestionsByCategory(ctx, category, p.config.QuestionsPerCategory)
		if err != nil {
			log.Warn("fetching questions failed; category skipped",
				zap.String("category", category),
				zap.Error(err),
			)
			continue
		}

		kept := 0
		for _, candidate := range candidates {
			if kept == p.config.QuestionsPerCategory {
				break
			}
			text := strings.TrimSpace(candidate.Question)
			if text == "" {
				continue
			}
			questions = append(questions, QuestionItem{
				Category:     category,
				Question:     text,
				FollowUpHint: strings.TrimSpace(candidate.FollowUpHint),
			})
			kept++
		}

		log.Debug("questions selected", zap.String("category", category), zap.Int("count", kept))
	}

	return questions
}

func positionFrom(jobDescription string) string {
	line := utils.FirstLine(jobDescription)
	if line == "" {
		return unknownPosition
	}
	return strings.TrimSpace(utils.Truncate(line, positionLimit))
}

func headStrings(in []string, n int) []string {
	out := make([]string, 0, n)
	for _, s := range in {
		if len(out) == n {
			break
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
