package studyplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/ai"
	"github.com/spigell/interview-agent/internal/interview"
	"github.com/spigell/interview-agent/internal/logger"
	"github.com/spigell/interview-agent/internal/utils"
)

const (
	defaultBehavioralQuestions = 8
	defaultTechnicalQuestions  = 3
	defaultCallTimeout         = 30 * time.Second
	resumeBudget               = 2000
	questionBudget             = 300
	profileMaxOutputTokens     = 300
	answerMaxOutputTokens      = 500
)

// Config tunes the study planner. The zero value is usable.
type Config struct {
	// Fast skips every model call: the profile comes from keyword matching
	// and answers from the built-in guides.
	Fast                bool
	BehavioralQuestions int
	TechnicalQuestions  int
	CallTimeout         time.Duration
}

// PreparedQuestion is a practice question with an answer guide.
type PreparedQuestion struct {
	Question       string `json:"question"`
	DetailedAnswer string `json:"detailed_answer" mapstructure:"detailed_answer"`
}

// StudyPlan is the full preparation package for one resume.
type StudyPlan struct {
	Profile             Profile                       `json:"candidate_profile"`
	Schedule            Schedule                      `json:"study_plan"`
	BestPractices       []string                      `json:"interview_best_practices"`
	BehavioralQuestions []PreparedQuestion            `json:"behavioral_questions"`
	TechnicalQuestions  map[string][]PreparedQuestion `json:"technical_questions"`
	TotalTokensUsed     int                           `json:"total_tokens_used"`
	LastError           string                        `json:"error,omitempty"`
}

// Builder assembles study plans from a resume.
type Builder struct {
	scorer    ai.Scorer
	source    interview.QuestionSource
	practices PracticeSource
	config    Config
	logger    *zap.Logger
}

// NewBuilder returns a Builder. A nil scorer forces fast mode.
func NewBuilder(scorer ai.Scorer, source interview.QuestionSource, practices PracticeSource, cfg *Config, log *zap.Logger) *Builder {
	config := Config{}
	if cfg != nil {
		config = *cfg
	}
	if config.BehavioralQuestions <= 0 {
		config.BehavioralQuestions = defaultBehavioralQuestions
	}
	if config.TechnicalQuestions <= 0 {
		config.TechnicalQuestions = defaultTechnicalQuestions
	}
	if config.CallTimeout <= 0 {
		config.CallTimeout = defaultCallTimeout
	}
	if scorer == nil {
		config.Fast = true
	}

	return &Builder{
		scorer:    scorer,
		source:    source,
		practices: practices,
		config:    config,
		logger:    logger.WithFields(log, zap.String("component", "study_planner")),
	}
}

// Build creates a study plan for resume. Model failures degrade to the
// keyword analysis and built-in answer guides and are reported in LastError.
func (b *Builder) Build(ctx context.Context, resume string) (*StudyPlan, error) {
	resume = strings.TrimSpace(resume)
	if resume == "" {
		return nil, errors.New("resume must not be empty")
	}
	if b.source == nil {
		return nil, errors.New("question source is not configured")
	}

	plan := &StudyPlan{TechnicalQuestions: map[string][]PreparedQuestion{}}

	b.logger.Info("building study plan", zap.Bool("fast", b.config.Fast))

	plan.Profile = b.profile(ctx, plan, resume)
	plan.Schedule = NewSchedule(plan.Profile)
	plan.BestPractices = SelectPractices(b.practices, plan.Profile)
	plan.BehavioralQuestions = b.behavioral(ctx, plan)

	for _, category := range technicalCategories(plan.Profile) {
		prepared := b.prepare(ctx, plan, category, b.questions(ctx, category, b.config.TechnicalQuestions))
		if len(prepared) > 0 {
			plan.TechnicalQuestions[category] = prepared
		}
	}

	b.logger.Info("study plan built",
		zap.String("experience_level", plan.Profile.ExperienceLevel),
		zap.Int("behavioral_questions", len(plan.BehavioralQuestions)),
		zap.Int("technical_groups", len(plan.TechnicalQuestions)),
		zap.Int("total_tokens_used", plan.TotalTokensUsed),
	)

	return plan, nil
}

func (b *Builder) profile(ctx context.Context, plan *StudyPlan, resume string) Profile {
	keywords := AnalyzeResume(resume)
	if b.config.Fast {
		return keywords
	}

	raw, err := b.generate(ctx, plan, ai.PromptStudyProfile, map[string]string{
		"resume": utils.Truncate(resume, resumeBudget),
	}, profileMaxOutputTokens)
	if err != nil {
		b.logger.Warn("resume analysis failed; using keyword analysis", zap.Error(err))
		plan.recordError(fmt.Errorf("resume analysis: %w", err))
		return keywords
	}

	var analyzed Profile
	if err := interview.DecodeObject(raw, &analyzed); err != nil {
		b.logger.Warn("failed to parse resume analysis; using keyword analysis", zap.Error(err))
		plan.recordError(fmt.Errorf("resume analysis: %w", err))
		return keywords
	}

	return analyzed.merge(keywords)
}

func (b *Builder) behavioral(ctx context.Context, plan *StudyPlan) []PreparedQuestion {
	candidates := b.questions(ctx, interview.CategoryBehavioral, b.config.BehavioralQuestions)
	for _, extra := range areaQuestions {
		if plan.Profile.hasArea(extra.area) {
			candidates = append(candidates, interview.Candidate{Question: extra.question})
		}
	}
	return b.prepare(ctx, plan, interview.CategoryBehavioral, candidates)
}

func (b *Builder) questions(ctx context.Context, category string, limit int) []interview.Candidate {
	candidates, err := b.source.QuestionsByCategory(ctx, category, limit)
	if err != nil {
		b.logger.Warn("fetching questions failed; category skipped", zap.String("category", category), zap.Error(err))
		return nil
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func (b *Builder) prepare(ctx context.Context, plan *StudyPlan, category string, candidates []interview.Candidate) []PreparedQuestion {
	prepared := make([]PreparedQuestion, 0, len(candidates))
	for _, candidate := range candidates {
		question := strings.TrimSpace(candidate.Question)
		if question == "" {
			continue
		}
		prepared = append(prepared, PreparedQuestion{
			Question:       question,
			DetailedAnswer: b.answer(ctx, plan, category, candidate),
		})
	}
	return prepared
}

func (b *Builder) answer(ctx context.Context, plan *StudyPlan, category string, candidate interview.Candidate) string {
	fallback := answerGuide(category, candidate.FollowUpHint)
	if b.config.Fast {
		return fallback
	}

	raw, err := b.generate(ctx, plan, ai.PromptStudyAnswer, map[string]string{
		"question":          utils.Truncate(strings.TrimSpace(candidate.Question), questionBudget),
		"category":          category,
		"experience_level":  plan.Profile.ExperienceLevel,
		"improvement_areas": strings.Join(plan.Profile.ImprovementAreas, ", "),
	}, answerMaxOutputTokens)
	if err != nil {
		plan.recordError(fmt.Errorf("answer guide: %w", err))
		return fallback
	}

	var guide PreparedQuestion
	if err := interview.DecodeObject(raw, &guide); err != nil || strings.TrimSpace(guide.DetailedAnswer) == "" {
		if err == nil {
			err = errors.New("response has no detailed_answer")
		}
		plan.recordError(fmt.Errorf("answer guide: %w", err))
		return fallback
	}
	return strings.TrimSpace(guide.DetailedAnswer)
}

// generate runs one Scorer call with its own timeout and adds the usage of a
// completed call to plan.
func (b *Builder) generate(ctx context.Context, plan *StudyPlan, kind ai.PromptKind, vars map[string]string, maxOutputTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.config.CallTimeout)
	defer cancel()

	gen, err := b.scorer.Generate(callCtx, kind, vars, maxOutputTokens)
	if err != nil {
		return "", err
	}
	if gen == nil {
		return "", errors.New("empty generation")
	}
	if gen.TokensUsed > 0 {
		plan.TotalTokensUsed += gen.TokensUsed
	}
	return gen.Text, nil
}

func (p *StudyPlan) recordError(err error) {
	p.LastError = err.Error()
}

// technicalCategories maps the profile onto question bank categories.
func technicalCategories(profile Profile) []string {
	var out []string
	if len(profile.TechnicalSkills) > 0 {
		out = append(out, interview.CategorySoftware)
	}
	if hasDataSkill(profile.TechnicalSkills) {
		out = append(out, interview.CategoryDataScience)
	}
	if profile.ExperienceLevel != LevelEntry {
		out = append(out, interview.CategoryProjectDeepDive)
	}
	return out
}

var dataSkills = []string{"sql", "pandas", "numpy", "spark", "statistics", "analytics", "machine learning", "ml", "data"}

func hasDataSkill(skills []string) bool {
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		for _, data := range dataSkills {
			if skill == data || strings.Contains(skill, data+" ") || strings.HasPrefix(skill, data+"_") {
				return true
			}
		}
	}
	return false
}
