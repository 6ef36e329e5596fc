package interview

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/ai"
)

// Input budgets in characters, per call site. Longer inputs are cut, possibly
// mid-sentence.
const (
	profileResumeBudget      = 1000
	profileJobBudget         = 1000
	scoreQuestionBudget      = 200
	scoreAnswerBudget        = 400
	followUpQuestionBudget   = 150
	followUpAnswerBudget     = 300
	summaryMessageBudget     = 100
	summaryWindowEntries     = 6
	skillsToAssessLimit      = 5
	focusAreasLimit          = 5
	positionLimit            = 50
	defaultDurationMinutes   = 25
	defaultPerCategory       = 2
	maxPerCategory           = 2
	defaultCallTimeout       = 30 * time.Second
	profileMaxOutputTokens   = 400
	scoreMaxOutputTokens     = 200
	followUpMaxOutputTokens  = 60
	summaryMaxOutputTokens   = 500
	unknownPosition          = "Unknown Position"
	fallbackFollowUpQuestion = "Could you walk me through a specific example of that?"
)

// Config tunes the planner and the engine. The zero value is usable.
// QuestionsPerCategory is capped at two.
type Config struct {
	QuestionsPerCategory int
	CallTimeout          time.Duration
	Categories           []CategoryRule
}

func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.QuestionsPerCategory <= 0 {
		out.QuestionsPerCategory = defaultPerCategory
	}
	if out.QuestionsPerCategory > maxPerCategory {
		out.QuestionsPerCategory = maxPerCategory
	}
	if out.CallTimeout <= 0 {
		out.CallTimeout = defaultCallTimeout
	}
	if len(out.Categories) == 0 {
		out.Categories = DefaultCategoryRules
	}
	return out
}

// caller runs Scorer calls with a per-call timeout and token accounting.
type caller struct {
	scorer  ai.Scorer
	timeout time.Duration
	logger  *zap.Logger
}

// generate adds the reported usage to st exactly once per completed call.
func (c caller) generate(ctx context.Context, st *State, kind ai.PromptKind, vars map[string]string, maxOutputTokens int) (string, error) {
	if c.scorer == nil {
		return "", errors.New("scorer is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gen, err := c.scorer.Generate(ctx, kind, vars, maxOutputTokens)
	if err != nil {
		c.logger.Warn("scorer call failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return "", err
	}
	if gen == nil {
		return "", errors.New("scorer returned no generation")
	}

	if gen.TokensUsed > 0 {
		st.TotalTokensUsed += gen.TokensUsed
	}

	c.logger.Debug("scorer call completed",
		zap.String("kind", string(kind)),
		zap.Int("tokens_used", gen.TokensUsed),
		zap.Int("total_tokens_used", st.TotalTokensUsed),
	)

	return gen.Text, nil
}
