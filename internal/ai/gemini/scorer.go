package gemini

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/ai"
	"github.com/spigell/interview-agent/internal/utils"
)

//go:embed prompts/*.md
var promptFS embed.FS

const defaultMaxLogLength = 200

type contentGenerator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type tokenCounter interface {
	CountOrZero(texts ...string) int
}

// Scorer implements ai.Scorer on top of a Gemini generator.
type Scorer struct {
	generator contentGenerator
	counter   tokenCounter
	system    string
	templates map[ai.PromptKind]string
	logger    *zap.Logger
	maxLogLen int
}

// NewScorer loads the embedded prompt templates. counter may be nil, in which
// case calls without usage metadata are accounted as zero tokens.
func NewScorer(generator contentGenerator, counter tokenCounter, maxLogLength int, logger *zap.Logger) (*Scorer, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	system, err := promptFS.ReadFile("prompts/system.md")
	if err != nil {
		return nil, fmt.Errorf("read system prompt: %w", err)
	}

	templates := make(map[ai.PromptKind]string, len(ai.Kinds))
	for _, kind := range ai.Kinds {
		data, err := promptFS.ReadFile(fmt.Sprintf("prompts/%s.md", kind))
		if err != nil {
			return nil, fmt.Errorf("read %s prompt: %w", kind, err)
		}
		templates[kind] = string(data)
	}

	return &Scorer{
		generator: generator,
		counter:   counter,
		system:    strings.TrimSpace(string(system)),
		templates: templates,
		logger:    logger,
		maxLogLen: maxLogLength,
	}, nil
}

// Generate renders the template for kind with vars and sends it to Gemini.
func (s *Scorer) Generate(ctx context.Context, kind ai.PromptKind, vars map[string]string, maxOutputTokens int) (*ai.Generation, error) {
	template, ok := s.templates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown prompt kind %q", kind)
	}

	prompt := buildPrompt(template, vars)

	s.logger.Debug("gemini generate content request",
		zap.String("kind", string(kind)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	resp, err := s.generator.Generate(ctx, Request{
		System:          s.system,
		Message:         prompt,
		MaxOutputTokens: maxOutputTokens,
		JSON:            kind != ai.PromptFollowUp,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	s.logger.Debug("gemini generate content response",
		zap.String("kind", string(kind)),
		zap.Int("response_length", utf8.RuneCountInString(resp.Text)),
		zap.Int("total_tokens", resp.TotalTokens),
		zap.String("response_preview", utils.TruncateForLog(resp.Text, s.maxLogLen)),
	)

	used := resp.TotalTokens
	if used <= 0 && s.counter != nil {
		used = s.counter.CountOrZero(s.system, prompt, resp.Text)
		s.logger.Debug("usage metadata missing, estimated tokens", zap.Int("estimated_tokens", used))
	}

	return &ai.Generation{Text: resp.Text, TokensUsed: used}, nil
}

// buildPrompt replaces {{key}} placeholders. Keys are applied in sorted order
// so rendering does not depend on map iteration.
func buildPrompt(template string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, "{{"+key+"}}", vars[key])
	}

	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template))
}
