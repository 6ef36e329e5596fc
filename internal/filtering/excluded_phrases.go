package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/interview"
)

type excludedPhrasesFilter struct {
	phrases []string
}

// NewExcludedPhrases creates a filter that removes questions mentioning any configured phrase.
func NewExcludedPhrases() Filter {
	return &excludedPhrasesFilter{}
}

func (f *excludedPhrasesFilter) Name() string { return "excluded_phrases" }

func (f *excludedPhrasesFilter) Disable(string) {}

func (f *excludedPhrasesFilter) IsEnabled() bool { return true }

func (f *excludedPhrasesFilter) Validate(cfg *Config) error {
	f.phrases = nil
	if cfg == nil {
		return nil
	}
	for _, phrase := range cfg.ExcludedPhrases {
		if phrase = Normalize(phrase); phrase != "" {
			f.phrases = append(f.phrases, phrase)
		}
	}
	return nil
}

func (f *excludedPhrasesFilter) Apply(_ context.Context, deps Deps, q *Questions) (*Questions, Step, error) {
	initial := q.Len()
	if len(f.phrases) == 0 {
		return q, Step{Initial: initial, Dropped: 0, Left: q.Len()}, nil
	}

	excluded := q.ExcludeFunc(func(c interview.Candidate) bool {
		text := Normalize(c.Question)
		for _, phrase := range f.phrases {
			if strings.Contains(text, phrase) {
				return true
			}
		}
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding questions by phrases",
			zap.Strings("excluded_phrases", f.phrases),
			zap.Strings("excluded_questions", excluded),
			zap.Int("questions_left", q.Len()),
		)
	}

	return q, Step{Initial: initial, Dropped: len(excluded), Left: q.Len()}, nil
}

func (f *excludedPhrasesFilter) Status() Status {
	details := map[string]string{}
	if len(f.phrases) > 0 {
		details["phrases"] = strings.Join(f.phrases, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
