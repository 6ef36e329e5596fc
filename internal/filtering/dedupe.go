package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/interview"
)

type dedupeFilter struct {
	disabled bool
	reason   string
}

// NewDedupe creates a filter that keeps only the first occurrence of a question.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *dedupeFilter) IsEnabled() bool { return !f.disabled }

func (f *dedupeFilter) Validate(*Config) error { return nil }

func (f *dedupeFilter) Apply(_ context.Context, deps Deps, q *Questions) (*Questions, Step, error) {
	initial := q.Len()
	seen := make(map[string]struct{}, initial)
	excluded := q.ExcludeFunc(func(c interview.Candidate) bool {
		key := Normalize(c.Question)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding duplicated questions",
			zap.String("category", q.Category),
			zap.Strings("excluded_questions", excluded),
			zap.Int("questions_left", q.Len()),
		)
	}

	return q, Step{Initial: initial, Dropped: len(excluded), Left: q.Len()}, nil
}

func (f *dedupeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
