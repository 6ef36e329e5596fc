package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/interview"
)

type nonEmptyFilter struct{}

// NewNonEmpty creates a filter that removes blank questions.
func NewNonEmpty() Filter {
	return &nonEmptyFilter{}
}

func (f *nonEmptyFilter) Name() string { return "non_empty" }

func (f *nonEmptyFilter) Disable(string) {}

func (f *nonEmptyFilter) IsEnabled() bool { return true }

func (f *nonEmptyFilter) Validate(*Config) error { return nil }

func (f *nonEmptyFilter) Apply(_ context.Context, deps Deps, q *Questions) (*Questions, Step, error) {
	initial := q.Len()
	excluded := q.ExcludeFunc(func(c interview.Candidate) bool {
		return strings.TrimSpace(c.Question) == ""
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding blank questions",
			zap.String("category", q.Category),
			zap.Int("questions_left", q.Len()),
		)
	}

	return q, Step{Initial: initial, Dropped: len(excluded), Left: q.Len()}, nil
}

func (f *nonEmptyFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}
