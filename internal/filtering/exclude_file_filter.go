package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewExcludeFile creates a filter that removes questions already asked in earlier sessions.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, q *Questions) (*Questions, Step, error) {
	initial := q.Len()
	if f.path == "" {
		return q, Step{Initial: initial, Dropped: 0, Left: q.Len()}, nil
	}

	excluded, err := ExcludedFromFile(f.path)
	if err != nil {
		return q, Step{}, fmt.Errorf("getting excluded questions from file: %w", err)
	}

	removed := q.Exclude(excluded.Questions())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding questions based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_questions", removed),
			zap.Int("questions_left", q.Len()),
		)
	}

	return q, Step{Initial: initial, Dropped: len(removed), Left: q.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
