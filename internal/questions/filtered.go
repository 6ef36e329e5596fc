package questions

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/filtering"
	"github.com/spigell/interview-agent/internal/interview"
)

// fetchCap is how many candidates are requested from the underlying source
// per category before filtering.
const fetchCap = 8

// Filtered runs candidates from a source through a filtering pipeline.
type Filtered struct {
	source interview.QuestionSource
	steps  []filtering.Filter
	config *filtering.Config
	logger *zap.Logger
}

// NewFiltered wraps source. A nil steps slice means filtering.Default().
func NewFiltered(source interview.QuestionSource, cfg *filtering.Config, steps []filtering.Filter, logger *zap.Logger) (*Filtered, error) {
	if steps == nil {
		steps = filtering.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := filtering.Validate(cfg, steps); err != nil {
		return nil, err
	}

	return &Filtered{
		source: source,
		steps:  steps,
		config: cfg,
		logger: logger,
	}, nil
}

// Steps exposes the pipeline for status reporting.
func (f *Filtered) Steps() []filtering.Filter {
	return f.steps
}

func (f *Filtered) QuestionsByCategory(ctx context.Context, category string, limit int) ([]interview.Candidate, error) {
	request := fetchCap
	if limit > request {
		request = limit
	}

	candidates, err := f.source.QuestionsByCategory(ctx, category, request)
	if err != nil {
		return nil, err
	}

	left, err := filtering.Run(ctx, f.config, filtering.Deps{Logger: f.logger}, f.steps, &filtering.Questions{
		Category: category,
		Items:    candidates,
	})
	if err != nil {
		return nil, err
	}

	items := left.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
