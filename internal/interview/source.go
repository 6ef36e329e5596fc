package interview

import "context"

// Candidate is a question offered by a QuestionSource.
type Candidate struct {
	Question     string `json:"question" mapstructure:"question"`
	FollowUpHint string `json:"follow_up,omitempty" mapstructure:"follow_up"`
}

// QuestionSource supplies candidate questions per category. An empty result
// means the category has no questions.
type QuestionSource interface {
	QuestionsByCategory(ctx context.Context, category string, limit int) ([]Candidate, error)
}
