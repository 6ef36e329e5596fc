package interview

import "time"

// Metrics aggregates a session. Averages are nil when no answer analysis was
// retained; absent means not applicable, never zero.
type Metrics struct {
	TotalQuestions    int `json:"total_questions"`
	QuestionsAsked    int `json:"questions_asked"`
	QuestionsAnswered int `json:"questions_answered"`
	FollowUpsAsked    int `json:"follow_ups_asked"`
	TotalTokensUsed   int `json:"total_tokens_used"`

	AvgCompleteness   *float64 `json:"avg_completeness_score,omitempty"`
	AvgClarity        *float64 `json:"avg_clarity_score,omitempty"`
	AvgTechnicalDepth *float64 `json:"avg_technical_depth_score,omitempty"`
	AvgRelevance      *float64 `json:"avg_relevance_score,omitempty"`

	DurationMinutes *float64 `json:"interview_duration_minutes,omitempty"`
}

// ComputeMetrics reads st without modifying it and may be called in any phase.
func ComputeMetrics(st *State) Metrics {
	if st == nil {
		return Metrics{}
	}

	m := Metrics{
		TotalQuestions:  len(st.Plan.Questions),
		TotalTokensUsed: st.TotalTokensUsed,
	}

	var completeness, clarity, depth, relevance, scored int
	for _, q := range st.Plan.Questions {
		if q.Asked {
			m.QuestionsAsked++
		}
		if q.Answer != "" {
			m.QuestionsAnswered++
		}
		if q.FollowUpAsked {
			m.FollowUpsAsked++
		}
		if q.Analysis != nil {
			completeness += q.Analysis.Completeness
			clarity += q.Analysis.Clarity
			depth += q.Analysis.TechnicalDepth
			relevance += q.Analysis.Relevance
			scored++
		}
	}

	if scored > 0 {
		m.AvgCompleteness = average(completeness, scored)
		m.AvgClarity = average(clarity, scored)
		m.AvgTechnicalDepth = average(depth, scored)
		m.AvgRelevance = average(relevance, scored)
	}

	return m
}

// WithDuration returns a copy of m with the session length in minutes.
func (m Metrics) WithDuration(start, end time.Time) Metrics {
	if start.IsZero() || end.Before(start) {
		return m
	}
	minutes := end.Sub(start).Minutes()
	m.DurationMinutes = &minutes
	return m
}

func average(sum, n int) *float64 {
	v := float64(sum) / float64(n)
	return &v
}
