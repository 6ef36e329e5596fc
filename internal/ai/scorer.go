package ai

import "context"

// PromptKind selects the prompt template and the expected response schema.
type PromptKind string

const (
	PromptProfileAnalysis PromptKind = "profile_analysis"
	PromptAnswerScore     PromptKind = "answer_score"
	PromptFollowUp        PromptKind = "follow_up"
	PromptSummary         PromptKind = "summary"

	// Study plan kinds.
	PromptStudyProfile PromptKind = "study_profile"
	PromptStudyAnswer  PromptKind = "study_answer"
)

// Kinds lists every prompt kind a Scorer has to support.
var Kinds = []PromptKind{
	PromptProfileAnalysis,
	PromptAnswerScore,
	PromptFollowUp,
	PromptSummary,
	PromptStudyProfile,
	PromptStudyAnswer,
}

// Generation is the outcome of a single completed Scorer call.
type Generation struct {
	Text       string
	TokensUsed int
}

// Scorer is the text-generation capability used by the interview engine and
// the study planner.
// The returned text is expected to be JSON for every kind except follow_up,
// where a bare question is tolerated. Callers must treat the text as untrusted.
type Scorer interface {
	Generate(ctx context.Context, kind PromptKind, vars map[string]string, maxOutputTokens int) (*Generation, error)
}
