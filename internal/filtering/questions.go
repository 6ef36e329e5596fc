package filtering

import (
	"strings"

	"github.com/spigell/interview-agent/internal/interview"
)

// Questions is the candidate list for one category flowing through the filters.
type Questions struct {
	Category string
	Items    []interview.Candidate
}

func (q *Questions) Len() int {
	return len(q.Items)
}

// Texts returns the question texts in order.
func (q *Questions) Texts() []string {
	texts := make([]string, 0, len(q.Items))
	for _, item := range q.Items {
		texts = append(texts, item.Question)
	}
	return texts
}

// ExcludeFunc removes every question matching drop and returns the removed
// texts. Order of the remaining questions is preserved.
func (q *Questions) ExcludeFunc(drop func(interview.Candidate) bool) []string {
	var excluded []string
	kept := make([]interview.Candidate, 0, len(q.Items))
	for _, item := range q.Items {
		if drop(item) {
			excluded = append(excluded, item.Question)
			continue
		}
		kept = append(kept, item)
	}
	q.Items = kept
	return excluded
}

// Exclude removes questions whose normalized text is one of targets.
func (q *Questions) Exclude(targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[Normalize(target)] = struct{}{}
	}

	return q.ExcludeFunc(func(c interview.Candidate) bool {
		_, ok := set[Normalize(c.Question)]
		return ok
	})
}

// Normalize folds case and whitespace so that reworded spacing does not make
// a question look new.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
