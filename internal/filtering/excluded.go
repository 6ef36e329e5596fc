package filtering

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spigell/interview-agent/internal/interview"
)

type ExcludedQuestions struct {
	Items []*ExcludedQuestion
}

type ExcludedQuestion struct {
	Question   string
	Category   string
	SessionID  string
	ExcludedAt time.Time
}

// AskedIn collects the questions that were put to the candidate in st.
func AskedIn(st *interview.State, now time.Time) *ExcludedQuestions {
	excluded := &ExcludedQuestions{}
	if st == nil {
		return excluded
	}
	for _, q := range st.Plan.Questions {
		if !q.Asked {
			continue
		}
		excluded.Items = append(excluded.Items, &ExcludedQuestion{
			Question:   q.Question,
			Category:   q.Category,
			SessionID:  st.SessionID,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

// ExcludedFromFile reads an exclude file. A missing or empty file yields an
// empty list.
func ExcludedFromFile(path string) (*ExcludedQuestions, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedQuestions{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedQuestions{}, nil
	}

	var excluded ExcludedQuestions
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedQuestions) Append(s *ExcludedQuestions) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedQuestions) Questions() []string {
	questions := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		questions = append(questions, item.Question)
	}
	return questions
}

func (e *ExcludedQuestions) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return err
	}
	return nil
}

// AppendToFile merges s into the exclude file at path.
func AppendToFile(path string, s *ExcludedQuestions) error {
	excluded, err := ExcludedFromFile(path)
	if err != nil {
		return fmt.Errorf("read exclude file: %w", err)
	}
	excluded.Append(s)
	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write exclude file: %w", err)
	}
	return nil
}
