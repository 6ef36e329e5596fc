package questions

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spigell/interview-agent/internal/interview"
)

func TestDefaultBankCoversDefaultCategories(t *testing.T) {
	bank, err := DefaultBank()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}

	want := []string{
		interview.CategoryBehavioral,
		interview.CategorySoftware,
		interview.CategoryDataScience,
		interview.CategoryProjectDeepDive,
	}
	if !reflect.DeepEqual(bank.Categories(), want) {
		t.Fatalf("unexpected categories %v", bank.Categories())
	}

	for _, category := range want {
		got, err := bank.QuestionsByCategory(context.Background(), category, 2)
		if err != nil {
			t.Fatalf("%s: %v", category, err)
		}
		if len(got) != 2 {
			t.Fatalf("%s: expected 2 questions, got %d", category, len(got))
		}
		for _, q := range got {
			if q.Question == "" || q.FollowUpHint == "" {
				t.Fatalf("%s: incomplete question %+v", category, q)
			}
		}
	}
}

func TestBankLookup(t *testing.T) {
	bank, err := NewBank(Category{Name: "Behavioral", Questions: []interview.Candidate{
		{Question: "A?"}, {Question: "B?"}, {Question: "C?"},
	}})
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}

	tests := []struct {
		name     string
		category string
		limit    int
		want     int
	}{
		{name: "limited", category: "Behavioral", limit: 2, want: 2},
		{name: "case insensitive", category: " behavioral ", limit: 5, want: 3},
		{name: "no limit", category: "Behavioral", want: 3},
		{name: "unknown", category: "Cooking", limit: 2, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bank.QuestionsByCategory(context.Background(), tc.category, tc.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("expected %d questions, got %d", tc.want, len(got))
			}
		})
	}

	got, _ := bank.QuestionsByCategory(context.Background(), "Behavioral", 1)
	got[0].Question = "changed"
	again, _ := bank.QuestionsByCategory(context.Background(), "Behavioral", 1)
	if again[0].Question != "A?" {
		t.Fatal("bank returned shared slice")
	}
}

func TestNewBankRejectsInvalidCategories(t *testing.T) {
	if _, err := NewBank(Category{Name: " "}); err == nil {
		t.Fatal("expected error for unnamed category")
	}
	if _, err := NewBank(Category{Name: "A"}, Category{Name: "a"}); err == nil {
		t.Fatal("expected error for duplicated category")
	}
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "bank.yaml")
	yamlBody := `categories:
  - name: Infrastructure
    questions:
      - question: How do you roll back a bad deploy?
        follow_up: How long did the last rollback take?
      - question: What does your on-call rotation look like?
`
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	bank, err := LoadBank(yamlPath)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	got, _ := bank.QuestionsByCategory(context.Background(), "Infrastructure", 5)
	want := []interview.Candidate{
		{Question: "How do you roll back a bad deploy?", FollowUpHint: "How long did the last rollback take?"},
		{Question: "What does your on-call rotation look like?"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	jsonPath := filepath.Join(dir, "bank.json")
	jsonBody := `{"categories": [{"name": "Behavioral", "questions": [{"question": "Why us?"}]}]}`
	if err := os.WriteFile(jsonPath, []byte(jsonBody), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	bank, err = LoadBank(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if bank.Len() != 1 {
		t.Fatalf("expected 1 question, got %d", bank.Len())
	}

	if _, err := LoadBank(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBankBestPractices(t *testing.T) {
	bank, err := DefaultBank()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}

	for _, group := range []string{"general", "Technical", " behavioral "} {
		if len(bank.BestPractices(group)) == 0 {
			t.Fatalf("expected practices for %q", group)
		}
	}
	if got := bank.BestPractices("unknown"); got != nil {
		t.Fatalf("expected nil for unknown group, got %v", got)
	}

	practices := bank.BestPractices("general")
	practices[0] = "changed"
	if bank.BestPractices("general")[0] == "changed" {
		t.Fatal("practices must be returned as a copy")
	}
}
