package questions

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/spigell/interview-agent/internal/interview"
)

//go:embed default.yaml
var defaultBank []byte

// Category is one section of a question bank file.
type Category struct {
	Name       string                `mapstructure:"name"`
	Difficulty string                `mapstructure:"difficulty"`
	Questions  []interview.Candidate `mapstructure:"questions"`
}

// Bank is an in-memory question source. It returns questions in file order,
// so repeated calls give the same result.
type Bank struct {
	categories map[string]Category
	order      []string
	practices  map[string][]string
}

type bankFile struct {
	Categories    []Category          `mapstructure:"categories"`
	BestPractices map[string][]string `mapstructure:"best_practices"`
}

// DefaultBank returns the question bank shipped with the binary.
func DefaultBank() (*Bank, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultBank)); err != nil {
		return nil, fmt.Errorf("read default question bank: %w", err)
	}
	return bankFrom(v)
}

// LoadBank reads a YAML or JSON question bank from path.
func LoadBank(path string) (*Bank, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	return bankFrom(v)
}

func bankFrom(v *viper.Viper) (*Bank, error) {
	var file bankFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	bank, err := NewBank(file.Categories...)
	if err != nil {
		return nil, err
	}
	for group, practices := range file.BestPractices {
		bank.practices[categoryKey(group)] = practices
	}
	return bank, nil
}

// NewBank builds a bank from categories. Category names are matched
// case-insensitively and must be unique.
func NewBank(categories ...Category) (*Bank, error) {
	b := &Bank{
		categories: make(map[string]Category, len(categories)),
		practices:  map[string][]string{},
	}
	for _, category := range categories {
		key := categoryKey(category.Name)
		if key == "" {
			return nil, fmt.Errorf("question bank category without a name")
		}
		if _, ok := b.categories[key]; ok {
			return nil, fmt.Errorf("question bank category %q is defined twice", category.Name)
		}
		b.categories[key] = category
		b.order = append(b.order, category.Name)
	}
	return b, nil
}

// Categories returns category names in file order.
func (b *Bank) Categories() []string {
	return append([]string(nil), b.order...)
}

// Len returns the total number of questions.
func (b *Bank) Len() int {
	n := 0
	for _, category := range b.categories {
		n += len(category.Questions)
	}
	return n
}

// QuestionsByCategory returns up to limit questions of category. Unknown
// categories yield an empty result. A non-positive limit returns everything.
func (b *Bank) QuestionsByCategory(_ context.Context, category string, limit int) ([]interview.Candidate, error) {
	found, ok := b.categories[categoryKey(category)]
	if !ok {
		return []interview.Candidate{}, nil
	}

	questions := found.Questions
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return append([]interview.Candidate(nil), questions...), nil
}

// BestPractices returns the interview tips of group (general, technical,
// behavioral). Unknown groups yield nil.
func (b *Bank) BestPractices(group string) []string {
	return append([]string(nil), b.practices[categoryKey(group)]...)
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
