package interview

import "strings"

const (
	CategoryBehavioral      = "Behavioral"
	CategoryProjectDeepDive = "Project Deep Dive"
	CategorySoftware        = "Technical - Software Engineering"
	CategoryDataScience     = "Technical - Data Science"
)

// CategoryRule adds Name to the plan when the job description contains any of
// Keywords (case-insensitive substring match).
type CategoryRule struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
}

// DefaultCategoryRules is used when no rules are configured.
var DefaultCategoryRules = []CategoryRule{
	{Name: CategorySoftware, Keywords: []string{"software", "engineer", "developer", "programming"}},
	{Name: CategoryDataScience, Keywords: []string{"data", "scientist", "analytics", "ml", "ai"}},
}

// SelectCategories returns Behavioral, then every matching rule in table
// order, then Project Deep Dive. The result depends only on its inputs.
func SelectCategories(jobDescription string, rules []CategoryRule) []string {
	if rules == nil {
		rules = DefaultCategoryRules
	}

	text := strings.ToLower(jobDescription)
	categories := []string{CategoryBehavioral}
	seen := map[string]bool{CategoryBehavioral: true, CategoryProjectDeepDive: true}

	for _, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" || seen[name] {
			continue
		}
		if matchesAny(text, rule.Keywords) {
			categories = append(categories, name)
			seen[name] = true
		}
	}

	return append(categories, CategoryProjectDeepDive)
}

func matchesAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
