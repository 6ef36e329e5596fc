package studyplan

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Experience levels.
const (
	LevelEntry  = "entry"
	LevelMid    = "mid"
	LevelSenior = "senior"
	LevelExpert = "expert"
)

// Profile is what the planner knows about the candidate.
type Profile struct {
	ImprovementAreas []string `json:"improvement_areas" mapstructure:"improvement_areas"`
	TechnicalSkills  []string `json:"technical_skills" mapstructure:"technical_skills"`
	ExperienceLevel  string   `json:"experience_level" mapstructure:"experience_level"`
}

type pattern struct {
	name string
	re   *regexp2.Regexp
}

func mustPatterns(pairs ...string) []pattern {
	out := make([]pattern, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, pattern{name: pairs[i], re: regexp2.MustCompile(pairs[i+1], regexp2.IgnoreCase)})
	}
	return out
}

// Patterns rely on lookahead, which RE2 does not support.
var (
	skillPatterns = mustPatterns(
		"python", `\b(python|django|flask|fastapi|pandas|numpy)\b`,
		"javascript", `\b(javascript|js|react|vue|angular|node\.?js|express)\b`,
		"java", `\b(java|spring|hibernate|maven|gradle)\b(?!script)`,
		"cpp", `\b(c\+\+|cpp|c plus plus)(?![\w+])`,
		"c", `\bc\b(?!\+)`,
		"go", `\b(golang|go(?= developer| engineer| services?))\b`,
		"sql", `\b(sql|mysql|postgresql|oracle|mongodb)\b`,
		"aws", `\b(aws|amazon web services|ec2|s3|lambda)\b`,
		"docker", `\b(docker|kubernetes|k8s|container)\b`,
		"git", `\b(git|github|gitlab|version control)\b`,
	)

	improvementPatterns = mustPatterns(
		"leadership", `\b(lead|manage|leadership|team lead|mentor|supervise)\b`,
		"system_design", `\b(system design|architecture|scalability|microservices)\b`,
		"communication", `\b(communication|presentation|stakeholder|client)\b`,
		"technical_skills", `\b(technical|programming|coding|development)\b`,
		"project_management", `\b(project management|agile|scrum|planning)\b`,
	)

	// Checked in order; the first match wins.
	levelPatterns = mustPatterns(
		LevelSenior, `\b(senior|lead|principal|architect|expert|5\+?\s*years?|[6-9]\+?\s*years?|\d{2}\+?\s*years?)\b`,
		LevelMid, `\b(mid|middle|3\+?\s*years?|4\+?\s*years?)\b`,
		LevelEntry, `\b(entry|junior|new|graduate|fresh|1\+?\s*years?|2\+?\s*years?)\b`,
	)
)

var (
	defaultSkills = []string{"python", "javascript"}
	defaultAreas  = []string{"technical_skills", "communication"}
)

// AnalyzeResume extracts a profile from resume by keyword matching. It never
// calls a model and always returns non-empty skills and areas.
func AnalyzeResume(resume string) Profile {
	profile := Profile{
		TechnicalSkills:  matching(skillPatterns, resume),
		ImprovementAreas: matching(improvementPatterns, resume),
		ExperienceLevel:  LevelMid,
	}

	for _, p := range levelPatterns {
		if ok, _ := p.re.MatchString(resume); ok {
			profile.ExperienceLevel = p.name
			break
		}
	}

	if len(profile.TechnicalSkills) == 0 {
		profile.TechnicalSkills = append([]string(nil), defaultSkills...)
	}
	if len(profile.ImprovementAreas) == 0 {
		profile.ImprovementAreas = append([]string(nil), defaultAreas...)
	}

	return profile
}

func matching(patterns []pattern, text string) []string {
	var out []string
	for _, p := range patterns {
		if ok, _ := p.re.MatchString(text); ok {
			out = append(out, p.name)
		}
	}
	return out
}

// normalizeLevel maps free-form levels onto the known ones. Unknown values
// become mid.
func normalizeLevel(level string) string {
	switch level = strings.ToLower(strings.TrimSpace(level)); level {
	case LevelEntry, LevelMid, LevelSenior, LevelExpert:
		return level
	case "junior":
		return LevelEntry
	default:
		return LevelMid
	}
}

// merge fills the gaps of p, which came from a model, with the keyword
// analysis of the same resume.
func (p Profile) merge(keywords Profile) Profile {
	p.TechnicalSkills = cleanList(p.TechnicalSkills)
	p.ImprovementAreas = cleanList(p.ImprovementAreas)
	if len(p.TechnicalSkills) == 0 {
		p.TechnicalSkills = keywords.TechnicalSkills
	}
	if len(p.ImprovementAreas) == 0 {
		p.ImprovementAreas = keywords.ImprovementAreas
	}
	if strings.TrimSpace(p.ExperienceLevel) == "" {
		p.ExperienceLevel = keywords.ExperienceLevel
	}
	p.ExperienceLevel = normalizeLevel(p.ExperienceLevel)
	return p
}

func (p Profile) hasArea(area string) bool {
	for _, a := range p.ImprovementAreas {
		if strings.EqualFold(strings.ReplaceAll(strings.TrimSpace(a), " ", "_"), area) {
			return true
		}
	}
	return false
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
