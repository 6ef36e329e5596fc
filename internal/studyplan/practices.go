package studyplan

// PracticeSource supplies interview tips by group.
type PracticeSource interface {
	BestPractices(group string) []string
}

const maxPractices = 8

var (
	fallbackGeneral = []string{
		"Practice the STAR method for behavioral questions",
		"Prepare specific examples from your experience",
		"Research the company and role thoroughly",
		"Prepare thoughtful questions to ask the interviewer",
		"Practice explaining your technical projects clearly",
	}

	levelPractices = map[string][]string{
		LevelEntry: {
			"Focus on learning ability and enthusiasm",
			"Prepare examples from internships, projects, or coursework",
			"Show willingness to learn and grow",
		},
		LevelSenior: {
			"Prepare leadership and mentoring examples",
			"Focus on system design and architecture decisions",
			"Demonstrate business impact of your work",
		},
	}

	areaPractices = []struct {
		area     string
		practice string
	}{
		{area: "leadership", practice: "Prepare examples of leading teams or projects"},
		{area: "communication", practice: "Practice explaining technical concepts to non-technical audiences"},
		{area: "system_design", practice: "Sketch the architecture of a system you built and defend its trade-offs"},
	}
)

// SelectPractices picks at most eight tips for profile: general tips first,
// then tips for the experience level and the improvement areas, topped up
// with behavioral and technical tips.
func SelectPractices(source PracticeSource, profile Profile) []string {
	var general, behavioral, technical []string
	if source != nil {
		general = source.BestPractices("general")
		behavioral = source.BestPractices("behavioral")
		technical = source.BestPractices("technical")
	}
	if len(general) == 0 {
		general = fallbackGeneral
	}

	picked := newPicker(maxPractices)
	picked.add(general[:min(len(general), 4)]...)
	picked.add(levelPractices[profile.ExperienceLevel]...)
	for _, p := range areaPractices {
		if profile.hasArea(p.area) {
			picked.add(p.practice)
		}
	}
	picked.add(behavioral...)
	picked.add(technical...)
	picked.add(general...)

	return picked.items
}

type picker struct {
	limit int
	seen  map[string]bool
	items []string
}

func newPicker(limit int) *picker {
	return &picker{limit: limit, seen: map[string]bool{}}
}

func (p *picker) add(items ...string) {
	for _, item := range items {
		if len(p.items) == p.limit {
			return
		}
		if item == "" || p.seen[item] {
			continue
		}
		p.seen[item] = true
		p.items = append(p.items, item)
	}
}
