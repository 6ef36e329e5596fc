package studyplan

import "fmt"

// Week is one block of the preparation schedule.
type Week struct {
	Focus      string   `json:"focus"`
	Activities []string `json:"activities"`
}

// Schedule is the time-boxed part of a study plan.
type Schedule struct {
	Timeline         string            `json:"timeline"`
	ExperienceLevel  string            `json:"experience_level"`
	ImprovementFocus []string          `json:"improvement_focus"`
	Weeks            []Week            `json:"weekly_schedule"`
	DailyPractice    map[string]string `json:"daily_practice"`
}

var weeksByLevel = map[string]int{
	LevelEntry:  4,
	LevelMid:    3,
	LevelSenior: 2,
	LevelExpert: 2,
}

var weekTemplates = []Week{
	{
		Focus: "Foundation & Best Practices",
		Activities: []string{
			"Review interview best practices",
			"Practice STAR method for behavioral questions",
			"Review resume and prepare examples",
		},
	},
	{
		Focus: "Technical Preparation",
		Activities: []string{
			"Practice programming language questions",
			"Solve coding problems (easy to medium)",
			"Review system design basics (if applicable)",
		},
	},
	{
		Focus: "Advanced Practice & Mock Interviews",
		Activities: []string{
			"Practice harder technical problems",
			"Conduct mock interviews",
			"Review and refine responses",
		},
	},
	{
		Focus: "Final Preparation & Confidence Building",
		Activities: []string{
			"Final mock interviews",
			"Review company-specific information",
			"Practice presentation skills",
		},
	},
}

// NewSchedule lays out the weeks for profile. Less experienced candidates
// get longer plans.
func NewSchedule(profile Profile) Schedule {
	weeks, ok := weeksByLevel[profile.ExperienceLevel]
	if !ok {
		weeks = weeksByLevel[LevelMid]
	}

	schedule := Schedule{
		Timeline:         fmt.Sprintf("%d weeks", weeks),
		ExperienceLevel:  profile.ExperienceLevel,
		ImprovementFocus: append([]string(nil), profile.ImprovementAreas...),
		Weeks:            make([]Week, 0, weeks),
		DailyPractice: map[string]string{
			"behavioral":      "Practice 2-3 behavioral questions daily",
			"technical":       "Solve 1-2 technical problems daily",
			"mock_interviews": "Schedule 1 mock interview per week",
		},
	}
	for _, week := range weekTemplates[:weeks] {
		schedule.Weeks = append(schedule.Weeks, Week{
			Focus:      week.Focus,
			Activities: append([]string(nil), week.Activities...),
		})
	}
	return schedule
}
