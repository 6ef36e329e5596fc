package studyplan

import (
	"fmt"
	"strings"

	"github.com/spigell/interview-agent/internal/interview"
)

var areaQuestions = []struct {
	area     string
	question string
}{
	{area: "leadership", question: "Tell me about a time you had to lead a team through a difficult situation."},
	{area: "communication", question: "Describe a time you had to explain a complex technical concept to a non-technical audience."},
}

const starGuide = `Use the STAR method to structure your answer:

Situation: Set the context with specific details about when and where this happened.
Task: Explain what you needed to accomplish or what challenge you faced.
Action: Describe the steps you took, focusing on your own contributions.
Result: Share the outcome, with numbers when possible, and what you learned.

Choose an example that highlights skills relevant to the role and practice telling it beforehand.`

const technicalGuide = `Structure your answer:

Definition: State the concept or problem in one or two sentences.
Approach: Explain how you would solve it and which alternatives you considered.
Trade-offs: Name the costs of your choice (complexity, performance, maintenance).
Experience: Tie it to a project where you applied it and what happened.

Think out loud, ask clarifying questions and be honest about what you don't know.`

const deepDiveGuide = `Pick one project you know end to end and prepare:

Context: The problem, the users and the constraints.
Your role: What you owned and which decisions were yours.
Design: The architecture, the key technical decisions and the alternatives you rejected.
Outcome: Measurable results and what you would change today.`

// answerGuide is the built-in answer guide for category. A follow-up hint is
// appended so the candidate can prepare for the likely next question.
func answerGuide(category, followUpHint string) string {
	guide := technicalGuide
	switch category {
	case interview.CategoryBehavioral:
		guide = starGuide
	case interview.CategoryProjectDeepDive:
		guide = deepDiveGuide
	}
	if followUpHint = strings.TrimSpace(followUpHint); followUpHint == "" {
		return guide
	}
	return fmt.Sprintf("%s\n\nBe ready for the follow-up: %s", guide, followUpHint)
}
