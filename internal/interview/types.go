package interview

import (
	"fmt"
	"time"
)

// Phase is the interview lifecycle stage. Phases only move forward.
type Phase string

const (
	PhasePlanning     Phase = "planning"
	PhaseInterviewing Phase = "interviewing"
	PhaseCompleted    Phase = "completed"
)

func (p Phase) rank() int {
	switch p {
	case PhasePlanning:
		return 1
	case PhaseInterviewing:
		return 2
	case PhaseCompleted:
		return 3
	default:
		return 0
	}
}

// Speaker identifies who produced a conversation entry.
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

const (
	tagStart = "start"
	tagEnd   = "end"
)

func questionTag(i int) string       { return fmt.Sprintf("question_%d", i) }
func answerTag(i int) string         { return fmt.Sprintf("answer_%d", i) }
func followUpTag(i int) string       { return fmt.Sprintf("follow_up_%d", i) }
func followUpAnswerTag(i int) string { return fmt.Sprintf("follow_up_answer_%d", i) }

// QuestionItem is one planned question and everything collected for it.
// Asked, Answer and FollowUpAsked only ever move from unset to set.
type QuestionItem struct {
	Category      string `json:"category"`
	Question      string `json:"question"`
	FollowUpHint  string `json:"follow_up_hint,omitempty"`
	Asked         bool   `json:"asked"`
	Answer        string `json:"answer"`
	FollowUpAsked bool   `json:"follow_up_asked"`

	FollowUp       string          `json:"follow_up,omitempty"`
	FollowUpAnswer string          `json:"follow_up_answer,omitempty"`
	Analysis       *AnswerAnalysis `json:"analysis,omitempty"`
}

// Plan is built once per session by the Planner.
type Plan struct {
	CandidateName   string          `json:"candidate_name"`
	Position        string          `json:"position"`
	DurationMinutes int             `json:"interview_duration_minutes"`
	Categories      []string        `json:"question_categories"`
	Questions       []QuestionItem  `json:"questions"`
	SkillsToAssess  []string        `json:"key_skills_to_assess"`
	FocusAreas      []string        `json:"experience_focus_areas"`
	Analysis        ProfileAnalysis `json:"analysis"`
}

// ConversationEntry is an append-only transcript line.
type ConversationEntry struct {
	Speaker Speaker `json:"speaker"`
	Message string  `json:"message"`
	Tag     string  `json:"timestamp"`
}

// AnswerAnalysis holds the 1-5 ratings of a single answer.
type AnswerAnalysis struct {
	Completeness   int    `json:"completeness" mapstructure:"completeness"`
	Clarity        int    `json:"clarity" mapstructure:"clarity"`
	TechnicalDepth int    `json:"technical_depth" mapstructure:"technical_depth"`
	Relevance      int    `json:"relevance" mapstructure:"relevance"`
	NeedsFollowUp  bool   `json:"needs_follow_up" mapstructure:"needs_follow_up"`
	FollowUpReason string `json:"follow_up_reason,omitempty" mapstructure:"follow_up_reason"`
}

// ProfileAnalysis is the planner's reading of the resume against the job.
// Error is set instead of the other fields when the response was unusable.
type ProfileAnalysis struct {
	CandidateSkills []string `json:"candidate_skills,omitempty" mapstructure:"candidate_skills"`
	JobRequirements []string `json:"job_requirements,omitempty" mapstructure:"job_requirements"`
	SkillGaps       []string `json:"skill_gaps,omitempty" mapstructure:"skill_gaps"`
	TechnicalLevel  string   `json:"technical_level,omitempty" mapstructure:"technical_level"`
	BehavioralFocus []string `json:"behavioral_focus,omitempty" mapstructure:"behavioral_focus"`
	Error           string   `json:"error,omitempty" mapstructure:"-"`
}

// Summary is the closing assessment. Raw holds the unparsed response when it
// was not valid JSON.
type Summary struct {
	OverallAssessment   string   `json:"overall_assessment,omitempty" mapstructure:"overall_assessment"`
	Strengths           []string `json:"strengths,omitempty" mapstructure:"strengths"`
	Weaknesses          []string `json:"weaknesses,omitempty" mapstructure:"weaknesses"`
	TechnicalCompetency string   `json:"technical_competency,omitempty" mapstructure:"technical_competency"`
	CommunicationSkills string   `json:"communication_skills,omitempty" mapstructure:"communication_skills"`
	Recommendation      string   `json:"recommendation,omitempty" mapstructure:"recommendation"`
	KeyHighlights       []string `json:"key_highlights,omitempty" mapstructure:"key_highlights"`
	Raw                 string   `json:"summary,omitempty" mapstructure:"-"`
}

// State is the whole interview session. It is owned by a single caller at a
// time; Engine methods return an updated copy and leave their input untouched.
type State struct {
	SessionID      string     `json:"session_id"`
	StartedAt      time.Time  `json:"start_time"`
	EndedAt        *time.Time `json:"end_time,omitempty"`
	ResumeContent  string     `json:"resume_content"`
	JobDescription string     `json:"job_description"`
	CandidateName  string     `json:"candidate_name"`

	Plan                 Plan                `json:"interview_plan"`
	CurrentQuestionIndex int                 `json:"current_question_index"`
	ConversationHistory  []ConversationEntry `json:"conversation_history"`
	CurrentAnswer        string              `json:"current_answer"`
	FollowUpNeeded       bool                `json:"follow_up_needed"`
	LastAnalysis         AnswerAnalysis      `json:"answer_analysis"`
	Summary              *Summary            `json:"interview_summary,omitempty"`
	TotalTokensUsed      int                 `json:"total_tokens_used"`
	Phase                Phase               `json:"interview_phase"`
	LastError            string              `json:"error,omitempty"`
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := *s
	out.Plan = s.Plan.clone()
	if s.ConversationHistory != nil {
		out.ConversationHistory = make([]ConversationEntry, len(s.ConversationHistory))
		copy(out.ConversationHistory, s.ConversationHistory)
	}
	if s.Summary != nil {
		summary := s.Summary.clone()
		out.Summary = &summary
	}
	return &out
}

func (p Plan) clone() Plan {
	out := p
	out.Categories = cloneStrings(p.Categories)
	out.SkillsToAssess = cloneStrings(p.SkillsToAssess)
	out.FocusAreas = cloneStrings(p.FocusAreas)
	out.Analysis = p.Analysis.clone()
	if p.Questions != nil {
		out.Questions = make([]QuestionItem, len(p.Questions))
		for i, q := range p.Questions {
			if q.Analysis != nil {
				analysis := *q.Analysis
				q.Analysis = &analysis
			}
			out.Questions[i] = q
		}
	}
	return out
}

func (a ProfileAnalysis) clone() ProfileAnalysis {
	a.CandidateSkills = cloneStrings(a.CandidateSkills)
	a.JobRequirements = cloneStrings(a.JobRequirements)
	a.SkillGaps = cloneStrings(a.SkillGaps)
	a.BehavioralFocus = cloneStrings(a.BehavioralFocus)
	return a
}

func (s Summary) clone() Summary {
	s.Strengths = cloneStrings(s.Strengths)
	s.Weaknesses = cloneStrings(s.Weaknesses)
	s.KeyHighlights = cloneStrings(s.KeyHighlights)
	return s
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// transition moves the state to next, refusing to go backwards.
func (s *State) transition(next Phase) error {
	if next.rank() == 0 || next.rank() < s.Phase.rank() {
		return &InvalidPhaseError{Op: "transition to " + string(next), Phase: s.Phase}
	}
	s.Phase = next
	return nil
}

func (s *State) appendEntry(speaker Speaker, message, tag string) {
	s.ConversationHistory = append(s.ConversationHistory, ConversationEntry{
		Speaker: speaker,
		Message: message,
		Tag:     tag,
	})
}

func (s *State) recordError(err error) {
	if err != nil {
		s.LastError = err.Error()
	}
}

// CurrentPrompt returns the latest interviewer message when it is the last
// transcript entry.
func CurrentPrompt(s *State) (string, bool) {
	if s == nil || len(s.ConversationHistory) == 0 {
		return "", false
	}
	last := s.ConversationHistory[len(s.ConversationHistory)-1]
	if last.Speaker != SpeakerInterviewer {
		return "", false
	}
	return last.Message, true
}
