package interview

import "time"

// Status marks whether a saved snapshot belongs to a finished session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Snapshot is the persisted record of a session.
type Snapshot struct {
	SessionID           string              `json:"session_id"`
	CandidateName       string              `json:"candidate_name"`
	StartTime           time.Time           `json:"start_time"`
	EndTime             *time.Time          `json:"end_time,omitempty"`
	Status              Status              `json:"status"`
	ResumeContent       string              `json:"resume_content"`
	JobDescription      string              `json:"job_description"`
	Plan                Plan                `json:"interview_plan"`
	Questions           []QuestionItem      `json:"questions"`
	Summary             *Summary            `json:"summary,omitempty"`
	ConversationHistory []ConversationEntry `json:"conversation_history"`
	Metrics             Metrics             `json:"metrics"`
	State               *State              `json:"state"`
}

// NewSnapshot captures st. The status follows the phase; metrics include the
// duration once the session has ended.
func NewSnapshot(st *State) *Snapshot {
	if st == nil {
		return nil
	}

	cp := st.Clone()
	status := StatusInProgress
	if cp.Phase == PhaseCompleted {
		status = StatusCompleted
	}

	metrics := ComputeMetrics(cp)
	if cp.EndedAt != nil {
		metrics = metrics.WithDuration(cp.StartedAt, *cp.EndedAt)
	}

	return &Snapshot{
		SessionID:           cp.SessionID,
		CandidateName:       cp.CandidateName,
		StartTime:           cp.StartedAt,
		EndTime:             cp.EndedAt,
		Status:              status,
		ResumeContent:       cp.ResumeContent,
		JobDescription:      cp.JobDescription,
		Plan:                cp.Plan,
		Questions:           cp.Plan.Questions,
		Summary:             cp.Summary,
		ConversationHistory: cp.ConversationHistory,
		Metrics:             metrics,
		State:               cp,
	}
}

// CurrentMetrics recomputes the metrics from the embedded state. Snapshots
// written without a state fall back to the metrics saved alongside them.
func (s *Snapshot) CurrentMetrics() Metrics {
	if s == nil {
		return Metrics{}
	}
	if s.State == nil {
		return s.Metrics
	}

	metrics := ComputeMetrics(s.State)
	if s.EndTime != nil {
		metrics = metrics.WithDuration(s.StartTime, *s.EndTime)
	}
	return metrics
}
