package logger

import "go.uber.org/zap"

const (
	FieldSessionID = "session_id"
	FieldCandidate = "candidate"
)

// WithSession tags logger with the interview session and candidate.
func WithSession(logger *zap.Logger, sessionID, candidate string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldSessionID, Value: sessionID},
		StringField{Key: FieldCandidate, Value: candidate},
	)...)
}
