package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/interview-agent/internal/interview"
)

// ErrNotFound is returned when no snapshot is stored for a session.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore persists interview snapshots. Saving a session again
// replaces the previous snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *interview.Snapshot) (string, error)
	Load(ctx context.Context, sessionID string) (*interview.Snapshot, error)
}

func validate(snapshot *interview.Snapshot) error {
	if snapshot == nil {
		return errors.New("snapshot is nil")
	}
	return validateID(snapshot.SessionID)
}

func validateID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session id is empty")
	}
	if strings.ContainsAny(sessionID, `/\:`) {
		return fmt.Errorf("session id %q contains path separators", sessionID)
	}
	return nil
}
