package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spigell/interview-agent/internal/interview"
)

// FileStore keeps one indented JSON file per session in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file used for sessionID.
func (s *FileStore) Path(sessionID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("interview_%s.json", sessionID))
}

// Save replaces the session file atomically.
func (s *FileStore) Save(_ context.Context, snapshot *interview.Snapshot) (string, error) {
	if err := validate(snapshot); err != nil {
		return "", err
	}

	file, err := os.CreateTemp(s.dir, "interview_*.json.tmp")
	if err != nil {
		return "", err
	}
	tmp := file.Name()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		file.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}

	path := s.Path(snapshot.SessionID)
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}

func (s *FileStore) Load(_ context.Context, sessionID string) (*interview.Snapshot, error) {
	if err := validateID(sessionID); err != nil {
		return nil, err
	}
	return LoadFile(s.Path(sessionID))
}

// LoadFile reads a snapshot written by FileStore.
func LoadFile(path string) (*interview.Snapshot, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snapshot interview.Snapshot
	if err := json.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &snapshot, nil
}
