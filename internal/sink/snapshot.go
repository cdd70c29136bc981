package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marchworks/leadscout/internal/scout"
)

// Snapshot persists the full candidate list as pretty-printed JSON on the
// local filesystem. The file is rewritten whole on every call so a crash
// mid-run leaves the previous complete snapshot intact.
type Snapshot struct {
	path string
}

// NewSnapshot creates a snapshot writer targeting the given file path.
func NewSnapshot(path string) (*Snapshot, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	return &Snapshot{path: path}, nil
}

// Path returns the snapshot file location.
func (s *Snapshot) Path() string { return s.path }

// Write replaces the snapshot file with the given candidates.
func (s *Snapshot) Write(_ context.Context, list []scout.Candidate) error {
	if list == nil {
		list = []scout.Candidate{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
