package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oshokin/circuit-breaker/internal/config"
	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
)

// Snapshot is the persisted view of the breaker: the packed state word plus
// audit metadata about the last transition. The word is the single source of
// truth; everything else is context for operators reading the file.
type Snapshot struct {
	// Word is the packed pause state (flag plus 48-bit deadline).
	Word uint64 `json:"state_word"`
	// LastActor is the identity attributed to the last transition.
	LastActor *domain.Actor `json:"last_actor,omitempty"`
	// LastEvent names the last transition.
	LastEvent domain.EventKind `json:"last_event,omitempty"`
	// UpdatedAt is the wall-clock time of the last save.
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines persistence operations for the breaker snapshot.
type Repository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

// ErrNotFound is returned when no snapshot has been written yet.
var ErrNotFound = errors.New("snapshot not found")

// FileRepository persists the snapshot as a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the snapshot file.
	path string
	// mu protects concurrent access to the snapshot file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the
// provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the snapshot from disk.
func (r *FileRepository) Load(_ context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var snapshot Snapshot
	if err = json.Unmarshal(contents, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot file: %w", err)
	}

	return &snapshot, nil
}

// Save writes the snapshot to disk.
func (r *FileRepository) Save(_ context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}
