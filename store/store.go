package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound indicates no workflow state is persisted for the project.
var ErrNotFound = errors.New("no workflow state found")

const stateFileName = "workflow.json"

// Store persists workflow state per project directory, outside the
// project tree. Each project's state lives under
// <baseDir>/state/<key>/ where key is the encoded absolute project path,
// so separate clones of the same repository never collide unless their
// paths are identical.
type Store struct {
	baseDir string
	backups int
}

// Option configures a Store.
type Option func(*Store)

// WithBackups sets how many rotating backups of prior state are kept.
// Default is 3; zero disables backups.
func WithBackups(n int) Option {
	return func(s *Store) {
		s.backups = n
	}
}

// New creates a store rooted at baseDir.
func New(baseDir string, opts ...Option) *Store {
	s := &Store{
		baseDir: baseDir,
		backups: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultBaseDir returns the per-user store location, ~/.tddflow.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tddflow"), nil
}

// BaseDir returns the base directory for the store.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// projectDir returns the state directory for a project path.
func (s *Store) projectDir(projectPath string) (string, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("resolve project path: %w", err)
	}
	return filepath.Join(s.baseDir, "state", EncodeProjectPath(abs)), nil
}

// pathLocks serializes writers to the same state file within this
// process. Cross-process writers are not arbitrated beyond the atomic
// rename (last writer wins).
var pathLocks sync.Map

func lockFor(dir string) *sync.Mutex {
	mu, _ := pathLocks.LoadOrStore(dir, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Save persists state for the project. The new state is fully staged in
// a temp file, the previous state is copied into the backup chain, and a
// single atomic rename makes the switch. The canonical file is never
// moved aside, so a crash or write failure at any point leaves the prior
// state loadable at its usual path.
func (s *Store) Save(projectPath string, state any) error {
	dir, err := s.projectDir(projectPath)
	if err != nil {
		return err
	}

	mu := lockFor(dir)
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	target := filepath.Join(dir, stateFileName)

	tmp, err := os.CreateTemp(dir, stateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}

	s.rotateBackups(target)

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// rotateBackups copies workflow.json into the .bak chain, dropping the
// oldest copy. Copying rather than renaming keeps the live file at its
// canonical path until Save's final rename lands. Best effort: a missing
// file simply leaves a gap.
func (s *Store) rotateBackups(target string) {
	if s.backups <= 0 {
		return
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return
	}
	for i := s.backups - 1; i >= 1; i-- {
		os.Rename(backupName(target, i), backupName(target, i+1))
	}
	os.WriteFile(backupName(target, 1), data, 0644)
}

func backupName(target string, n int) string {
	return fmt.Sprintf("%s.bak.%d", target, n)
}

// Load reads the persisted state for the project into dst.
// Returns ErrNotFound when no state exists.
func (s *Store) Load(projectPath string, dst any) error {
	dir, err := s.projectDir(projectPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(dir, stateFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read state: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	return nil
}

// Exists reports whether state is persisted for the project, without
// loading it.
func (s *Store) Exists(projectPath string) bool {
	dir, err := s.projectDir(projectPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, stateFileName))
	return err == nil
}

// Delete removes the project's state file and its backups. Idempotent:
// deleting absent state is not an error. The activity log is retained
// for audit.
func (s *Store) Delete(projectPath string) error {
	dir, err := s.projectDir(projectPath)
	if err != nil {
		return err
	}

	mu := lockFor(dir)
	mu.Lock()
	defer mu.Unlock()

	target := filepath.Join(dir, stateFileName)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete state: %w", err)
	}
	for i := 1; i <= s.backups; i++ {
		os.Remove(backupName(target, i))
	}
	return nil
}
