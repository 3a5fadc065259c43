// Package localstate persists the CLI's last-used profile handle between runs.
package localstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fdg312/diet-planner/internal/profiles"
)

// ErrNoHandle is returned by Handle when nobody is logged in.
var ErrNoHandle = errors.New("no profile handle stored")

// State is the YAML document kept on disk.
type State struct {
	Handle    string    `yaml:"handle"`
	APIURL    string    `yaml:"api_url,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// DefaultPath returns ~/.config/diet-planner/state.yaml, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "diet-planner", "state.yaml"), nil
}

// Store reads and writes State at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore uses path, or DefaultPath when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Store{path: path, now: time.Now}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored state; a missing file is an empty state.
func (s *Store) Load() (State, error) {
	var st State
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse state %s: %w", s.path, err)
	}
	return st, nil
}

// Save writes st atomically through a temp file in the same directory.
func (s *Store) Save(st State) error {
	st.UpdatedAt = s.now().UTC()
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Login normalizes rawHandle and stores it, keeping other fields.
func (s *Store) Login(rawHandle string) (string, error) {
	handle, err := profiles.NormalizeHandle(rawHandle)
	if err != nil {
		return "", err
	}
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	st.Handle = handle
	if err := s.Save(st); err != nil {
		return "", err
	}
	return handle, nil
}

// Handle returns the stored handle or ErrNoHandle.
func (s *Store) Handle() (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	if st.Handle == "" {
		return "", ErrNoHandle
	}
	return st.Handle, nil
}

// Clear removes the state file. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state: %w", err)
	}
	return nil
}
