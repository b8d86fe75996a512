package auth

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/procdash/internal/errors"
)

// Store persists a single Session as YAML.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the session with owner-only permissions, replacing any
// previous one.
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session directory")
	}

	data, err := yaml.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshaling session")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "writing session file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing session file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing session file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "writing session file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

// Load reads the stored session. A missing file yields ErrNoSession.
func (s *Store) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, errors.ErrNoSession
		}
		return Session{}, errors.Wrap(err, "reading session file")
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, errors.Wrap(err, "parsing session file")
	}
	return sess, nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
