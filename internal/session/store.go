// Package session owns the authenticated identity: the token/username pair,
// its file-persisted form, and the login/logout transitions.
//
// The invariant is both-or-neither: a session never has a token without a
// username or vice versa. The persisted file is kept exactly in sync with
// in-memory state on every transition, and a process restart restores the
// session solely from the file.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Session is the authenticated identity held by the client.
// The zero value means no session.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// Active reports whether a session is established.
func (s Session) Active() bool {
	return s.Token != "" && s.Username != ""
}

// fileSession is the on-disk form. Checksum guards against partial or
// hand-edited files: a mismatch is treated as no session, not an error.
type fileSession struct {
	Session
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore persists the session in a JSON file. Writes are atomic
// (write-tmp-fsync-rename) under an flock plus an in-process mutex, and
// the file is kept at 0600 since it holds the bearer token.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the given file path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Load reads the persisted session. A missing, corrupt, or tampered file
// yields an empty session; only I/O errors other than not-exist are
// reported.
func (s *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read session file: %w", err)
	}

	// Warn if the token file is readable by group or other.
	if runtime.GOOS != "windows" {
		if info, statErr := os.Stat(s.path); statErr == nil {
			mode := info.Mode().Perm()
			if mode&0077 != 0 {
				s.logger.Warn("session file has too-open permissions, should be 0600",
					"path", s.path, "current_mode", fmt.Sprintf("%04o", mode))
			}
		}
	}

	var fs fileSession
	if err := json.Unmarshal(data, &fs); err != nil {
		s.logger.Warn("session file unreadable, ignoring", "path", s.path, "error", err)
		return Session{}, nil
	}
	if !fs.Active() || fs.Checksum != checksum(fs.Session) {
		if fs.Token != "" || fs.Username != "" {
			s.logger.Warn("session file incomplete or tampered, ignoring", "path", s.path)
		}
		return Session{}, nil
	}
	return fs.Session, nil
}

// Save writes the session to disk atomically, replacing any previous one.
func (s *FileStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	lockPath := s.path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flockLock(lockFile.Fd()); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer flockUnlock(lockFile.Fd()) //nolint:errcheck

	fs := fileSession{
		Session:   sess,
		Checksum:  checksum(sess),
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	data = append(data, '\n')

	if err := s.writeAtomic(data); err != nil {
		return err
	}

	if err := os.Chmod(s.path, 0600); err != nil {
		s.logger.Warn("failed to set permissions on session file", "error", err)
	}

	s.logger.Debug("session saved", "path", s.path, "username", sess.Username)
	return nil
}

// Clear removes the persisted session. A missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it over
// the target path. On any error the temp file is cleaned up.
func (s *FileStore) writeAtomic(data []byte) error {
	tmpPath := s.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp to session: %w", err)
	}
	return nil
}

// Path returns the configured file path.
func (s *FileStore) Path() string {
	return s.path
}

// checksum computes the integrity digest of the persisted fields.
func checksum(sess Session) string {
	h := xxhash.New()
	_, _ = h.WriteString(sess.Token)
	_, _ = h.WriteString("\n")
	_, _ = h.WriteString(sess.Username)
	_, _ = h.WriteString("\n")
	_, _ = h.WriteString(sess.Role)
	return fmt.Sprintf("%016x", h.Sum64())
}
