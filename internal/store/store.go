// Package store provides filesystem persistence for session artifacts.
//
// Every artifact is addressed by (session id, stage, kind); the kind doubles
// as the filename inside the session directory, so any later process can
// rediscover a session from its identifier alone without an index.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists artifacts under a root directory, one subdirectory per
// session.
type Store struct {
	root string
}

// New creates a Store rooted at the given directory. The directory is
// created on the first write.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// SessionDir returns the directory holding a session's artifacts.
func (s *Store) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

func (s *Store) artifactPath(sessionID, kind string) string {
	return filepath.Join(s.root, sessionID, kind)
}

// Put writes an artifact, overwriting any previous value for the same key.
// The write is atomic: content lands in a temp file that is renamed into
// place, so a concurrent Get never observes a partial write.
func (s *Store) Put(sessionID, stage, kind string, content []byte) error {
	dir := s.SessionDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+kind+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", kind, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", kind, err)
	}

	if err := os.Rename(tmpName, s.artifactPath(sessionID, kind)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to finalize %s: %w", kind, err)
	}
	return nil
}

// Get reads an artifact. A missing artifact yields *NotFoundError.
func (s *Store) Get(sessionID, stage, kind string) ([]byte, error) {
	content, err := os.ReadFile(s.artifactPath(sessionID, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Session: sessionID, Stage: stage, Kind: kind}
		}
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return content, nil
}

// Exists reports whether an artifact is present for the key.
func (s *Store) Exists(sessionID, stage, kind string) bool {
	_, err := os.Stat(s.artifactPath(sessionID, kind))
	return err == nil
}

// SessionExists reports whether any state has been persisted for a session.
func (s *Store) SessionExists(sessionID string) bool {
	info, err := os.Stat(s.SessionDir(sessionID))
	return err == nil && info.IsDir()
}
