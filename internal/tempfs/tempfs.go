// Package tempfs manages per-request scratch directories under a single root.
//
// Every request gets its own uniquely named directory (a Scope). The
// directory is removed exactly once: when the scope is released and no
// artifact opened from it is still being read.
package tempfs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iconidentify/vidfetch/internal/domain"
)

// scopePrefix marks directories owned by a Manager. Sweep only touches these.
const scopePrefix = "req-"

// Manager hands out scoped directories under root.
type Manager struct {
	root   string
	logger *slog.Logger

	mu   sync.Mutex
	live map[string]struct{}
}

// NewManager creates the root directory if needed and returns a Manager for it.
func NewManager(root string, logger *slog.Logger) (*Manager, error) {
	if root == "" {
		return nil, errors.New("temp root is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create temp root: %w", err)
	}
	return &Manager{
		root:   root,
		logger: logger,
		live:   make(map[string]struct{}),
	}, nil
}

// Root returns the directory scopes are created under.
func (m *Manager) Root() string {
	return m.root
}

// Active returns the number of scopes not yet removed.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Acquire creates a fresh scope. os.Mkdir fails on an existing path, so two
// callers can never share a directory.
func (m *Manager) Acquire() (*Scope, error) {
	dir := filepath.Join(m.root, scopePrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0700); err != nil {
		return nil, domain.NewExtractionError(domain.KindDiskIO, "create scope", err.Error())
	}

	m.mu.Lock()
	m.live[dir] = struct{}{}
	m.mu.Unlock()

	m.logger.Debug("scope acquired", "dir", dir)
	return &Scope{m: m, dir: dir}, nil
}

func (m *Manager) forget(dir string) {
	m.mu.Lock()
	delete(m.live, dir)
	m.mu.Unlock()
}

func (m *Manager) isLive(dir string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live[dir]
	return ok
}

// Sweep removes scope directories older than olderThan that no live scope
// owns, such as those left behind by a crash. It returns how many were removed.
func (m *Manager) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, fmt.Errorf("read temp root: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	var errs []error

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), scopePrefix) {
			continue
		}
		dir := filepath.Join(m.root, entry.Name())
		if m.isLive(dir) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info("swept orphaned scopes", "count", removed, "root", m.root)
	}
	return removed, errors.Join(errs...)
}

// Scope is one request's scratch directory.
type Scope struct {
	m   *Manager
	dir string

	mu        sync.Mutex
	readers   int
	releasing bool
	removed   bool
	err       error
}

// Dir returns the scope's directory.
func (s *Scope) Dir() string {
	return s.dir
}

// Release asks for the directory to be removed. Removal happens now, or when
// the last open Artifact is closed. Calling Release more than once is safe.
func (s *Scope) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releasing = true
	return s.removeLocked()
}

// Released reports whether the directory has been removed.
func (s *Scope) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

func (s *Scope) removeLocked() error {
	if s.removed || s.readers > 0 {
		return s.err
	}
	s.removed = true
	s.err = os.RemoveAll(s.dir)
	s.m.forget(s.dir)

	if s.err != nil {
		s.m.logger.Warn("scope cleanup failed", "dir", s.dir, "error", s.err)
	} else {
		s.m.logger.Debug("scope released", "dir", s.dir)
	}
	return s.err
}

// Open opens a file inside the scope for streaming. Closing the returned
// Artifact releases the scope.
func (s *Scope) Open(path string) (*Artifact, error) {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%s is outside scope %s", path, s.dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.releasing || s.removed {
		return nil, domain.ErrScopeReleased
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s.readers++
	return &Artifact{File: f, scope: s}, nil
}

// Artifact is a file opened from a Scope.
type Artifact struct {
	*os.File
	scope *Scope
	once  sync.Once
	err   error
}

// Close closes the file and releases its scope. It is idempotent.
func (a *Artifact) Close() error {
	a.once.Do(func() {
		closeErr := a.File.Close()

		s := a.scope
		s.mu.Lock()
		s.readers--
		s.releasing = true
		releaseErr := s.removeLocked()
		s.mu.Unlock()

		a.err = errors.Join(closeErr, releaseErr)
	})
	return a.err
}

// WithScopedDir runs fn inside a fresh scope and releases the scope when fn
// returns, fails or panics. Artifacts fn leaves open keep the directory alive
// until they are closed.
func WithScopedDir[T any](m *Manager, fn func(*Scope) (T, error)) (result T, err error) {
	scope, err := m.Acquire()
	if err != nil {
		return result, err
	}
	defer func() {
		if relErr := scope.Release(); relErr != nil && err == nil {
			err = fmt.Errorf("release scope: %w", relErr)
		}
	}()
	return fn(scope)
}
