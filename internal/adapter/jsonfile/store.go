// Package jsonfile stores a vocabulary collection as one JSON array on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/vocabmerge/internal/domain"
)

const backupTimeLayout = "20060102-150405"

// Store reads and writes a JSON vocabulary file.
type Store struct {
	path      string
	backupDir string
	clock     clockwork.Clock
	log       *slog.Logger
}

// New creates a Store for path. Backups go to backupDir, or next to the
// file when backupDir is empty.
func New(log *slog.Logger, path, backupDir string, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		path:      path,
		backupDir: backupDir,
		clock:     clock,
		log:       log,
	}
}

// Path returns the collection file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole collection.
func (s *Store) Load(ctx context.Context) ([]domain.VocabularyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("vocabulary file %s: %w", s.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var entries []domain.VocabularyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode vocabulary file %s: %w", s.path, err)
	}

	s.log.Debug("vocabulary loaded", slog.String("path", s.path), slog.Int("entries", len(entries)))
	return entries, nil
}

// Save replaces the file with entries. The data goes to a temp file in the
// same directory first and is renamed over the original, so a failed write
// leaves the previous collection intact.
func (s *Store) Save(ctx context.Context, entries []domain.VocabularyEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.VocabularyEntry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}

	// CreateTemp always uses 0600; an existing file keeps its permissions.
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		perm = fi.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace vocabulary file: %w", err)
	}

	s.log.Info("vocabulary saved", slog.String("path", s.path), slog.Int("entries", len(entries)))
	return nil
}

// Backup copies the current file to a timestamped sibling and returns its path.
func (s *Store) Backup(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read vocabulary file for backup: %w", err)
	}

	dir := s.backupDir
	if dir == "" {
		dir = filepath.Dir(s.path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	target := filepath.Join(dir, BackupName(s.path, s.clock.Now()))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	s.log.Info("backup written", slog.String("path", target))
	return target, nil
}

// BackupName returns the backup file name for path taken at t, e.g.
// "vocabulary.backup-20261016-093000.json".
func BackupName(path string, t time.Time) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + ".backup-" + t.UTC().Format(backupTimeLayout) + ext
}
