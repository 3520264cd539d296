package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kilianp07/wssim/core/model"
)

// JSONLStore appends snapshots as JSON lines with size-based rotation.
type JSONLStore struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
}

// NewJSONLStore creates a store rotating at maxSizeMB. Zero values use the
// lumberjack defaults.
func NewJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return &JSONLStore{logger: lj, path: path}, nil
}

// Append writes one line.
func (s *JSONLStore) Append(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.NewEncoder(s.logger).Encode(snap)
}

// files returns the rotated backups followed by the active file.
func (s *JSONLStore) files() ([]string, error) {
	ext := filepath.Ext(s.path)
	prefix := strings.TrimSuffix(s.path, ext)
	backups, err := filepath.Glob(prefix + "-*" + ext)
	if err != nil {
		return nil, err
	}
	return append(backups, s.path), nil
}

// Query reads the active file and its backups.
func (s *JSONLStore) Query(_ context.Context, q Query) ([]model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	var out []model.Snapshot
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			var snap model.Snapshot
			if err := json.Unmarshal(sc.Bytes(), &snap); err != nil {
				continue
			}
			if q.Match(snap) {
				out = append(out, snap)
			}
		}
		_ = f.Close()
	}
	sortBySimTime(out)
	return out, nil
}

// Close closes the active file.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger.Close()
}
