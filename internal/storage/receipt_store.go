package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ReceiptStore persists receipt blobs on the local filesystem under a base
// directory. Paths handed to it are relative; anything escaping the base
// directory is rejected.
type ReceiptStore struct {
	baseDir string
	logger  *zap.Logger
}

func NewReceiptStore(baseDir string, logger *zap.Logger) *ReceiptStore {
	return &ReceiptStore{baseDir: baseDir, logger: logger}
}

func (s *ReceiptStore) fullPath(path string) (string, error) {
	full := filepath.Join(s.baseDir, filepath.Clean("/"+path))
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs, base+string(os.PathSeparator)) && abs != base {
		return "", fmt.Errorf("invalid storage path: %s", path)
	}
	return full, nil
}

// Save writes content to the given relative path, creating parent dirs.
func (s *ReceiptStore) Save(path string, content []byte) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		s.logger.Error("failed to create storage directory",
			zap.String("path", filepath.Dir(full)), zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		s.logger.Error("failed to write receipt file",
			zap.String("path", full), zap.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Read returns the content stored at the given relative path.
func (s *ReceiptStore) Read(path string) ([]byte, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Delete removes the file at the given relative path. Missing files are
// not an error.
func (s *ReceiptStore) Delete(path string) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
