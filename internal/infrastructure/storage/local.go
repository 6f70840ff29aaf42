// Package storage provides uploaded file storage on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/ports/outbound"
)

// MaxUploadSize caps uploads at 5 MB.
const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// LocalStorage stores uploads under a single directory with generated
// filenames. The original name only contributes its extension.
type LocalStorage struct {
	dir    string
	logger *zap.Logger
}

// NewLocalStorage creates the upload directory if needed
func NewLocalStorage(dir string, logger *zap.Logger) (outbound.StorageService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir, logger: logger.Named("storage")}, nil
}

// Save validates and writes the file, returning the generated filename
func (s *LocalStorage) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("file exceeds the %d MB upload limit", MaxUploadSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type %q, allowed: jpg, jpeg, png, gif", ext)
	}

	filename := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.New().String()[:8], ext)
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Debug("Stored upload", zap.String("filename", filename), zap.Int("bytes", len(data)))
	return filename, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalStorage) Delete(ctx context.Context, filename string) error {
	// Reject anything that could escape the upload directory.
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("invalid filename")
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
