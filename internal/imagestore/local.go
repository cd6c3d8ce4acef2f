package imagestore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// localStore implements Store on the local file system.
type localStore struct {
	baseDir string
	logger  zerolog.Logger
}

// NewLocalStore creates a file-system image store rooted at baseDir.
func NewLocalStore(baseDir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", baseDir, err)
	}

	return &localStore{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "local-image-store").Logger(),
	}, nil
}

// Put writes the object under baseDir. Keys containing path traversal
// are rejected.
func (s *localStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	file, err := os.Create(path)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to create image file")
		return fmt.Errorf("failed to create image file %s: %w", key, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to write image file")
		return fmt.Errorf("failed to write image file %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Msg("image stored")

	return nil
}

// Get reads the object's contents. The content type is derived from the
// key's extension.
func (s *localStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to read image file")
		return nil, "", fmt.Errorf("failed to read image file %s: %w", key, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return data, contentType, nil
}

func (s *localStore) resolve(key string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid image key: %s", key)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(key)), nil
}
