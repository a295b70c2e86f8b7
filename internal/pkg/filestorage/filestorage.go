package filestorage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FileStorage stores uploaded submission files
type FileStorage interface {
	// Save writes content under subPath and returns the public URL path
	Save(subPath, filename string, content io.Reader) (string, error)

	// Delete removes a file by its public URL path. Missing files are not an error.
	Delete(fileURL string) error

	// FullPath maps a public URL path back to the filesystem
	FullPath(fileURL string) string
}

// LocalStorage keeps files on the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
	logger   zerolog.Logger
}

// NewLocalStorage creates basePath if needed. baseURL is the URL prefix the
// files are served under, e.g. "/uploads".
func NewLocalStorage(basePath, baseURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}, nil
}

// BasePath is the root directory on disk
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save writes the file under a generated name that keeps the original extension
func (ls *LocalStorage) Save(subPath, filename string, content io.Reader) (string, error) {
	subPath = filepath.ToSlash(filepath.Clean("/" + subPath))[1:]

	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		ls.logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	unique := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	dstPath := filepath.Join(dir, unique)

	dst, err := os.Create(dstPath)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		_ = os.Remove(dstPath)
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := path.Join(ls.baseURL, subPath, unique)
	ls.logger.Debug().Str("filename", filename).Str("url", url).Msg("File saved")
	return url, nil
}

// Delete removes a stored file
func (ls *LocalStorage) Delete(fileURL string) error {
	full := ls.FullPath(fileURL)
	if full == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		ls.logger.Error().Err(err).Str("path", full).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FullPath returns "" for URLs outside the storage prefix
func (ls *LocalStorage) FullPath(fileURL string) string {
	rel, ok := strings.CutPrefix(fileURL, ls.baseURL+"/")
	if !ok {
		return ""
	}
	rel = path.Clean("/" + rel)[1:]
	if rel == "" || rel == "." {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}
