package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"moonlight/internal/config"
	"moonlight/internal/infrastructure"
	"moonlight/pkg/contracts/domain"
)

// Manager places cleaned outputs in the data directory
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	return &Manager{
		paths:  paths,
		logger: infrastructure.WithComponent(logger, "files"),
	}
}

// CleanFilePath returns where the cleaned CSV of country is written
func (m *Manager) CleanFilePath(country domain.Country) string {
	return filepath.Join(m.paths.DataDir, country.CleanFile)
}

// ParquetFilePath returns where the cleaned Parquet copy of country is written
func (m *Manager) ParquetFilePath(country domain.Country) string {
	return filepath.Join(m.paths.DataDir, country.Slug+cleanSuffix+".parquet")
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	m.logger.Debug("Ensuring directory exists", slog.String("path", path))
	return os.MkdirAll(path, 0755)
}

// WriteAtomic streams write into a temp file next to path and renames it
// into place, so readers never see a partial file. It returns the bytes written.
func (m *Manager) WriteAtomic(path string, write func(io.Writer) (int64, error)) (int64, error) {
	if err := m.EnsureDirectory(filepath.Dir(path)); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := write(tmp)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}

	m.logger.Info("File written",
		slog.String("path", path),
		slog.Int64("size_bytes", n))
	return n, nil
}

// GetFileSize returns the size of a file in bytes
func (m *Manager) GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
