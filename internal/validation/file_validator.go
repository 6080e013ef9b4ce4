package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned for raw files the loader cannot read
var ErrUnsupportedFile = errors.New("unsupported measurement file")

// FileValidator checks the directories and raw files used by the cleaner
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory checks that dir exists and returns how many
// measurement files it holds. An empty directory is not an error.
func (v *FileValidator) ValidateInputDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return 0, fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && IsMeasurementFile(e.Name()) {
			count++
		}
	}

	if count == 0 {
		v.logger.Warn("No measurement files found",
			slog.String("directory", dir))
	} else {
		v.logger.Debug("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", count))
	}
	return count, nil
}

// ValidateOutputDirectory creates dir when missing and checks it is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// ValidateRawFile checks that path is a readable, non-empty .csv or .xlsx
// file and not an editor lock file
func (v *FileValidator) ValidateRawFile(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return fmt.Errorf("%w: %s is a temporary Excel file", ErrUnsupportedFile, base)
	}
	if !IsMeasurementFile(base) {
		return fmt.Errorf("%w: %s (extension %q)", ErrUnsupportedFile, base, filepath.Ext(base))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrUnsupportedFile, base)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("Raw file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// IsMeasurementFile reports whether name has a .csv or .xlsx extension
func IsMeasurementFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
