package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved application directories
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	ExportsDir    string
	LogsDir       string

	// dataDirConfigured is set when DataDir came from configuration rather
	// than the executable location
	dataDirConfigured bool
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return pathsFrom(filepath.Dir(exe)), nil
}

// ResolvePaths returns GetPaths with any configured overrides applied
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	paths, err := GetPaths()
	if err != nil {
		return nil, err
	}
	paths.apply(cfg)
	return paths, nil
}

// NewPaths builds paths rooted at baseDir. Used by tools and tests that do
// not run from an installed executable.
func NewPaths(baseDir string, cfg PathsConfig) *Paths {
	p := pathsFrom(baseDir)
	p.apply(cfg)
	return p
}

func pathsFrom(exeDir string) *Paths {
	dataDir := filepath.Join(exeDir, DataDirName)
	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		RawDir:        filepath.Join(dataDir, RawDirName),
		ExportsDir:    filepath.Join(dataDir, ExportsDirName),
		LogsDir:       filepath.Join(exeDir, LogsDirName),
	}
}

func (p *Paths) apply(cfg PathsConfig) {
	if cfg.DataDir != "" {
		p.DataDir = p.absolute(cfg.DataDir)
		p.dataDirConfigured = true
		p.RawDir = filepath.Join(p.DataDir, RawDirName)
		p.ExportsDir = filepath.Join(p.DataDir, ExportsDirName)
	}
	if cfg.RawDir != "" {
		p.RawDir = p.absolute(cfg.RawDir)
	}
	if cfg.ExportsDir != "" {
		p.ExportsDir = p.absolute(cfg.ExportsDir)
	}
	if cfg.LogsDir != "" {
		p.LogsDir = p.absolute(cfg.LogsDir)
	}
}

func (p *Paths) absolute(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Join(p.ExecutableDir, path)
}

// DataFileCandidates lists where a cleaned data file may live, in lookup
// order: the resolved data directory first, then data/ under the working
// directory for runs started from the project root.
func (p *Paths) DataFileCandidates(filename string) []string {
	primary := filepath.Join(p.DataDir, filename)
	fallback := filepath.Join(DataDirName, filename)
	if abs, err := filepath.Abs(fallback); err == nil && abs == primary {
		return []string{primary}
	}
	return []string{primary, fallback}
}

// FindDataFile returns the first existing candidate for filename
func (p *Paths) FindDataFile(filename string) (string, bool) {
	for _, candidate := range p.DataFileCandidates(filename) {
		if FileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// EnsureDirectories creates the writable directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()

	for _, dir := range []string{p.DataDir, p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetExportPath returns the path for an exported file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetRawPath returns the path for a raw measurement file
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LogPathResolution logs the resolved directories for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Bool("data_dir_configured", p.dataDirConfigured))
}
