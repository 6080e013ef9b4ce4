package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"moonlight/pkg/contracts/domain"
)

// ErrRawFileNotFound is returned when no raw measurement file exists for a country
var ErrRawFileNotFound = errors.New("raw measurement file not found")

// cleanSuffix marks files already written by the cleaner
const cleanSuffix = "_clean"

// measurementExts are the raw file formats the loader can parse, in lookup order
var measurementExts = []string{".csv", ".xlsx"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds raw measurement files under a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if dir == "" {
		return d.basePath
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindMeasurementFiles lists the raw .csv and .xlsx files in dir, sorted by
// name. Cleaned outputs (*_clean.*) are skipped.
func (d *Discovery) FindMeasurementFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isMeasurementExt(ext) || strings.HasSuffix(strings.TrimSuffix(name, filepath.Ext(name)), cleanSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// FindRawFile locates the raw file for country in dir. The registry file
// name wins; otherwise any measurement file whose base name matches the
// country slug or name, ignoring case and separators, is accepted. When
// several match the most recently modified is returned.
func (d *Discovery) FindRawFile(dir string, country domain.Country) (FileInfo, error) {
	files, err := d.FindMeasurementFiles(dir)
	if err != nil {
		return FileInfo{}, err
	}

	var candidates []FileInfo
	for _, f := range files {
		if country.RawFile != "" && strings.EqualFold(f.Name, country.RawFile) {
			return f, nil
		}
		base := normalize(strings.TrimSuffix(f.Name, filepath.Ext(f.Name)))
		if base == normalize(country.Slug) || base == normalize(country.Name) {
			candidates = append(candidates, f)
		}
	}

	if latest, ok := GetLatestFile(candidates); ok {
		return latest, nil
	}
	return FileInfo{}, fmt.Errorf("%s in %s: %w", country.Name, d.resolve(dir), ErrRawFileNotFound)
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

func isMeasurementExt(ext string) bool {
	for _, e := range measurementExts {
		if ext == e {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
