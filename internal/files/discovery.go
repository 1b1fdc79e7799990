package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dataset formats, keyed by lower-case extension.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var formats = map[string]string{
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
}

// ErrInvalidName indicates a dataset name that is not a bare file name.
var ErrInvalidName = errors.New("invalid dataset name")

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string    `json:"-"`
	Name    string    `json:"name"`
	Format  string    `json:"format"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// Format returns the dataset format of a file name, or "" when the
// extension cannot be loaded.
func Format(name string) string {
	return formats[strings.ToLower(filepath.Ext(name))]
}

// IsDataset reports whether name looks like a loadable dataset. Office
// lock files ("~$...") and hidden files are excluded.
func IsDataset(name string) bool {
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}
	return Format(name) != ""
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

// FindDatasets lists the CSV and XLSX files directly inside dir, sorted by
// name. A relative dir is taken from the base path.
func (d *Discovery) FindDatasets(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsDataset(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, newFileInfo(filepath.Join(fullPath, entry.Name()), info))
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Lookup returns the dataset called name inside dir. The name must be a
// bare file name; the returned error wraps os.ErrNotExist when the file is
// missing.
func (d *Discovery) Lookup(dir, name string) (FileInfo, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return FileInfo{}, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}

	path := filepath.Join(d.resolve(dir), name)
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("dataset %s: %w", name, err)
	}
	if info.IsDir() {
		return FileInfo{}, fmt.Errorf("dataset %s is a directory: %w", name, os.ErrNotExist)
	}

	return newFileInfo(path, info), nil
}

// Stat describes a dataset given by path, for callers outside the data
// directory such as the CLI.
func Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	if info.IsDir() {
		return FileInfo{}, fmt.Errorf("%s is a directory, not a file", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return newFileInfo(abs, info), nil
}

func newFileInfo(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		Path:    path,
		Name:    info.Name(),
		Format:  Format(info.Name()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
