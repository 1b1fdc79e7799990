package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"kscompare/internal/files"
)

// FileValidator checks the files and directories the commands read and write
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// stat wraps os.Stat with messages naming what the path was expected to be.
func (v *FileValidator) stat(path, kind string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		v.logger.Error("Path not found", slog.String("kind", kind), slog.String("path", path))
		return nil, fmt.Errorf("%s %s does not exist", kind, path)
	case err != nil:
		v.logger.Error("Stat failed", slog.String("kind", kind), slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("stat %s %s: %w", kind, path, err)
	}
	return info, nil
}

// ValidateDataDirectory checks that dir is an existing directory and
// returns how many datasets it holds. An empty directory is not an error.
func (v *FileValidator) ValidateDataDirectory(dir string) (int, error) {
	info, err := v.stat(dir, "data directory")
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	datasets, err := files.NewDiscovery(dir).FindDatasets("")
	if err != nil {
		return 0, err
	}
	if len(datasets) == 0 {
		v.logger.Warn("No datasets found", slog.String("directory", dir))
	}
	return len(datasets), nil
}

// ValidateOutputDirectory creates dir if needed and probes it with a
// temporary file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		v.logger.Error("Output directory not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// ValidateDatasetFile checks that path is a readable CSV or XLSX file.
// Office lock files are rejected.
func (v *FileValidator) ValidateDatasetFile(path string) error {
	info, err := v.stat(path, "dataset")
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}
	if files.Format(base) == "" {
		return fmt.Errorf("file %s is not a CSV or XLSX file (extension: %s)",
			path, strings.ToLower(filepath.Ext(path)))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dataset %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("Dataset file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
