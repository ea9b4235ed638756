package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kaas/src/config"
	"kaas/src/models"
	"kaas/src/services/api"
)

// LoadFile reads the file at path for upload. It rejects extensions not in
// cfg.AllowedExtensions, directories and files over cfg.MaxFileBytes. Every
// failure is a *models.ValidationError whose message is shown as is.
func LoadFile(path string, cfg config.UploadConfig) (*api.File, error) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return nil, invalid(NoFileMessage)
	}
	name := filepath.Base(path)
	if !Allowed(name, cfg.AllowedExtensions) {
		return nil, invalid("Only %s files are supported.", strings.Join(cfg.AllowedExtensions, ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, invalid("File not found: %s", path)
		}
		return nil, invalid("Cannot open %s: %v", path, err)
	}
	if info.IsDir() {
		return nil, invalid("%s is a directory.", path)
	}
	if cfg.MaxFileBytes > 0 && info.Size() > cfg.MaxFileBytes {
		return nil, invalid("File is larger than %s.", formatBytes(cfg.MaxFileBytes))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, invalid("Cannot read %s: %v", path, err)
	}
	return &api.File{Name: name, Content: content}, nil
}

// Allowed reports whether name carries one of the extensions, ignoring case.
// An empty list allows everything.
func Allowed(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range extensions {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}

func invalid(format string, args ...any) error {
	return &models.ValidationError{Message: fmt.Sprintf(format, args...)}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
