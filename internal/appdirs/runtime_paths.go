package appdirs

import (
	"path/filepath"
	"strings"
)

const (
	RenderRootName = "renders"
	UploadRootName = "uploads"
	dbFileName     = "sermonclip.db"
)

func RenderRootFor(paths Paths) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), RenderRootName)
}

func RenderDirFor(paths Paths, taskID string) string {
	return filepath.Join(RenderRootFor(paths), taskID)
}

func UploadRootFor(paths Paths) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), UploadRootName)
}

func DBPathFor(paths Paths) string {
	return filepath.Join(normalizeCacheDir(paths.CacheDir), dbFileName)
}

func ResolveRenderRoot() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return RenderRootFor(paths), nil
}

func ResolveRenderDir(taskID string) (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return RenderDirFor(paths, taskID), nil
}

func ResolveUploadRoot() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return UploadRootFor(paths), nil
}

func ResolveDBPath() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return DBPathFor(paths), nil
}

func normalizeOutputDir(outputDir string) string {
	cleaned := strings.TrimSpace(outputDir)
	if cleaned == "" {
		return "."
	}
	return filepath.Clean(cleaned)
}

func normalizeCacheDir(cacheDir string) string {
	cleaned := strings.TrimSpace(cacheDir)
	if cleaned == "" {
		return "cache"
	}
	return filepath.Clean(cleaned)
}
