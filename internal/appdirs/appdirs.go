package appdirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	PortableEnv = "SERMONCLIP_PORTABLE"

	appName        = "SermonClip"
	configFileName = "config.toml"
)

// Paths is the set of directories the app reads and writes at runtime.
type Paths struct {
	Portable   bool
	ConfigDir  string
	ConfigFile string
	LogDir     string
	OutputDir  string
	CacheDir   string
}

// resolveDeps lets tests swap out the platform lookups.
type resolveDeps struct {
	goos          string
	getenv        func(string) string
	executable    func() (string, error)
	userConfigDir func() (string, error)
	userCacheDir  func() (string, error)
}

func (d resolveDeps) orDefaults() resolveDeps {
	if d.goos == "" {
		d.goos = runtime.GOOS
	}
	if d.getenv == nil {
		d.getenv = os.Getenv
	}
	if d.executable == nil {
		d.executable = os.Executable
	}
	if d.userConfigDir == nil {
		d.userConfigDir = os.UserConfigDir
	}
	if d.userCacheDir == nil {
		d.userCacheDir = os.UserCacheDir
	}
	return d
}

// Resolve picks the directory layout for the current platform. Setting
// SERMONCLIP_PORTABLE=1 keeps everything in a data dir next to the
// executable.
func Resolve() (Paths, error) {
	return resolve(resolveDeps{})
}

func resolve(deps resolveDeps) (Paths, error) {
	d := deps.orDefaults()
	switch {
	case isPortableEnabled(d.getenv(PortableEnv)):
		return d.portablePaths()
	case d.goos == "windows":
		return d.windowsPaths()
	default:
		return relativePaths(), nil
	}
}

func isPortableEnabled(value string) bool {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "true":
		return true
	}
	return false
}

func (d resolveDeps) portablePaths() (Paths, error) {
	exe, err := d.executable()
	if err != nil {
		return Paths{}, err
	}
	dataDir := filepath.Join(filepath.Dir(exe), "data")
	paths := layoutUnder(filepath.Join(dataDir, "config"), dataDir)
	paths.Portable = true
	return paths, nil
}

func (d resolveDeps) windowsPaths() (Paths, error) {
	configRoot, err := d.userConfigDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(configRoot) == "" {
		return Paths{}, errors.New("user config dir is empty")
	}

	cacheRoot, err := d.userCacheDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(cacheRoot) == "" {
		return Paths{}, errors.New("user cache dir is empty")
	}

	return layoutUnder(filepath.Join(configRoot, appName), filepath.Join(cacheRoot, appName)), nil
}

// relativePaths keeps everything relative to the working directory,
// which suits server deployments run from a dedicated install dir.
func relativePaths() Paths {
	return Paths{
		ConfigDir:  "config",
		ConfigFile: filepath.Join("config", configFileName),
		LogDir:     ".",
		OutputDir:  "output",
		CacheDir:   "cache",
	}
}

// layoutUnder places config under configDir and logs, output and cache
// under base.
func layoutUnder(configDir, base string) Paths {
	return Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		LogDir:     filepath.Join(base, "logs"),
		OutputDir:  filepath.Join(base, "output"),
		CacheDir:   filepath.Join(base, "cache"),
	}
}
