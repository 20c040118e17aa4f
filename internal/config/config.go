// internal/config/config.go
//
// This package handles configuration and the .truthweb directory structure.
// Every directory truthweb runs from gets a .truthweb/ folder, unless
// TRUTHWEB_HOME points somewhere else.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// TruthwebDir is the name of the directory we create in the working directory
	TruthwebDir = ".truthweb"

	// HomeEnv overrides the location of the .truthweb directory.
	HomeEnv = "TRUTHWEB_HOME"

	defaultCatalogDir = "sets"
	defaultStorageDir = "data"
)

const defaultProjectConfigYAML = `# truthweb configuration
version: 1

# Question set selected on the home screen at startup.
default_set: ""

# Extra question sets (*.yaml) loaded next to the built-in ones.
# Relative paths are resolved against this directory.
catalog:
  dir: sets

# Where answers are stored, one responses_<set>.json file per question set.
storage:
  dir: data

survey:
  # Start resolving right away when an answer contradicts an earlier one.
  resolve_immediately: false
`

// CatalogConfig locates user-authored question sets.
type CatalogConfig struct {
	Dir string `yaml:"dir"`
}

// StorageConfig locates answer files.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// SurveyConfig captures survey behaviour preferences.
type SurveyConfig struct {
	ResolveImmediately bool `yaml:"resolve_immediately"`
}

// ProjectConfig models .truthweb/config.yaml.
type ProjectConfig struct {
	Version    int           `yaml:"version"`
	DefaultSet string        `yaml:"default_set"`
	Catalog    CatalogConfig `yaml:"catalog"`
	Storage    StorageConfig `yaml:"storage"`
	Survey     SurveyConfig  `yaml:"survey"`
}

// Config holds the runtime configuration for truthweb.
type Config struct {
	// WorkDir is the directory where the user ran `truthweb` from
	WorkDir string

	// HomeDir is WorkDir/.truthweb or $TRUTHWEB_HOME
	HomeDir string

	Project ProjectConfig
}

// InitHomeDir creates the .truthweb directory structure under homeDir.
//
// Structure created:
// .truthweb/
// ├── config.yaml
// ├── data/   <- responses_<set>.json
// ├── logs/   <- truthweb.log
// └── sets/   <- extra question sets
func InitHomeDir(homeDir string) error {
	dirs := []string{
		homeDir,
		filepath.Join(homeDir, defaultStorageDir),
		filepath.Join(homeDir, "logs"),
		filepath.Join(homeDir, defaultCatalogDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(homeDir, "config.yaml"))
}

// HomeDirFor returns where the .truthweb directory lives for workDir.
// TRUTHWEB_HOME wins when set.
func HomeDirFor(workDir string) string {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return resolvePath(workDir, home)
	}
	return filepath.Join(workDir, TruthwebDir)
}

// NewConfig prepares the home directory for workDir and loads its config.
func NewConfig(workDir string) (*Config, error) {
	return NewConfigAt(workDir, HomeDirFor(workDir))
}

// NewConfigAt is NewConfig with an explicit home directory.
func NewConfigAt(workDir, homeDir string) (*Config, error) {
	cfg := &Config{
		WorkDir: workDir,
		HomeDir: homeDir,
		Project: defaultProjectConfig(),
	}
	if err := InitHomeDir(homeDir); err != nil {
		return nil, fmt.Errorf("config: init %s: %w", homeDir, err)
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	for _, dir := range []string{cfg.DataDir(), cfg.SetsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return cfg, nil
}

// DataDir returns the directory holding answer files
func (c *Config) DataDir() string {
	return c.Project.Storage.Dir
}

// SetsDir returns the directory scanned for extra question sets
func (c *Config) SetsDir() string {
	return c.Project.Catalog.Dir
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.HomeDir, "logs")
}

// LogPath returns the log file shown in the TUI log panel
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "truthweb.log")
}

// ConfigPath returns the on-disk location for the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.HomeDir, "config.yaml")
}

// DefaultSet returns the question set to highlight at startup.
func (c *Config) DefaultSet() string {
	return c.Project.DefaultSet
}

// ResolveImmediately reports whether a new contradiction should open the
// resolution screen straight away.
func (c *Config) ResolveImmediately() bool {
	return c.Project.Survey.ResolveImmediately
}

// SetDefaultSet records name as the default question set and persists the
// value back to config.yaml.
func (c *Config) SetDefaultSet(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("config: set name is required")
	}
	if c.Project.DefaultSet == name {
		return nil
	}
	c.Project.DefaultSet = name
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.HomeDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.HomeDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Catalog: CatalogConfig{Dir: defaultCatalogDir},
		Storage: StorageConfig{Dir: defaultStorageDir},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Catalog.Dir) == "" {
		pc.Catalog.Dir = defaultCatalogDir
	}
	if strings.TrimSpace(pc.Storage.Dir) == "" {
		pc.Storage.Dir = defaultStorageDir
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.DefaultSet = strings.TrimSpace(pc.DefaultSet)
	pc.Catalog.Dir = resolvePath(base, pc.Catalog.Dir)
	pc.Storage.Dir = resolvePath(base, pc.Storage.Dir)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Version > 1 {
		return fmt.Errorf("config version %d is newer than this build understands", pc.Version)
	}
	if pc.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}
	if pc.Catalog.Dir == "" {
		return fmt.Errorf("catalog.dir is required")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	out := c.Project
	out.applyDefaults()
	if err := out.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	out.Catalog.Dir = relativeTo(c.HomeDir, out.Catalog.Dir)
	out.Storage.Dir = relativeTo(c.HomeDir, out.Storage.Dir)
	if err := os.MkdirAll(c.HomeDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure home dir: %w", err)
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}

// relativeTo keeps paths under base relative so the home directory can move.
func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
