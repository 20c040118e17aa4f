package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigCreatesHomeWithDefaults(t *testing.T) {
	workDir := t.TempDir()
	t.Setenv(HomeEnv, "")
	c, err := NewConfig(workDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	home := filepath.Join(workDir, TruthwebDir)
	if c.HomeDir != home {
		t.Fatalf("expected home %s, got %s", home, c.HomeDir)
	}
	for _, path := range []string{c.ConfigPath(), c.DataDir(), c.SetsDir(), c.LogsDir()} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}
	if c.DataDir() != filepath.Join(home, "data") {
		t.Fatalf("unexpected data dir %s", c.DataDir())
	}
	if c.Project.Version != 1 || c.DefaultSet() != "" || c.ResolveImmediately() {
		t.Fatalf("unexpected defaults: %+v", c.Project)
	}
}

func TestHomeEnvOverride(t *testing.T) {
	workDir := t.TempDir()
	t.Setenv(HomeEnv, "elsewhere")
	if got := HomeDirFor(workDir); got != filepath.Join(workDir, "elsewhere") {
		t.Fatalf("relative TRUTHWEB_HOME should resolve against the work dir, got %s", got)
	}
	abs := t.TempDir()
	t.Setenv(HomeEnv, abs)
	if got := HomeDirFor(workDir); got != abs {
		t.Fatalf("expected %s, got %s", abs, got)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	home := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
default_set: Food
catalog:
  dir: my-sets
storage:
  dir: /tmp/truthweb-answers
survey:
  resolve_immediately: true
`)
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{HomeDir: home, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.DefaultSet() != "Food" {
		t.Fatalf("wrong default set: %s", c.DefaultSet())
	}
	if c.SetsDir() != filepath.Join(home, "my-sets") {
		t.Fatalf("expected catalog dir to be resolved, got %s", c.SetsDir())
	}
	if c.DataDir() != "/tmp/truthweb-answers" {
		t.Fatalf("absolute storage dir should be kept, got %s", c.DataDir())
	}
	if !c.ResolveImmediately() {
		t.Fatalf("expected resolve_immediately")
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("version: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{HomeDir: home, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}

	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("version: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected parse error but got none")
	}
}

func TestSetDefaultSetPersists(t *testing.T) {
	workDir := t.TempDir()
	home := filepath.Join(workDir, TruthwebDir)
	c, err := NewConfigAt(workDir, home)
	if err != nil {
		t.Fatalf("NewConfigAt returned error: %v", err)
	}
	if err := c.SetDefaultSet("  Superheroes "); err != nil {
		t.Fatalf("SetDefaultSet returned error: %v", err)
	}
	if err := c.SetDefaultSet(""); err == nil {
		t.Fatalf("expected error for empty set name")
	}

	data, err := os.ReadFile(c.ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "dir: data") {
		t.Fatalf("storage dir should be written relative to home:\n%s", data)
	}

	reloaded, err := NewConfigAt(workDir, home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if reloaded.DefaultSet() != "Superheroes" {
		t.Fatalf("expected persisted default set, got %q", reloaded.DefaultSet())
	}
	if reloaded.DataDir() != c.DataDir() {
		t.Fatalf("data dir changed across save: %s vs %s", reloaded.DataDir(), c.DataDir())
	}
}
