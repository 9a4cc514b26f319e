// Package project locates and loads the tdl.toml manifest that marks the
// root of a TDL project.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const ManifestName = "tdl.toml"

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Source  SourceConfig  `toml:"source"`
	Output  OutputConfig  `toml:"output"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type SourceConfig struct {
	Roots []string `toml:"roots"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// Find walks up from startDir looking for a tdl.toml file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the nearest manifest. The second return value is
// false when no manifest exists between startDir and the filesystem root.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// SourceRoots returns the configured source roots resolved against the
// manifest directory. A manifest with no [source] section gets the project
// root itself.
func (m *Manifest) SourceRoots() []string {
	roots := m.Config.Source.Roots
	if len(roots) == 0 {
		return []string{m.Root}
	}
	resolved := make([]string, 0, len(roots))
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(m.Root, filepath.FromSlash(root))
		}
		resolved = append(resolved, root)
	}
	return resolved
}

// OutputDir returns the configured output directory resolved against the
// manifest directory, defaulting to <root>/build.
func (m *Manifest) OutputDir() string {
	dir := strings.TrimSpace(m.Config.Output.Dir)
	if dir == "" {
		dir = "build"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(m.Root, filepath.FromSlash(dir))
	}
	return dir
}
