// Package config loads codecrawl.toml.
//
// The file is optional. It is looked up from the working directory
// upwards; command-line flags override whatever it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"codecrawl/internal/catalog"
	"codecrawl/internal/logx"
	"codecrawl/internal/report"
)

// FileName is the manifest looked up by Find.
const FileName = "codecrawl.toml"

// Config is the resolved run configuration.
type Config struct {
	Path   string `toml:"-"` // manifest path, empty when defaults are used
	Crawl  Crawl  `toml:"crawl"`
	Output Output `toml:"output"`
	Log    Log    `toml:"log"`
}

// Crawl selects what is crawled and how.
type Crawl struct {
	Plugin       string   `toml:"plugin"`
	Include      []string `toml:"include"`
	Exclude      []string `toml:"exclude"`
	SkipMembers  []string `toml:"skip_members"`
	ErrorResults bool     `toml:"error_results"`
	Promoted     bool     `toml:"promoted"`
}

// Output controls rendering.
type Output struct {
	Format    string `toml:"format"`
	MaxFaults int    `toml:"max_faults"`
	Stacks    bool   `toml:"stacks"`
	Passing   bool   `toml:"passing"`
}

// Log controls the zap logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Crawl:  Crawl{ErrorResults: true},
		Output: Output{Format: string(report.FormatPretty), MaxFaults: 100},
		Log:    Log{Level: "warn", Format: string(logx.FormatConsole)},
	}
}

// Selector returns the catalog filter described by [crawl].
func (c Config) Selector() catalog.Selector {
	return catalog.Selector{
		Include:     c.Crawl.Include,
		Exclude:     c.Crawl.Exclude,
		SkipMembers: c.Crawl.SkipMembers,
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
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

// Discover loads the nearest manifest, or defaults when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load parses and validates the manifest at path. Unset keys keep their
// defaults; a relative plugin path is resolved against the manifest.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if meta.IsDefined("crawl", "plugin") {
		plugin := strings.TrimSpace(cfg.Crawl.Plugin)
		if plugin == "" {
			return Config{}, fmt.Errorf("%s: [crawl].plugin is empty", path)
		}
		if !filepath.IsAbs(plugin) {
			plugin = filepath.Join(filepath.Dir(path), filepath.FromSlash(plugin))
		}
		cfg.Crawl.Plugin = plugin
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that toml cannot type-check.
func (c Config) Validate() error {
	if err := c.Selector().Validate(); err != nil {
		return fmt.Errorf("[crawl]: %w", err)
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("[output].format: %w", err)
	}
	if c.Output.MaxFaults < 0 {
		return fmt.Errorf("[output].max_faults must not be negative, got %d", c.Output.MaxFaults)
	}
	if _, err := logx.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("[log].level: %w", err)
	}
	if _, err := logx.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("[log].format: %w", err)
	}
	return nil
}
