// Package config loads mrcheck configuration from JSONC files.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Cases         int                    `json:"cases,omitempty"`
	Seed          *uint64                `json:"seed,omitempty"`
	MaxViolations int                    `json:"max_violations,omitempty"`
	CorpusDir     string                 `json:"corpus_dir,omitempty"`
	Suites        map[string]SuiteConfig `json:"suites,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	CorpusDirAbs string `json:"-"` // Absolute path to the corpus directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// SuiteConfig overrides run settings for one suite.
type SuiteConfig struct {
	// Cases replaces the global case count when positive.
	Cases int `json:"cases,omitempty"`

	// Skip excludes the suite from runs that do not name it explicitly.
	Skip bool `json:"skip,omitempty"`

	// Relations limits the suite to these relations. Empty means all.
	Relations []string `json:"relations,omitempty"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default values.
const (
	DefaultCases     = 200
	DefaultSeed      = 1
	DefaultCorpusDir = ".mrcheck/corpus"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	seed := uint64(DefaultSeed)

	return Config{
		Cases:     DefaultCases,
		Seed:      &seed,
		CorpusDir: DefaultCorpusDir,
	}
}

// FileName is the default project config file name.
const FileName = ".mrcheck.json"

// SeedValue returns the configured seed.
func (c Config) SeedValue() uint64 {
	if c.Seed == nil {
		return DefaultSeed
	}

	return *c.Seed
}

// CasesFor returns the case count for suite, honoring per-suite overrides.
func (c Config) CasesFor(suite string) int {
	if sc, ok := c.Suites[suite]; ok && sc.Cases > 0 {
		return sc.Cases
	}

	return c.Cases
}

// RelationsFor returns the relation filter for suite. Empty means all.
func (c Config) RelationsFor(suite string) []string {
	return c.Suites[suite].Relations
}

// Skipped reports whether suite is skipped unless named explicitly.
func (c Config) Skipped(suite string) bool {
	return c.Suites[suite].Skip
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/mrcheck/config.json if set, otherwise ~/.config/mrcheck/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "mrcheck", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "mrcheck", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // environment variables

	// KnownSuites, when non-empty, is used to reject suite sections with
	// unknown names.
	KnownSuites []string
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/mrcheck/config.json or $XDG_CONFIG_HOME/mrcheck/config.json)
// 3. Project config file at default location (.mrcheck.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
//
// Command flags are applied on top by the caller. All paths in the returned
// Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	// Resolve effective working directory
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	// Load global config if it exists
	globalPath := getGlobalConfigPath(input.Env)
	if globalPath != "" {
		globalCfg, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = globalPath
			cfg = merge(cfg, globalCfg)
		}
	}

	// Load project/explicit config file
	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	err = Validate(cfg, input.KnownSuites)
	if err != nil {
		return Config{}, err
	}

	// Resolve all paths to absolute
	cfg.EffectiveCwd = workDir
	cfg.CorpusDirAbs = cfg.ResolvePath(cfg.CorpusDir)

	return cfg, nil
}

// ResolvePath returns path made absolute against the effective working
// directory.
func (c Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.EffectiveCwd, path)
}

// loadProjectConfig loads the project config file (.mrcheck.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		cfgFile := filepath.Join(workDir, FileName)

		cfg, loaded, err := loadFile(cfgFile, false)
		if err != nil || !loaded {
			return Config{}, "", err
		}

		return cfg, cfgFile, nil
	}

	// Explicit config file - must exist
	cfgFile := configPath
	if !filepath.IsAbs(cfgFile) {
		cfgFile = filepath.Join(workDir, cfgFile)
	}

	// Check existence first to provide a clear "not found" error
	_, statErr := os.Stat(cfgFile)
	if statErr != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	cfg, _, err := loadFile(cfgFile, true)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, cfgFile, nil
}

// loadFile loads a config file. If mustExist is false, missing files return
// zero config. Returns the config, whether the file was loaded, and any error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, parseErr := Parse(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

// Parse decodes a JSONC config document. Unknown fields are rejected so
// typos do not silently fall back to defaults.
func Parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	// CorpusDir is a pointer here so an explicit "" can be told apart from
	// an absent field.
	var file struct {
		Config

		CorpusDir *string `json:"corpus_dir,omitempty"`
	}

	err = dec.Decode(&file)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	cfg := file.Config

	if file.CorpusDir != nil {
		if *file.CorpusDir == "" {
			return Config{}, ErrCorpusDirEmpty
		}

		cfg.CorpusDir = *file.CorpusDir
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.Cases != 0 {
		base.Cases = overlay.Cases
	}

	if overlay.Seed != nil {
		base.Seed = overlay.Seed
	}

	if overlay.MaxViolations != 0 {
		base.MaxViolations = overlay.MaxViolations
	}

	if overlay.CorpusDir != "" {
		base.CorpusDir = overlay.CorpusDir
	}

	if len(overlay.Suites) > 0 {
		suites := make(map[string]SuiteConfig, len(base.Suites)+len(overlay.Suites))
		for name, sc := range base.Suites {
			suites[name] = sc
		}

		// Suite sections replace each other whole; merging field by field
		// would make "relations" impossible to clear.
		for name, sc := range overlay.Suites {
			suites[name] = sc
		}

		base.Suites = suites
	}

	return base
}

// Validate checks cfg for values no run can use.
func Validate(cfg Config, knownSuites []string) error {
	if cfg.Cases <= 0 {
		return ErrCasesInvalid
	}

	if cfg.MaxViolations < 0 {
		return ErrMaxViolations
	}

	if cfg.CorpusDir == "" {
		return ErrCorpusDirEmpty
	}

	if len(knownSuites) == 0 {
		return nil
	}

	names := make([]string, 0, len(cfg.Suites))
	for name := range cfg.Suites {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if !slices.Contains(knownSuites, name) {
			return fmt.Errorf("%w: %s", ErrUnknownSuite, name)
		}

		if cfg.Suites[name].Cases < 0 {
			return fmt.Errorf("suite %s: %w", name, ErrCasesInvalid)
		}
	}

	return nil
}

// Format renders the effective config as JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return string(data), nil
}
