package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/tddflow/tdd"
)

const (
	globalConfigDir  = "tddflow"
	globalConfigFile = "config.yaml"

	// LocalConfigName is the per-project config filename, looked up in
	// the project root.
	LocalConfigName = ".tddflow.yaml"

	envPrefix = "TDDFLOW_"
)

// Loader resolves configuration hierarchically. Priority, highest
// first: environment > local file > global file > defaults.
type Loader struct {
	// GlobalPath and LocalPath locate the config files. NewLoader
	// fills them in; tests may override before calling Load.
	GlobalPath string
	LocalPath  string

	// ErrWriter receives warnings. Defaults to os.Stderr.
	ErrWriter io.Writer

	// Warnings collects non-fatal issues during resolution.
	Warnings []string

	sources map[string]Source
}

// NewLoader creates a loader for the project rooted at projectRoot.
func NewLoader(projectRoot string) *Loader {
	l := &Loader{
		ErrWriter: os.Stderr,
		sources:   make(map[string]Source),
	}

	if home, err := os.UserHomeDir(); err == nil {
		l.GlobalPath = filepath.Join(home, ".config", globalConfigDir, globalConfigFile)
	}
	if projectRoot != "" {
		l.LocalPath = filepath.Join(projectRoot, LocalConfigName)
	}

	return l
}

// Load resolves the configuration for a project. Missing config files
// are fine; unparseable ones produce a warning and are skipped.
func Load(projectRoot string) (*Config, error) {
	return NewLoader(projectRoot).Load()
}

// Load merges all sources into a validated Config.
func (l *Loader) Load() (*Config, error) {
	if l.sources == nil {
		l.sources = make(map[string]Source)
	}

	cfg := Default()
	l.applyFile(cfg, l.GlobalPath, SourceGlobal)
	l.applyFile(cfg, l.LocalPath, SourceLocal)
	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Source reports where a field's value came from. Keys use the yaml
// field names ("branch_pattern", "max_attempts", ...).
func (l *Loader) Source(key string) Source {
	if s, ok := l.sources[key]; ok {
		return s
	}
	return SourceDefault
}

func (l *Loader) warn(msg string) {
	l.Warnings = append(l.Warnings, msg)
	if l.ErrWriter != nil {
		fmt.Fprintf(l.ErrWriter, "Warning: %s\n", msg)
	}
}

// fileConfig mirrors Config with pointer fields so that unset keys can
// be told apart from zero values during merging.
type fileConfig struct {
	BranchPattern      *string                 `yaml:"branch_pattern"`
	BaseBranch         *string                 `yaml:"base_branch"`
	Remote             *string                 `yaml:"remote"`
	MaxAttempts        *int                    `yaml:"max_attempts"`
	AbortOnMaxAttempts *bool                   `yaml:"abort_on_max_attempts"`
	CommitTemplate     *string                 `yaml:"commit_template"`
	CoAuthors          []string                `yaml:"co_authors"`
	Coverage           *tdd.CoverageThresholds `yaml:"coverage"`
	PR                 *filePRConfig           `yaml:"pr"`
}

type filePRConfig struct {
	Enabled *bool    `yaml:"enabled"`
	Draft   *bool    `yaml:"draft"`
	Labels  []string `yaml:"labels"`
	Token   *string  `yaml:"token"`
}

func (l *Loader) applyFile(cfg *Config, path string, source Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // Missing file is not an error
	}

	var parsed fileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		l.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	setString := func(key string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			l.sources[key] = source
		}
	}
	setBool := func(key string, dst *bool, src *bool) {
		if src != nil {
			*dst = *src
			l.sources[key] = source
		}
	}

	setString("branch_pattern", &cfg.BranchPattern, parsed.BranchPattern)
	setString("base_branch", &cfg.BaseBranch, parsed.BaseBranch)
	setString("remote", &cfg.Remote, parsed.Remote)
	setString("commit_template", &cfg.CommitTemplate, parsed.CommitTemplate)
	setBool("abort_on_max_attempts", &cfg.AbortOnMaxAttempts, parsed.AbortOnMaxAttempts)
	if parsed.MaxAttempts != nil {
		cfg.MaxAttempts = *parsed.MaxAttempts
		l.sources["max_attempts"] = source
	}
	if parsed.CoAuthors != nil {
		cfg.CoAuthors = parsed.CoAuthors
		l.sources["co_authors"] = source
	}
	if parsed.Coverage != nil {
		cfg.Coverage = *parsed.Coverage
		l.sources["coverage"] = source
	}
	if parsed.PR != nil {
		setBool("pr.enabled", &cfg.PR.Enabled, parsed.PR.Enabled)
		setBool("pr.draft", &cfg.PR.Draft, parsed.PR.Draft)
		setString("pr.token", &cfg.PR.Token, parsed.PR.Token)
		if parsed.PR.Labels != nil {
			cfg.PR.Labels = parsed.PR.Labels
			l.sources["pr.labels"] = source
		}
	}
}

func (l *Loader) applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envPrefix + "BRANCH_PATTERN"); ok {
		cfg.BranchPattern = v
		l.sources["branch_pattern"] = SourceEnv
	}
	if v, ok := os.LookupEnv(envPrefix + "BASE_BRANCH"); ok {
		cfg.BaseBranch = v
		l.sources["base_branch"] = SourceEnv
	}
	if v, ok := os.LookupEnv(envPrefix + "REMOTE"); ok {
		cfg.Remote = v
		l.sources["remote"] = SourceEnv
	}
	if v, ok := os.LookupEnv(envPrefix + "COMMIT_TEMPLATE"); ok {
		cfg.CommitTemplate = v
		l.sources["commit_template"] = SourceEnv
	}
	if v, ok := os.LookupEnv(envPrefix + "PR_TOKEN"); ok {
		cfg.PR.Token = v
		l.sources["pr.token"] = SourceEnv
	}
	if v, ok := os.LookupEnv(envPrefix + "MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			l.warn(fmt.Sprintf("invalid %sMAX_ATTEMPTS %q: %v", envPrefix, v, err))
		} else {
			cfg.MaxAttempts = n
			l.sources["max_attempts"] = SourceEnv
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "ABORT_ON_MAX_ATTEMPTS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			l.warn(fmt.Sprintf("invalid %sABORT_ON_MAX_ATTEMPTS %q: %v", envPrefix, v, err))
		} else {
			cfg.AbortOnMaxAttempts = b
			l.sources["abort_on_max_attempts"] = SourceEnv
		}
	}
}
