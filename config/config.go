package config

import (
	"fmt"

	"github.com/randalmurphal/tddflow/tdd"
)

// Config holds the resolved workflow configuration for one project.
type Config struct {
	// BranchPattern is the template for workflow branch names.
	// Supported placeholders: {{taskId}}, {{slug}}.
	BranchPattern string `yaml:"branch_pattern"`

	// BaseBranch is the branch workflows fork from and PRs target.
	BaseBranch string `yaml:"base_branch"`

	// Remote is the git remote used for pushes.
	Remote string `yaml:"remote"`

	// MaxAttempts caps GREEN attempts per subtask. Zero means unlimited.
	MaxAttempts int `yaml:"max_attempts"`

	// AbortOnMaxAttempts aborts the whole workflow when a subtask
	// exhausts its attempts, instead of pausing for intervention.
	AbortOnMaxAttempts bool `yaml:"abort_on_max_attempts"`

	// CommitTemplate names the registered commit message template.
	CommitTemplate string `yaml:"commit_template"`

	// CoAuthors are appended as Co-authored-by trailers on commits.
	CoAuthors []string `yaml:"co_authors"`

	// Coverage sets minimum coverage percentages checked against every
	// reported test run that carries coverage data. Zero values disable
	// the corresponding check.
	Coverage tdd.CoverageThresholds `yaml:"coverage"`

	// PR configures pull request creation at finalization.
	PR PRConfig `yaml:"pr"`
}

// PRConfig controls the pull request opened when a workflow finalizes.
type PRConfig struct {
	// Enabled turns PR creation on. Without it, finalize stops after
	// the push.
	Enabled bool `yaml:"enabled"`

	// Draft opens the PR as a draft.
	Draft bool `yaml:"draft"`

	// Labels are applied to the created PR.
	Labels []string `yaml:"labels"`

	// Token authenticates against the hosting platform.
	Token string `yaml:"token"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BranchPattern:  "tdd/{{taskId}}-{{slug}}",
		BaseBranch:     "main",
		Remote:         "origin",
		MaxAttempts:    3,
		CommitTemplate: "conventional",
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.BranchPattern == "" {
		return fmt.Errorf("branch_pattern must not be empty")
	}
	if c.BaseBranch == "" {
		return fmt.Errorf("base_branch must not be empty")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative")
	}
	for _, pct := range []struct {
		name  string
		value float64
	}{
		{"line", c.Coverage.Line},
		{"branch", c.Coverage.Branch},
		{"function", c.Coverage.Function},
		{"statement", c.Coverage.Statement},
	} {
		if pct.value < 0 || pct.value > 100 {
			return fmt.Errorf("coverage.%s must be between 0 and 100, got %.1f", pct.name, pct.value)
		}
	}
	return nil
}
