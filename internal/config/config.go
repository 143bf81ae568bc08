// Package config provides configuration loading and validation for the
// bootstrap CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config describes one bootstrap target. It is loaded from a YAML manifest
// (bootstrap.yaml by default); secrets come from the environment and win over
// manifest values.
type Config struct {
	// DatabaseURL is the Postgres connection string used by the migration
	// runner and the settings initializers. DATABASE_URL overrides it.
	DatabaseURL string `yaml:"database_url"`

	// JWTSecret is the platform auth signing secret checked by the
	// environment preflight. JWT_SECRET overrides it.
	JWTSecret string `yaml:"jwt_secret"`

	Deps   DepsConfig   `yaml:"deps"`
	Assets AssetsConfig `yaml:"assets"`

	Verbose bool `yaml:"verbose"`
}

// DepsConfig configures the dependency installation step.
type DepsConfig struct {
	// Command is the installer invocation, argv style. The default runs the
	// platform's package manifest non-interactively.
	Command []string `yaml:"command" validate:"required,min=1"`
	// Dir is the working directory for the installer; empty means cwd.
	Dir string `yaml:"dir"`
}

// AssetsConfig configures the static asset collection step.
type AssetsConfig struct {
	// SourceRoots are directories whose contents are collected.
	SourceRoots []string `yaml:"source_roots" validate:"required,min=1,dive,required"`
	// CollectRoot is the directory served in production.
	CollectRoot string `yaml:"collect_root" validate:"required"`
	// VerifyReferences scans collected HTML for static references that
	// resolve to missing files.
	VerifyReferences bool `yaml:"verify_references"`
}

// Default returns the configuration used when no manifest is supplied.
func Default() Config {
	return Config{
		Deps: DepsConfig{
			Command: []string{"pip", "install", "-r", "requirements.txt"},
		},
		Assets: AssetsConfig{
			SourceRoots:      []string{"static"},
			CollectRoot:      "staticfiles",
			VerifyReferences: true,
		},
	}
}

// Load reads a YAML manifest from path and overlays environment variables.
// An empty path returns Default() with the environment applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv overlays environment variables onto manifest values.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
}

// Validate checks that the configuration has valid values. Database presence
// is not checked here: steps that need no database (install, collect) must
// run without one.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: field %s failed %q validation", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Deps.Command[0] == "" {
		return fmt.Errorf("config error: deps command executable must not be empty")
	}
	return nil
}

// RequireDatabase returns the database URL or an error naming the steps that
// need it.
func (c *Config) RequireDatabase() (string, error) {
	if c.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL not set (required for migrate and settings initialization)")
	}
	return c.DatabaseURL, nil
}
