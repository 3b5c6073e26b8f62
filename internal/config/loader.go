package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project settings directory.
const DirName = ".insight"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loader)

// WithConfigFile reads the given file instead of searching .insight/. A
// missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (INSIGHT_*)
// 2. Config file (.insight/config.yml or .insight/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	v.SetEnvPrefix("INSIGHT")
	v.AutomaticEnv()
	// INSIGHT_MAPPING_WORKERS -> mapping.workers
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Unmarshal only sees env values for bound keys.
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.solution_root", defaults.Paths.SolutionRoot)
	v.SetDefault("paths.domain_root", defaults.Paths.DomainRoot)
	v.SetDefault("paths.output_root", defaults.Paths.OutputRoot)
	v.SetDefault("paths.forward_slashes", defaults.Paths.ForwardSlashes)

	v.SetDefault("mapping.include_type_comments", defaults.Mapping.IncludeTypeComments)
	v.SetDefault("mapping.include_member_comments", defaults.Mapping.IncludeMemberComments)
	v.SetDefault("mapping.extensions", defaults.Mapping.Extensions)
	v.SetDefault("mapping.source_extensions", defaults.Mapping.SourceExtensions)
	v.SetDefault("mapping.ignore", defaults.Mapping.Ignore)
	v.SetDefault("mapping.respect_gitignore", defaults.Mapping.RespectGitignore)
	v.SetDefault("mapping.workers", defaults.Mapping.Workers)
	v.SetDefault("mapping.strict_syntax", defaults.Mapping.StrictSyntax)
	v.SetDefault("mapping.cache_size", defaults.Mapping.CacheSize)

	v.SetDefault("extract.include_subdirectories", defaults.Extract.IncludeSubdirectories)
	v.SetDefault("extract.extensions", defaults.Extract.Extensions)
	v.SetDefault("extract.ignore", defaults.Extract.Ignore)
}
