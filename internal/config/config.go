// Package config loads solution-insight settings.
//
// Settings come from three layers (highest priority first):
//  1. Environment variables (INSIGHT_*, nested keys joined with "_",
//     e.g. INSIGHT_MAPPING_INCLUDE_MEMBER_COMMENTS)
//  2. A YAML file, .insight/config.yml under the working directory or the
//     file given with --config
//  3. Built-in defaults
package config

// Config represents the complete configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Mapping MappingConfig `yaml:"mapping" mapstructure:"mapping"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
}

// PathsConfig holds the default roots used when a command gets no path.
type PathsConfig struct {
	SolutionRoot   string `yaml:"solution_root" mapstructure:"solution_root"`     // default root for project mapping
	DomainRoot     string `yaml:"domain_root" mapstructure:"domain_root"`         // default root for full code extract
	OutputRoot     string `yaml:"output_root" mapstructure:"output_root"`         // empty means working directory
	ForwardSlashes bool   `yaml:"forward_slashes" mapstructure:"forward_slashes"` // emit paths with "/"
}

// MappingConfig controls project mapping.
type MappingConfig struct {
	IncludeTypeComments   bool     `yaml:"include_type_comments" mapstructure:"include_type_comments"`
	IncludeMemberComments bool     `yaml:"include_member_comments" mapstructure:"include_member_comments"`
	Extensions            []string `yaml:"extensions" mapstructure:"extensions"`               // files listed in the mapping
	SourceExtensions      []string `yaml:"source_extensions" mapstructure:"source_extensions"` // files parsed for members
	Ignore                []string `yaml:"ignore" mapstructure:"ignore"`                       // glob patterns to skip
	RespectGitignore      bool     `yaml:"respect_gitignore" mapstructure:"respect_gitignore"`
	Workers               int      `yaml:"workers" mapstructure:"workers"` // 0 means NumCPU
	StrictSyntax          bool     `yaml:"strict_syntax" mapstructure:"strict_syntax"`
	CacheSize             int      `yaml:"cache_size" mapstructure:"cache_size"` // extraction cache entries for watch and mcp
}

// ExtractConfig controls the full code extract.
type ExtractConfig struct {
	IncludeSubdirectories bool     `yaml:"include_subdirectories" mapstructure:"include_subdirectories"`
	Extensions            []string `yaml:"extensions" mapstructure:"extensions"`
	Ignore                []string `yaml:"ignore" mapstructure:"ignore"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{},
		Mapping: MappingConfig{
			IncludeTypeComments:   true,
			IncludeMemberComments: false,
			Extensions:            []string{".cs", ".cshtml", ".html", ".htm", ".js", ".css"},
			SourceExtensions:      []string{".cs"},
			Ignore: []string{
				"**/bin/**",
				"**/obj/**",
				".git/**",
				".vs/**",
				"**/node_modules/**",
			},
			Workers:   0,
			CacheSize: 2048,
		},
		Extract: ExtractConfig{
			IncludeSubdirectories: true,
			Extensions:            []string{".cs", ".cshtml"},
			Ignore:                []string{},
		},
	}
}
