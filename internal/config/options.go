package config

import (
	"github.com/mvp-joe/solution-insight/internal/discovery"
	"github.com/mvp-joe/solution-insight/internal/dump"
	"github.com/mvp-joe/solution-insight/internal/mapping"
)

// MappingDiscovery returns the discovery options for project mapping.
// Mapping always walks the whole tree.
func (c *Config) MappingDiscovery() discovery.Options {
	return discovery.Options{
		Extensions:       c.Mapping.Extensions,
		Ignore:           c.Mapping.Ignore,
		Recursive:        true,
		RespectGitignore: c.Mapping.RespectGitignore,
	}
}

// MappingOptions converts the mapping section to builder options.
func (c *Config) MappingOptions() mapping.Options {
	return mapping.Options{
		IncludeTypeComments:   c.Mapping.IncludeTypeComments,
		IncludeMemberComments: c.Mapping.IncludeMemberComments,
		StrictSyntax:          c.Mapping.StrictSyntax,
		SourceExtensions:      c.Mapping.SourceExtensions,
		Workers:               c.Mapping.Workers,
		ForwardSlashes:        c.Paths.ForwardSlashes,
	}
}

// ExtractDiscovery returns the discovery options for the full code extract.
func (c *Config) ExtractDiscovery() discovery.Options {
	return discovery.Options{
		Extensions: c.Extract.Extensions,
		Ignore:     c.Extract.Ignore,
		Recursive:  c.Extract.IncludeSubdirectories,
	}
}

// DumpOptions converts the extract section to dump options.
func (c *Config) DumpOptions() dump.Options {
	return dump.Options{
		IncludeSubdirectories: c.Extract.IncludeSubdirectories,
		Extensions:            c.Extract.Extensions,
		ForwardSlashes:        c.Paths.ForwardSlashes,
	}
}
