package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyExtensions indicates an extension list with no entries
	ErrEmptyExtensions = errors.New("empty extension list")

	// ErrInvalidExtension indicates an extension without a leading dot
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrSourceExtensionNotListed indicates a parsed extension that is not discovered
	ErrSourceExtensionNotListed = errors.New("source extension not in mapping extensions")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidIgnorePattern indicates an ignore glob that does not compile
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidCacheSize indicates a non-positive extraction cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateMapping(&cfg.Mapping); err != nil {
		errs = append(errs, err)
	}

	if err := validateExtract(&cfg.Extract); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateMapping(cfg *MappingConfig) error {
	var errs []error

	errs = append(errs, validateExtensions("mapping.extensions", cfg.Extensions)...)
	errs = append(errs, validateExtensions("mapping.source_extensions", cfg.SourceExtensions)...)

	listed := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		listed[strings.ToLower(ext)] = true
	}
	for _, ext := range cfg.SourceExtensions {
		if !listed[strings.ToLower(ext)] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrSourceExtensionNotListed, ext))
		}
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if cfg.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	errs = append(errs, validateIgnore("mapping.ignore", cfg.Ignore)...)

	return joinErrors(errs)
}

func validateExtract(cfg *ExtractConfig) error {
	var errs []error

	errs = append(errs, validateExtensions("extract.extensions", cfg.Extensions)...)
	errs = append(errs, validateIgnore("extract.ignore", cfg.Ignore)...)

	return joinErrors(errs)
}

func validateExtensions(key string, exts []string) []error {
	if len(exts) == 0 {
		return []error{fmt.Errorf("%w: %s needs at least one entry", ErrEmptyExtensions, key)}
	}

	var errs []error
	for _, ext := range exts {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("%w: %s entry %q must start with a dot", ErrInvalidExtension, key, ext))
		}
	}
	return errs
}

func validateIgnore(key string, patterns []string) []error {
	var errs []error
	for _, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s entry %q: %v", ErrInvalidIgnorePattern, key, pattern, err))
		}
	}
	return errs
}

// joinErrors combines multiple errors into one that still matches every
// sentinel with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
}
