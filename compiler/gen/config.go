package gen

import (
	"github.com/syssam/dacgen/descriptor"
)

// Config holds the project-level generator configuration. Descriptor-level
// settings always win; Config supplies the defaults consulted when a
// descriptor leaves the corresponding field unset.
type Config struct {
	// Package is the import path of the generated root package.
	Package string
	// Target is the output directory generated files are written to.
	Target string
	// DefaultConvention applies to descriptors without an explicit naming
	// convention. ConventionUnset behaves as ConventionNone.
	DefaultConvention descriptor.Convention
	// DefaultPrefix applies to descriptors without an explicit parameter
	// prefix.
	DefaultPrefix string
	// Workers bounds pipeline parallelism. Zero means GOMAXPROCS.
	Workers int
}

// validate reports configuration errors before generation starts.
func (c *Config) validate() error {
	if c == nil {
		return NewConfigError("Config", nil, "missing generator configuration")
	}
	if c.Package == "" {
		return NewConfigError("Package", nil, "missing generated package import path")
	}
	return nil
}
