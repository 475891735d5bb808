// Package e2e reads the chunk-based binary containers produced by
// Heidelberg ophthalmic imaging devices (.e2e / HEYEX), extracting
// volumetric scan slices and planar reference images together with
// per-volume identity and eye laterality.
package e2e

import "errors"

// Common errors
var (
	ErrClosed             = errors.New("container is closed")
	ErrDirectoryCycle     = errors.New("directory chain contains a cycle")
	ErrTooManyDirectories = errors.New("directory chain exceeds configured limit")
)

// DefaultMaxDirectoryBlocks bounds the directory chain walk so a
// corrupt prev pointer cannot loop forever.
const DefaultMaxDirectoryBlocks = 4096
