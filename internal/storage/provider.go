// Package storage defines the threads-base file-system abstraction.
package storage

import "github.com/watercoolerhq/watercooler/internal/models"

// Provider is the interface for thread file operations. All paths are
// relative to the threads base directory.
type Provider interface {
	// Repos returns every thread repository (directory named *-threads)
	// directly under the base, sorted case-insensitively by name.
	Repos() ([]models.Repo, error)
	// List walks dir and returns metadata for every thread .md file,
	// skipping README.md and INDEX.md.
	List(dir string) ([]models.ThreadFile, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Abs resolves path against the base, rejecting escapes.
	Abs(path string) (string, error)
}
