// Package models defines the domain types for Watercooler.
package models

import "time"

// Repo is one thread repository discovered under the threads base: a
// directory whose name ends in "-threads".
type Repo struct {
	// Name is the display name with the "-threads" suffix stripped.
	Name string `json:"name"`
	// Dir is the directory name relative to the threads base.
	Dir string `json:"dir"`
}

// ThreadFile is a lightweight representation of a thread file on disk,
// returned by storage list operations.
type ThreadFile struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
