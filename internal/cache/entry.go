package cache

import "time"

// Entry represents a cached bundle result
type Entry struct {
	// Hash is the unique identifier for this cache entry
	// Computed from: source tree content + profile settings
	Hash string `json:"hash"`

	// Profile is the name of the build profile ("main", "preload")
	Profile string `json:"profile"`

	// EntryPoint is the source file the bundle was built from
	EntryPoint string `json:"entry_point"`

	// NodeTarget is the Node.js version the bundle targets
	NodeTarget string `json:"node_target"`

	// Timestamp when this entry was created
	Timestamp time.Time `json:"timestamp"`

	// Outputs lists the bundle artifacts (relative to the project dir)
	Outputs []string `json:"outputs"`

	// Success indicates if the build was successful
	Success bool `json:"success"`
}
