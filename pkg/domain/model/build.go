package model

import "time"

// BuildRequest carries everything the build pipeline needs for one run
type BuildRequest struct {
	RunID    string // Unique run identifier
	Event    *TriggerEvent
	Decision *PublishDecision
}

// BuildResult represents the outcome of one generator run
type BuildResult struct {
	OutputDir string        // Path to the generated output (removed after deploy)
	FileCount int           // Number of generated files
	Size      int64         // Total output size in bytes
	Duration  time.Duration // Generator wall-clock time
	Deployed  bool          // Whether the output was pushed to the deploy branch
}
