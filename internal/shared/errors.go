package shared

import "fmt"

var (
	// Precondition errors. These are the only conditions that abort a sync
	// run; everything else degrades to a recorded failure.
	ErrMissingTool      = fmt.Errorf("required external tool not found")
	ErrMissingDirectory = fmt.Errorf("target directory does not exist")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing YouTube API credentials")

	// API and state errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrCorruptState     = fmt.Errorf("persisted state unreadable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
