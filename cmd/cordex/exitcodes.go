package main

// Exit codes
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (unreadable or invalid config)
	ExitDataNotFound = 3 // Neither the full nor the sample metadata file exists
	ExitDataError    = 4 // Metadata file is malformed or lacks required columns
)
