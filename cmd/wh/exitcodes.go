package main

// Exit codes used by every command.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (not in a repository, invalid config)
	ExitDataError     = 3 // Data error (malformed or missing artifacts, validation failure)
	ExitOllamaError   = 4 // Ollama not reachable
	ExitModelNotFound = 5 // Embedding or chat model not found
)
