package config

import "errors"

// Package-specific errors
var (
	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrEnvFileNotFound is returned by LoadFrom when a named env file
	// cannot be read.
	ErrEnvFileNotFound = errors.New("env file not found")

	// ErrNilPointer is returned when a nil pointer is provided to the
	// loader.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
