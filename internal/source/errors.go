package source

import "errors"

// Domain-specific errors for device sources.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrFileNotFound is returned when the path does not exist or is a directory.
	ErrFileNotFound = errors.New("source: file not found")

	// ErrUnsupportedFormat is returned when the file extension is not recognised.
	ErrUnsupportedFormat = errors.New("source: unsupported file format")

	// ErrMalformedSource is returned when the file cannot be parsed as a device list.
	// No partial result accompanies it.
	ErrMalformedSource = errors.New("source: malformed device file")

	// ErrNoDevices is returned when the file is well-formed but holds no records.
	ErrNoDevices = errors.New("source: no devices in file")
)
