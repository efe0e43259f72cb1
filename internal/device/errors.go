package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when no device has the requested serial number.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidPolicy is returned when a validation policy value is not recognised.
	ErrInvalidPolicy = errors.New("device: invalid policy")

	// ErrNoSource is returned by Refresh when the registry has no source configured.
	ErrNoSource = errors.New("device: no source configured")
)
