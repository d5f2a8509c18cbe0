package device

import "errors"

var (
	// ErrNotFound indicates a device was not found
	ErrNotFound = errors.New("device not found")

	// ErrValidation indicates a state payload failed schema validation
	ErrValidation = errors.New("validation error")

	// ErrInvalidDevice indicates a registry entry is missing an id or phrase
	ErrInvalidDevice = errors.New("invalid device definition")

	// ErrDuplicateDevice indicates two registry entries share an id
	ErrDuplicateDevice = errors.New("duplicate device id")

	// ErrDuplicateCode indicates two (device, state) pairs share a wire byte
	ErrDuplicateCode = errors.New("duplicate actuation code")
)
