package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRenderUnavailable means no drawable surface or font could be obtained.
	ErrRenderUnavailable = errors.New("rendering unavailable")
	// ErrStreamFailed marks a generation stream that terminated without a valid result.
	ErrStreamFailed = errors.New("generation stream failed")
	// ErrColorContract flags a result whose slide colors are not exact swapped pairs.
	// The generation contract asks for swapped colors but the upstream model is not
	// guaranteed to honor it, so callers log this instead of failing the result.
	ErrColorContract = errors.New("slide colors are not swapped pairs")
)
