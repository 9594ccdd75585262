package atlas

import "errors"

// Sentinel errors for the atlas package.
var (
	// ErrAtlasFull is returned when no free region can satisfy a request
	// and the atlas cannot grow any further.
	ErrAtlasFull = errors.New("atlas: texture atlas is full")

	// ErrInvalidSize is returned when a requested width or height is not
	// positive.
	ErrInvalidSize = errors.New("atlas: width and height must be positive")

	// ErrNilImage is returned when a nil image is placed.
	ErrNilImage = errors.New("atlas: image is nil")

	// ErrSpriteExists is returned when adding a sprite under a name that
	// is already in use.
	ErrSpriteExists = errors.New("atlas: sprite name already in use")

	// ErrSpriteNotFound is returned when operating on an unknown sprite.
	ErrSpriteNotFound = errors.New("atlas: sprite not found")
)
