package cleaning

import "errors"

var (
	// ErrInvalidConfiguration reports malformed constructor parameters. No
	// model is produced when it is returned.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrOutOfBounds reports a placement or neighborhood query for a
	// coordinate outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrProtocolViolation reports a commit for a unit that did not decide in
	// the current tick.
	ErrProtocolViolation = errors.New("commit without decide")

	// ErrTileExists reports a second tile placed on the same cell.
	ErrTileExists = errors.New("cell already holds a tile")
)
