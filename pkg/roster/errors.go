package roster

import "errors"

var (
	ErrFailedToReadFile  = errors.New("failed to read roster file")
	ErrFailedToParseYAML = errors.New("failed to parse roster yaml")
	ErrInvalidEntry      = errors.New("invalid roster entry")
	ErrEmptyRoster       = errors.New("roster has no subscribers")
)
