package messagerepo

import "errors"

// ErrAlreadyExists indicates a message with the same ID was already appended.
var ErrAlreadyExists = errors.New("message already exists")
