package repositories

import "errors"

// ErrNotFound is returned when a document does not exist or an identifier
// cannot be parsed as an ObjectID.
var ErrNotFound = errors.New("not found")
