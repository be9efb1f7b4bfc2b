package book

import "errors"

// ErrNotFound is returned by stores and the service when an identifier does not exist
var ErrNotFound = errors.New("book not found")
