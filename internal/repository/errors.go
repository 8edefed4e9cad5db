package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateKey indicates a uniqueness constraint rejected the write.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)
