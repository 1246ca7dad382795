package database

import "errors"

var (
	// ErrCodeExists is returned when an attempt is made to create
	// a new mapping with a short code that already exists.
	ErrCodeExists = errors.New("code exists")
	// ErrURLNotFound is returned when an attempt is made to retrieve
	// a mapping using a short code or target URL that doesn't exist.
	ErrURLNotFound = errors.New("url not found")
)
