package store

import "errors"

var (
	ErrNotFound = errors.New("store: file not found")
)
