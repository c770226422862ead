package fs

import "errors"

var (
	// ErrNotDirectory is returned when the directory to watch is a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrEmptyDirectory is returned when a directory change names no directory
	ErrEmptyDirectory = errors.New("directory path is empty")
)
