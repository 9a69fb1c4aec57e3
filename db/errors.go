package db

import "fmt"

var (
	// ErrNotFound is returned if the document is not found in the database.
	ErrNotFound = fmt.Errorf("document not found")
	// ErrInvalidData is returned if the data provided is invalid.
	ErrInvalidData = fmt.Errorf("invalid data provided")
	// ErrAlreadyExists is returned if the document already exists in the database.
	ErrAlreadyExists = fmt.Errorf("document already exists")
)
