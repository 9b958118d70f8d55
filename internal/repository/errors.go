package repository

import "errors"

// ErrDuplicate is returned when a unique field is already taken.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"
