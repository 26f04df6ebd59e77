package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrMissingField   = errors.New("missing answer field")
	ErrShortComposite = errors.New("composite answer has too few sub-answers")
)
