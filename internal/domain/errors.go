package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidCode  = errors.New("invalid or expired code")
	ErrUnauthorized = errors.New("unauthorized")
)
