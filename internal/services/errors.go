package services

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("task not found")
	ErrUpstream     = errors.New("generation backend failed")
	ErrStore        = errors.New("task store failed")
)
