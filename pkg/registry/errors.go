package registry

import "errors"

var (
	ErrActionNotRegistered   = errors.New("action type not registered")
	ErrConfigSchemaViolation = errors.New("action config violates schema")
)
