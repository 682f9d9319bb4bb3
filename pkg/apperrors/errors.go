package apperrors

import "errors"

var (
	ErrBudgetExceeded  = errors.New("budget exceeded")
	ErrUnknownEngine   = errors.New("unknown query engine kind")
	ErrMissingHeader   = errors.New("missing required CSV header")
	ErrUnresolvedTable = errors.New("table not present in schema mapping")
)
