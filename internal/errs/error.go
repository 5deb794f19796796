package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrVersionConflict    = errors.New("version conflict")
)
