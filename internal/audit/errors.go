package audit

import "errors"

var (
	ErrMissingInput  = errors.New("audit: missing input")
	ErrInvalidTarget = errors.New("audit: invalid target")
)
