package domain

import "errors"

var (
	ErrUnknownStatus        = errors.New("domain: unknown booking status")
	ErrStatusNotAssignable  = errors.New("domain: status cannot be assigned")
	ErrInvalidBlackoutRange = errors.New("domain: blackout start is after end")
	ErrInvalidResourceID    = errors.New("domain: resource id must be positive")
)
