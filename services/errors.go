package services

import "errors"

// Sentinel errors returned by services. Controllers map these onto HTTP
// statuses; everything else is treated as an internal error.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)
