package engine

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAction   = errors.New("invalid action")
	ErrOfferNotPending = errors.New("offer already resolved")
	ErrInvalidPatch    = errors.New("invalid patch")
	ErrInvalidPackage  = errors.New("invalid package")
	ErrInvalidProject  = errors.New("invalid project completion")
	ErrInvalidNote     = errors.New("missing note text")
	ErrInvalidMode     = errors.New("invalid offer mode")
)
