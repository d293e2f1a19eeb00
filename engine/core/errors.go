package core

import (
	"errors"
)

var (
	ErrPassNotFound        = errors.New("shader pass not found on material")
	ErrShaderNotFound      = errors.New("shader not found")
	ErrPassNotReady        = errors.New("custom pass is not set up")
	ErrInvalidExclusionBit = errors.New("exclusion bit must have exactly one bit set")
	ErrUnknownMaterial     = errors.New("unknown material")
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrUnknown             = errors.New("unknown")
)
