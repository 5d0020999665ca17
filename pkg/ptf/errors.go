package ptf

import "errors"

var (
	ErrShortHeader    = errors.New("session too short for header")
	ErrInvalidMagic   = errors.New("invalid session magic")
	ErrInvalidBitcode = errors.New("invalid session bitcode")
	ErrShortContent   = errors.New("content shorter than layout")
	ErrUnknownKey     = errors.New("unknown scramble key")
	ErrMissingTable   = errors.New("missing descramble lookup table")
)
