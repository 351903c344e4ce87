package srs

import "errors"

var (
	ErrInvalidGrade = errors.New("srs: invalid grade")
	ErrInvalidCard  = errors.New("srs: card violates scheduling invariants")
)
