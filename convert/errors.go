package convert

import (
	"errors"
)

var (
	// ErrReadInput indicates a failure reading or finding input files.
	ErrReadInput = errors.New("read input")
	// ErrWriteOutput indicates a failure writing output files.
	ErrWriteOutput = errors.New("write output")
	// ErrInvalidOption indicates an invalid configuration value.
	ErrInvalidOption = errors.New("invalid option")
	// ErrValidation indicates a document that failed validation.
	ErrValidation = errors.New("validation failed")
)
