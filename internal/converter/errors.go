package converter

import (
	"errors"
	"fmt"
)

// Sentinel errors for conversion.
var (
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrReadFile           = errors.New("failed to read input file")
	ErrWriteFile          = errors.New("failed to write PDF file")
	ErrSerialize          = errors.New("PDF serialization failed")
)

// ImageFormatError reports bytes that could not be decoded as a JPEG.
// It matches ErrInvalidImageFormat with errors.Is.
type ImageFormatError struct {
	Detected string // format the bytes were recognized as, if any
	Err      error  // decoder diagnostic
}

func (e *ImageFormatError) Error() string {
	if e.Detected != "" && e.Detected != "jpeg" {
		return fmt.Sprintf("%v: input is %s, not jpeg: %v", ErrInvalidImageFormat, e.Detected, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrInvalidImageFormat, e.Err)
}

func (e *ImageFormatError) Unwrap() []error {
	return []error{ErrInvalidImageFormat, e.Err}
}
