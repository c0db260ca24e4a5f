package depthpack

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

var ErrCategoryOverflow = rootError.WithMessage("Value exceeds the range of the codebook")
var ErrCorruptStream = rootError.WithMessage("Compressed stream is corrupt")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrInvalidCodebook = rootError.WithMessage("Codebook is not a complete prefix code")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrNotFound = rootError.WithMessage("No such entry")
var ErrSizeMismatch = rootError.WithMessage("Frame size does not match the stream")
var ErrUnsupportedFormat = rootError.WithMessage("Unsupported format")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) RootCause() CodecError {
	return e
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}
