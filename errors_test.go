package depthpack_test

import (
	"errors"
	"io"
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/stretchr/testify/assert"
)

func TestCodecErrorWithMessage(t *testing.T) {
	newErr := depthpack.ErrSizeMismatch.WithMessage("got 4x4, expected 640x480")
	assert.Equal(
		t,
		"Frame size does not match the stream: got 4x4, expected 640x480",
		newErr.Error(),
		"error message is wrong")
	assert.ErrorIs(t, newErr, depthpack.ErrSizeMismatch)
	assert.NotErrorIs(t, newErr, depthpack.ErrCorruptStream)
}

func TestCodecErrorWrap(t *testing.T) {
	originalErr := errors.New("disk on fire")
	newErr := depthpack.ErrIOFailed.Wrap(originalErr)
	expectedMessage := "Input/output error: disk on fire"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, depthpack.ErrIOFailed, "codec error not set as parent")
}

func TestCodecErrorWrap__Chained(t *testing.T) {
	newErr := depthpack.ErrCorruptStream.WithMessage("frame 3").Wrap(io.ErrUnexpectedEOF)

	assert.Equal(
		t,
		"Compressed stream is corrupt: frame 3: unexpected EOF",
		newErr.Error())
	assert.ErrorIs(t, newErr, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, newErr, depthpack.ErrCorruptStream)
}
