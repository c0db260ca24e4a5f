package main

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/recording"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishOutput(t *testing.T) {
	file := &fakeFile{}
	buffered := bufio.NewWriter(bytewriter.New(make([]byte, 16)))
	_, err := buffered.WriteString("depth")
	require.NoError(t, err)

	assert.NoError(t, finishOutput(buffered, file))
	assert.True(t, file.closed)
}

func TestFinishOutput__CloseFails(t *testing.T) {
	file := &fakeFile{closeErr: errors.New("disk quota exceeded")}
	buffered := bufio.NewWriter(bytewriter.New(make([]byte, 16)))

	err := finishOutput(buffered, file)
	assert.ErrorIs(t, err, depthpack.ErrIOFailed)
	assert.ErrorContains(t, err, "disk quota exceeded")
}

func TestFinishOutput__FlushFails(t *testing.T) {
	file := &fakeFile{}
	buffered := bufio.NewWriter(bytewriter.New(make([]byte, 2)))
	_, err := buffered.WriteString("more than two bytes")
	require.NoError(t, err)

	err = finishOutput(buffered, file)
	assert.ErrorIs(t, err, depthpack.ErrIOFailed)
	assert.True(t, file.closed, "file should be closed even if the flush failed")
}

func TestWriteStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	stats := []recording.FrameStat{
		{Index: 0, ValidPixels: 10, RawBytes: 40, CompressedBytes: 5, Ratio: 8},
		{Index: 1, Timestamp: 0.5, RawBytes: 40, CompressedBytes: 1, Ratio: 40},
	}
	require.NoError(t, writeStats(path, stats))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	loaded, err := recording.ReadStatsCSV(file)
	require.NoError(t, err)
	assert.Equal(t, stats, loaded)
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

type fakeFile struct {
	closed   bool
	closeErr error
}

func (f *fakeFile) Close() error {
	f.closed = true
	return f.closeErr
}
