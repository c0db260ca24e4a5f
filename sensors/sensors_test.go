package sensors_test

import (
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/sensors"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPredefinedProfile(t *testing.T) {
	profile, err := sensors.GetPredefinedProfile("kinect-v1")
	require.NoError(t, err)

	assert.Equal(t, "Kinect for Xbox 360", profile.Name)
	assert.Equal(t, 640, profile.Width)
	assert.Equal(t, 480, profile.Height)
	assert.EqualValues(t, 11, profile.DepthBits)
	assert.EqualValues(t, depthpack.KinectInvalidDepth, profile.InvalidDepth)
	assert.EqualValues(t, 640*480*2, profile.RawFrameBytes())

	frame := profile.NewFrame()
	assert.Len(t, frame.Pix, profile.Pixels())
	assert.Zero(t, frame.ValidCount())
}

func TestGetPredefinedProfile__Missing(t *testing.T) {
	_, err := sensors.GetPredefinedProfile("kinect-v9")
	assert.ErrorIs(t, err, depthpack.ErrNotFound)
}

func TestPredefinedProfiles(t *testing.T) {
	profiles := sensors.PredefinedProfiles()
	require.GreaterOrEqual(t, len(profiles), 5)

	for i, profile := range profiles {
		assert.NoErrorf(t, profile.Validate(), "profile %q", profile.Slug)
		if i > 0 {
			assert.Less(t, profiles[i-1].Slug, profile.Slug, "profiles aren't sorted")
		}
	}
}

func TestLoadProfileYAML(t *testing.T) {
	data := []byte(`
name: Prototype ToF
slug: proto-tof
width: 320
height: 240
depthBits: 12
invalidDepth: 4095
frameRate: 15
`)

	profile, err := sensors.LoadProfileYAML(data)
	require.NoError(t, err)
	assert.Equal(
		t,
		sensors.Profile{
			Name:         "Prototype ToF",
			Slug:         "proto-tof",
			Width:        320,
			Height:       240,
			DepthBits:    12,
			InvalidDepth: 4095,
			FrameRate:    15,
		},
		profile)

	marshalled, err := sensors.MarshalProfileYAML(profile)
	require.NoError(t, err)
	reloaded, err := sensors.LoadProfileYAML(marshalled)
	require.NoError(t, err)
	assert.Equal(t, profile, reloaded)
}

func TestLoadProfileYAML__UnknownField(t *testing.T) {
	_, err := sensors.LoadProfileYAML([]byte("slug: x\nwidth: 4\nheight: 4\ndepthBits: 8\nresolution: 4k\n"))
	assert.ErrorIs(t, err, depthpack.ErrInvalidArgument)
}

func TestProfileValidate__ReportsEveryProblem(t *testing.T) {
	profile := sensors.Profile{
		Width:        0,
		Height:       10,
		DepthBits:    8,
		InvalidDepth: 300,
		FrameRate:    -1,
	}

	err := profile.Validate()
	require.ErrorIs(t, err, depthpack.ErrInvalidArgument)

	var problems *multierror.Error
	require.ErrorAs(t, err, &problems)
	// The sentinel itself, plus: empty slug, bad size, marker too wide,
	// negative frame rate.
	assert.Len(t, problems.Errors, 5)
}
