// Package sensors describes the depth cameras whose streams the codec handles:
// their frame sizes, sample widths and the value they use for pixels with no
// reading.
package sensors

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/depthframe"
	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
	"sigs.k8s.io/yaml"
)

////////////////////////////////////////////////////////////////////////////////
// Profiles

type Profile struct {
	Name               string `csv:"name" json:"name"`
	Slug               string `csv:"slug" json:"slug"`
	FirstYearAvailable uint   `csv:"first_year_available" json:"firstYearAvailable,omitempty"`
	Width              int    `csv:"width" json:"width"`
	Height             int    `csv:"height" json:"height"`

	// DepthBits gives the number of significant bits in a sample. The Kinect v1
	// delivers 11-bit values; most newer sensors use all 16.
	DepthBits uint `csv:"depth_bits" json:"depthBits"`

	// InvalidDepth is the sample value the sensor reports for pixels it has no
	// reading for.
	InvalidDepth uint16  `csv:"invalid_depth" json:"invalidDepth"`
	FrameRate    float64 `csv:"frame_rate" json:"frameRate,omitempty"`
	Notes        string  `csv:"notes" json:"notes,omitempty"`
}

// Pixels gives the number of samples in one frame.
func (p *Profile) Pixels() int {
	return p.Width * p.Height
}

// RawFrameBytes gives the size of one uncompressed frame.
func (p *Profile) RawFrameBytes() int64 {
	return 2 * int64(p.Width) * int64(p.Height)
}

// NewFrame allocates an empty frame for this sensor.
func (p *Profile) NewFrame() *depthframe.Frame {
	return depthframe.NewFrame(p.Width, p.Height, p.InvalidDepth)
}

// Validate checks the profile for consistency and reports every problem found,
// not just the first.
func (p *Profile) Validate() error {
	var result *multierror.Error

	if p.Slug == "" {
		result = multierror.Append(result, fmt.Errorf("slug is empty"))
	}
	if p.Width <= 0 || p.Height <= 0 {
		result = multierror.Append(
			result, fmt.Errorf("frame size must be positive, got %dx%d", p.Width, p.Height))
	} else if uint64(p.Width)*uint64(p.Height) > 1<<32 {
		result = multierror.Append(
			result, fmt.Errorf("frames of %dx%d are too large", p.Width, p.Height))
	}
	if p.DepthBits == 0 || p.DepthBits > 16 {
		result = multierror.Append(
			result, fmt.Errorf("depth bits must be in [1, 16], got %d", p.DepthBits))
	} else if uint64(p.InvalidDepth) >= uint64(1)<<p.DepthBits {
		result = multierror.Append(
			result,
			fmt.Errorf(
				"invalid depth marker %d doesn't fit in %d bits",
				p.InvalidDepth,
				p.DepthBits))
	}
	if p.FrameRate < 0 {
		result = multierror.Append(
			result, fmt.Errorf("frame rate can't be negative, got %g", p.FrameRate))
	}

	if err := result.ErrorOrNil(); err != nil {
		return depthpack.ErrInvalidArgument.Wrap(err)
	}
	return nil
}

// LoadProfileYAML parses a custom sensor profile. YAML keys are the camelCase
// field names, e.g.
//
//	name: Prototype ToF
//	slug: proto-tof
//	width: 320
//	height: 240
//	depthBits: 12
//	invalidDepth: 4095
func LoadProfileYAML(data []byte) (Profile, error) {
	var profile Profile
	if err := yaml.UnmarshalStrict(data, &profile); err != nil {
		return Profile{}, depthpack.ErrInvalidArgument.Wrap(err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// MarshalProfileYAML is the inverse of [LoadProfileYAML].
func MarshalProfileYAML(profile Profile) ([]byte, error) {
	return yaml.Marshal(profile)
}

////////////////////////////////////////////////////////////////////////////////

//go:embed sensor-profiles.csv
var sensorProfilesRawCSV string
var sensorProfiles map[string]Profile

// GetPredefinedProfile returns the built-in profile with the given slug.
func GetPredefinedProfile(slug string) (Profile, error) {
	profile, ok := sensorProfiles[slug]
	if ok {
		return profile, nil
	}
	return Profile{}, depthpack.ErrNotFound.WithMessage(
		fmt.Sprintf("no predefined sensor profile exists with slug %q", slug))
}

// PredefinedProfiles returns every built-in profile, sorted by slug.
func PredefinedProfiles() []Profile {
	profiles := make([]Profile, 0, len(sensorProfiles))
	for _, profile := range sensorProfiles {
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Slug < profiles[j].Slug
	})
	return profiles
}

func init() {
	csvReader := csv.NewReader(strings.NewReader(sensorProfilesRawCSV))
	csvReader.Comma = '|'

	var rows []Profile
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		panic(fmt.Errorf("failed to decode sensor profiles: %w", err))
	}

	sensorProfiles = make(map[string]Profile, len(rows))
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			panic(fmt.Errorf("sensor profile on row %d is invalid: %w", i+1, err))
		}

		_, exists := sensorProfiles[row.Slug]
		if exists {
			message := fmt.Errorf(
				"duplicate definition for sensor %q found on row %d",
				row.Slug,
				i+1)
			panic(message)
		}
		sensorProfiles[row.Slug] = row
	}
}
