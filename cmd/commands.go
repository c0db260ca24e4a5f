package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/curve"
	"github.com/dargueta/depthpack/recording"
	"github.com/dargueta/depthpack/sensors"
	"github.com/dargueta/depthpack/utilities/compression"
	"github.com/urfave/cli/v2"
)

func compressRecording(context *cli.Context) error {
	if context.NArg() != 2 {
		return cli.Exit("compress needs an input and an output file", 1)
	}

	config, err := recordingConfig(context)
	if err != nil {
		return err
	}
	config.Compression, err = compression.ParseMethod(context.String("compression"))
	if err != nil {
		return err
	}
	if context.Bool("verbose") {
		config.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	input, err := os.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(context.Args().Get(1))
	if err != nil {
		return err
	}
	defer output.Close()

	buffered := bufio.NewWriter(output)
	stats, err := recording.CompressRecording(bufio.NewReader(input), buffered, config)
	if err != nil {
		return err
	}
	if err := finishOutput(buffered, output); err != nil {
		return err
	}

	summary := recording.Summarize(stats)
	log.Printf(
		"compressed %d frames: %d -> %d bytes (ratio %.2f, %.2f bits per valid pixel)",
		summary.Frames,
		summary.RawBytes,
		summary.CompressedBytes,
		summary.Ratio,
		summary.BitsPerValidPixel)

	statsPath := context.Path("stats")
	if statsPath == "" {
		return nil
	}
	return writeStats(statsPath, stats)
}

func decompressRecording(context *cli.Context) error {
	if context.NArg() != 2 {
		return cli.Exit("decompress needs an input and an output file", 1)
	}

	input, err := os.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(context.Args().Get(1))
	if err != nil {
		return err
	}
	defer output.Close()

	buffered := bufio.NewWriter(output)
	count, err := recording.DecompressRecording(bufio.NewReader(input), buffered)
	if err != nil {
		return err
	}
	if err := finishOutput(buffered, output); err != nil {
		return err
	}

	log.Printf("expanded %d frames", count)
	return nil
}

func measureRecording(context *cli.Context) error {
	if context.NArg() != 1 {
		return cli.Exit("stats needs exactly one input file", 1)
	}

	config, err := recordingConfig(context)
	if err != nil {
		return err
	}

	input, err := os.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer input.Close()

	stats, err := recording.MeasureRecording(bufio.NewReader(input), config)
	if err != nil {
		return err
	}

	outputPath := context.Path("output")
	if outputPath == "" {
		return recording.WriteStatsCSV(os.Stdout, stats)
	}
	return writeStats(outputPath, stats)
}

func listProfiles(context *cli.Context) error {
	if slug := context.String("show"); slug != "" {
		profile, err := sensors.GetPredefinedProfile(slug)
		if err != nil {
			return err
		}
		data, err := sensors.MarshalProfileYAML(profile)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	table := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "SLUG\tNAME\tSIZE\tBITS\tINVALID")
	for _, profile := range sensors.PredefinedProfiles() {
		fmt.Fprintf(
			table,
			"%s\t%s\t%dx%d\t%d\t%#04x\n",
			profile.Slug,
			profile.Name,
			profile.Width,
			profile.Height,
			profile.DepthBits,
			profile.InvalidDepth)
	}
	return table.Flush()
}

// recordingConfig builds the encoder settings shared by every command that
// reads raw recordings.
func recordingConfig(context *cli.Context) (recording.Config, error) {
	profile, err := loadProfile(context)
	if err != nil {
		return recording.Config{}, err
	}

	kind, err := curve.ParseKind(context.String("curve"))
	if err != nil {
		return recording.Config{}, err
	}

	return recording.Config{
		Width:        profile.Width,
		Height:       profile.Height,
		InvalidDepth: profile.InvalidDepth,
		Curve:        kind,
	}, nil
}

func loadProfile(context *cli.Context) (sensors.Profile, error) {
	configPath := context.Path("config")
	if configPath == "" {
		return sensors.GetPredefinedProfile(context.String("profile"))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return sensors.Profile{}, err
	}
	return sensors.LoadProfileYAML(data)
}

func writeStats(path string, stats []recording.FrameStat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	buffered := bufio.NewWriter(file)
	if err := recording.WriteStatsCSV(buffered, stats); err != nil {
		file.Close()
		return err
	}
	return finishOutput(buffered, file)
}

// finishOutput flushes `buffered` and closes the file beneath it. A failed
// close can lose data that was already written, so its error is reported too.
func finishOutput(buffered *bufio.Writer, file io.Closer) error {
	flushErr := buffered.Flush()
	closeErr := file.Close()
	if flushErr != nil {
		return depthpack.ErrIOFailed.Wrap(flushErr)
	}
	if closeErr != nil {
		return depthpack.ErrIOFailed.Wrap(closeErr)
	}
	return nil
}
