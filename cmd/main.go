package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	profileFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "predefined sensor profile `SLUG` (see the profiles command)",
			Value:   "kinect-v1",
		},
		&cli.PathFlag{
			Name:  "config",
			Usage: "YAML file describing a custom sensor; overrides --profile",
		},
		&cli.StringFlag{
			Name:  "curve",
			Usage: "pixel traversal: hilbert, serpentine or row-major",
			Value: "hilbert",
		},
	}

	cli := cli.App{
		Name:  "depthpack",
		Usage: "Compress depth camera recordings",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress a raw depth recording",
				Action:    compressRecording,
				ArgsUsage: "RAW_FILE  OUTPUT_FILE",
				Flags: append(
					profileFlags,
					&cli.StringFlag{
						Name:  "compression",
						Usage: "outer compression applied to the frame records: none, gzip, zstd or rle8",
						Value: "none",
					},
					&cli.PathFlag{
						Name:  "stats",
						Usage: "write per-frame statistics as CSV to `FILE`",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "log every frame",
					},
				),
			},
			{
				Name:      "decompress",
				Usage:     "Expand a compressed recording back to a raw recording",
				Action:    decompressRecording,
				ArgsUsage: "COMPRESSED_FILE  RAW_FILE",
			},
			{
				Name:      "stats",
				Usage:     "Measure how well each frame of a raw recording compresses",
				Action:    measureRecording,
				ArgsUsage: "RAW_FILE",
				Flags: append(
					profileFlags,
					&cli.PathFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write the CSV to `FILE` instead of standard output",
					},
				),
			},
			{
				Name:   "profiles",
				Usage:  "List the predefined sensor profiles",
				Action: listProfiles,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "show",
						Usage: "print the profile with the given `SLUG` as YAML, as a starting point for --config",
					},
				},
			},
		},
	}

	err := cli.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}
