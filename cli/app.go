// Package cli contains the headcast command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	generalFlagDebug = "debug"

	castFlagIntrinsics  = "intrinsics"
	castFlagPosition    = "position"
	castFlagRotation    = "rotation"
	castFlagPoint       = "point"
	castFlagUnit        = "unit"
	castFlagDepth       = "depth"
	castFlagDepthOffset = "depth-offset"

	replayFlagConfig     = "config"
	replayFlagFrames     = "frames"
	replayFlagDebugFrame = "debug-frame"
)

var app = &cli.App{
	Name:            "headcast",
	Usage:           "place world-space markers on faces seen by a head-mounted camera",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "cast",
			Usage:     "cast an image point at a depth to a world point",
			UsageText: "headcast cast --intrinsics FILE --point x,y --depth d [other options]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     castFlagIntrinsics,
					Required: true,
					Usage:    "camera intrinsics JSON `FILE`",
				},
				&cli.StringFlag{
					Name:  castFlagPosition,
					Value: "0,0,0",
					Usage: "camera position x,y,z",
				},
				&cli.StringFlag{
					Name:  castFlagRotation,
					Value: "1,0,0,0",
					Usage: "camera rotation quaternion w,x,y,z",
				},
				&cli.StringFlag{
					Name:     castFlagPoint,
					Required: true,
					Usage:    "image point x,y",
				},
				&cli.StringFlag{
					Name:  castFlagUnit,
					Value: "pixel",
					Usage: "unit of --point: pixel or viewport",
				},
				&cli.Float64Flag{
					Name:     castFlagDepth,
					Required: true,
					Usage:    "distance along the ray",
				},
				&cli.Float64Flag{
					Name:  castFlagDepthOffset,
					Value: 0.1,
					Usage: "added to the depth before casting",
				},
			},
			Action: CastAction,
		},
		{
			Name:  "undistort",
			Usage: "correct a viewport point for lens distortion",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     castFlagIntrinsics,
					Required: true,
					Usage:    "camera intrinsics JSON `FILE`",
				},
				&cli.StringFlag{
					Name:     castFlagPoint,
					Required: true,
					Usage:    "viewport point x,y",
				},
			},
			Action: UndistortAction,
		},
		{
			Name:  "replay",
			Usage: "run the head tracker over a recorded frame log",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:  replayFlagConfig,
					Usage: "tracker config JSON `FILE`, defaults are used if unset",
				},
				&cli.PathFlag{
					Name:     replayFlagFrames,
					Required: true,
					Usage:    "JSON-lines frame log `FILE`",
				},
				&cli.IntFlag{
					Name:  replayFlagDebugFrame,
					Value: -1,
					Usage: "write debug logs for the frame at `INDEX` only, tagged with its trace name",
				},
			},
			Action: ReplayAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
