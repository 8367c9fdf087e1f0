package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/scrawl/internal/app"
	"github.com/dshills/scrawl/internal/scene"
)

func newReplayCommand(g *globalFlags) *cobra.Command {
	var (
		output string
		guides bool
	)
	cmd := &cobra.Command{
		Use:   "replay TOOL EVENTS",
		Short: "Run a recorded pointer stream through a tool and export SVG",
		Long: `Replay compiles TOOL, feeds it the pointer events recorded with
"scrawl edit --record" and writes the drawing as SVG.`,
		Example: "  scrawl replay pencil.lua strokes.jsonl -o strokes.svg",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.logFile == "" {
				g.logFile = "-"
			}
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			src, err := os.ReadFile(args[0])
			if err != nil {
				return &app.FileError{Op: "read", Path: args[0], Err: err}
			}
			in, err := os.Open(args[1])
			if err != nil {
				return &app.FileError{Op: "read", Path: args[1], Err: err}
			}
			defer in.Close()
			events, err := app.ReadRecording(in)
			if err != nil {
				return err
			}

			sc, err := app.Replay(cmd.Context(), string(src), events, app.ReplayOptions{
				Logger:         logger,
				Parameters:     cfg.Tool.Parameters,
				HandlerTimeout: cfg.Script.HandlerTimeout.Std(),
				GuideColor:     cfg.Canvas.GuideColor,
			})
			if err != nil {
				return err
			}
			sc.Background = cfg.Canvas.Background

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return &app.FileError{Op: "create", Path: output, Err: err}
				}
				defer f.Close()
				w = f
			}
			return sc.WriteSVG(w, scene.SVGOptions{
				Width:         cfg.Canvas.Width,
				Height:        cfg.Canvas.Height,
				IncludeGuides: guides,
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG file to write (default stdout)")
	cmd.Flags().BoolVar(&guides, "guides", false, "include the guide layer")
	return cmd
}
