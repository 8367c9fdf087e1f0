package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/app"
	"github.com/dshills/scrawl/internal/project/watcher"
	"github.com/dshills/scrawl/internal/renderer/backend"
)

type editFlags struct {
	preset string
	watch  bool
	record string
}

func newEditCommand(g *globalFlags) *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the studio on a tool script",
		Long: `Open the studio on a tool script. Without a file the studio starts
from a built-in preset.

Keys:
  Ctrl+S save   Ctrl+Q quit   F5 run   Ctrl+R toggle auto refresh
  Ctrl+Y copy canvas as SVG   Ctrl+L clear canvas
  Enter/Escape finish the current drawing session`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), g, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "preset to start from when no file is given")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "reload the script when the file changes on disk")
	cmd.Flags().StringVar(&f.record, "record", "", "record the tool's pointer events to this JSON lines file")
	return cmd
}

func runEdit(ctx context.Context, g *globalFlags, f editFlags, args []string) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := app.Options{Config: cfg, Logger: logger}

	if len(args) == 1 {
		doc, err := app.OpenDocument(args[0], cfg.Editor.TabWidth)
		if err != nil {
			return err
		}
		opts.Document = doc
	} else if f.preset != "" {
		doc, err := app.NewPresetDocument(f.preset, cfg.Editor.TabWidth)
		if err != nil {
			return err
		}
		opts.Document = doc
	}

	if f.watch {
		w, err := watcher.NewFSNotifyWatcher(logger.Named("watcher"))
		if err != nil {
			return err
		}
		opts.Watcher = w
	}

	if f.record != "" {
		out, err := os.Create(f.record)
		if err != nil {
			return &app.FileError{Op: "create", Path: f.record, Err: err}
		}
		defer out.Close()
		opts.Record = out
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return &app.InitError{Component: "terminal", Err: err}
	}
	opts.Backend = term

	studio, err := app.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting studio", zap.Bool("watch", f.watch), zap.String("record", f.record))
	return studio.Run(ctx)
}
