package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/app"
	"github.com/dshills/scrawl/internal/config"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logFile    string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var g globalFlags
	edit := newEditCommand(&g)

	root := &cobra.Command{
		Use:   "scrawl [file]",
		Short: "Live-code drawing tools in the terminal",
		Long: `scrawl edits a drawing tool's script next to a canvas that runs it.

Point the caret at a number, color or coordinate pair in the script and
scrub it with the mouse wheel, the color picker or the canvas handle; the
literal is rewritten in place and the tool recompiles.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          edit.RunE,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	}
	root.Flags().AddFlagSet(edit.Flags())

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "configuration file (default "+config.DefaultPath()+")")
	pf.StringVar(&g.logFile, "log-file", "", `log file, "-" for stderr (default `+app.DefaultLogPath()+")")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		edit,
		newReplayCommand(&g),
		newLocateCommand(),
		newNudgeCommand(),
		newPresetsCommand(),
		newNewCommand(),
	)
	return root
}

// load reads the configuration and applies the logging flags.
func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(config.Options{Path: g.configPath})
	if err != nil {
		return nil, err
	}
	if g.logFile != "" {
		cfg.Logging.File = g.logFile
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return cfg, cfg.Validate()
}

// setup loads the configuration and builds the logger.
func (g *globalFlags) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
