package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/scrawl/internal/app"
	"github.com/dshills/scrawl/internal/tool"
)

func newNewCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new [FILE]",
		Short: "Write a blank tool script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := tool.New().Export()
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), src)
				return err
			}

			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return &app.FileError{Op: "create", Path: path, Err: fs.ErrExist}
				} else if !errors.Is(err, fs.ErrNotExist) {
					return &app.FileError{Op: "create", Path: path, Err: err}
				}
			}
			if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
				return &app.FileError{Op: "create", Path: path, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓"), field("created", path))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
