package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/scrawl/internal/tool"
)

func newPresetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := tool.Presets()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range defs {
				fmt.Fprintf(out, "%s %s\n", titleStyle.Render(d.ID), d.Label)
				if len(d.Parameters) > 0 {
					names := make([]string, 0, len(d.Parameters))
					for _, p := range d.Parameters {
						names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Type))
					}
					fmt.Fprintln(out, "  "+field("parameters", strings.Join(names, ", ")))
				}
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Print a built-in tool's script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := tool.Preset(args[0])
			if err != nil {
				return err
			}
			src, err := def.Export()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), src)
			return err
		},
	})
	return cmd
}
