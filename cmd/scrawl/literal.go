package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/scrawl/internal/app"
	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/manip"
	"github.com/dshills/scrawl/internal/scene"
)

// position parses LINE and COL arguments.
func position(lineArg, colArg string) (int, int, error) {
	line, err := strconv.Atoi(lineArg)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("invalid line %q", lineArg)
	}
	col, err := strconv.Atoi(colArg)
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("invalid column %q", colArg)
	}
	return line, col, nil
}

func readBuffer(path string) (*buffer.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &app.FileError{Op: "read", Path: path, Err: err}
	}
	return buffer.NewBufferFromString(string(data)), nil
}

func locateIn(b *buffer.Buffer, line, col int) (*manip.LiteralMatch, error) {
	if line > b.LineCount() {
		return nil, fmt.Errorf("line %d past end of file (%d lines)", line, b.LineCount())
	}
	m := manip.Locate(b.LineText(line), col)
	if m == nil {
		return nil, fmt.Errorf("%w at %d:%d", manip.ErrNoLiteral, line, col)
	}
	return m, nil
}

func printMatch(w io.Writer, line int, m *manip.LiteralMatch) {
	fmt.Fprintln(w, titleStyle.Render(m.Kind.String()+" literal"))
	fmt.Fprintln(w, field("text", strconv.Quote(m.Text)))
	fmt.Fprintln(w, field("range", fmt.Sprintf("%d:%d-%d", line, m.StartColumn, m.EndColumn)))
	switch m.Kind {
	case manip.Numeric:
		fmt.Fprintln(w, field("value", strconv.FormatFloat(m.Value, 'f', -1, 64)))
		fmt.Fprintln(w, field("precision", strconv.Itoa(m.Precision)))
		if m.Enclosing != nil {
			fmt.Fprintln(w, field("pair", manip.FormatPair(m.Enclosing.Point)))
		}
	case manip.Color:
		fmt.Fprintln(w, field("hex", m.Hex))
	case manip.CoordinatePair:
		fmt.Fprintln(w, field("point", manip.FormatPair(m.Point)))
	}
}

func newLocateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate FILE LINE COL",
		Short: "Show the literal at a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, col, err := position(args[1], args[2])
			if err != nil {
				return err
			}
			b, err := readBuffer(args[0])
			if err != nil {
				return err
			}
			m, err := locateIn(b, line, col)
			if err != nil {
				return err
			}
			printMatch(cmd.OutOrStdout(), line, m)
			return nil
		},
	}
}

func newNudgeCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "nudge FILE LINE COL DELTA",
		Short: "Step the literal at a position",
		Long: `Nudge changes the literal at LINE:COL by DELTA steps, the same edit a
wheel gesture makes. Numbers move by DELTA units of their last digit; colors
rotate their hue by DELTA degrees. Coordinate pairs take DX,DY.`,
		Example: "  scrawl nudge tool.lua 3 14 -5\n  scrawl nudge tool.lua 7 12 10,-4",
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, col, err := position(args[1], args[2])
			if err != nil {
				return err
			}
			b, err := readBuffer(args[0])
			if err != nil {
				return err
			}
			m, err := locateIn(b, line, col)
			if err != nil {
				return err
			}
			if err := nudge(b, line, m, args[3]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, b.LineText(line))
				return nil
			}
			if err := os.WriteFile(args[0], []byte(b.Text()), 0o644); err != nil {
				return &app.FileError{Op: "write", Path: args[0], Err: err}
			}
			fmt.Fprintln(out, okStyle.Render("✓"), field(fmt.Sprintf("line %d", line), strings.TrimSpace(b.LineText(line))))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the changed line instead of writing the file")
	// Negative deltas look like flags; flags go before FILE.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// nudge applies delta to m on line of b.
func nudge(b *buffer.Buffer, line int, m *manip.LiteralMatch, delta string) error {
	p := manip.NewPatcher(b)
	s := manip.NewGestureSession(line, m)

	if m.Kind == manip.CoordinatePair {
		dx, dy, ok := strings.Cut(delta, ",")
		if !ok {
			return fmt.Errorf("pair delta %q: want DX,DY", delta)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(dx), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(dy), 64)
		if errX != nil || errY != nil {
			return fmt.Errorf("pair delta %q: want DX,DY", delta)
		}
		_, err := p.MovePoint(s, scene.Pt(x, y))
		return err
	}

	d, err := strconv.ParseFloat(delta, 64)
	if err != nil {
		return fmt.Errorf("invalid delta %q", delta)
	}
	if m.Kind == manip.Color {
		next, err := manip.RotateHue(m.Text, d)
		if err != nil {
			return err
		}
		_, err = p.ReplaceColor(s, next)
		return err
	}
	_, err = p.ApplyLiteralEdit(s, d)
	return err
}
