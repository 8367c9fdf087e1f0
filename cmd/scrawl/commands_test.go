package main

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/scrawl/internal/manip"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestLocateCommand(t *testing.T) {
	path := writeFile(t, "tool.lua", "local w = 2.50\nfill = \"red\"\np = Point(10, 20)\n")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"number", []string{"1", "13"}, []string{"numeric literal", `"2.50"`, "1:11-15", "2.5", "precision"}},
		{"color", []string{"2", "10"}, []string{"color literal", "#ff0000"}},
		{"number in pair", []string{"3", "12"}, []string{"numeric literal", "10, 20"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"locate", path}, tt.args...)...)
			if err != nil {
				t.Fatalf("locate: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}

	if _, err := execute(t, "locate", path, "1", "3"); !errors.Is(err, manip.ErrNoLiteral) {
		t.Errorf("expected ErrNoLiteral, got %v", err)
	}
	if _, err := execute(t, "locate", path, "9", "1"); err == nil {
		t.Error("expected error past end of file")
	}
	if _, err := execute(t, "locate", path, "x", "1"); err == nil {
		t.Error("expected error for bad line")
	}
}

func TestNudgeCommand(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		args  []string
		want  string
		isErr bool
	}{
		{"number", "r = 5\n", []string{"1", "5", "3"}, "r = 8\n", false},
		{"decimal", "w = 2.50\n", []string{"1", "6", "-5"}, "w = 2.45\n", false},
		{"color", "c = \"red\"\n", []string{"1", "7", "120"}, "c = \"#00ff00\"\n", false},
		{"pair", "p = [10, 20]\n", []string{"1", "9", "5,-5"}, "p = [15, 15]\n", false},
		{"bad pair delta", "p = [10, 20]\n", []string{"1", "9", "5"}, "p = [10, 20]\n", true},
		{"bad delta", "r = 5\n", []string{"1", "5", "up"}, "r = 5\n", true},
		{"no literal", "local r\n", []string{"1", "3", "1"}, "local r\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "tool.lua", tt.text)
			_, err := execute(t, append([]string{"nudge", path}, tt.args...)...)
			if (err != nil) != tt.isErr {
				t.Fatalf("nudge error = %v, want error %v", err, tt.isErr)
			}
			if got := readFile(t, path); got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNudgeDryRun(t *testing.T) {
	path := writeFile(t, "tool.lua", "r = 5\n")
	out, err := execute(t, "nudge", "--dry-run", path, "1", "5", "10")
	if err != nil {
		t.Fatalf("nudge: %v", err)
	}
	if strings.TrimSpace(out) != "r = 15" {
		t.Errorf("unexpected output %q", out)
	}
	if got := readFile(t, path); got != "r = 5\n" {
		t.Errorf("dry run wrote the file: %q", got)
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, id := range []string{"pencil", "line", "spray", "bezier"} {
		if !strings.Contains(out, id) {
			t.Errorf("list missing %s:\n%s", id, out)
		}
	}

	out, err = execute(t, "presets", "show", "pencil")
	if err != nil {
		t.Fatalf("presets show: %v", err)
	}
	if !strings.Contains(out, "id: pencil") || !strings.Contains(out, "function press()") {
		t.Errorf("unexpected script:\n%s", out)
	}

	if _, err := execute(t, "presets", "show", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestNewCommand(t *testing.T) {
	out, err := execute(t, "new")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "label: New Tool") || !strings.Contains(out, `_G["end"]`) {
		t.Errorf("unexpected script:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "mine.lua")
	if _, err := execute(t, "new", path); err != nil {
		t.Fatalf("new %s: %v", path, err)
	}
	if !strings.Contains(readFile(t, path), "function drag(e)") {
		t.Error("file missing callbacks")
	}
	if _, err := execute(t, "new", path); !errors.Is(err, fs.ErrExist) {
		t.Errorf("expected fs.ErrExist, got %v", err)
	}
	if _, err := execute(t, "new", "--force", path); err != nil {
		t.Errorf("new --force: %v", err)
	}
}

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, "config.toml", "")
	src := writeFile(t, "pencil.lua", `function press()
  path = Path()
  path:moveTo(mouse)
end

function drag()
  path:lineTo(mouse)
end
`)
	events := writeFile(t, "events.jsonl", strings.Join([]string{
		`{"t":0,"type":"down","x":10,"y":10}`,
		`{"t":16,"type":"move","x":50,"y":10}`,
		`{"t":32,"type":"move","x":50,"y":60}`,
		`{"t":48,"type":"up","x":50,"y":60}`,
	}, "\n"))
	out := filepath.Join(dir, "out.svg")

	if _, err := execute(t, "--config", cfg, "--log-level", "error", "replay", src, events, "-o", out); err != nil {
		t.Fatalf("replay: %v", err)
	}
	svg := readFile(t, out)
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "<path") {
		t.Errorf("unexpected SVG:\n%s", svg)
	}

	stdout, err := execute(t, "--config", cfg, "--log-level", "error", "replay", src, events)
	if err != nil {
		t.Fatalf("replay to stdout: %v", err)
	}
	if stdout != svg {
		t.Error("stdout output differs from file output")
	}

	bad := writeFile(t, "bad.lua", "function press(")
	if _, err := execute(t, "--config", cfg, "--log-level", "error", "replay", bad, events); err == nil {
		t.Error("expected compile error")
	}
}
