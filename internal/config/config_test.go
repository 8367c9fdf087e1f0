package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{Path: writeConfig(t, ""), Environ: []string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Manip != want.Manip || cfg.Logging != want.Logging || cfg.Canvas != want.Canvas {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if cfg.Script.HandlerTimeout.Std() != 250*time.Millisecond {
		t.Errorf("handler timeout %v", cfg.Script.HandlerTimeout.Std())
	}
}

func TestLoadLayers(t *testing.T) {
	path := writeConfig(t, `
[manip]
wheel_divisor = 4
burst_gap = "1s"

[canvas]
guide_color = "magenta"

[tool]
preset = "star"

[tool.parameters]
points = 7
`)
	environ := []string{
		"SCRAWL_MANIP_WHEEL_DIVISOR=20",
		"SCRAWL_LOG_LEVEL=debug",
		"SCRAWL_SCRIPT_AUTO_REFRESH=false",
		"HOME=/tmp",
	}

	cfg, err := Load(Options{Path: path, Environ: environ})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"env overrides file", cfg.Manip.WheelDivisor, 20.0},
		{"file duration", cfg.Manip.BurstGap.Std(), time.Second},
		{"file string", cfg.Canvas.GuideColor, "magenta"},
		{"default survives", cfg.Manip.HueStep, 1.0},
		{"env mapping", cfg.Logging.Level, "debug"},
		{"env bool", cfg.Script.AutoRefresh, false},
		{"preset", cfg.Tool.Preset, "star"},
		{"parameters", cfg.Tool.Parameters["points"], 7.0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v (%T), want %v", tt.name, tt.got, tt.got, tt.want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		environ []string
		want    error
	}{
		{"unknown setting", "[manip]\nwheel_speed = 3\n", nil, ErrUnknownSetting},
		{"bad divisor", "[manip]\nwheel_divisor = 0\n", nil, ErrValidationFailed},
		{"bad color", "[canvas]\nguide_color = \"nope\"\n", nil, ErrValidationFailed},
		{"bad level", "", []string{"SCRAWL_LOG_LEVEL=loud"}, ErrValidationFailed},
		{"wrong type", "[editor]\ntab_width = \"wide\"\n", nil, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := tt.environ
			if environ == nil {
				environ = []string{}
			}
			_, err := Load(Options{Path: writeConfig(t, tt.content), Environ: environ})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "absent.toml"), Environ: []string{}})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Editor.TabWidth = 0
	cfg.Pointer.WheelUnits = -1

	err := cfg.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("expected two errors, got %v", err)
	}
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	if err := d.UnmarshalJSON([]byte(`"1.5s"`)); err != nil || d.Std() != 1500*time.Millisecond {
		t.Errorf("string form: %v %v", d.Std(), err)
	}
	if err := d.UnmarshalJSON([]byte(`1000`)); err != nil || d.Std() != time.Microsecond {
		t.Errorf("number form: %v %v", d.Std(), err)
	}
	if err := d.UnmarshalJSON([]byte(`"soon"`)); err == nil {
		t.Error("expected error")
	}
	b, err := Duration(2 * time.Second).MarshalJSON()
	if err != nil || string(b) != `"2s"` {
		t.Errorf("marshal: %s %v", b, err)
	}
}
