package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/scrawl/internal/config/loader"
	"github.com/dshills/scrawl/internal/scene"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCRAWL_"

// Duration is a time.Duration written as "400ms" in config files.
type Duration time.Duration

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "400ms" or a plain number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		n, nerr := strconv.ParseInt(string(b), 10, 64)
		if nerr != nil {
			return fmt.Errorf("invalid duration %s", b)
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds every setting.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Script  ScriptConfig  `json:"script"`
	Manip   ManipConfig   `json:"manip"`
	Pointer PointerConfig `json:"pointer"`
	Canvas  CanvasConfig  `json:"canvas"`
	Editor  EditorConfig  `json:"editor"`
	Tool    ToolConfig    `json:"tool"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level"`
	// File receives the log. Empty means the default log file; "-" means stderr.
	File string `json:"file"`
	// Encoding is console or json.
	Encoding string `json:"encoding"`
}

// ScriptConfig configures compilation and handler execution.
type ScriptConfig struct {
	// HandlerTimeout bounds a single script call. Zero disables it.
	HandlerTimeout Duration `json:"handler_timeout"`
	// AutoRefresh recompiles the tool on every edit.
	AutoRefresh bool `json:"auto_refresh"`
}

// ManipConfig tunes direct manipulation gestures.
type ManipConfig struct {
	// WheelDivisor is the number of raw wheel units per step.
	WheelDivisor float64 `json:"wheel_divisor"`
	// BurstGap is the idle time that ends a wheel burst.
	BurstGap Duration `json:"burst_gap"`
	// HueStep is the hue rotation in degrees per step over a color.
	HueStep float64 `json:"hue_step"`
}

// PointerConfig tunes pointer decoding.
type PointerConfig struct {
	WheelUnits     float64  `json:"wheel_units"`
	WheelUnitsFine float64  `json:"wheel_units_fine"`
	DoubleClick    Duration `json:"double_click"`
}

// CanvasConfig configures the drawing surface.
type CanvasConfig struct {
	// Width and Height are the canvas size in canvas units.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// CellWidth and CellHeight are canvas units per terminal cell.
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	GuideColor string  `json:"guide_color"`
	Background string  `json:"background"`
}

// EditorConfig configures the code pane.
type EditorConfig struct {
	TabWidth int `json:"tab_width"`
	// Width is the code pane width in columns.
	Width int `json:"width"`
}

// ToolConfig selects the initial tool.
type ToolConfig struct {
	// Preset is the preset id loaded when no script file is given.
	Preset string `json:"preset"`
	// Parameters override the tool's parameter defaults.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		Script: ScriptConfig{
			HandlerTimeout: Duration(250 * time.Millisecond),
			AutoRefresh:    true,
		},
		Manip: ManipConfig{
			WheelDivisor: 10,
			BurstGap:     Duration(400 * time.Millisecond),
			HueStep:      1,
		},
		Pointer: PointerConfig{
			WheelUnits:     10,
			WheelUnitsFine: 1,
			DoubleClick:    Duration(400 * time.Millisecond),
		},
		Canvas: CanvasConfig{
			Width:      800,
			Height:     600,
			CellWidth:  8,
			CellHeight: 16,
			GuideColor: "#00aaff",
			Background: "#ffffff",
		},
		Editor: EditorConfig{
			TabWidth: 4,
			Width:    60,
		},
		Tool: ToolConfig{
			Preset: "pencil",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/scrawl/config.toml or its platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "scrawl", "config.toml")
}

// Options controls where Load reads from.
type Options struct {
	// Path is the config file. Empty means DefaultPath, which may be absent.
	Path string
	// FS reads the file. Nil means the OS file system.
	FS loader.FileSystem
	// Environ replaces the process environment when non-nil.
	Environ []string
}

// Load merges defaults, the config file and environment overrides, then
// validates the result.
func Load(opts Options) (*Config, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}

	path := opts.Path
	if path != "" {
		if _, err := fsys.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
	} else {
		path = DefaultPath()
	}

	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		file, err := loader.NewTOMLLoaderWithFS(fsys, path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	env := loader.NewEnvLoader(EnvPrefix)
	if opts.Environ != nil {
		env = loader.NewEnvLoaderWithEnviron(EnvPrefix, opts.Environ)
	}
	overrides, err := env.Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, overrides)

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return m, nil
}

func fromMap(m map[string]any) (*Config, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, strings.Trim(name, `"`))
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{
				Path:    typeErr.Field,
				Message: "expected " + typeErr.Type.String(),
				Value:   typeErr.Value,
			}
		}
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}
	check(c.Logging.Encoding == "console" || c.Logging.Encoding == "json",
		"logging.encoding", "must be console or json", c.Logging.Encoding)
	check(c.Script.HandlerTimeout >= 0, "script.handler_timeout", "must not be negative", c.Script.HandlerTimeout.Std())
	check(c.Manip.WheelDivisor > 0, "manip.wheel_divisor", "must be positive", c.Manip.WheelDivisor)
	check(c.Manip.BurstGap > 0, "manip.burst_gap", "must be positive", c.Manip.BurstGap.Std())
	check(c.Pointer.WheelUnits > 0, "pointer.wheel_units", "must be positive", c.Pointer.WheelUnits)
	check(c.Pointer.WheelUnitsFine > 0, "pointer.wheel_units_fine", "must be positive", c.Pointer.WheelUnitsFine)
	check(c.Canvas.Width > 0 && c.Canvas.Height > 0, "canvas.width", "canvas size must be positive", c.Canvas.Width)
	check(c.Canvas.CellWidth > 0 && c.Canvas.CellHeight > 0, "canvas.cell_width", "cell size must be positive", c.Canvas.CellWidth)
	check(scene.IsColor(c.Canvas.GuideColor), "canvas.guide_color", "not a color", c.Canvas.GuideColor)
	check(scene.IsColor(c.Canvas.Background), "canvas.background", "not a color", c.Canvas.Background)
	check(c.Editor.TabWidth > 0, "editor.tab_width", "must be positive", c.Editor.TabWidth)
	check(c.Editor.Width >= 10, "editor.width", "must be at least 10", c.Editor.Width)

	return errors.Join(errs...)
}
