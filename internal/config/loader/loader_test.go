package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func getByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	v, ok := current[parts[len(parts)-1]]
	return v, ok
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[manip]
wheel_divisor = 4
hue_step = 2.5

[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, ok := getByPath(config, "manip.wheel_divisor"); !ok || v != int64(4) {
		t.Errorf("wheel_divisor = %v (%T), want 4", v, v)
	}
	if v, ok := getByPath(config, "manip.hue_step"); !ok || v != 2.5 {
		t.Errorf("hue_step = %v, want 2.5", v)
	}
	if v, ok := getByPath(config, "logging.level"); !ok || v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	if err != nil || config != nil {
		t.Errorf("missing file: config=%v err=%v", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[manip]\nwheel_divisor = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "/bad.toml" || perr.Line != 2 {
		t.Errorf("unexpected position %s:%d", perr.Path, perr.Line)
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoaderWithEnviron("SCRAWL_", []string{
		"SCRAWL_LOG_LEVEL=debug",
		"SCRAWL_MANIP_WHEEL_DIVISOR=4",
		"SCRAWL_MANIP_HUE_STEP=0.5",
		"SCRAWL_SCRIPT_AUTO_REFRESH=off",
		"SCRAWL_SCRIPT_HANDLER_TIMEOUT=250ms",
		"SCRAWL_TOOL_PARAMETERS={\"width\": 3}",
		"SCRAWL_NOSECTION=1",
		"OTHER_LOG_LEVEL=info",
	})
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"manip.wheel_divisor", int64(4)},
		{"manip.hue_step", 0.5},
		{"script.auto_refresh", false},
		{"script.handler_timeout", "250ms"},
	}
	for _, tt := range tests {
		v, ok := getByPath(config, tt.path)
		if !ok || v != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, v, v, tt.want)
		}
	}

	params, ok := getByPath(config, "tool.parameters")
	if m, isMap := params.(map[string]any); !ok || !isMap || m["width"] != float64(3) {
		t.Errorf("tool.parameters = %v", params)
	}
	if _, ok := config["nosection"]; ok {
		t.Error("variables without a key should be skipped")
	}
	if len(config) != 4 {
		t.Errorf("unexpected sections %v", config)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"manip":   map[string]any{"wheel_divisor": 10.0, "hue_step": 1.0},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"manip":  map[string]any{"wheel_divisor": int64(4)},
		"editor": map[string]any{"tab_width": int64(2)},
	}

	out := DeepMerge(dst, src)
	if v, _ := getByPath(out, "manip.wheel_divisor"); v != int64(4) {
		t.Errorf("wheel_divisor = %v", v)
	}
	if v, _ := getByPath(out, "manip.hue_step"); v != 1.0 {
		t.Errorf("hue_step = %v", v)
	}
	if v, _ := getByPath(out, "editor.tab_width"); v != int64(2) {
		t.Errorf("tab_width = %v", v)
	}
	if DeepMerge(nil, nil) == nil {
		t.Error("DeepMerge(nil, nil) should return an empty map")
	}
}
