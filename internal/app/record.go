package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/scene"
	"github.com/dshills/scrawl/internal/script"
	"github.com/dshills/scrawl/internal/tool"
)

// PointerKind is the machine transition a recorded event drives.
type PointerKind string

const (
	PointerDown PointerKind = "down"
	PointerMove PointerKind = "move"
	PointerUp   PointerKind = "up"
	PointerEnd  PointerKind = "end"
)

// Recorded is one pointer event of a recording.
type Recorded struct {
	Kind  PointerKind
	At    time.Duration
	Event tool.Event
}

// Recorder writes pointer events as JSON lines.
type Recorder struct {
	w     io.Writer
	now   func() time.Time
	start time.Time
	count int
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, now: time.Now}
}

// Record appends one event.
func (r *Recorder) Record(kind PointerKind, ev tool.Event) error {
	now := r.now()
	if r.count == 0 {
		r.start = now
	}
	r.count++

	line := "{}"
	fields := []struct {
		path  string
		value any
	}{
		{"t", now.Sub(r.start).Milliseconds()},
		{"type", string(kind)},
		{"x", ev.Point.X},
		{"y", ev.Point.Y},
		{"alt", ev.Alt},
		{"shift", ev.Shift},
		{"pointer", string(ev.PointerType)},
	}
	for _, f := range fields {
		var err error
		if line, err = sjson.Set(line, f.path, f.value); err != nil {
			return fmt.Errorf("record %s: %w", f.path, err)
		}
	}
	_, err := io.WriteString(r.w, line+"\n")
	return err
}

// Count returns the number of events recorded.
func (r *Recorder) Count() int {
	return r.count
}

// ReadRecording parses a JSON lines recording. Blank lines are skipped.
func ReadRecording(rd io.Reader) ([]Recorded, error) {
	var out []Recorded
	sc := bufio.NewScanner(rd)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return nil, fmt.Errorf("%w: line %d: invalid JSON", ErrBadRecording, n)
		}
		doc := gjson.Parse(line)
		kind := PointerKind(doc.Get("type").String())
		switch kind {
		case PointerDown, PointerMove, PointerUp, PointerEnd:
		default:
			return nil, fmt.Errorf("%w: line %d: unknown type %q", ErrBadRecording, n, kind)
		}
		pt := tool.PointerType(doc.Get("pointer").String())
		if pt == "" {
			pt = tool.PointerMouse
		}
		out = append(out, Recorded{
			Kind: kind,
			At:   time.Duration(doc.Get("t").Int()) * time.Millisecond,
			Event: tool.Event{
				Point:       scene.Pt(doc.Get("x").Float(), doc.Get("y").Float()),
				Alt:         doc.Get("alt").Bool(),
				Shift:       doc.Get("shift").Bool(),
				PointerType: pt,
			},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Play drives m with recorded events.
func Play(ctx context.Context, m *tool.Machine, events []Recorded) error {
	for _, r := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch r.Kind {
		case PointerDown:
			m.PointerDown(ctx, r.Event)
		case PointerMove:
			m.PointerMove(ctx, r.Event)
		case PointerUp:
			m.PointerUp(ctx, r.Event)
		case PointerEnd:
			m.End(ctx)
		}
	}
	return nil
}

// ReplayOptions configures a headless replay.
type ReplayOptions struct {
	Logger         *zap.Logger
	Parameters     map[string]any
	HandlerTimeout time.Duration
	GuideColor     string
}

// Replay compiles src, runs the recorded events through a fresh tool and
// returns the resulting drawing. An open session is ended at the end.
func Replay(ctx context.Context, src string, events []Recorded, opts ReplayOptions) (*scene.Scene, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	def, err := tool.Parse(src)
	if err != nil {
		return nil, err
	}
	params, err := def.ResolveParameters(opts.Parameters)
	if err != nil {
		return nil, err
	}

	sc := scene.New()
	var m *tool.Machine
	prog, err := script.CompileContext(ctx, src, script.Bindings{
		Scene:          sc,
		Parameters:     params,
		Logger:         logger.Named("script"),
		HandlerTimeout: opts.HandlerTimeout,
		GuideColor:     opts.GuideColor,
		Finish:         func() { m.End(ctx) },
	})
	if err != nil {
		return nil, err
	}
	defer prog.Close()

	m = tool.NewMachine(
		tool.WithLogger(logger.Named("tool")),
		tool.WithTransformer(sc.ToolLayer()),
		tool.WithGuideLayer(sc.GuideLayer()),
	)
	m.Bind(prog.Handlers(), prog)
	m.Activate()
	if err := Play(ctx, m, events); err != nil {
		return nil, err
	}
	m.Deactivate(ctx)
	return sc, nil
}
