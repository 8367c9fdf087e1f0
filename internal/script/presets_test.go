package script

import (
	"context"
	"testing"

	"github.com/dshills/scrawl/internal/scene"
	"github.com/dshills/scrawl/internal/tool"
)

// TestPresetsRun compiles every built-in tool and drives a short session
// through it without callback errors.
func TestPresetsRun(t *testing.T) {
	defs, err := tool.Presets()
	if err != nil {
		t.Fatalf("Presets() error = %v", err)
	}

	for _, def := range defs {
		t.Run(def.ID, func(t *testing.T) {
			params, err := def.ResolveParameters(nil)
			if err != nil {
				t.Fatalf("ResolveParameters() error = %v", err)
			}

			sc := scene.New()
			var errs []error
			m := tool.NewMachine(
				tool.WithTransformer(sc.ToolLayer()),
				tool.WithGuideLayer(sc.GuideLayer()),
				tool.WithErrorHandler(func(err error) { errs = append(errs, err) }),
			)

			prog, err := Compile(def.Code, Bindings{
				Scene:      sc,
				Parameters: params,
				Finish:     func() { m.End(context.Background()) },
				Random:     func() float64 { return 0.25 },
			})
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			defer prog.Close()

			m.Bind(prog.Handlers(), prog)
			m.Activate()

			ctx := context.Background()
			ev := func(x, y float64) tool.Event { return tool.Event{Point: scene.Pt(x, y)} }

			m.PointerDown(ctx, ev(10, 10))
			m.PointerMove(ctx, ev(20, 15))
			m.PointerMove(ctx, ev(30, 25))
			m.PointerUp(ctx, ev(30, 25))
			m.PointerMove(ctx, ev(40, 30))
			m.PointerDown(ctx, ev(50, 10))
			m.PointerMove(ctx, ev(60, 20))
			m.PointerUp(ctx, ev(60, 20))
			m.PointerMove(ctx, ev(70, 40))
			m.PointerDown(ctx, ev(80, 60))
			m.PointerUp(ctx, ev(80, 60))
			m.PointerMove(ctx, ev(90, 50))
			m.Deactivate(ctx)

			for _, err := range errs {
				t.Errorf("callback error: %v", err)
			}
			if sc.ToolLayer().Len() == 0 {
				t.Error("tool drew nothing")
			}
		})
	}
}

func TestNewToolCompiles(t *testing.T) {
	prog, err := Compile(tool.New().Code, Bindings{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	defer prog.Close()

	if got := len(prog.Handlers()); got != len(tool.Lifecycles) {
		t.Errorf("new tool has %d handlers, want %d", got, len(tool.Lifecycles))
	}
}
