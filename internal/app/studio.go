package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/config"
	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/input/key"
	"github.com/dshills/scrawl/internal/input/pointer"
	"github.com/dshills/scrawl/internal/manip"
	"github.com/dshills/scrawl/internal/project/watcher"
	"github.com/dshills/scrawl/internal/renderer"
	"github.com/dshills/scrawl/internal/renderer/backend"
	"github.com/dshills/scrawl/internal/scene"
	"github.com/dshills/scrawl/internal/script"
	"github.com/dshills/scrawl/internal/tool"
)

// Options configures a Studio.
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Backend backend.Backend

	// Document is the script to edit. Nil opens the configured preset.
	Document *Document

	// Watcher reloads Document when its file changes. Optional.
	Watcher watcher.Watcher

	// Record receives the tool's pointer events as JSON lines. Optional.
	Record io.Writer

	// Clipboard receives exported SVG. Nil uses the system clipboard.
	Clipboard func(string) error
}

// Studio is the live-coding environment.
type Studio struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend backend.Backend
	render  *renderer.Renderer
	watcher watcher.Watcher
	copy    func(string) error

	doc        *Document
	sub        *buffer.Subscription
	ctrlSub    *buffer.Subscription
	scene      *scene.Scene
	keys       *key.Registry
	pointer    *pointer.Handler
	machine    *tool.Machine
	controller *manip.Controller
	recorder   *Recorder

	program    *script.Program
	label      string
	compileErr error

	autoRefresh  bool
	needsCompile bool
	toolPressed  bool
	message      string
	messageErr   bool
	quit         bool

	running atomic.Bool
}

// New creates a studio. The backend is initialized by Run.
func New(opts Options) (*Studio, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	doc := opts.Document
	if doc == nil {
		var err error
		if doc, err = NewPresetDocument(cfg.Tool.Preset, cfg.Editor.TabWidth); err != nil {
			return nil, &InitError{Component: "document", Err: err}
		}
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	s := &Studio{
		cfg:         cfg,
		logger:      logger,
		backend:     opts.Backend,
		watcher:     opts.Watcher,
		copy:        copyFn,
		doc:         doc,
		scene:       scene.New(),
		keys:        key.NewRegistry(logger.Named("keys")),
		autoRefresh: cfg.Script.AutoRefresh,
	}
	s.scene.Background = cfg.Canvas.Background
	if opts.Record != nil {
		s.recorder = NewRecorder(opts.Record)
	}

	s.pointer = pointer.NewHandler(pointer.Config{
		DoubleClickTime:     cfg.Pointer.DoubleClick.Std(),
		DoubleClickDistance: 1,
		WheelUnits:          cfg.Pointer.WheelUnits,
		WheelUnitsFine:      cfg.Pointer.WheelUnitsFine,
	})
	s.machine = tool.NewMachine(
		tool.WithLogger(logger.Named("tool")),
		tool.WithTransformer(s.scene.ToolLayer()),
		tool.WithGuideLayer(s.scene.GuideLayer()),
		tool.WithShortcuts(finishBinder{s}),
		tool.WithErrorHandler(s.handlerFailed),
	)
	s.controller = manip.NewController(doc.Buffer,
		manip.WithLogger(logger.Named("manip")),
		manip.WithWheelDivisor(cfg.Manip.WheelDivisor),
		manip.WithBurstGap(cfg.Manip.BurstGap.Std()),
		manip.WithHueStep(cfg.Manip.HueStep),
	)

	s.attach(doc)
	s.bindShortcuts()
	s.compile()
	s.machine.Activate()

	if s.backend != nil {
		s.render = renderer.New(s.backend, renderer.Options{
			EditorWidth: cfg.Editor.Width,
			TabWidth:    cfg.Editor.TabWidth,
			CellWidth:   cfg.Canvas.CellWidth,
			CellHeight:  cfg.Canvas.CellHeight,
			Background:  cfg.Canvas.Background,
			GuideColor:  cfg.Canvas.GuideColor,
		})
	}
	return s, nil
}

// attach subscribes the controller and the studio to the document buffer.
// The controller goes first so literal state is current when the studio
// observes the change.
func (s *Studio) attach(doc *Document) {
	s.ctrlSub = s.controller.Attach(doc.Buffer)
	s.sub = doc.Buffer.Subscribe(func(c buffer.Change) {
		if c.Kind != buffer.ChangeText {
			return
		}
		doc.markChanged()
		if s.autoRefresh {
			s.needsCompile = true
		}
	})
}

// compile rebuilds the tool from the document. A failed compile leaves the
// tool with no handlers until the next good one.
func (s *Studio) compile() {
	s.needsCompile = false
	src := s.doc.Content()

	s.label = s.doc.Name
	params := map[string]any{}
	if def, err := tool.Parse(src); err != nil {
		s.logger.Warn("tool metadata ignored", zap.Error(err))
	} else {
		if def.Label != "" {
			s.label = def.Label
		}
		if params, err = def.ResolveParameters(s.cfg.Tool.Parameters); err != nil {
			s.logger.Warn("parameter overrides ignored", zap.Error(err))
			params = def.Defaults()
		}
	}

	prog, err := script.Compile(src, script.Bindings{
		Scene:          s.scene,
		Parameters:     params,
		Logger:         s.logger.Named("script"),
		HandlerTimeout: s.cfg.Script.HandlerTimeout.Std(),
		GuideColor:     s.cfg.Canvas.GuideColor,
		Finish:         func() { s.machine.End(context.Background()) },
	})

	old := s.program
	if err != nil {
		s.compileErr = err
		s.program = nil
		s.machine.Bind(nil, nil)
		s.setError(err)
		s.logger.Debug("compile failed", zap.Error(err))
	} else {
		s.compileErr = nil
		s.program = prog
		s.machine.Bind(prog.Handlers(), prog)
		s.setMessage(fmt.Sprintf("compiled: %v", prog.Handlers().Names()))
		s.logger.Debug("compiled", zap.Strings("handlers", prog.Handlers().Names()))
	}
	if old != nil {
		_ = old.Close()
	}
}

// handlerFailed reports a callback error on the status line.
func (s *Studio) handlerFailed(err error) {
	s.setError(err)
}

func (s *Studio) setMessage(msg string) {
	s.message, s.messageErr = msg, false
}

func (s *Studio) setError(err error) {
	s.message, s.messageErr = err.Error(), true
}

// Document returns the document being edited.
func (s *Studio) Document() *Document {
	return s.doc
}

// Scene returns the drawing.
func (s *Studio) Scene() *scene.Scene {
	return s.scene
}

// Machine returns the tool state machine.
func (s *Studio) Machine() *tool.Machine {
	return s.machine
}

// Controller returns the literal manipulation controller.
func (s *Studio) Controller() *manip.Controller {
	return s.controller
}

// CompileError returns the error of the last compile, if it failed.
func (s *Studio) CompileError() error {
	return s.compileErr
}

// AutoRefresh reports whether edits recompile the tool.
func (s *Studio) AutoRefresh() bool {
	return s.autoRefresh
}

// Message returns the status line message.
func (s *Studio) Message() string {
	return s.message
}

// Status returns the status line for the current state.
func (s *Studio) Status() renderer.Status {
	sess := s.machine.Session()
	state := "idle"
	switch {
	case s.compileErr != nil:
		state = "error"
	case sess.IsDragging:
		state = "dragging"
	case sess.IsDrawing:
		state = "drawing"
	}
	cursor := s.doc.Buffer.Cursor()
	st := renderer.Status{
		Tool:        s.label,
		State:       state,
		File:        s.doc.Name,
		Modified:    s.doc.IsModified(),
		Line:        cursor.Line,
		Column:      cursor.Column,
		Message:     s.message,
		Error:       s.messageErr,
		AutoRefresh: s.autoRefresh,
		Recording:   s.recorder != nil,
	}
	if m := s.controller.Active(); m != nil {
		st.Literal = m.Kind.String() + " " + m.Text
	}
	return st
}

// Frame returns what the renderer draws for the current state.
func (s *Studio) Frame() renderer.Frame {
	picker, handle := s.controller.Overlays()
	return renderer.Frame{
		Text:   s.doc.Buffer,
		Scene:  s.scene,
		Active: s.controller.Active(),
		Picker: picker,
		Handle: handle,
		Status: s.Status(),
	}
}

// Run initializes the backend and runs the event loop until quit or ctx
// is done.
func (s *Studio) Run(ctx context.Context) error {
	if s.backend == nil {
		return ErrNoBackend
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	if err := s.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer s.backend.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		s.backend.Interrupt(stopRequest{})
	}()
	if err := s.startWatcher(ctx); err != nil {
		s.logger.Warn("watch disabled", zap.Error(err))
		s.setError(err)
	}

	s.logger.Info("studio started", zap.String("file", s.doc.Name))
	defer s.close()
	for {
		s.render.Render(s.Frame())
		ev := s.backend.PollEvent()
		if ev.Type == backend.EventNone && ctx.Err() != nil {
			return nil
		}
		if err := s.HandleEvent(ctx, ev); err != nil {
			if errors.Is(err, ErrQuit) {
				s.logger.Info("studio stopped")
				return nil
			}
			return err
		}
	}
}

// close ends the session and releases the tool.
func (s *Studio) close() {
	ctx := context.Background()
	s.machine.Deactivate(ctx)
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.sub.Unsubscribe()
	s.ctrlSub.Unsubscribe()
	_ = s.program.Close()
}
