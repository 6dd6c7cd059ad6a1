// Package aura wires the engine, transport and optional local vision into
// one runnable server.
package aura

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-aura/internal/config"
	"github.com/teslashibe/go-aura/pkg/calibration"
	"github.com/teslashibe/go-aura/pkg/camera/webcam"
	"github.com/teslashibe/go-aura/pkg/debug"
	"github.com/teslashibe/go-aura/pkg/engine"
	"github.com/teslashibe/go-aura/pkg/ingest"
	"github.com/teslashibe/go-aura/pkg/tracking/detection/yunet"
	"github.com/teslashibe/go-aura/pkg/vision"
	"github.com/teslashibe/go-aura/pkg/web"
)

// Options holds everything the aura command decides before startup.
// Flag parsing is done in cmd/aura/main.go; this struct is data only.
type Options struct {
	Config config.Config

	// Debug output toggles.
	Debug         bool
	DebugTracking bool
	DebugTicks    bool
}

// App is the aura server. It manages all components and their lifecycle.
type App struct {
	opts   Options
	logger *slog.Logger

	// Core
	mailbox *vision.Mailbox
	engine  *engine.Engine

	// Transport
	ingest    *ingest.Server
	webServer *web.Server

	// Optional components
	recorder *calibration.Recorder
	capture  *webcam.Capture
	detector *yunet.Detector
	local    *vision.LocalSource
}

// New creates an app. Nothing is opened until Init.
func New(opts Options, logger *slog.Logger) (*App, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	debug.Enabled = opts.Debug
	debug.Tracking = opts.DebugTracking
	debug.Ticks = opts.DebugTicks

	return &App{opts: opts, logger: logger}, nil
}

// Init creates every component.
// Call this after New() and before Run().
func (a *App) Init() error {
	cfg := a.opts.Config

	fmt.Println("✨ Aura - webcam-reactive particles")
	fmt.Println("===================================")
	if debug.Enabled {
		fmt.Println("🐛 Debug mode enabled")
	}

	a.mailbox = vision.NewMailbox()
	eng, err := engine.New(cfg.Engine, a.mailbox, a.logger)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	a.engine = eng
	fmt.Printf("🎆 Engine: %d particles at %d Hz (session %s)\n",
		cfg.Engine.Particles.Capacity, cfg.Engine.TickRate, eng.SessionID())

	if cfg.Calibration.Path != "" {
		if err := a.initRecorder(cfg.Calibration.Path); err != nil {
			return fmt.Errorf("calibration: %w", err)
		}
	}

	if cfg.Camera.Enabled {
		if err := a.initLocalVision(cfg.Camera); err != nil {
			fmt.Printf("⚠️  Local camera disabled: %v\n", err)
			a.closeLocalVision()
		}
	}

	a.ingest = ingest.NewServer(a.mailbox, a.logger)
	a.webServer = web.NewServer(cfg.Server, a.engine, a.ingest, a.recorder, a.logger)
	debug.Logln("🔌 Routes: /api/{status,config,tuning,hubs,producers,calibration/summary} /ws/{frames,status,vision/:id}")
	return nil
}

// Run serves until ctx is cancelled or the web server fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- a.webServer.Start(ctx)
	}()
	if a.local != nil {
		go a.local.Run(ctx)
	}

	fmt.Printf("📡 Producers: ws://localhost:%s/ws/vision/:id\n", a.opts.Config.Server.Port)
	fmt.Println("   (Ctrl+C to exit)")

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.engine.Run(ctx, a.webServer, a.webServer)
	}()

	var err error
	select {
	case err = <-errc:
		cancel()
	case <-ctx.Done():
		err = <-errc
	}
	<-done
	return err
}

// Shutdown releases everything Init opened.
func (a *App) Shutdown() {
	fmt.Println("\n👋 Goodbye!")

	a.closeLocalVision()
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			a.logger.Warn("close calibration recorder", "error", err)
		}
	}
}

// Engine returns the running engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

func (a *App) initRecorder(path string) error {
	rec, err := calibration.Open(path, a.engine.SessionID(), a.logger)
	if err != nil {
		return err
	}
	a.recorder = rec

	a.engine.OnClassification(engine.ClassificationFunc(func(c engine.Classification) {
		// Record never blocks the tick loop; a full buffer drops the sample.
		rec.Record(calibration.Sample{
			At:          c.At,
			Blendshapes: c.Blendshapes,
			Raw:         c.Raw,
			Result:      c.Result,
		})
	}))
	fmt.Printf("📝 Recording blendshapes to %s\n", path)
	return nil
}

func (a *App) initLocalVision(cfg config.LocalVisionConfig) error {
	capture, err := webcam.Open(cfg.Capture)
	if err != nil {
		return err
	}
	a.capture = capture

	detector, err := yunet.New(cfg.Detector)
	if err != nil {
		return err
	}
	a.detector = detector

	a.local = vision.NewLocalSource(capture, detector, a.mailbox, cfg.Interval, a.logger)
	fmt.Printf("📷 Local camera %d (%dx%d) feeding face position\n",
		cfg.Capture.Device, cfg.Capture.Width, cfg.Capture.Height)
	return nil
}

func (a *App) closeLocalVision() {
	if a.detector != nil {
		a.detector.Close()
		a.detector = nil
	}
	if a.capture != nil {
		a.capture.Close()
		a.capture = nil
	}
	a.local = nil
}
