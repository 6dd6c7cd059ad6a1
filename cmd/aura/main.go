// Aura - webcam-reactive particle server
// Vision producers stream face and hand readings in; renderers stream
// particle frames out.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/teslashibe/go-aura/internal/config"
	alog "github.com/teslashibe/go-aura/internal/log"
	"github.com/teslashibe/go-aura/pkg/aura"
	"github.com/teslashibe/go-aura/pkg/camera"
	"github.com/teslashibe/go-aura/pkg/engine"
)

func main() {
	opts := parseFlags()

	alog.Init(config.LogLevel())

	cfg := opts.Config
	alog.Debug("configuration resolved",
		"port", cfg.Server.Port,
		"tick_rate", cfg.Engine.TickRate,
		"capacity", cfg.Engine.Particles.Capacity,
		"camera", cfg.Camera.Enabled,
		"calibration", cfg.Calibration.Path)

	app, err := aura.New(opts, alog.With("service", "aura"))
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if err := app.Init(); err != nil {
		log.Fatalf("❌ Initialization failed: %v", err)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("❌ Runtime error: %v", err)
	}
	alog.Info("aura stopped")
}

// parseFlags parses command line flags and returns options.
func parseFlags() aura.Options {
	configPath := flag.String("config", "", "YAML config file (overrides AURA_CONFIG env var)")
	port := flag.String("port", "", "HTTP port (overrides AURA_PORT env var)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	debugTracking := flag.Bool("debug-tracking", false, "Log every vision reading")
	debugTicks := flag.Bool("debug-ticks", false, "Log a tick summary once per second")
	cameraOn := flag.Bool("camera", false, "Feed face position from a local webcam")
	preset := flag.String("camera-preset", "", "Camera preset: "+strings.Join(camera.PresetNames(), ", "))
	device := flag.Int("device", -1, "Camera device index")
	model := flag.String("model", "", "YuNet face detection model path")
	record := flag.String("record", "", "Record blendshapes to this SQLite file")
	lowPower := flag.Bool("low-power", false, "Smaller particle pool and a more patient quality controller")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	if *lowPower {
		lp := engine.LowPowerConfig()
		cfg.Engine.Particles, cfg.Engine.Quality = lp.Particles, lp.Quality
	}
	cfg.Server.Port = config.Port(cfg.Server.Port)
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *cameraOn {
		cfg.Camera.Enabled = true
	}
	if *preset != "" {
		p := camera.GetPreset(*preset)
		if p == nil {
			log.Fatalf("❌ Unknown camera preset %q", *preset)
		}
		cfg.Camera.Capture = *p
	}
	if *device >= 0 {
		cfg.Camera.Capture.Device = *device
	}
	if *model != "" {
		cfg.Camera.Detector.ModelPath = *model
	}
	if *record != "" {
		cfg.Calibration.Path = *record
	}

	return aura.Options{
		Config:        cfg,
		Debug:         *debug,
		DebugTracking: *debugTracking,
		DebugTicks:    *debugTicks,
	}
}
