// Package web serves the aura HTTP API and the renderer WebSockets.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-aura/pkg/calibration"
	"github.com/teslashibe/go-aura/pkg/engine"
	"github.com/teslashibe/go-aura/pkg/hub"
	"github.com/teslashibe/go-aura/pkg/ingest"
	"github.com/teslashibe/go-aura/pkg/protocol"
)

// Config holds server settings.
type Config struct {
	Port      string `json:"port" yaml:"port"`
	FrameRate int    `json:"frame_rate" yaml:"frame_rate"` // max particle frames per second per client
	StaticDir string `json:"static_dir" yaml:"static_dir"` // renderer assets, empty to disable
}

// DefaultConfig returns the stock server settings.
func DefaultConfig() Config {
	return Config{
		Port:      "8080",
		FrameRate: 30,
	}
}

// Server is the aura web server. It implements engine.FrameSink and
// engine.StatusSink.
type Server struct {
	app    *fiber.App
	cfg    Config
	logger *slog.Logger

	engine   *engine.Engine
	ingest   *ingest.Server
	recorder *calibration.Recorder

	// Hubs for websocket broadcast
	frameHub  *hub.Hub
	statusHub *hub.Hub

	// Touched only by the tick goroutine through WantsFrame
	frameInterval time.Duration
	lastFrame     time.Time
}

// NewServer creates a server for eng. Producers connect through ing.
// recorder may be nil.
func NewServer(cfg Config, eng *engine.Engine, ing *ingest.Server, recorder *calibration.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultConfig().FrameRate
	}

	s := &Server{
		cfg:           cfg,
		logger:        logger.With("component", "web"),
		engine:        eng,
		ingest:        ing,
		recorder:      recorder,
		frameHub:      hub.New("frames", logger),
		statusHub:     hub.New("status", logger),
		frameInterval: time.Second / time.Duration(cfg.FrameRate),
	}
	s.statusHub.OnMessage(s.handleStatusMessage)

	app := fiber.New(fiber.Config{
		AppName:               "Aura",
		DisableStartupMessage: true,
	})

	// CORS for local renderer development
	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)
	api.Get("/tuning", s.handleGetTuning)
	api.Put("/tuning", s.handlePutTuning)
	api.Get("/hubs", s.handleHubs)
	api.Get("/calibration/summary", s.handleCalibrationSummary)
	if ing != nil {
		ing.RegisterAPIRoutes(api)
		ing.RegisterRoutes(app)
	}

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the hubs and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	fmt.Printf("🌐 Aura server: http://localhost:%s\n", s.cfg.Port)

	go s.frameHub.Run(ctx)
	go s.statusHub.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Listen(":" + s.cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown web server: %w", err)
		}
		return nil
	}
}

// WantsFrame reports whether a frame should be encoded this tick: at
// least one frame client is connected and FrameRate allows another.
func (s *Server) WantsFrame() bool {
	if s.frameHub.ClientCount() == 0 {
		return false
	}
	now := time.Now()
	if now.Sub(s.lastFrame) < s.frameInterval {
		return false
	}
	s.lastFrame = now
	return true
}

// PublishFrame broadcasts an encoded particle frame.
func (s *Server) PublishFrame(frame []byte) {
	s.frameHub.BroadcastBinary(frame)
}

// PublishStatus broadcasts a status snapshot to status clients.
func (s *Server) PublishStatus(st *engine.Status) {
	if s.statusHub.ClientCount() == 0 {
		return
	}
	msg, err := protocol.NewMessage(protocol.TypeStatus, st)
	if err != nil {
		s.logger.Warn("encode status failed", "error", err)
		return
	}
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	s.statusHub.Broadcast(hub.NewJSONMessage(data))
}

var (
	_ engine.FrameSink  = (*Server)(nil)
	_ engine.StatusSink = (*Server)(nil)
)
