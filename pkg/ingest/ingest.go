// Package ingest accepts face and hand readings from vision producers over
// WebSocket and hands them to the tick loop through a mailbox.
package ingest

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-aura/pkg/debug"
	"github.com/teslashibe/go-aura/pkg/protocol"
	"github.com/teslashibe/go-aura/pkg/vision"
)

// Producer represents a connected vision producer
type Producer struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	faces atomic.Uint64
	hands atomic.Uint64
	mu    sync.Mutex
}

// Send sends a message to the producer
func (p *Producer) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Conn.WriteMessage(websocket.TextMessage, data)
}

// Server manages WebSocket connections from vision producers
type Server struct {
	mailbox *vision.Mailbox
	logger  *slog.Logger

	mu        sync.RWMutex
	producers map[string]*Producer

	// Stats
	messagesReceived atomic.Uint64
	facesReceived    atomic.Uint64
	handsReceived    atomic.Uint64
	errors           atomic.Uint64
}

// NewServer creates an ingest server publishing into mailbox
func NewServer(mailbox *vision.Mailbox, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		mailbox:   mailbox,
		logger:    logger.With("component", "ingest"),
		producers: make(map[string]*Producer),
	}
}

// RegisterRoutes registers WebSocket routes on a Fiber app
func (s *Server) RegisterRoutes(app *fiber.App) {
	// WebSocket upgrade middleware
	app.Use("/ws/vision", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Producer endpoint
	app.Get("/ws/vision", websocket.New(s.handleProducer))
	app.Get("/ws/vision/:id", websocket.New(s.handleProducer))
}

// handleProducer handles a producer WebSocket connection
func (s *Server) handleProducer(c *websocket.Conn) {
	// Get producer ID from path or generate one
	id := c.Params("id")
	if id == "" {
		id = uuid.NewString()
	}

	p := &Producer{
		ID:        id,
		Conn:      c,
		Connected: time.Now(),
		LastSeen:  time.Now(),
	}

	s.mu.Lock()
	s.producers[id] = p
	count := len(s.producers)
	s.mu.Unlock()

	s.logger.Info("producer connected", "producer", id, "total", count)

	defer func() {
		s.mu.Lock()
		if s.producers[id] == p {
			delete(s.producers, id)
		}
		count := len(s.producers)
		s.mu.Unlock()

		s.logger.Info("producer disconnected", "producer", id, "total", count)
	}()

	// Read loop
	for {
		mt, data, err := c.ReadMessage()
		if err != nil {
			debug.TrackLog("⚠️  Producer %s read error: %v\n", id, err)
			return
		}

		p.mu.Lock()
		p.LastSeen = time.Now()
		p.mu.Unlock()

		s.messagesReceived.Add(1)
		if mt != websocket.TextMessage {
			s.errors.Add(1)
			continue
		}
		s.handleMessage(p, data)
	}
}

// handleMessage processes an incoming message from a producer. Malformed
// messages are counted and answered with an error message.
func (s *Server) handleMessage(p *Producer, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		s.reject(p, "", err)
		return
	}

	switch msg.Type {
	case protocol.TypeFace:
		face, err := msg.GetFaceData()
		if err != nil {
			s.reject(p, msg.Type, err)
			return
		}
		sanitizeFace(face)
		s.mailbox.PublishFace(face)
		s.facesReceived.Add(1)
		p.faces.Add(1)
		debug.TrackLog("👤 %s face detected=%v shapes=%d\n", p.ID, face.Detected, len(face.Blendshapes))

	case protocol.TypeHands:
		hands, err := msg.GetHandsData()
		if err != nil {
			s.reject(p, msg.Type, err)
			return
		}
		s.mailbox.PublishHands(hands)
		s.handsReceived.Add(1)
		p.hands.Add(1)
		debug.TrackLog("✋ %s hands=%d\n", p.ID, len(hands.Observations))

	case protocol.TypePing:
		// Respond with pong
		ping, _ := msg.GetPingData()
		id := ""
		if ping != nil {
			id = ping.ID
		}
		pong, err := protocol.NewPongMessage(id, msg.Timestamp, time.Now().UnixMilli())
		if err == nil {
			p.Send(pong)
		}

	default:
		s.reject(p, msg.Type, fiber.NewError(fiber.StatusBadRequest, "unsupported message type"))
	}
}

func (s *Server) reject(p *Producer, t protocol.MessageType, err error) {
	s.errors.Add(1)
	s.logger.Debug("rejected message", "producer", p.ID, "type", t, "error", err)

	msg, mErr := protocol.NewErrorMessage(t, err)
	if mErr != nil {
		return
	}
	p.Send(msg)
}

// sanitizeFace clamps blendshape scores into [0,1] and drops non-finite ones.
func sanitizeFace(f *vision.Face) {
	for name, v := range f.Blendshapes {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			delete(f.Blendshapes, name)
		case v < 0:
			f.Blendshapes[name] = 0
		case v > 1:
			f.Blendshapes[name] = 1
		}
	}
}

// GetProducer returns a producer connection by ID
func (s *Server) GetProducer(id string) *Producer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.producers[id]
}

// ProducerCount returns the number of connected producers
func (s *Server) ProducerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.producers)
}

// Stats contains ingest statistics
type Stats struct {
	ProducerCount    int    `json:"producer_count"`
	MessagesReceived uint64 `json:"messages_received"`
	FacesReceived    uint64 `json:"faces_received"`
	HandsReceived    uint64 `json:"hands_received"`
	Errors           uint64 `json:"errors"`
}

// GetStats returns ingest statistics
func (s *Server) GetStats() Stats {
	return Stats{
		ProducerCount:    s.ProducerCount(),
		MessagesReceived: s.messagesReceived.Load(),
		FacesReceived:    s.facesReceived.Load(),
		HandsReceived:    s.handsReceived.Load(),
		Errors:           s.errors.Load(),
	}
}

// ProducerInfo contains info about a connected producer
type ProducerInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
	Faces     uint64    `json:"faces"`
	Hands     uint64    `json:"hands"`
}

// GetProducerInfos returns info about all connected producers
func (s *Server) GetProducerInfos() []ProducerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]ProducerInfo, 0, len(s.producers))
	for _, p := range s.producers {
		p.mu.Lock()
		infos = append(infos, ProducerInfo{
			ID:        p.ID,
			Connected: p.Connected,
			LastSeen:  p.LastSeen,
			Faces:     p.faces.Load(),
			Hands:     p.hands.Load(),
		})
		p.mu.Unlock()
	}
	return infos
}

// RegisterAPIRoutes registers API routes for producer inspection
func (s *Server) RegisterAPIRoutes(api fiber.Router) {
	producers := api.Group("/producers")

	// List connected producers
	producers.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"producers": s.GetProducerInfos(),
			"count":     s.ProducerCount(),
		})
	})

	// Get ingest stats
	producers.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(s.GetStats())
	})
}
