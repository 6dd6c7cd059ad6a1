package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-aura/pkg/engine"
	"github.com/teslashibe/go-aura/pkg/hub"
	"github.com/teslashibe/go-aura/pkg/protocol"
)

// handleStatus returns the latest engine status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.engine.Status())
}

// handleConfig returns the active engine configuration
func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.engine.Config())
}

// handleGetTuning returns the current tunable parameters
func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(engine.TuningFromConfig(s.engine.Config()))
}

// handlePutTuning queues a tuning update. Zero fields are left unchanged.
// The update is validated on the next tick, so acceptance here does not
// guarantee it is applied.
func (s *Server) handlePutTuning(c *fiber.Ctx) error {
	var p engine.TuningParams
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid tuning body: " + err.Error(),
		})
	}

	if err := s.engine.ApplyTuning(p); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, engine.ErrTuningBusy) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.logger.Info("tuning queued", "params", p)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
		"tuning": p,
	})
}

// handleHubs returns broadcast hub statistics
func (s *Server) handleHubs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"frames": s.frameHub.GetStats(),
		"status": s.statusHub.GetStats(),
	})
}

// handleCalibrationSummary aggregates the current recording session
func (s *Server) handleCalibrationSummary(c *fiber.Ctx) error {
	if s.recorder == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "calibration recording is disabled",
		})
	}

	summary, err := s.recorder.Summary(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}

// handleFramesWS streams binary particle frames
func (s *Server) handleFramesWS(conn *websocket.Conn) {
	client := hub.NewClient(s.frameHub, conn)
	if client == nil {
		return
	}
	client.Run()
}

// handleStatusWS streams status snapshots and accepts tuning messages
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	client := hub.NewClient(s.statusHub, conn)
	if client == nil {
		return
	}

	// Send current status
	if msg, err := protocol.NewMessage(protocol.TypeStatus, s.engine.Status()); err == nil {
		if data, err := msg.Bytes(); err == nil {
			client.Send(hub.NewJSONMessage(data))
		}
	}

	client.Run()
}

// handleStatusMessage handles text messages from status clients.
func (s *Server) handleStatusMessage(c *hub.Client, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		s.replyError(c, "", err)
		return
	}

	switch msg.Type {
	case protocol.TypeTuning:
		var p engine.TuningParams
		if err := msg.ParseData(&p); err != nil {
			s.replyError(c, msg.Type, err)
			return
		}
		if err := s.engine.ApplyTuning(p); err != nil {
			s.replyError(c, msg.Type, err)
			return
		}
		s.logger.Info("tuning queued", "client", c.ID(), "params", p)

	case protocol.TypePing:
		ping, _ := msg.GetPingData()
		id := ""
		if ping != nil {
			id = ping.ID
		}
		if pong, err := protocol.NewPongMessage(id, msg.Timestamp, time.Now().UnixMilli()); err == nil {
			s.reply(c, pong)
		}

	default:
		s.replyError(c, msg.Type, fiber.NewError(fiber.StatusBadRequest, "unsupported message type"))
	}
}

func (s *Server) replyError(c *hub.Client, t protocol.MessageType, err error) {
	s.logger.Debug("rejected status message", "client", c.ID(), "type", t, "error", err)
	if msg, mErr := protocol.NewErrorMessage(t, err); mErr == nil {
		s.reply(c, msg)
	}
}

func (s *Server) reply(c *hub.Client, msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	c.Send(hub.NewJSONMessage(data))
}
