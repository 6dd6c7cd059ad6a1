package hub

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	gorilla "github.com/gorilla/websocket"
)

// serve runs h on addr at /ws and returns once the listener is up.
func serve(t *testing.T, h *Hub, addr string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		if c := NewClient(h, conn); c != nil {
			c.Run()
		}
	}))

	go app.Listen(addr)
	t.Cleanup(func() {
		cancel()
		app.Shutdown()
	})
	time.Sleep(100 * time.Millisecond)
}

func dial(t *testing.T, url string) *gorilla.Conn {
	t.Helper()
	ws, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within 1s")
}

func TestNew(t *testing.T) {
	h := New("test", nil)
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", h.ClientCount())
	}
	if h.IsRunning() {
		t.Error("hub should not be running before Run")
	}
	if got := h.GetStats().Name; got != "test" {
		t.Errorf("Name = %q, want test", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := New("stop", nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	waitFor(t, h.IsRunning)

	cancel()
	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if h.IsRunning() {
		t.Error("IsRunning should be false after Run returns")
	}
}

func TestBroadcastBinary(t *testing.T) {
	h := New("frames", nil)
	serve(t, h, ":18190")

	a := dial(t, "ws://localhost:18190/ws")
	b := dial(t, "ws://localhost:18190/ws")
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.BroadcastBinary([]byte{1, 2, 3})

	for _, ws := range []*gorilla.Conn{a, b} {
		ws.SetReadDeadline(time.Now().Add(time.Second))
		mt, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if mt != gorilla.BinaryMessage {
			t.Errorf("message type = %d, want binary", mt)
		}
		if len(data) != 3 || data[2] != 3 {
			t.Errorf("data = %v", data)
		}
	}

	if got := h.GetStats().Sent; got != 2 {
		t.Errorf("Sent = %d, want 2", got)
	}
	if infos := h.Clients(); len(infos) != 2 || infos[0].ID == "" {
		t.Errorf("Clients = %+v", infos)
	}
}

func TestBroadcastJSON(t *testing.T) {
	h := New("status", nil)
	serve(t, h, ":18191")

	ws := dial(t, "ws://localhost:18191/ws")
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	if err := h.BroadcastJSON(map[string]int{"tick": 7}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(time.Second))
	mt, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mt != gorilla.TextMessage {
		t.Errorf("message type = %d, want text", mt)
	}
	if string(data) != `{"tick":7}` {
		t.Errorf("data = %s", data)
	}
}

func TestOnMessageAndReply(t *testing.T) {
	h := New("echo", nil)
	h.OnMessage(func(c *Client, data []byte) {
		c.Send(NewJSONMessage(append([]byte("echo:"), data...)))
	})
	serve(t, h, ":18192")

	ws := dial(t, "ws://localhost:18192/ws")
	ws.WriteMessage(gorilla.TextMessage, []byte("hi"))

	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "echo:hi" {
		t.Errorf("reply = %q, want echo:hi", data)
	}
}

func TestClientDisconnect(t *testing.T) {
	h := New("disconnect", nil)
	serve(t, h, ":18193")

	ws := dial(t, "ws://localhost:18193/ws")
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	ws.Close()
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestBroadcastWithoutRunSkips(t *testing.T) {
	h := New("idle", nil)
	for i := 0; i < cap(h.broadcast)+5; i++ {
		h.Broadcast(NewJSONMessage([]byte("{}")))
	}
	if got := h.GetStats().Skipped; got != 5 {
		t.Errorf("Skipped = %d, want 5", got)
	}
}

func TestSendAfterHubStops(t *testing.T) {
	h := New("test", nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan Message, 1), id: "direct"}
	h.register <- c
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	if !c.Send(NewJSONMessage([]byte(`{}`))) {
		t.Fatal("first send should be queued")
	}
	if c.Send(NewJSONMessage([]byte(`{}`))) {
		t.Error("send on a full buffer should report false")
	}

	cancel()
	<-h.done

	if c.Send(NewJSONMessage([]byte(`{}`))) {
		t.Error("send after the hub dropped the client should report false")
	}
	c.close()
}
