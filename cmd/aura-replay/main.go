// aura-replay - vision producer for aura
// Replays a JSONL recording of producer messages, or generates a synthetic
// session that walks through every emotion and both hand gestures.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-aura/pkg/protocol"
)

// maxGap caps the pause between replayed messages.
const maxGap = 2 * time.Second

func main() {
	url := flag.String("url", "ws://localhost:8080/ws/vision/replay", "Aura producer endpoint")
	file := flag.String("file", "", "JSONL recording to replay (one protocol message per line)")
	loop := flag.Bool("loop", false, "Restart the recording when it ends")
	rate := flag.Int("rate", 30, "Synthetic readings per second")
	save := flag.String("save", "", "Also write every sent message to this JSONL file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, *url, nil)
	if err != nil {
		log.Fatalf("❌ Connect %s: %v", *url, err)
	}
	defer conn.Close()
	fmt.Printf("📡 Connected to %s\n", *url)

	go readReplies(conn)

	out := &sender{conn: conn}
	if *save != "" {
		f, err := os.Create(*save)
		if err != nil {
			log.Fatalf("❌ Create %s: %v", *save, err)
		}
		defer f.Close()
		out.save = bufio.NewWriter(f)
		defer out.save.Flush()
	}

	if *file != "" {
		err = replayFile(ctx, out, *file, *loop)
	} else {
		fmt.Println("🎭 No recording given, running synthetic demo (Ctrl+C to stop)")
		err = runDemo(ctx, out, *rate)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("❌ %v", err)
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	fmt.Printf("👋 Sent %d messages\n", out.sent)
}

// sender writes producer messages to the socket and optionally to a file.
type sender struct {
	conn *websocket.Conn
	save *bufio.Writer
	sent int
}

func (s *sender) send(data []byte) error {
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	s.sent++
	if s.save != nil {
		s.save.Write(data)
		s.save.WriteByte('\n')
	}
	return nil
}

func (s *sender) sendMessage(msg *protocol.Message, err error) error {
	if err != nil {
		return err
	}
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	return s.send(data)
}

// readReplies logs error and pong messages from the server.
func readReplies(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}
		switch msg.Type {
		case protocol.TypeError:
			if e, err := msg.GetErrorData(); err == nil {
				fmt.Printf("⚠️  Server rejected %s: %s\n", e.Type, e.Message)
			}
		case protocol.TypePong:
			if p, err := msg.GetPongData(); err == nil {
				fmt.Printf("🏓 Pong %s (%d ms)\n", p.ID, p.LatencyMs)
			}
		}
	}
}

// replayFile sends each line of path, keeping the recorded gaps between
// message timestamps.
func replayFile(ctx context.Context, out *sender, path string, loop bool) error {
	for {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		n, err := replay(ctx, out, f)
		f.Close()
		if err != nil {
			return err
		}
		fmt.Printf("📼 Replayed %d messages from %s\n", n, path)
		if !loop {
			return nil
		}
	}
}

func replay(ctx context.Context, out *sender, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // face meshes run to tens of KB

	var lastTS int64
	n := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var header struct {
			Timestamp int64 `json:"ts"`
		}
		if err := json.Unmarshal(line, &header); err != nil {
			fmt.Printf("⚠️  Skipping line %d: %v\n", n+1, err)
			continue
		}
		if lastTS != 0 && header.Timestamp > lastTS {
			gap := min(time.Duration(header.Timestamp-lastTS)*time.Millisecond, maxGap)
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case <-time.After(gap):
			}
		}
		lastTS = header.Timestamp

		if err := out.send(line); err != nil {
			return n, err
		}
		n++
	}
	return n, scanner.Err()
}

// runDemo sends synthetic readings at rate Hz until ctx is done. Face and
// hand readings alternate, the way a browser producer staggers its models.
func runDemo(ctx context.Context, out *sender, rate int) error {
	if rate <= 0 {
		rate = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	start := time.Now()
	var current string
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			t := now.Sub(start)
			if name := demoEmotion(t).String(); name != current {
				current = name
				fmt.Printf("🎭 %s\n", name)
			}

			var err error
			if i%2 == 0 {
				err = out.sendMessage(protocol.NewFaceMessage(demoFace(t)))
			} else {
				err = out.sendMessage(protocol.NewHandsMessage(demoHands(t)))
			}
			if err != nil {
				return err
			}
			if i%(rate*5) == 0 {
				err = out.sendMessage(protocol.NewPingMessage(fmt.Sprintf("demo-%d", i)))
				if err != nil {
					return err
				}
			}
		}
	}
}
