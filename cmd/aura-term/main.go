// aura-term - terminal particle renderer
// Subscribes to an aura server's frame stream and draws each particle as a
// colored glyph. Press q, Esc or Ctrl+C to quit.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-aura/pkg/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws/frames", "Aura frame stream")
	aspect := flag.Float64("aspect", 16.0/9.0, "Scene half-width (must match the server)")
	fps := flag.Int("fps", 30, "Redraw rate")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Connect %s: %v\n", *url, err)
		os.Exit(1)
	}
	defer conn.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Terminal: %v\n", err)
		os.Exit(1)
	}

	v := &viewer{
		screen: screen,
		aspect: *aspect,
		url:    *url,
	}
	go v.receive(conn)
	v.run(*fps)
	screen.Fini()

	if err := v.err(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Stream ended: %v\n", err)
	}
}

// viewer owns the screen and the latest decoded frame.
type viewer struct {
	screen tcell.Screen
	aspect float64
	url    string

	mu       sync.Mutex
	frame    *protocol.ParticleFrame
	frames   int
	dropped  int
	closeErr error
}

// receive decodes frames until the connection fails.
func (v *viewer) receive(conn *websocket.Conn) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			v.mu.Lock()
			v.closeErr = err
			v.mu.Unlock()
			v.screen.PostEvent(tcell.NewEventInterrupt(err))
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}

		frame, err := protocol.DecodeParticleFrame(data)
		v.mu.Lock()
		if err != nil {
			v.dropped++
		} else {
			v.frame = frame
			v.frames++
		}
		v.mu.Unlock()
	}
}

func (v *viewer) err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closeErr
}

func (v *viewer) run(fps int) {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return
				}
			case *tcell.EventResize:
				v.screen.Sync()
			case *tcell.EventInterrupt:
				return
			}

		case <-ticker.C:
			v.draw()
		}
	}
}

func (v *viewer) draw() {
	v.mu.Lock()
	frame, frames, dropped := v.frame, v.frames, v.dropped
	v.mu.Unlock()

	v.screen.Clear()
	w, h := v.screen.Size()
	if frame != nil {
		for _, c := range cells(frame, w, h-1, v.aspect) {
			v.screen.SetContent(c.col, c.row, c.glyph, nil, tcell.StyleDefault.Foreground(c.color))
		}
	}

	status := fmt.Sprintf(" %s  frames=%d dropped=%d", v.url, frames, dropped)
	if frame != nil {
		status += fmt.Sprintf(" tick=%d particles=%d", frame.Tick, frame.Count)
	}
	for i, r := range status {
		if i >= w {
			break
		}
		v.screen.SetContent(i, h-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
	v.screen.Show()
}
