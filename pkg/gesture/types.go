// Package gesture debounces per-hand gesture classifications into stable,
// decaying interaction state.
package gesture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownGesture is returned when a gesture name is not recognized.
	ErrUnknownGesture = errors.New("unknown gesture")

	// ErrUnknownHand is returned when a hand name is not recognized.
	ErrUnknownHand = errors.New("unknown hand")
)

// Gesture is a recognized hand pose.
type Gesture int

const (
	None Gesture = iota
	Push
	Attract
)

var gestureNames = [...]string{"none", "push", "attract"}

func (g Gesture) String() string {
	if g < 0 || int(g) >= len(gestureNames) {
		return fmt.Sprintf("gesture(%d)", int(g))
	}
	return gestureNames[g]
}

// MarshalText implements encoding.TextMarshaler.
func (g Gesture) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gesture) UnmarshalText(b []byte) error {
	v, err := ParseGesture(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGesture maps a wire name to a Gesture. Empty maps to None.
func ParseGesture(s string) (Gesture, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for i, n := range gestureNames {
		if n == s {
			return Gesture(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownGesture, s)
}

// Hand identifies a tracked hand.
type Hand int

const (
	Left Hand = iota
	Right
)

// Hands lists both hands in canonical order.
var Hands = [2]Hand{Left, Right}

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("hand(%d)", int(h))
}

// MarshalText implements encoding.TextMarshaler.
func (h Hand) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hand) UnmarshalText(b []byte) error {
	v, err := ParseHand(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// ParseHand maps a wire name to a Hand.
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Left, fmt.Errorf("%w: %q", ErrUnknownHand, s)
}

// Point is a normalized image-space position, x and y in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is the debounced state of one hand.
type Result struct {
	Gesture  Gesture `json:"gesture"`
	Active   bool    `json:"active"`
	Strength float64 `json:"strength"`
	Position *Point  `json:"position,omitempty"`
}
