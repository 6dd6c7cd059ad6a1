package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-aura/pkg/protocol"
)

// Size thresholds for glyph selection, in pixels.
const (
	smallSize = 3
	largeSize = 7
)

// cell is one particle mapped onto the terminal grid.
type cell struct {
	col, row int
	glyph    rune
	color    tcell.Color
}

// project maps a scene point (x in [-aspect, aspect], y in [-1, 1], y up)
// onto a w×h grid. It reports false for points outside the view.
func project(x, y, aspect float64, w, h int) (col, row int, ok bool) {
	if w <= 0 || h <= 0 || aspect <= 0 {
		return 0, 0, false
	}
	u := (x/aspect + 1) / 2
	v := (1 - y) / 2
	if u < 0 || u >= 1 || v < 0 || v >= 1 {
		return 0, 0, false
	}
	return int(u * float64(w)), int(v * float64(h)), true
}

// glyph picks a character by particle size.
func glyph(size float32) rune {
	switch {
	case size < smallSize:
		return '·'
	case size < largeSize:
		return '•'
	default:
		return '●'
	}
}

// fade scales a [0,1] color channel by remaining life.
func fade(c, life float32) int32 {
	v := c * (1 - life)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int32(v * 255)
}

// cells maps every visible particle in f onto the grid. Later particles
// overwrite earlier ones in the same cell.
func cells(f *protocol.ParticleFrame, w, h int, aspect float64) []cell {
	out := make([]cell, 0, f.Count)
	for i := 0; i < f.Count; i++ {
		col, row, ok := project(float64(f.Positions[3*i]), float64(f.Positions[3*i+1]), aspect, w, h)
		if !ok {
			continue
		}
		life := f.Lifetimes[i]
		out = append(out, cell{
			col:   col,
			row:   row,
			glyph: glyph(f.Sizes[i]),
			color: tcell.NewRGBColor(
				fade(f.Colors[3*i], life),
				fade(f.Colors[3*i+1], life),
				fade(f.Colors[3*i+2], life),
			),
		})
	}
	return out
}
