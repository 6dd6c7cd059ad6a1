package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Binary particle frame layout, little endian:
//
//	0   magic "AURA"
//	4   version (uint8)
//	5   reserved (3 bytes)
//	8   tick (uint32)
//	12  active count n (uint32)
//	16  positions  3n float32
//	    colors     3n float32
//	    sizes       n float32
//	    lifetimes   n float32
const (
	FrameMagic      = "AURA"
	FrameVersion    = 1
	FrameHeaderSize = 16

	floatsPerParticle = 8
)

var (
	// ErrShortFrame is returned when a frame is truncated.
	ErrShortFrame = errors.New("protocol: short particle frame")
	// ErrBadMagic is returned when a frame does not start with FrameMagic.
	ErrBadMagic = errors.New("protocol: bad particle frame magic")
)

// ParticleFrame is a decoded particle frame. Slices hold exactly Count
// particles (3 floats per position and color).
type ParticleFrame struct {
	Tick      uint32
	Count     int
	Positions []float32
	Colors    []float32
	Sizes     []float32
	Lifetimes []float32
}

// FrameSize returns the encoded size of a frame holding n particles.
func FrameSize(n int) int {
	return FrameHeaderSize + n*floatsPerParticle*4
}

// EncodeParticleFrame encodes the first n particles of the given
// structure-of-arrays views into a new buffer.
func EncodeParticleFrame(tick uint32, n int, positions, colors, sizes, lifetimes []float32) []byte {
	return AppendParticleFrame(make([]byte, 0, FrameSize(n)), tick, n, positions, colors, sizes, lifetimes)
}

// AppendParticleFrame appends an encoded frame to dst.
func AppendParticleFrame(dst []byte, tick uint32, n int, positions, colors, sizes, lifetimes []float32) []byte {
	dst = append(dst, FrameMagic...)
	dst = append(dst, FrameVersion, 0, 0, 0)
	dst = binary.LittleEndian.AppendUint32(dst, tick)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(n))
	dst = appendFloats(dst, positions[:3*n])
	dst = appendFloats(dst, colors[:3*n])
	dst = appendFloats(dst, sizes[:n])
	dst = appendFloats(dst, lifetimes[:n])
	return dst
}

// DecodeParticleFrame decodes a binary particle frame.
func DecodeParticleFrame(data []byte) (*ParticleFrame, error) {
	if len(data) < FrameHeaderSize {
		return nil, ErrShortFrame
	}
	if string(data[:4]) != FrameMagic {
		return nil, ErrBadMagic
	}
	if v := data[4]; v != FrameVersion {
		return nil, fmt.Errorf("protocol: unsupported frame version %d", v)
	}

	n := int(binary.LittleEndian.Uint32(data[12:16]))
	if n < 0 || len(data) < FrameSize(n) {
		return nil, ErrShortFrame
	}

	f := &ParticleFrame{
		Tick:  binary.LittleEndian.Uint32(data[8:12]),
		Count: n,
	}
	body := data[FrameHeaderSize:]
	f.Positions, body = readFloats(body, 3*n)
	f.Colors, body = readFloats(body, 3*n)
	f.Sizes, body = readFloats(body, n)
	f.Lifetimes, _ = readFloats(body, n)
	return f, nil
}

func appendFloats(dst []byte, src []float32) []byte {
	for _, v := range src {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

func readFloats(src []byte, n int) ([]float32, []byte) {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return out, src[4*n:]
}
