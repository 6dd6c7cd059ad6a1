package protocol

import (
	"errors"
	"testing"
)

func sampleFrame(n int) (pos, col, size, life []float32) {
	pos = make([]float32, 3*n)
	col = make([]float32, 3*n)
	size = make([]float32, n)
	life = make([]float32, n)
	for i := 0; i < n; i++ {
		pos[3*i] = float32(i) * 0.1
		pos[3*i+1] = -float32(i) * 0.2
		col[3*i] = 1
		col[3*i+2] = float32(i) / float32(n)
		size[i] = 4 + float32(i)
		life[i] = 1 - float32(i)/float32(n)
	}
	return
}

func TestParticleFrameRoundTrip(t *testing.T) {
	pos, col, size, life := sampleFrame(5)

	data := EncodeParticleFrame(42, 5, pos, col, size, life)
	if len(data) != FrameSize(5) {
		t.Fatalf("len = %d, want %d", len(data), FrameSize(5))
	}
	if string(data[:4]) != FrameMagic {
		t.Errorf("magic = %q", data[:4])
	}

	f, err := DecodeParticleFrame(data)
	if err != nil {
		t.Fatalf("DecodeParticleFrame() error = %v", err)
	}
	if f.Tick != 42 || f.Count != 5 {
		t.Errorf("tick/count = %d/%d, want 42/5", f.Tick, f.Count)
	}
	for i := range pos {
		if f.Positions[i] != pos[i] || f.Colors[i] != col[i] {
			t.Fatalf("mismatch at %d", i)
		}
	}
	for i := range size {
		if f.Sizes[i] != size[i] || f.Lifetimes[i] != life[i] {
			t.Fatalf("mismatch at %d", i)
		}
	}
}

func TestParticleFramePrefix(t *testing.T) {
	// Only the first n particles of larger views are encoded.
	pos, col, size, life := sampleFrame(10)

	f, err := DecodeParticleFrame(EncodeParticleFrame(1, 3, pos, col, size, life))
	if err != nil {
		t.Fatalf("DecodeParticleFrame() error = %v", err)
	}
	if f.Count != 3 || len(f.Sizes) != 3 || len(f.Positions) != 9 {
		t.Errorf("count=%d sizes=%d positions=%d", f.Count, len(f.Sizes), len(f.Positions))
	}
	if f.Sizes[2] != size[2] {
		t.Errorf("Sizes[2] = %v, want %v", f.Sizes[2], size[2])
	}
}

func TestParticleFrameEmpty(t *testing.T) {
	f, err := DecodeParticleFrame(EncodeParticleFrame(7, 0, nil, nil, nil, nil))
	if err != nil {
		t.Fatalf("DecodeParticleFrame() error = %v", err)
	}
	if f.Count != 0 || f.Tick != 7 {
		t.Errorf("frame = %+v", f)
	}
}

func TestDecodeParticleFrameErrors(t *testing.T) {
	pos, col, size, life := sampleFrame(4)
	good := EncodeParticleFrame(1, 4, pos, col, size, life)

	badMagic := append([]byte(nil), good...)
	copy(badMagic, "NOPE")

	badVersion := append([]byte(nil), good...)
	badVersion[4] = 9

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrShortFrame},
		{"header only", good[:FrameHeaderSize-1], ErrShortFrame},
		{"truncated body", good[:len(good)-1], ErrShortFrame},
		{"bad magic", badMagic, ErrBadMagic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeParticleFrame(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeParticleFrame(badVersion); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func BenchmarkEncodeParticleFrame(b *testing.B) {
	pos, col, size, life := sampleFrame(1500)
	buf := make([]byte, 0, FrameSize(1500))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = AppendParticleFrame(buf[:0], uint32(i), 1500, pos, col, size, life)
	}
}
