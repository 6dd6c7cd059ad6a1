package vision

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-aura/pkg/tracking/detection"
)

type stubFrames struct{ err error }

func (s stubFrames) CaptureJPEG() ([]byte, error) { return []byte{0xff, 0xd8}, s.err }

type stubDetector struct {
	dets []detection.Detection
	err  error
}

func (d *stubDetector) Detect([]byte) ([]detection.Detection, error) { return d.dets, d.err }
func (d *stubDetector) Close() error                                 { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalSource_PublishesBestFace(t *testing.T) {
	m := NewMailbox()
	det := &stubDetector{dets: []detection.Detection{
		{X: 0.1, Y: 0.1, W: 0.1, H: 0.1, Confidence: 0.6},
		{X: 0.4, Y: 0.3, W: 0.3, H: 0.4, Confidence: 0.9},
	}}
	src := NewLocalSource(stubFrames{}, det, m, time.Second, quietLogger())

	src.detectOnce()
	f := m.Latest()
	require.NotNil(t, f.Face)
	assert.True(t, f.Face.Detected)
	require.NotNil(t, f.Face.Box)
	assert.InDelta(t, 0.9, f.Face.Box.Confidence, 1e-9)
	assert.False(t, f.Face.HasExpression())
}

func TestLocalSource_NoFaceIsAReading(t *testing.T) {
	m := NewMailbox()
	src := NewLocalSource(stubFrames{}, &stubDetector{}, m, time.Second, quietLogger())

	src.detectOnce()
	src.detectOnce()
	f := m.Latest()
	require.NotNil(t, f.Face)
	assert.False(t, f.Face.Detected)
	assert.EqualValues(t, 2, f.FaceSeq)
	assert.Equal(t, 2, src.ConsecutiveMisses())
}

func TestLocalSource_CaptureErrorPublishesNothing(t *testing.T) {
	m := NewMailbox()
	src := NewLocalSource(stubFrames{err: errors.New("unplugged")}, &stubDetector{}, m, time.Second, quietLogger())

	src.detectOnce()
	assert.Zero(t, m.Latest().FaceSeq)
}
