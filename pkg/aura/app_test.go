package aura

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-aura/internal/config"
	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/vision"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = ""

	_, err := New(Options{Config: cfg}, nil)

	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "server.port", cerr.Field)
}

func TestRunRecordsClassifications(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = "18210"
	cfg.Engine.Seed = 7
	cfg.Calibration.Path = filepath.Join(t.TempDir(), "calibration.db")

	app, err := New(Options{Config: cfg}, nil)
	require.NoError(t, err)
	require.NoError(t, app.Init())

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(100 * time.Millisecond)
		app.mailbox.PublishFace(&vision.Face{
			Detected: true,
			Blendshapes: emotion.Blendshapes{
				"mouthSmileLeft":  0.9,
				"mouthSmileRight": 0.9,
				"cheekSquintLeft": 0.6,
			},
		})
	}()

	require.NoError(t, app.Run(ctx))

	require.NoError(t, app.recorder.Flush(context.Background()))
	summary, err := app.recorder.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total, "one reading is classified once")
	assert.Equal(t, app.Engine().SessionID(), summary.Session)

	app.Shutdown()
	assert.Nil(t, app.local)
}
