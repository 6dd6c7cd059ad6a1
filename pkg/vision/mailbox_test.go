package vision

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_Empty(t *testing.T) {
	m := NewMailbox()
	f := m.Latest()
	assert.Zero(t, f.FaceSeq)
	assert.Zero(t, f.HandsSeq)
	assert.Nil(t, f.Face)
	assert.Nil(t, f.Hands)
}

func TestMailbox_SequencesAreIndependent(t *testing.T) {
	m := NewMailbox()

	m.PublishFace(&Face{Detected: true})
	f := m.Latest()
	assert.EqualValues(t, 1, f.FaceSeq)
	assert.Zero(t, f.HandsSeq)

	m.PublishHands(&Hands{})
	m.PublishHands(&Hands{})
	f = m.Latest()
	assert.EqualValues(t, 1, f.FaceSeq)
	assert.EqualValues(t, 2, f.HandsSeq)
	require.NotNil(t, f.Face)
	assert.True(t, f.Face.Detected)
	assert.False(t, f.FaceAt.IsZero())
}

func TestMailbox_RepeatedReadingStillAdvances(t *testing.T) {
	m := NewMailbox()
	lost := &Face{Detected: false}
	m.PublishFace(lost)
	m.PublishFace(lost)
	assert.EqualValues(t, 2, m.Latest().FaceSeq)
}

func TestMailbox_SnapshotIsStable(t *testing.T) {
	m := NewMailbox()
	m.PublishFace(&Face{Detected: true})
	snap := m.Latest()

	m.PublishFace(&Face{Detected: false})
	assert.True(t, snap.Face.Detected, "earlier snapshot changed")
	assert.EqualValues(t, 1, snap.FaceSeq)
}

func TestMailbox_ConcurrentProducers(t *testing.T) {
	m := NewMailbox()
	const n = 500

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m.PublishFace(&Face{Detected: true})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m.PublishHands(&Hands{})
		}
	}()
	wg.Wait()

	f := m.Latest()
	assert.EqualValues(t, n, f.FaceSeq)
	assert.EqualValues(t, n, f.HandsSeq)
}
