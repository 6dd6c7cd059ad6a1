package vision

import (
	"sync/atomic"
	"time"
)

// Mailbox hands the latest readings to the tick goroutine. Producers
// publish whole readings; the consumer loads the newest snapshot without
// locking. Older unread readings are overwritten, never queued.
type Mailbox struct {
	cur atomic.Pointer[Frame]
	now func() time.Time
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	m := &Mailbox{now: time.Now}
	m.cur.Store(&Frame{})
	return m
}

// PublishFace stores a face reading. The reading must not be modified
// after publishing.
func (m *Mailbox) PublishFace(f *Face) {
	at := m.now()
	for {
		old := m.cur.Load()
		next := *old
		next.Face = f
		next.FaceSeq = old.FaceSeq + 1
		next.FaceAt = at
		if m.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}

// PublishHands stores a hand reading. The reading must not be modified
// after publishing.
func (m *Mailbox) PublishHands(h *Hands) {
	at := m.now()
	for {
		old := m.cur.Load()
		next := *old
		next.Hands = h
		next.HandsSeq = old.HandsSeq + 1
		next.HandsAt = at
		if m.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Latest returns the newest snapshot.
func (m *Mailbox) Latest() Frame {
	return *m.cur.Load()
}
