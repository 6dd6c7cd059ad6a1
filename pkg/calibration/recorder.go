// Package calibration records raw blendshapes alongside classifier output
// so emotion thresholds can be tuned offline against real sessions.
package calibration

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/teslashibe/go-aura/pkg/emotion"
)

// ErrRecorderClosed is returned by Record after Close.
var ErrRecorderClosed = errors.New("calibration: recorder closed")

// schema.sql creates the sessions and samples tables.
//
//go:embed schema.sql
var schemaSQL string

const (
	bufferSize = 512
	batchSize  = 64
)

// Sample is one classified face reading.
type Sample struct {
	At          time.Time
	Blendshapes emotion.Blendshapes
	Raw         emotion.Scores
	Result      emotion.Result
}

// Recorder writes samples to SQLite on a background goroutine. Record
// never blocks: when the buffer is full the sample is dropped and counted.
type Recorder struct {
	db      *sql.DB
	session string
	logger  *slog.Logger

	samples chan Sample
	flush   chan chan error
	done    chan struct{}

	mu     sync.RWMutex // guards closed against concurrent Record
	closed bool

	written atomic.Uint64
	dropped atomic.Uint64
}

// Open creates or opens the database at path and starts a session.
func Open(path, session string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open calibration db: %w", err)
	}
	// One writer; readers queue behind it rather than failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init calibration schema: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO sessions (id, started_at) VALUES (?, ?)`,
		session, time.Now().UnixMilli()); err != nil {
		db.Close()
		return nil, fmt.Errorf("start calibration session: %w", err)
	}

	r := &Recorder{
		db:      db,
		session: session,
		logger:  logger.With("component", "calibration", "session", session),
		samples: make(chan Sample, bufferSize),
		flush:   make(chan chan error),
		done:    make(chan struct{}),
	}
	go r.run()

	r.logger.Info("calibration recorder opened", "path", path)
	return r, nil
}

// Session returns the session ID samples are recorded under.
func (r *Recorder) Session() string {
	return r.session
}

// Record queues a sample.
func (r *Recorder) Record(s Sample) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrRecorderClosed
	}

	select {
	case r.samples <- s:
	default:
		r.dropped.Add(1)
	}
	return nil
}

// Flush blocks until every sample queued before the call is written.
func (r *Recorder) Flush(ctx context.Context) error {
	ack := make(chan error, 1)
	select {
	case r.flush <- ack:
	case <-r.done:
		return ErrRecorderClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains queued samples and closes the database.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.samples)
	r.mu.Unlock()

	<-r.done
	r.logger.Info("calibration recorder closed",
		"written", r.written.Load(),
		"dropped", r.dropped.Load())
	return r.db.Close()
}

// Written returns how many samples reached the database.
func (r *Recorder) Written() uint64 {
	return r.written.Load()
}

// Dropped returns how many samples were discarded on a full buffer.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

func (r *Recorder) run() {
	defer close(r.done)

	batch := make([]Sample, 0, batchSize)
	write := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.insert(batch)
		if err != nil {
			r.logger.Warn("calibration write failed", "samples", len(batch), "error", err)
		} else {
			r.written.Add(uint64(len(batch)))
		}
		batch = batch[:0]
		return err
	}

	for {
		select {
		case s, ok := <-r.samples:
			if !ok {
				write()
				return
			}
			batch = append(batch, s)
			// Take whatever else is already queued before committing.
		drain:
			for len(batch) < batchSize {
				select {
				case s, ok := <-r.samples:
					if !ok {
						write()
						return
					}
					batch = append(batch, s)
				default:
					break drain
				}
			}
			write()

		case ack := <-r.flush:
			var err error
		pending:
			for {
				select {
				case s, ok := <-r.samples:
					if !ok {
						break pending
					}
					batch = append(batch, s)
					if len(batch) == batchSize {
						if wErr := write(); wErr != nil {
							err = wErr
						}
					}
				default:
					break pending
				}
			}
			if wErr := write(); wErr != nil {
				err = wErr
			}
			ack <- err
		}
	}
}

func (r *Recorder) insert(batch []Sample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO samples (session_id, at_ms, dominant, intensity,
			raw_happy, raw_sad, raw_angry, raw_surprised, raw_neutral, blendshapes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range batch {
		shapes, err := json.Marshal(s.Blendshapes)
		if err != nil {
			return fmt.Errorf("encode blendshapes: %w", err)
		}
		_, err = stmt.Exec(r.session, s.At.UnixMilli(), s.Result.Dominant.String(), s.Result.Intensity,
			s.Raw[emotion.Happy], s.Raw[emotion.Sad], s.Raw[emotion.Angry],
			s.Raw[emotion.Surprised], s.Raw[emotion.Neutral], string(shapes))
		if err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}
