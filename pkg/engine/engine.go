package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-aura/pkg/debug"
	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
	"github.com/teslashibe/go-aura/pkg/particles"
	"github.com/teslashibe/go-aura/pkg/protocol"
	"github.com/teslashibe/go-aura/pkg/quality"
	"github.com/teslashibe/go-aura/pkg/tracking"
	"github.com/teslashibe/go-aura/pkg/vision"
)

// Engine owns all simulation state. Step and Run must be called from a
// single goroutine; Status, Config and ApplyTuning are safe from any.
type Engine struct {
	cfg       Config
	logger    *slog.Logger
	sessionID string

	mailbox    *vision.Mailbox
	classifier *emotion.Classifier
	emotions   *emotion.State
	winks      *emotion.WinkDetector
	hands      *gesture.Set
	pool       *particles.Pool
	emitter    *particles.Emitter
	fireworks  *particles.Fireworks
	turbulence *particles.Turbulence
	scaler     *quality.Scaler
	anchor     *tracking.FaceAnchor
	observer   ClassificationObserver

	// Tick state
	tick        uint64
	faceSeq     uint64
	handsSeq    uint64
	faceIdle    time.Duration
	handIdle    time.Duration // since the hand states were last updated
	handsStale  bool          // readings timed out; hands decay tick by tick
	facePresent bool
	result      emotion.Result
	profile     emotion.Profile

	tuning chan TuningParams
	status atomic.Pointer[Status]
	config atomic.Pointer[Config]
}

// New creates an engine reading vision inputs from mailbox.
func New(cfg Config, mailbox *vision.Mailbox, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if mailbox == nil {
		mailbox = vision.NewMailbox()
	}
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	e := &Engine{
		cfg:        cfg,
		sessionID:  uuid.NewString(),
		mailbox:    mailbox,
		classifier: emotion.NewClassifier(cfg.Classifier),
		emotions:   emotion.NewState(cfg.Emotion),
		winks:      emotion.NewWinkDetector(cfg.Wink),
		hands:      gesture.NewSet(cfg.Gesture),
		pool:       particles.NewPool(cfg.Particles),
		emitter:    particles.NewEmitter(cfg.Particles, rng),
		fireworks:  particles.NewFireworks(cfg.Particles.Firework, rng),
		turbulence: particles.NewTurbulence(cfg.Particles),
		anchor:     tracking.NewFaceAnchor(cfg.Tracking),
		tuning:     make(chan TuningParams, 8),
	}
	e.logger = logger.With("component", "engine", "session", e.sessionID)
	e.scaler = quality.NewScaler(cfg.Quality, e.pool)
	e.scaler.OnChange(func(old, next int) {
		e.logger.Info("particle ceiling changed", "from", old, "to", next, "fps", e.scaler.AverageFPS())
	})

	e.result = e.emotions.Current()
	e.profile = emotion.Blend(cfg.Profiles, e.result.Scores)
	e.config.Store(&cfg)
	e.publishStatus()
	return e, nil
}

// SessionID identifies this engine instance.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Mailbox returns the vision input mailbox.
func (e *Engine) Mailbox() *vision.Mailbox {
	return e.mailbox
}

// Pool exposes the particle pool. Only the tick goroutine may use it.
func (e *Engine) Pool() *particles.Pool {
	return e.pool
}

// OnClassification registers an observer. Call before Run.
func (e *Engine) OnClassification(obs ClassificationObserver) {
	e.observer = obs
}

// Config returns the active configuration. The returned value shares
// maps and slices with the engine and must be treated as read-only.
func (e *Engine) Config() Config {
	return *e.config.Load()
}

// Status returns the snapshot published at the end of the last tick.
func (e *Engine) Status() *Status {
	return e.status.Load()
}

// ApplyTuning queues a tuning update for the next tick boundary.
func (e *Engine) ApplyTuning(p TuningParams) error {
	select {
	case e.tuning <- p:
		return nil
	default:
		return ErrTuningBusy
	}
}

// Run ticks at cfg.TickRate until ctx is cancelled, publishing encoded
// frames to frames and status snapshots to statuses. Either sink may be nil.
func (e *Engine) Run(ctx context.Context, frames FrameSink, statuses StatusSink) {
	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))
	defer ticker.Stop()

	e.logger.Info("engine started",
		"tick_rate", e.cfg.TickRate,
		"capacity", e.pool.Capacity(),
		"stagger", e.cfg.Stagger)

	last := time.Now()
	var lastStatus time.Time

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", "ticks", e.tick)
			return

		case now := <-ticker.C:
			info := e.Step(now.Sub(last))
			last = now

			if frames != nil && frames.WantsFrame() {
				frames.PublishFrame(e.EncodeFrame(nil))
			}
			if statuses != nil && now.Sub(lastStatus) >= e.cfg.StatusInterval {
				lastStatus = now
				statuses.PublishStatus(e.Status())
			}
			if debug.Ticks && info.Tick%uint64(e.cfg.TickRate) == 0 {
				debug.TickLog("⏱️  tick=%d active=%d/%d fps=%.1f emotion=%s(%.2f)\n",
					info.Tick, info.Active, e.pool.MaxActive(), e.scaler.AverageFPS(),
					info.Emotion.Dominant, info.Emotion.Intensity)
			}
		}
	}
}

// EncodeFrame appends the current particle frame to dst.
func (e *Engine) EncodeFrame(dst []byte) []byte {
	p := e.pool
	if dst == nil {
		dst = make([]byte, 0, protocol.FrameSize(p.Active()))
	}
	return protocol.AppendParticleFrame(dst, uint32(e.tick), p.Active(),
		p.Positions(), p.Colors(), p.Sizes(), p.Lifetimes())
}

// Step advances the simulation by one tick of wall time dt.
func (e *Engine) Step(dt time.Duration) FrameInfo {
	e.drainTuning()

	frameTime := max(dt, 0)
	dt = min(frameTime, e.cfg.MaxDelta)
	sec := dt.Seconds()

	e.tick++
	info := FrameInfo{Tick: e.tick, Delta: dt}

	// 1. Vision inputs
	frame := e.mailbox.Latest()
	faceTurn, handTurn := true, true
	if e.cfg.Stagger {
		faceTurn = e.tick%2 == 0
		handTurn = !faceTurn
	}
	e.faceIdle += dt
	e.handIdle += dt

	// 2. State updates
	if faceTurn {
		info.Fireworks = e.updateFace(frame)
	}
	if handTurn {
		e.updateHands(frame, dt)
	}

	// 3. Blend
	e.profile = emotion.Blend(e.cfg.Profiles, e.result.Scores)

	// 4. Spawn
	if e.facePresent && e.anchor.Valid() {
		info.Spawned = e.emitter.Emit(e.pool, e.profile, e.result.Intensity, e.anchor, sec)
	}

	// 5. Force fields
	e.applyForces(sec)
	e.turbulence.Apply(e.pool, e.profile.NoiseAmplitude, sec)

	// 6. Pool update
	info.Active = e.pool.Update(sec)

	// 7. Quality
	e.scaler.Update(frameTime)

	info.Emotion = e.result
	info.Hands = e.hands.Current()
	e.publishStatus()
	return info
}

// updateFace consumes a new face reading, or times the face out when
// readings stop. It returns the number of firework particles spawned.
func (e *Engine) updateFace(frame vision.Frame) int {
	if frame.FaceSeq == e.faceSeq {
		if e.cfg.FaceTimeout > 0 && e.faceIdle >= e.cfg.FaceTimeout {
			e.loseFace()
		}
		return 0
	}
	e.faceSeq = frame.FaceSeq
	elapsed := e.faceIdle
	e.faceIdle = 0

	face := frame.Face
	if face == nil || !face.Detected {
		e.loseFace()
		return 0
	}

	if !e.facePresent {
		e.logger.Debug("face acquired")
	}
	e.facePresent = true
	e.anchor.Update(face, e.cfg.Aspect, elapsed.Seconds())

	if !face.HasExpression() {
		return 0
	}

	raw := e.classifier.Classify(face.Blendshapes)
	e.result = e.emotions.Update(raw)
	if e.observer != nil {
		e.observer.ObserveClassification(Classification{
			At:          frame.FaceAt,
			Blendshapes: face.Blendshapes,
			Raw:         raw,
			Result:      e.result,
		})
	}

	spawned := 0
	for _, eye := range e.winks.Update(face.Blendshapes, frame.FaceAt) {
		n := e.fireworks.Burst(e.pool, eye, e.cfg.Aspect)
		debug.Log("🎆 %s wink: %d particles\n", eye, n)
		spawned += n
	}
	return spawned
}

func (e *Engine) loseFace() {
	if e.facePresent {
		e.logger.Debug("face lost")
		e.facePresent = false
		e.emitter.Reset()
	}
	e.anchor.Update(nil, e.cfg.Aspect, 0)
	e.result = e.emotions.DecayToNeutral()
}

// updateHands feeds both hand states with the time accumulated since
// their last update. Once readings time out the hands are stepped as
// undetected on every turn, so decay runs over its full window.
func (e *Engine) updateHands(frame vision.Frame, dt time.Duration) {
	if frame.HandsSeq == e.handsSeq {
		step := e.handIdle
		if !e.handsStale {
			if e.cfg.HandTimeout <= 0 || e.handIdle < e.cfg.HandTimeout {
				return
			}
			e.handsStale = true
			step = dt
		}
		for _, h := range gesture.Hands {
			e.hands.Get(h).Update(gesture.None, false, nil, step)
		}
		e.handIdle = 0
		return
	}
	e.handsSeq = frame.HandsSeq
	e.handsStale = false

	for _, h := range gesture.Hands {
		state := e.hands.Get(h)
		before := state.Commits()

		obs, ok := frame.Hands.Find(h)
		var raw gesture.Gesture
		var pos *gesture.Point
		if ok {
			raw, pos = obs.Resolve()
		}
		r := state.Update(raw, ok, pos, e.handIdle)

		if state.Commits() != before {
			e.logger.Debug("gesture committed", "hand", h, "gesture", r.Gesture)
		}
	}
	e.handIdle = 0
}

func (e *Engine) applyForces(dt float64) {
	pc := e.cfg.Particles
	for _, h := range gesture.Hands {
		r := e.hands.Get(h).Current()
		if !r.Active || r.Position == nil || r.Gesture == gesture.None {
			continue
		}
		strength := pc.PushStrength
		if r.Gesture == gesture.Attract {
			strength = pc.AttractStrength
		}
		cx, cy := e.anchor.ToScene(*r.Position, e.cfg.Aspect)
		e.pool.ApplyForceField(cx, cy, r.Gesture, pc.ForceRadius, strength*r.Strength, dt)
	}
}

func (e *Engine) drainTuning() {
	for {
		select {
		case p := <-e.tuning:
			e.setConfig(p.Apply(e.cfg))
		default:
			return
		}
	}
}

// setConfig swaps in a new configuration between ticks. Pool capacity,
// tick rate and noise seed are fixed at construction.
func (e *Engine) setConfig(cfg Config) {
	cfg.TickRate = e.cfg.TickRate
	cfg.Particles.Capacity = e.cfg.Particles.Capacity
	cfg.Particles.NoiseSeed = e.cfg.Particles.NoiseSeed
	if err := cfg.Validate(); err != nil {
		e.logger.Warn("tuning rejected", "error", err)
		return
	}

	e.cfg = cfg
	e.classifier = emotion.NewClassifier(cfg.Classifier)
	e.emotions.SetConfig(cfg.Emotion)
	e.winks.SetConfig(cfg.Wink)
	e.hands.SetConfig(cfg.Gesture)
	e.pool.SetConfig(cfg.Particles)
	e.emitter.SetConfig(cfg.Particles)
	e.fireworks.SetConfig(cfg.Particles.Firework)
	e.turbulence.SetConfig(cfg.Particles)
	e.scaler.SetConfig(cfg.Quality)
	e.anchor.SetConfig(cfg.Tracking)

	e.config.Store(&cfg)
	e.logger.Info("tuning applied")
}

func (e *Engine) publishStatus() {
	hands := e.hands.Current()
	s := &Status{
		SessionID:    e.sessionID,
		Tick:         e.tick,
		FaceDetected: e.facePresent,
		Emotion:      e.result,
		Hands:        make([]HandStatus, 0, len(hands)),
		Profile:      e.profile,
		Particles:    e.pool.Active(),
		Ceiling:      e.pool.MaxActive(),
		Capacity:     e.pool.Capacity(),
		FPS:          e.scaler.AverageFPS(),
		Scaled:       e.scaler.Scaled(),
		UpdatedAt:    time.Now(),
	}
	for i, r := range hands {
		s.Hands = append(s.Hands, HandStatus{Hand: gesture.Hand(i), Result: r})
	}
	e.status.Store(s)
}
