package playback

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go-track-player/track"
)

// State identifies where the playback state machine is. Idle and Paused both
// hold the cursor frozen; Idle specifically means playback never started or
// was just reset.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Defaults applied by New. Camera distance and pitch are rendering constants
// carried through to the follow pose unmodified.
const (
	DefaultTickInterval   = 100 * time.Millisecond
	DefaultCameraDistance = 500.0
	DefaultCameraPitch    = 45.0
)

// Position is the derived playback position at the current cursor.
type Position struct {
	track.Coordinate
	Elevation float64   // meters
	SpeedKmh  float64   // km/h between the previous and current point
	Heading   float64   // raw forward azimuth in degrees, may be negative
	Time      time.Time // timestamp of the current point
}

// CameraPose is a camera-follow pose suitable for driving a map renderer.
type CameraPose struct {
	Location track.Coordinate
	Heading  float64 // 0 when the keep-heading setting is on
	Distance float64 // meters
	Pitch    float64 // degrees
}

// Status is a point-in-time snapshot of the engine.
type Status struct {
	State    State
	Cursor   int
	Total    int
	Progress float64 // 0..1 fraction of the sequence covered
	Position Position
	Camera   CameraPose
	Finished bool
}

// Engine drives a time-stepped playback of a track point sequence. A single
// internal goroutine invokes the step function once per tick while Playing,
// so steps never overlap; the external mutators take the engine lock and
// therefore land strictly between ticks.
type Engine struct {
	mu sync.RWMutex

	points      []track.TrackPoint
	cursor      int
	state       State
	speedMult   float64
	keepHeading bool

	elevation float64
	speedKmh  float64
	heading   float64
	progress  float64

	camDistance float64
	camPitch    float64

	tickInterval time.Duration
	ticker       *time.Ticker
	cancel       context.CancelFunc

	nmeaWriter io.Writer
	callbacks  []func(Status)
}

// New creates a playback engine with default settings and no sequence
// loaded.
func New() *Engine {
	return &Engine{
		speedMult:    1.0,
		tickInterval: DefaultTickInterval,
		camDistance:  DefaultCameraDistance,
		camPitch:     DefaultCameraPitch,
	}
}

// Load replaces the held sequence, stops any running playback and resets the
// engine to Idle at cursor 0. The engine takes ownership of the slice.
func (e *Engine) Load(points []track.TrackPoint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTicking()
	e.points = points
	e.cursor = 0
	e.state = Idle
	e.resetDerived()
}

// Play transitions to Playing and begins periodic stepping. It is a no-op
// when the sequence is empty or playback is already running.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Playing || len(e.points) == 0 {
		return
	}

	e.state = Playing
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.ticker = time.NewTicker(e.tickInterval)

	go e.run(ctx, e.ticker)
}

// Pause stops periodic stepping; the cursor and derived values remain as
// last computed. A tick already in flight completes its step first.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Playing {
		return
	}
	e.stopTicking()
	e.state = Paused
}

// Reset stops stepping and returns the engine to Idle at cursor 0.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTicking()
	e.state = Idle
	e.cursor = 0
	e.resetDerived()
}

// Step advances the cursor by one tick's worth of points and recomputes the
// derived values. While Playing the internal ticker invokes it; it can also
// be called explicitly to drive playback by hand.
func (e *Engine) Step() {
	e.step()
}

// run is the playback loop. Exactly one instance exists per Play call and it
// is the only caller of step while Playing.
func (e *Engine) run(ctx context.Context, ticker *time.Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Drop ticks already queued when playback was cancelled.
			select {
			case <-ctx.Done():
				return
			default:
			}
			if e.step() {
				return
			}
		}
	}
}

// step performs a single playback step. It reports true when the terminal
// condition was hit and the engine transitioned to Paused.
func (e *Engine) step() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.points) == 0 {
		return false
	}

	last := len(e.points) - 1
	if e.cursor >= last {
		// One-shot playback: reaching the last index pauses, never loops.
		e.stopTicking()
		e.state = Paused
		return true
	}

	e.cursor += int(e.speedMult)
	if e.cursor > last {
		e.cursor = last
	}

	point := e.points[e.cursor]
	e.elevation = point.Elevation

	if e.cursor > 0 {
		prev := e.points[e.cursor-1]
		elapsed := point.Time.Sub(prev.Time).Seconds()
		if elapsed > 0 {
			e.speedKmh = track.Distance(prev.Coordinate, point.Coordinate) / elapsed * 3.6
		}
		// Non-positive elapsed time keeps the previous speed.
		e.heading = track.Bearing(prev.Coordinate, point.Coordinate)
	}

	if last > 0 {
		e.progress = float64(e.cursor) / float64(last)
	} else {
		e.progress = 0
	}

	e.emitLocked()
	return false
}

// stopTicking cancels the run goroutine and its ticker. Callers must hold
// the lock.
func (e *Engine) stopTicking() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}

func (e *Engine) resetDerived() {
	e.elevation = 0
	e.speedKmh = 0
	e.heading = 0
	e.progress = 0
	if len(e.points) > 0 {
		e.elevation = e.points[0].Elevation
	}
}

// emitLocked pushes the current snapshot to the NMEA writer and the
// registered callbacks. Callers must hold the lock.
func (e *Engine) emitLocked() {
	status := e.statusLocked()

	if e.nmeaWriter != nil {
		for _, sentence := range nmeaSentences(status.Position) {
			fmt.Fprint(e.nmeaWriter, sentence)
		}
	}

	for _, callback := range e.callbacks {
		go callback(status) // async so a slow observer cannot stall the tick
	}
}

// Status returns a snapshot of the current playback state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statusLocked()
}

func (e *Engine) statusLocked() Status {
	status := Status{
		State:    e.state,
		Cursor:   e.cursor,
		Total:    len(e.points),
		Progress: e.progress,
		Camera: CameraPose{
			Distance: e.camDistance,
			Pitch:    e.camPitch,
		},
	}

	if len(e.points) == 0 {
		return status
	}

	point := e.points[e.cursor]
	status.Position = Position{
		Coordinate: point.Coordinate,
		Elevation:  e.elevation,
		SpeedKmh:   e.speedKmh,
		Heading:    e.heading,
		Time:       point.Time,
	}
	status.Camera.Location = point.Coordinate
	if !e.keepHeading {
		status.Camera.Heading = e.heading
	}
	status.Finished = e.cursor == len(e.points)-1

	return status
}

// Points returns the held sequence. Callers must treat it as read-only.
func (e *Engine) Points() []track.TrackPoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.points
}

// SetSpeedMultiplier sets how many points the cursor advances per tick; the
// fractional part is discarded at step time.
func (e *Engine) SetSpeedMultiplier(multiplier float64) error {
	if multiplier <= 0 {
		return ErrInvalidSpeedMultiplier
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speedMult = multiplier
	return nil
}

// SetKeepHeading controls whether the camera pose keeps its current
// direction (heading 0) instead of following the track heading.
func (e *Engine) SetKeepHeading(keep bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keepHeading = keep
}

// SetCamera sets the fixed follow distance and pitch carried through in the
// camera pose.
func (e *Engine) SetCamera(distance, pitch float64) error {
	if distance < 0 {
		return ErrInvalidCameraDistance
	}
	if pitch < 0 || pitch > 90 {
		return ErrInvalidCameraPitch
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.camDistance = distance
	e.camPitch = pitch
	return nil
}

// SetTickInterval sets the stepping cadence. Takes effect on the next Play.
func (e *Engine) SetTickInterval(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidTickInterval
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickInterval = interval
	return nil
}

// SetNMEAWriter sets the writer NMEA sentences are emitted to on each step.
func (e *Engine) SetNMEAWriter(writer io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nmeaWriter = writer
}

// AddCallback registers a function called with a status snapshot after each
// step.
func (e *Engine) AddCallback(callback func(Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = append(e.callbacks, callback)
}
