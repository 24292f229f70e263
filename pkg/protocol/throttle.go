// Package protocol implements the client side of the WiThrottle text
// protocol used to drive a model-railroad command station (JMRI, DCC-EX,
// Digitrax LnWi and compatibles): selecting and releasing locomotives,
// speed/direction/function control, track power tracking, and the shared
// fast clock and heartbeat.
//
// The engine is single-threaded and poll-driven: the consumer calls Poll
// repeatedly, and every outbound method writes through immediately. No
// method on Throttle is safe for concurrent use from multiple goroutines;
// callers that share an instance must serialize access externally.
package protocol

import (
	"errors"
	"time"

	"roundhouse/withrottle-go/pkg/logger"
)

var (
	ErrNotConnected       = errors.New("no transport connected")
	ErrNoSelection        = errors.New("no locomotive selected")
	ErrSpeedOutOfRange    = errors.New("speed out of range 0-126")
	ErrFunctionOutOfRange = errors.New("function number out of range 0-28")
	ErrInvalidAddress     = errors.New("address must start with 'S' or 'L'")
)

// Config configures a Throttle.
type Config struct {
	// Server selects server-side framing: every outbound command is
	// followed by a blank line, mirroring the doubled terminator that
	// WiThrottle servers emit and the framer tolerates on input.
	Server bool

	// Clock overrides the wall clock driving the heartbeat and fast-clock
	// timers. Nil means time.Now. Used by tests.
	Clock func() time.Time
}

// Throttle is one protocol session with a command station. Each instance
// owns independent session, timer and buffer state, so one process can run
// several connections side by side.
type Throttle struct {
	server    bool
	transport Transport
	delegate  Delegate
	log       logger.Logger

	// Input line accumulator (see framer.go).
	inputBuffer [lineBufferCap]byte
	nextChar    int

	// Session state. Mutated only by inbound parsing and by outbound
	// command issuance; outbound updates are optimistic but applied only
	// after a successful write.
	currentAddress     string
	locomotiveSelected bool
	currentSpeed       int
	currentDirection   Direction

	// Fast clock state: seconds since epoch plus the server-set rate.
	// A rate of 0 pauses local advancement.
	currentFastTime     float64
	currentFastTimeRate float64

	// Heartbeat state: 0 disables the keep-alive entirely.
	heartbeatPeriod int

	// Per-poll change flags, reset at the start of every Poll.
	clockChanged     bool
	heartbeatChanged bool

	heartbeatTimer periodicTimer
	fastTimeTimer  periodicTimer
}

// New creates a throttle engine. A nil delegate disables event delivery,
// a nil log disables diagnostics.
func New(config Config, delegate Delegate, log logger.Logger) *Throttle {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	now := config.Clock
	if now == nil {
		now = time.Now
	}

	t := &Throttle{
		server:         config.Server,
		delegate:       delegate,
		log:            log,
		heartbeatTimer: newPeriodicTimer(now),
		fastTimeTimer:  newPeriodicTimer(now),
	}
	t.reset()
	return t
}

// SetDelegate replaces the event sink. A nil delegate is valid.
func (t *Throttle) SetDelegate(delegate Delegate) {
	t.delegate = delegate
}

// Connect resets all session state and attaches the transport.
func (t *Throttle) Connect(transport Transport) {
	t.reset()
	t.transport = transport
}

// Disconnect detaches the transport and resets session state to defaults.
func (t *Throttle) Disconnect() {
	t.transport = nil
	t.reset()
}

// Connected reports whether a transport is attached.
func (t *Throttle) Connected() bool {
	return t.transport != nil
}

// reset restores all protocol state to its connection-open defaults.
func (t *Throttle) reset() {
	t.nextChar = 0
	t.currentAddress = ""
	t.locomotiveSelected = false
	t.currentSpeed = 0
	t.currentDirection = Forward
	t.currentFastTime = 0
	t.currentFastTimeRate = 0
	t.heartbeatPeriod = 0
	t.resetChangeFlags()
	t.heartbeatTimer.restart()
	t.fastTimeTimer.restart()
}

func (t *Throttle) resetChangeFlags() {
	t.clockChanged = false
	t.heartbeatChanged = false
}

// Poll runs one cooperative cycle: advance both timers, then drain all
// currently available inbound bytes through the line framer. It returns
// whether anything observable changed during the cycle. Poll never blocks;
// the consumer is expected to call it repeatedly.
func (t *Throttle) Poll() bool {
	t.resetChangeFlags()
	if t.transport == nil {
		return false
	}

	changed := t.tickFastClock()
	changed = t.tickHeartbeat() || changed
	changed = t.drainInput() || changed
	return changed
}

// sendCommand writes one command line. In server role a trailing blank
// line is appended, matching the doubled-terminator framing peers expect.
func (t *Throttle) sendCommand(cmd string) error {
	if t.transport == nil {
		return ErrNotConnected
	}
	if err := t.transport.WriteLine(cmd); err != nil {
		return err
	}
	if t.server {
		if err := t.transport.WriteLine(""); err != nil {
			return err
		}
	}
	t.log.Debug("==> %s", cmd)
	return nil
}

// Address returns the currently selected locomotive address, or "" when
// no locomotive is selected.
func (t *Throttle) Address() string {
	return t.currentAddress
}

// Selected reports whether a locomotive is selected.
func (t *Throttle) Selected() bool {
	return t.locomotiveSelected
}

// Speed returns the locally cached speed, 0-126.
func (t *Throttle) Speed() int {
	return t.currentSpeed
}

// Direction returns the locally cached direction.
func (t *Throttle) Direction() Direction {
	return t.currentDirection
}

// HeartbeatPeriod returns the server-demanded keep-alive period in
// seconds, 0 when heartbeats are disabled.
func (t *Throttle) HeartbeatPeriod() int {
	return t.heartbeatPeriod
}

// ClockChanged reports whether the fast clock moved during the last Poll.
func (t *Throttle) ClockChanged() bool {
	return t.clockChanged
}

// HeartbeatChanged reports whether the heartbeat configuration changed
// during the last Poll.
func (t *Throttle) HeartbeatChanged() bool {
	return t.heartbeatChanged
}

// FastTimeRate returns the fast clock rate; 0 means the clock is paused.
func (t *Throttle) FastTimeRate() float64 {
	return t.currentFastTimeRate
}

// FastTimeHours returns the hour of the layout fast clock.
func (t *Throttle) FastTimeHours() int {
	return time.Unix(int64(t.currentFastTime), 0).UTC().Hour()
}

// FastTimeMinutes returns the minute of the layout fast clock.
func (t *Throttle) FastTimeMinutes() int {
	return time.Unix(int64(t.currentFastTime), 0).UTC().Minute()
}
