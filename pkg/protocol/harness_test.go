package protocol

import (
	"io"
	"testing"
	"time"
)

// fakeClock drives the engine timers deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// fakeTransport is an in-memory byte-stream capability.
type fakeTransport struct {
	in       []byte
	out      []string
	writeErr error
}

func (f *fakeTransport) Available() int {
	return len(f.in)
}

func (f *fakeTransport) ReadByte() (byte, error) {
	if len(f.in) == 0 {
		return 0, io.EOF
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, nil
}

func (f *fakeTransport) WriteLine(line string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.out = append(f.out, line)
	return nil
}

func (f *fakeTransport) feed(s string) {
	f.in = append(f.in, s...)
}

type functionEvent struct {
	num     int
	pressed bool
}

// recordingDelegate captures every sink notification for assertions.
type recordingDelegate struct {
	heartbeats []int
	versions   []string
	webPorts   []int
	functions  []functionEvent
	speeds     []int
	speedSteps []int
	directions []Direction
	power      []TrackPower
	added      [][2]string
	removed    [][2]string
	steals     [][2]string
}

func (d *recordingDelegate) HeartbeatConfig(seconds int) {
	d.heartbeats = append(d.heartbeats, seconds)
}

func (d *recordingDelegate) ReceivedVersion(version string) {
	d.versions = append(d.versions, version)
}

func (d *recordingDelegate) ReceivedWebPort(port int) {
	d.webPorts = append(d.webPorts, port)
}

func (d *recordingDelegate) ReceivedFunctionState(funcNum int, pressed bool) {
	d.functions = append(d.functions, functionEvent{funcNum, pressed})
}

func (d *recordingDelegate) ReceivedSpeed(speed int) {
	d.speeds = append(d.speeds, speed)
}

func (d *recordingDelegate) ReceivedSpeedSteps(steps int) {
	d.speedSteps = append(d.speedSteps, steps)
}

func (d *recordingDelegate) ReceivedDirection(dir Direction) {
	d.directions = append(d.directions, dir)
}

func (d *recordingDelegate) ReceivedTrackPower(state TrackPower) {
	d.power = append(d.power, state)
}

func (d *recordingDelegate) AddressAdded(address, entry string) {
	d.added = append(d.added, [2]string{address, entry})
}

func (d *recordingDelegate) AddressRemoved(address, entry string) {
	d.removed = append(d.removed, [2]string{address, entry})
}

func (d *recordingDelegate) AddressStealNeeded(address, entry string) {
	d.steals = append(d.steals, [2]string{address, entry})
}

// newTestThrottle builds a connected engine with a fake clock, transport
// and recording delegate.
func newTestThrottle(t *testing.T) (*Throttle, *fakeTransport, *recordingDelegate, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	d := &recordingDelegate{}
	tr := &fakeTransport{}
	th := New(Config{Clock: clk.now}, d, nil)
	th.Connect(tr)
	return th, tr, d, clk
}
