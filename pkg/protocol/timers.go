package protocol

import "time"

// periodicTimer is a fire-when-due, then-rearm interval tracker: it
// measures elapsed wall-clock time since the last restart, with no
// drift correction across firings. Each engine owns two of these.
type periodicTimer struct {
	now  func() time.Time
	mark time.Time
}

func newPeriodicTimer(now func() time.Time) periodicTimer {
	return periodicTimer{now: now, mark: now()}
}

func (pt *periodicTimer) hasPassed(d time.Duration) bool {
	return pt.now().Sub(pt.mark) >= d
}

func (pt *periodicTimer) restart() {
	pt.mark = pt.now()
}

// tickFastClock advances the layout fast clock by local extrapolation:
// once per real second, the server-set rate is added to the clock. A rate
// of 0 means the clock is paused; the timer still fires but nothing moves.
func (t *Throttle) tickFastClock() bool {
	if !t.fastTimeTimer.hasPassed(time.Second) {
		return false
	}
	t.fastTimeTimer.restart()

	if t.currentFastTimeRate == 0 {
		t.clockChanged = false
		return false
	}
	t.currentFastTime += t.currentFastTimeRate
	t.clockChanged = true
	return true
}

// tickHeartbeat re-sends the keep-alive at half the server-demanded
// period, leaving headroom before the server's timeout. Disabled entirely
// while the period is 0.
func (t *Throttle) tickHeartbeat() bool {
	if t.heartbeatPeriod <= 0 {
		return false
	}
	half := time.Duration(float64(t.heartbeatPeriod) * float64(time.Second) / 2)
	if !t.heartbeatTimer.hasPassed(half) {
		return false
	}
	t.heartbeatTimer.restart()

	if err := t.sendCommand("*"); err != nil {
		t.log.Warn("heartbeat send failed: %v", err)
	}
	return true
}
