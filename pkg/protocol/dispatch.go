package protocol

import (
	"bytes"
	"strconv"
	"strings"
)

// commandKind classifies an inbound line by its wire prefix.
type commandKind int

const (
	cmdUnknown commandKind = iota
	cmdFastTime   // PFT - fast clock time, optionally with rate
	cmdTrackPower // PPA - track power state
	cmdHeartbeat  // *   - heartbeat period demand
	cmdVersion    // VN  - protocol version
	cmdWebPort    // PW  - web interface port
	cmdSteal      // MTS - steal needed
	cmdAddRemove  // MT+ / MT- - locomotive added/removed
	cmdLocoAction // MTA - locomotive-scoped action
	cmdNoise      // AT+ - LnWi modem chatter, ignored
)

// classify maps a framed line to its command kind and payload. Rules are
// checked most-specific first; a line matches at most one. Minimum lengths
// guarantee each payload is non-empty enough for its parser.
func classify(line []byte) (commandKind, []byte) {
	n := len(line)
	switch {
	case n > 3 && line[0] == 'P' && line[1] == 'F' && line[2] == 'T':
		return cmdFastTime, line[3:]
	case n > 3 && line[0] == 'P' && line[1] == 'P' && line[2] == 'A':
		return cmdTrackPower, line[3:]
	case n > 1 && line[0] == '*':
		return cmdHeartbeat, line[1:]
	case n > 2 && line[0] == 'V' && line[1] == 'N':
		return cmdVersion, line[2:]
	case n > 2 && line[0] == 'P' && line[1] == 'W':
		return cmdWebPort, line[2:]
	case n > 6 && line[0] == 'M' && line[1] == 'T' && line[2] == 'S':
		return cmdSteal, line[3:]
	case n > 6 && line[0] == 'M' && line[1] == 'T' && (line[2] == '+' || line[2] == '-'):
		// The sign stays in the payload, it selects add vs remove.
		return cmdAddRemove, line[2:]
	case n > 8 && line[0] == 'M' && line[1] == 'T' && line[2] == 'A':
		return cmdLocoAction, line[3:]
	case n > 3 && line[0] == 'A' && line[1] == 'T' && line[2] == '+':
		return cmdNoise, nil
	default:
		return cmdUnknown, line
	}
}

// processLine dispatches one framed command line and reports whether it
// produced an observable change. Unrecognized input is logged and dropped,
// never fatal: the engine has to survive a noisy peer indefinitely.
func (t *Throttle) processLine(line []byte) bool {
	t.log.Debug("<== %s", line)

	// The LnWi interleaves its internal modem commands into the data
	// stream. Strip every leading occurrence and parse what remains.
	for bytes.HasPrefix(line, []byte(noisePrefix)) {
		line = line[len(noisePrefix):]
		t.log.Debug("stripped %s, line is now %q", noisePrefix, line)
	}

	kind, payload := classify(line)
	switch kind {
	case cmdFastTime:
		return t.processFastTime(payload)
	case cmdTrackPower:
		t.processTrackPower(payload)
		return true
	case cmdHeartbeat:
		return t.processHeartbeat(payload)
	case cmdVersion:
		t.processVersion(payload)
		return true
	case cmdWebPort:
		t.processWebPort(payload)
		return true
	case cmdSteal:
		t.processStealNeeded(payload)
		return true
	case cmdAddRemove:
		t.processAddRemove(payload)
		return true
	case cmdLocoAction:
		return t.processLocomotiveAction(payload)
	case cmdNoise:
		return false
	default:
		t.log.Warn("unknown command %q", line)
		return false
	}
}

// processFastTime handles "PFT<time>" or "PFT<time><;><rate>".
func (t *Throttle) processFastTime(payload []byte) bool {
	s := string(payload)

	if p := strings.Index(s, propertySeparator); p > 0 {
		t.setFastTime(s[:p])
		t.currentFastTimeRate = parseFloat(s[p+len(propertySeparator):])
		t.log.Debug("fast clock rate set to %g", t.currentFastTimeRate)
		t.clockChanged = true
		return true
	}

	// Time-only update between rate announcements.
	t.setFastTime(s)
	return true
}

func (t *Throttle) setFastTime(s string) {
	v := parseInt(s)
	if t.currentFastTime == 0 {
		t.log.Debug("fast clock set to %d", v)
	} else {
		t.log.Debug("fast clock resync: server %d, local %g", v, t.currentFastTime)
	}
	t.currentFastTime = float64(v)
}

// processTrackPower handles "PPA<state>" with a single-digit state.
func (t *Throttle) processTrackPower(payload []byte) {
	if t.delegate == nil || len(payload) == 0 {
		return
	}
	state := PowerUnknown
	switch payload[0] {
	case '0':
		state = PowerOff
	case '1':
		state = PowerOn
	}
	t.delegate.ReceivedTrackPower(state)
}

// processHeartbeat handles "*<seconds>", the server's keep-alive demand.
func (t *Throttle) processHeartbeat(payload []byte) bool {
	t.heartbeatPeriod = parseInt(string(payload))
	if t.heartbeatPeriod <= 0 {
		return false
	}
	t.heartbeatChanged = true
	if t.delegate != nil {
		t.delegate.HeartbeatConfig(t.heartbeatPeriod)
	}
	return true
}

// processVersion handles "VN<version>"; the version is delivered verbatim.
func (t *Throttle) processVersion(payload []byte) {
	if t.delegate == nil || len(payload) == 0 {
		return
	}
	t.delegate.ReceivedVersion(string(payload))
}

// processWebPort handles "PW<port>".
func (t *Throttle) processWebPort(payload []byte) {
	if t.delegate == nil || len(payload) == 0 {
		return
	}
	t.delegate.ReceivedWebPort(parseInt(string(payload)))
}

// processStealNeeded handles "MTS<address><;><entry>".
func (t *Throttle) processStealNeeded(payload []byte) {
	if t.delegate == nil {
		// Nobody listening, skip the string work.
		return
	}
	s := string(payload)
	p := strings.Index(s, propertySeparator)
	if p <= 0 {
		return
	}
	t.delegate.AddressStealNeeded(s[:p], s[p+len(propertySeparator):])
}

// processAddRemove handles "+<address><;><entry>" / "-<address><;><entry>"
// (payload keeps the sign). A removal is accepted only with the entry the
// protocol defines ("d\n" or "r\n"); anything else is dumped and dropped.
func (t *Throttle) processAddRemove(payload []byte) {
	if t.delegate == nil {
		return
	}

	s := string(payload)
	add := s[0] == '+'

	p := strings.Index(s, propertySeparator)
	if p <= 0 {
		return
	}
	address := strings.TrimSpace(s[1:p])
	entry := s[p+len(propertySeparator):]

	if add {
		t.delegate.AddressAdded(address, strings.TrimSpace(entry))
		return
	}
	if entry == "d\n" || entry == "r\n" {
		t.delegate.AddressRemoved(address, entry)
		return
	}
	t.log.Warn("malformed address removal: entry %q (%d bytes)", entry, len(entry))
	for i := 0; i < len(entry); i++ {
		t.log.Debug("  entry[%d] = %d", i, entry[i])
	}
}

// parseInt mirrors the tolerant field parsing of the reference clients:
// a field that fails to parse evaluates to 0 rather than erroring.
func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
