package protocol

import "strings"

// processLocomotiveAction handles the body of an "MTA" line: an action
// scoped to the selected locomotive. The body starts with the locomotive
// address or the "*" wildcard plus the property separator, followed by a
// one-character sub-action tag.
//
// It returns true when an action was present to process (matched or not),
// false only when the body was empty after prefix stripping.
func (t *Throttle) processLocomotiveAction(payload []byte) bool {
	// Nothing selected: a late echo from the server after release.
	// Skipped, not an error.
	if t.currentAddress == "" {
		return true
	}

	remainder := string(payload)
	addrCheck := t.currentAddress + propertySeparator
	allCheck := "*" + propertySeparator
	if strings.HasPrefix(remainder, addrCheck) {
		remainder = remainder[len(addrCheck):]
	} else if strings.HasPrefix(remainder, allCheck) {
		remainder = remainder[len(allCheck):]
	}

	if len(remainder) == 0 {
		t.log.Warn("insufficient locomotive action to process")
		return false
	}

	switch remainder[0] {
	case 'F':
		t.processFunctionState(remainder)
	case 'V':
		t.processSpeed(remainder)
	case 's':
		t.processSpeedSteps(remainder)
	case 'R':
		t.processDirection(remainder)
	default:
		t.log.Warn("unrecognized locomotive action %q", remainder[0])
	}
	return true
}

// processFunctionState handles "F[0|1]<num>", e.g. "F03" releases function
// 3 and "F112" presses function 12.
func (t *Throttle) processFunctionState(data string) {
	if t.delegate == nil || len(data) < 3 {
		return
	}
	pressed := data[1] == '1'
	funcStr := data[2:]
	funcNum := parseInt(funcStr)
	if funcNum == 0 && funcStr != "0" {
		// Parse failure. Dropped without notice.
		return
	}
	t.delegate.ReceivedFunctionState(funcNum, pressed)
}

// processSpeed handles "V<speed>". Out-of-range values clamp to 0 rather
// than being rejected.
func (t *Throttle) processSpeed(data string) {
	if t.delegate == nil || len(data) < 2 {
		return
	}
	speed := parseInt(data[1:])
	if speed < MinSpeed || speed > MaxSpeed {
		speed = 0
	}
	t.delegate.ReceivedSpeed(speed)
}

// processSpeedSteps handles "s<steps>"; only the decoder modes 1, 2, 4, 8
// and 16 are valid.
func (t *Throttle) processSpeedSteps(data string) {
	if t.delegate == nil || len(data) < 2 {
		return
	}
	steps := parseInt(data[1:])
	switch steps {
	case 1, 2, 4, 8, 16:
		t.delegate.ReceivedSpeedSteps(steps)
	default:
		t.log.Warn("invalid speed steps %d", steps)
	}
}

// processDirection handles "R[0|1]": 0 is reverse, anything else forward.
func (t *Throttle) processDirection(data string) {
	if t.delegate == nil || len(data) != 2 {
		return
	}
	dir := Forward
	if data[1] == '0' {
		dir = Reverse
	}
	t.currentDirection = dir
	t.delegate.ReceivedDirection(dir)
}
