package protocol

import "strconv"

// Outbound command encoding. Every method writes through the transport
// immediately and surfaces write failures; precondition violations return
// a sentinel error without touching the wire. Local caches (selection,
// speed, direction) update only after a successful write.

// SetDeviceName announces the throttle's name to the server.
func (t *Throttle) SetDeviceName(name string) error {
	return t.sendCommand("N" + name)
}

// SetDeviceID announces the throttle's unique identifier to the server.
func (t *Throttle) SetDeviceID(id string) error {
	return t.sendCommand("H" + id)
}

// AddLocomotive requests the locomotive at address (a short "S" or long
// "L" DCC address, e.g. "S3" or "L4014") and selects it. The roster name
// defaults to the address.
func (t *Throttle) AddLocomotive(address string) error {
	if len(address) == 0 || (address[0] != 'S' && address[0] != 'L') {
		return ErrInvalidAddress
	}
	if err := t.sendCommand("MT+" + address + propertySeparator + address); err != nil {
		return err
	}
	t.currentAddress = address
	t.locomotiveSelected = true
	return nil
}

// ReleaseLocomotive gives the locomotive back to the server and clears the
// selection. The address is not validated; release is always attempted.
func (t *Throttle) ReleaseLocomotive(address string) error {
	if err := t.sendCommand("MT-" + address + propertySeparator + "r"); err != nil {
		return err
	}
	t.currentAddress = ""
	t.locomotiveSelected = false
	return nil
}

// StealLocomotive forcibly takes over an address that is in use by another
// throttle: release, then re-add.
func (t *Throttle) StealLocomotive(address string) error {
	if err := t.ReleaseLocomotive(address); err != nil {
		return err
	}
	return t.AddLocomotive(address)
}

// SetSpeed sets the selected locomotive's speed, 0-126. Repeated calls
// with the cached speed are suppressed to avoid redundant writes.
func (t *Throttle) SetSpeed(speed int) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return ErrSpeedOutOfRange
	}
	if !t.locomotiveSelected {
		return ErrNoSelection
	}
	if speed == t.currentSpeed {
		return nil
	}
	if err := t.sendCommand("MTA*" + propertySeparator + "V" + strconv.Itoa(speed)); err != nil {
		return err
	}
	t.currentSpeed = speed
	return nil
}

// SetDirection sets the selected locomotive's travel direction.
func (t *Throttle) SetDirection(direction Direction) error {
	if !t.locomotiveSelected {
		return ErrNoSelection
	}
	wire := "1"
	if direction == Reverse {
		wire = "0"
	}
	if err := t.sendCommand("MTA*" + propertySeparator + "R" + wire); err != nil {
		return err
	}
	t.currentDirection = direction
	return nil
}

// EmergencyStop halts the locomotive immediately, bypassing speed ramping.
// Sent unconditionally, selection or not.
func (t *Throttle) EmergencyStop() error {
	return t.sendCommand("MTA*" + propertySeparator + "X")
}

// SetFunction presses or releases a decoder function, 0-28. Function state
// is not cached: the press/release pair must both reach the wire.
func (t *Throttle) SetFunction(funcNum int, pressed bool) error {
	if !t.locomotiveSelected {
		return ErrNoSelection
	}
	if funcNum < 0 || funcNum > MaxFunction {
		return ErrFunctionOutOfRange
	}
	bit := "0"
	if pressed {
		bit = "1"
	}
	return t.sendCommand("MTA" + t.currentAddress + propertySeparator + "F" + bit + strconv.Itoa(funcNum))
}

// RequireHeartbeat tells the server whether it should expect keep-alives
// from this throttle.
func (t *Throttle) RequireHeartbeat(needed bool) error {
	if needed {
		return t.sendCommand("*+")
	}
	return t.sendCommand("*-")
}
