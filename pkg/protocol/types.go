package protocol

// Wire syntax constants.
const (
	// propertySeparator delimits compound fields within a command line.
	propertySeparator = "<;>"

	// noisePrefix is junk the Digitrax LnWi prepends to lines it relays.
	// It is stripped, not treated as an error.
	noisePrefix = "AT+CIPSENDBUF="

	// lineBufferCap is the fixed capacity of the input line accumulator.
	// A line that grows past it is discarded.
	lineBufferCap = 1023
)

// Speed and function limits of the throttle protocol.
const (
	MinSpeed    = 0
	MaxSpeed    = 126
	MaxFunction = 28
)

// Direction is the locomotive travel direction.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// String returns string representation of Direction
func (d Direction) String() string {
	switch d {
	case Forward:
		return "Forward"
	case Reverse:
		return "Reverse"
	default:
		return "Unknown"
	}
}

// TrackPower is the layout track power state as reported by the server.
type TrackPower int

const (
	PowerUnknown TrackPower = iota
	PowerOff
	PowerOn
)

// String returns string representation of TrackPower
func (p TrackPower) String() string {
	switch p {
	case PowerOff:
		return "Off"
	case PowerOn:
		return "On"
	default:
		return "Unknown"
	}
}
