package protocol

// Transport is the byte-stream capability the engine polls. The engine
// assumes nothing about framing on the transport side: it asks how many
// bytes are buffered, pulls them one at a time, and writes whole lines.
//
// Implementations live in pkg/transport; tests supply in-memory fakes.
type Transport interface {
	// Available reports how many inbound bytes can be read without blocking.
	Available() int

	// ReadByte returns the next buffered inbound byte. It is only called
	// after Available reported data.
	ReadByte() (byte, error)

	// WriteLine writes one command line, adding the line terminator.
	WriteLine(line string) error
}

// Delegate receives every semantic event the engine parses from the server.
// A nil delegate is valid: the engine then skips the parsing work that only
// exists to feed it.
//
// Delegate methods are invoked synchronously from Poll, on the caller's
// goroutine.
type Delegate interface {
	// HeartbeatConfig reports the keep-alive period demanded by the server.
	HeartbeatConfig(seconds int)

	// ReceivedVersion reports the server's announced protocol version.
	ReceivedVersion(version string)

	// ReceivedWebPort reports the server's web interface port.
	ReceivedWebPort(port int)

	// ReceivedFunctionState reports a function (light, bell, horn, ...)
	// being pressed or released.
	ReceivedFunctionState(funcNum int, pressed bool)

	// ReceivedSpeed reports the speed of the selected locomotive, 0-126.
	ReceivedSpeed(speed int)

	// ReceivedSpeedSteps reports the decoder speed-step mode (1, 2, 4, 8, 16).
	ReceivedSpeedSteps(steps int)

	// ReceivedDirection reports the direction of the selected locomotive.
	ReceivedDirection(dir Direction)

	// ReceivedTrackPower reports the layout track power state.
	ReceivedTrackPower(state TrackPower)

	// AddressAdded reports a locomotive added to the throttle by the server.
	AddressAdded(address, entry string)

	// AddressRemoved reports a locomotive released from the throttle.
	AddressRemoved(address, entry string)

	// AddressStealNeeded reports that the address is in use elsewhere and
	// must be stolen before it can be driven.
	AddressStealNeeded(address, entry string)
}
