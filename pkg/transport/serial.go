package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"roundhouse/withrottle-go/pkg/protocol"
)

// Serial talks the protocol over a serial port, typically a USB link to a
// DCC-EX command station. The port is opened with a short read timeout so
// the background reader can observe Close.
type Serial struct {
	link
	port serial.Port
}

var _ protocol.Transport = (*Serial)(nil)

// SerialConfig configures a serial transport.
type SerialConfig struct {
	Port        string        // Device path, e.g. "/dev/ttyUSB0"
	BaudRate    int           // 0 = 115200
	ReadTimeout time.Duration // Poll interval for the reader (0 = 100ms)
}

// OpenSerial opens the port and starts the background reader.
func OpenSerial(config SerialConfig) (*Serial, error) {
	if config.Port == "" {
		return nil, fmt.Errorf("port is required")
	}
	if config.BaudRate == 0 {
		config.BaudRate = 115200
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 100 * time.Millisecond
	}

	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(config.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", config.Port, err)
	}
	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", config.Port, err)
	}

	s := &Serial{port: port}
	s.init(port, nil, port.Close)

	s.wg.Add(1)
	go s.readLoop(port)

	return s, nil
}
