package transport

import (
	"fmt"
	"net"
	"time"

	"roundhouse/withrottle-go/pkg/protocol"
)

// TCP connects to a WiThrottle server over TCP. There is no automatic
// reconnection: a dropped connection surfaces as errors and the consumer
// decides whether to dial again.
type TCP struct {
	link
	conn         net.Conn
	writeTimeout time.Duration
}

var _ protocol.Transport = (*TCP)(nil)

// TCPConfig configures a TCP transport.
type TCPConfig struct {
	Address        string        // "host:port" format
	ConnectTimeout time.Duration // Dial timeout (0 = 10s)
	WriteTimeout   time.Duration // Per-write deadline (0 = 10s)
}

// DialTCP connects to the given server and starts the background reader.
func DialTCP(config TCPConfig) (*TCP, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 10 * time.Second
	}

	conn, err := net.DialTimeout("tcp", config.Address, config.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Address, err)
	}

	t := &TCP{conn: conn, writeTimeout: config.WriteTimeout}
	t.init(conn, t.armWriteDeadline, conn.Close)

	t.wg.Add(1)
	go t.readLoop(conn)

	return t, nil
}

func (t *TCP) armWriteDeadline() error {
	if t.writeTimeout <= 0 {
		return nil
	}
	return t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
}

// LocalAddr returns the local address of the connection.
func (t *TCP) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// RemoteAddr returns the remote address of the connection.
func (t *TCP) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}
