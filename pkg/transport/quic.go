package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/quic-go/quic-go"

	"roundhouse/withrottle-go/pkg/protocol"
)

// alpnProtocol is the ALPN identifier offered to QUIC-fronted servers.
const alpnProtocol = "withrottle-quic"

// QUIC carries the protocol over a single bidirectional QUIC stream.
// Client only: layout-side QUIC front ends terminate the connection and
// bridge it to the command station.
type QUIC struct {
	link
	conn   quic.Connection
	stream quic.Stream
}

var _ protocol.Transport = (*QUIC)(nil)

// QUICConfig configures a QUIC transport.
type QUICConfig struct {
	Address        string        // "host:port" format
	ConnectTimeout time.Duration // Dial timeout (0 = 10s)
	WriteTimeout   time.Duration // Per-write deadline (0 = 10s)
	TLSConfig      *tls.Config   // Optional; nil tolerates self-signed certs
}

// DialQUIC connects, opens the command stream and starts the background
// reader.
func DialQUIC(config QUICConfig) (*QUIC, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 10 * time.Second
	}

	tlsConfig := config.TLSConfig
	if tlsConfig == nil {
		// Hobbyist layouts run self-signed front ends.
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	} else {
		tlsConfig = tlsConfig.Clone()
	}
	if len(tlsConfig.NextProtos) == 0 {
		tlsConfig.NextProtos = []string{alpnProtocol}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	conn, err := quic.DialAddr(ctx, config.Address, tlsConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Address, err)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(0, "failed to open stream")
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	writeTimeout := config.WriteTimeout
	q := &QUIC{conn: conn, stream: stream}
	q.init(stream, func() error {
		if writeTimeout <= 0 {
			return nil
		}
		return stream.SetWriteDeadline(time.Now().Add(writeTimeout))
	}, q.shutdown)

	q.wg.Add(1)
	go q.readLoop(stream)

	return q, nil
}

func (q *QUIC) shutdown() error {
	q.stream.Close()
	return q.conn.CloseWithError(0, "transport closed")
}

// LocalAddr returns the local address of the connection.
func (q *QUIC) LocalAddr() net.Addr {
	return q.conn.LocalAddr()
}

// RemoteAddr returns the remote address of the connection.
func (q *QUIC) RemoteAddr() net.Addr {
	return q.conn.RemoteAddr()
}
