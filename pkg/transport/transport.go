// Package transport provides byte transports for a throttle engine: TCP
// (JMRI WiThrottle server, DCC-EX command station), serial (direct USB
// link to a DCC-EX board) and QUIC. Each transport reads in the
// background into an internal buffer so the engine's poll loop never
// blocks on the wire.
package transport

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by reads and writes after Close.
var ErrClosed = errors.New("transport closed")

// Stats is a snapshot of transport counters.
type Stats struct {
	BytesSent     uint64
	BytesReceived uint64
	ReadErrors    uint64
	WriteErrors   uint64
}

// link is the shared half of every transport: a background reader filling
// a byte buffer, a serialized line writer and atomic counters. Concrete
// transports embed it and supply the wire endpoints.
type link struct {
	mu      sync.Mutex
	buf     []byte
	readErr error

	writeMu sync.Mutex
	w       io.Writer

	// armWrite runs before each write, used to set write deadlines.
	armWrite func() error
	closer   func() error

	stats struct {
		bytesSent     atomic.Uint64
		bytesReceived atomic.Uint64
		writeErrors   atomic.Uint64
		readErrors    atomic.Uint64
	}

	wg     sync.WaitGroup
	closed atomic.Bool
}

func (l *link) init(w io.Writer, armWrite func() error, closer func() error) {
	l.w = w
	l.armWrite = armWrite
	l.closer = closer
}

// readLoop pulls bytes off the wire into the buffer until the endpoint
// fails or the transport is closed. A zero-byte read with a nil error is
// a poll timeout on the endpoint and is retried.
func (l *link) readLoop(r io.Reader) {
	defer l.wg.Done()

	chunk := make([]byte, 512)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			l.stats.bytesReceived.Add(uint64(n))
			l.mu.Lock()
			l.buf = append(l.buf, chunk[:n]...)
			l.mu.Unlock()
		}
		if err != nil {
			if l.closed.Load() {
				err = ErrClosed
			} else {
				l.stats.readErrors.Add(1)
			}
			l.mu.Lock()
			l.readErr = err
			l.mu.Unlock()
			return
		}
		if n == 0 && l.closed.Load() {
			l.mu.Lock()
			l.readErr = ErrClosed
			l.mu.Unlock()
			return
		}
	}
}

// Available returns the number of buffered inbound bytes.
func (l *link) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buf)
}

// ReadByte pops one buffered byte. With nothing buffered it returns the
// reader's terminal error, or io.EOF while the reader is still healthy.
func (l *link) ReadByte() (byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buf) == 0 {
		if l.readErr != nil {
			return 0, l.readErr
		}
		return 0, io.EOF
	}
	b := l.buf[0]
	l.buf = l.buf[1:]
	return b, nil
}

// WriteLine writes one command line with its terminator.
func (l *link) WriteLine(line string) error {
	if l.closed.Load() {
		return ErrClosed
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if l.armWrite != nil {
		if err := l.armWrite(); err != nil {
			l.stats.writeErrors.Add(1)
			return err
		}
	}

	n, err := l.w.Write(append([]byte(line), '\n'))
	if err != nil {
		l.stats.writeErrors.Add(1)
		return err
	}
	l.stats.bytesSent.Add(uint64(n))
	return nil
}

// Close shuts down the endpoint and waits for the reader to finish.
func (l *link) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := l.closer()
	l.wg.Wait()
	return err
}

// Statistics returns a snapshot of the transport counters.
func (l *link) Statistics() Stats {
	return Stats{
		BytesSent:     l.stats.bytesSent.Load(),
		BytesReceived: l.stats.bytesReceived.Load(),
		ReadErrors:    l.stats.readErrors.Load(),
		WriteErrors:   l.stats.writeErrors.Load(),
	}
}
