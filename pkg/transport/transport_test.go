package transport

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"
)

// waitAvailable polls the buffer until n bytes arrived or the deadline hit.
func waitAvailable(t *testing.T, l interface{ Available() int }, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.Available() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d bytes, have %d", n, l.Available())
		}
		time.Sleep(time.Millisecond)
	}
}

func drain(t *testing.T, l *link) string {
	t.Helper()
	var out []byte
	for l.Available() > 0 {
		b, err := l.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
		out = append(out, b)
	}
	return string(out)
}

func newPipeLink() (*link, net.Conn) {
	local, remote := net.Pipe()
	l := &link{}
	l.init(local, nil, local.Close)
	l.wg.Add(1)
	go l.readLoop(local)
	return l, remote
}

func TestLinkBuffersInbound(t *testing.T) {
	l, remote := newPipeLink()
	defer l.Close()
	defer remote.Close()

	go remote.Write([]byte("PPA1\n"))
	waitAvailable(t, l, 5)

	if got := drain(t, l); got != "PPA1\n" {
		t.Errorf("buffered = %q, want PPA1\\n", got)
	}

	// Empty buffer on a healthy link reads as io.EOF.
	if _, err := l.ReadByte(); err != io.EOF {
		t.Errorf("ReadByte on empty buffer = %v, want io.EOF", err)
	}

	stats := l.Statistics()
	if stats.BytesReceived != 5 {
		t.Errorf("BytesReceived = %d, want 5", stats.BytesReceived)
	}
}

func TestLinkWriteLineAppendsTerminator(t *testing.T) {
	l, remote := newPipeLink()
	defer l.Close()
	defer remote.Close()

	got := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(remote).ReadString('\n')
		if err != nil {
			got <- "read error: " + err.Error()
			return
		}
		got <- line
	}()

	if err := l.WriteLine("MTA*<;>V50"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}
	if line := <-got; line != "MTA*<;>V50\n" {
		t.Errorf("peer received %q, want MTA*<;>V50\\n", line)
	}

	if sent := l.Statistics().BytesSent; sent != 11 {
		t.Errorf("BytesSent = %d, want 11", sent)
	}
}

func TestLinkClose(t *testing.T) {
	l, remote := newPipeLink()
	defer remote.Close()

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if err := l.WriteLine("*"); err != ErrClosed {
		t.Errorf("WriteLine after close = %v, want ErrClosed", err)
	}
	if _, err := l.ReadByte(); err != ErrClosed {
		t.Errorf("ReadByte after close = %v, want ErrClosed", err)
	}
}

// TestLinkPeerDisconnect verifies buffered bytes stay readable after the
// peer drops and the drop is counted.
func TestLinkPeerDisconnect(t *testing.T) {
	l, remote := newPipeLink()
	defer l.Close()

	go func() {
		remote.Write([]byte("VN2.0\n"))
		remote.Close()
	}()
	waitAvailable(t, l, 6)

	if got := drain(t, l); got != "VN2.0\n" {
		t.Errorf("buffered = %q, want VN2.0\\n", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for l.Statistics().ReadErrors == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("peer disconnect never counted")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTCPLoopback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	serverGot := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			serverGot <- "read error: " + err.Error()
			return
		}
		serverGot <- line
		conn.Write([]byte("VN2.0\n"))
	}()

	tr, err := DialTCP(TCPConfig{Address: ln.Addr().String()})
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer tr.Close()

	if err := tr.WriteLine("NGoThrottle"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}
	if line := <-serverGot; line != "NGoThrottle\n" {
		t.Errorf("server received %q, want NGoThrottle\\n", line)
	}

	waitAvailable(t, &tr.link, 6)
	if got := drain(t, &tr.link); got != "VN2.0\n" {
		t.Errorf("client buffered %q, want VN2.0\\n", got)
	}
}

func TestDialTCPRequiresAddress(t *testing.T) {
	if _, err := DialTCP(TCPConfig{}); err == nil {
		t.Errorf("DialTCP with empty address = nil error")
	}
}

func TestOpenSerialRequiresPort(t *testing.T) {
	if _, err := OpenSerial(SerialConfig{}); err == nil {
		t.Errorf("OpenSerial with empty port = nil error")
	}
}

func TestDialQUICRequiresAddress(t *testing.T) {
	if _, err := DialQUIC(QUICConfig{}); err == nil {
		t.Errorf("DialQUIC with empty address = nil error")
	}
}
