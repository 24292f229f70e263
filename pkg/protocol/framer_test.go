package protocol

import (
	"reflect"
	"strings"
	"testing"
)

// TestFramingChunkIndependence verifies that byte-at-a-time delivery and
// one-shot delivery frame identical line sets.
func TestFramingChunkIndependence(t *testing.T) {
	stream := "PPA1\n\nVN2.0\n\n*10\r\rPW12080\n"

	oneShot, _, dOne, _ := newTestThrottle(t)
	trOne := &fakeTransport{}
	oneShot.Connect(trOne)
	oneShot.SetDelegate(dOne)
	trOne.feed(stream)
	oneShot.Poll()

	byteWise, _, dByte, _ := newTestThrottle(t)
	trByte := &fakeTransport{}
	byteWise.Connect(trByte)
	byteWise.SetDelegate(dByte)
	for i := 0; i < len(stream); i++ {
		trByte.feed(stream[i : i+1])
		byteWise.Poll()
	}

	if !reflect.DeepEqual(dOne, dByte) {
		t.Errorf("delegate events differ:\none-shot:  %+v\nbyte-wise: %+v", dOne, dByte)
	}
	if len(dOne.power) != 1 || dOne.power[0] != PowerOn {
		t.Errorf("power events = %v, want [On]", dOne.power)
	}
	if len(dOne.versions) != 1 || dOne.versions[0] != "2.0" {
		t.Errorf("version events = %v, want [2.0]", dOne.versions)
	}
	if len(dOne.heartbeats) != 1 || dOne.heartbeats[0] != 10 {
		t.Errorf("heartbeat events = %v, want [10]", dOne.heartbeats)
	}
	if len(dOne.webPorts) != 1 || dOne.webPorts[0] != 12080 {
		t.Errorf("web port events = %v, want [12080]", dOne.webPorts)
	}
}

// TestFramingDoubledTerminator verifies the empty line following each
// server reply is swallowed without a dispatch.
func TestFramingDoubledTerminator(t *testing.T) {
	th, tr, d, _ := newTestThrottle(t)

	tr.feed("*5\n\n")
	th.Poll()

	if len(d.heartbeats) != 1 || d.heartbeats[0] != 5 {
		t.Fatalf("heartbeat events = %v, want [5]", d.heartbeats)
	}
}

// TestFramingOverflow verifies that an oversized line is discarded without
// overrunning the buffer and that framing recovers on the next valid line.
func TestFramingOverflow(t *testing.T) {
	th, tr, d, _ := newTestThrottle(t)

	tr.feed(strings.Repeat("A", 1500) + "\n")
	tr.feed("PPA1\n")
	th.Poll()

	if len(d.power) != 1 || d.power[0] != PowerOn {
		t.Errorf("power events after overflow = %v, want [On]", d.power)
	}
	if th.nextChar != 0 {
		t.Errorf("accumulator cursor = %d, want 0", th.nextChar)
	}
}

// TestFramingSplitAcrossPolls verifies a line split across poll cycles is
// reassembled.
func TestFramingSplitAcrossPolls(t *testing.T) {
	th, tr, d, _ := newTestThrottle(t)

	tr.feed("VN2")
	if changed := th.Poll(); changed {
		t.Errorf("partial line reported a change")
	}
	tr.feed(".0\n")
	if changed := th.Poll(); !changed {
		t.Errorf("completed line did not report a change")
	}

	if len(d.versions) != 1 || d.versions[0] != "2.0" {
		t.Errorf("version events = %v, want [2.0]", d.versions)
	}
}
