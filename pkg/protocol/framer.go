package protocol

// Line framing: the transport delivers an unbounded byte stream with no
// structure; lines are delimited by '\n' or '\r'. Servers send a doubled
// terminator after each reply, so an empty line is swallowed rather than
// dispatched.

// drainInput pulls every currently available byte from the transport and
// feeds it through the accumulator, dispatching each completed line. It
// returns whether any dispatched line produced an observable change.
func (t *Throttle) drainInput() bool {
	changed := false

	for t.transport.Available() > 0 {
		b, err := t.transport.ReadByte()
		if err != nil {
			t.log.Warn("read failed mid-drain: %v", err)
			break
		}

		if b == '\n' || b == '\r' {
			// The second terminator of a doubled pair arrives with an
			// empty accumulator and falls through as a no-op.
			if t.nextChar != 0 {
				line := t.inputBuffer[:t.nextChar]
				changed = t.processLine(line) || changed
			}
			t.nextChar = 0
			continue
		}

		t.inputBuffer[t.nextChar] = b
		t.nextChar++
		if t.nextChar == lineBufferCap {
			// Oversized line: discard it and start over. This caps memory
			// against a malformed or adversarial stream; the remainder of
			// the line will be framed (and rejected) as garbage.
			t.log.Error("line too long, discarding: %s", t.inputBuffer[:t.nextChar])
			t.nextChar = 0
		}
	}

	return changed
}
