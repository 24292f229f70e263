package protocol

import "testing"

// selectLocomotive puts the engine in a driving state for action tests.
func selectLocomotive(t *testing.T, th *Throttle, address string) {
	t.Helper()
	if err := th.AddLocomotive(address); err != nil {
		t.Fatalf("AddLocomotive(%q): %v", address, err)
	}
}

func TestLocoActionFunctionState(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []functionEvent
	}{
		{"press f28", "MTA*<;>F128", []functionEvent{{28, true}}},
		{"release f3", "MTAS3<;>F03", []functionEvent{{3, false}}},
		{"press f0", "MTA*<;>F10", []functionEvent{{0, true}}},
		{"unparseable number dropped silently", "MTA*<;>F1XX", nil},
		{"too short", "MTA*<;>F1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, tr, d, _ := newTestThrottle(t)
			selectLocomotive(t, th, "S3")
			pollLines(t, th, tr, tt.line)

			if len(d.functions) != len(tt.want) {
				t.Fatalf("function events = %v, want %v", d.functions, tt.want)
			}
			for i := range tt.want {
				if d.functions[i] != tt.want[i] {
					t.Errorf("function event %d = %v, want %v", i, d.functions[i], tt.want[i])
				}
			}
		})
	}
}

func TestLocoActionSpeed(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []int
	}{
		{"in range", "MTA*<;>V50", []int{50}},
		{"zero", "MTA*<;>V0", []int{0}},
		{"max", "MTA*<;>V126", []int{126}},
		{"over range clamps to zero", "MTA*<;>V200", []int{0}},
		{"negative clamps to zero", "MTA*<;>V-5", []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, tr, d, _ := newTestThrottle(t)
			selectLocomotive(t, th, "S3")
			pollLines(t, th, tr, tt.line)

			if len(d.speeds) != len(tt.want) {
				t.Fatalf("speed events = %v, want %v", d.speeds, tt.want)
			}
			for i := range tt.want {
				if d.speeds[i] != tt.want[i] {
					t.Errorf("speed event %d = %d, want %d", i, d.speeds[i], tt.want[i])
				}
			}
		})
	}
}

func TestLocoActionSpeedSteps(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []int
	}{
		{"valid 4", "MTA*<;>s4", []int{4}},
		{"valid 16", "MTA*<;>s16", []int{16}},
		{"invalid 3 dropped", "MTA*<;>s3", nil},
		{"invalid 0 dropped", "MTA*<;>s0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, tr, d, _ := newTestThrottle(t)
			selectLocomotive(t, th, "S3")
			pollLines(t, th, tr, tt.line)

			if len(d.speedSteps) != len(tt.want) {
				t.Fatalf("speed step events = %v, want %v", d.speedSteps, tt.want)
			}
			for i := range tt.want {
				if d.speedSteps[i] != tt.want[i] {
					t.Errorf("speed step event %d = %d, want %d", i, d.speedSteps[i], tt.want[i])
				}
			}
		})
	}
}

func TestLocoActionDirection(t *testing.T) {
	th, tr, d, _ := newTestThrottle(t)
	selectLocomotive(t, th, "S3")

	pollLines(t, th, tr, "MTA*<;>R0")
	if th.Direction() != Reverse {
		t.Errorf("Direction = %v, want Reverse", th.Direction())
	}

	pollLines(t, th, tr, "MTAS3<;>R1")
	if th.Direction() != Forward {
		t.Errorf("Direction = %v, want Forward", th.Direction())
	}

	want := []Direction{Reverse, Forward}
	if len(d.directions) != 2 || d.directions[0] != want[0] || d.directions[1] != want[1] {
		t.Errorf("direction events = %v, want %v", d.directions, want)
	}
}

func TestLocoActionDirectionLengthGuard(t *testing.T) {
	th, tr, d, _ := newTestThrottle(t)
	selectLocomotive(t, th, "S3")

	pollLines(t, th, tr, "MTA*<;>R01")

	if len(d.directions) != 0 {
		t.Errorf("direction events = %v, want none", d.directions)
	}
}

func TestLocoActionSkippedWithoutSelection(t *testing.T) {
	th, tr, d, _ := newTestThrottle(t)

	// A late echo after release must be skipped silently.
	pollLines(t, th, tr, "MTA*<;>V50")

	if len(d.speeds) != 0 {
		t.Errorf("speed events = %v, want none", d.speeds)
	}
}

func TestLocoActionUnrecognizedTag(t *testing.T) {
	th, tr, d, _ := newTestThrottle(t)
	selectLocomotive(t, th, "S3")

	pollLines(t, th, tr, "MTA*<;>Z99")

	if len(d.speeds)+len(d.functions)+len(d.speedSteps)+len(d.directions) != 0 {
		t.Errorf("unexpected events: %+v", d)
	}
}
