package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"roundhouse/withrottle-go/pkg/protocol"
)

const (
	pollInterval = 50 * time.Millisecond
	maxEvents    = 8
)

// session collects engine events between frames. It is shared by pointer
// with the throttle, which only fires callbacks inside Poll, and Poll only
// runs on the update goroutine.
type session struct {
	events []string

	power protocol.TrackPower
	funcs [protocol.MaxFunction + 1]bool

	// stealAddress is the address waiting for a steal confirmation.
	stealAddress string
}

func (s *session) push(format string, args ...interface{}) {
	s.events = append(s.events, fmt.Sprintf(format, args...))
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
}

func (s *session) HeartbeatConfig(seconds int) {
	s.push("heartbeat demanded every %ds", seconds)
}

func (s *session) ReceivedVersion(version string) {
	s.push("server version %s", version)
}

func (s *session) ReceivedWebPort(port int) {
	s.push("web interface on port %d", port)
}

func (s *session) ReceivedFunctionState(funcNum int, pressed bool) {
	if funcNum >= 0 && funcNum < len(s.funcs) {
		s.funcs[funcNum] = pressed
	}
	s.push("F%d %s", funcNum, onOff(pressed))
}

func (s *session) ReceivedSpeed(speed int) {
	s.push("speed set to %d", speed)
}

func (s *session) ReceivedSpeedSteps(steps int) {
	s.push("decoder speed steps: %d", steps)
}

func (s *session) ReceivedDirection(dir protocol.Direction) {
	s.push("direction %s", dir)
}

func (s *session) ReceivedTrackPower(power protocol.TrackPower) {
	s.power = power
	s.push("track power %s", power)
}

func (s *session) AddressAdded(address, entry string) {
	s.stealAddress = ""
	s.push("driving %s (%s)", address, entry)
}

func (s *session) AddressRemoved(address, entry string) {
	s.push("released %s", address)
}

func (s *session) AddressStealNeeded(address, entry string) {
	s.stealAddress = address
	s.push("%s is in use, press s to steal", address)
}

func onOff(pressed bool) string {
	if pressed {
		return "on"
	}
	return "off"
}

type Model struct {
	throttle *protocol.Throttle
	session  *session

	addressInput textinput.Model
	typing       bool

	width  int
	height int
	err    error
}

func New(th *protocol.Throttle) Model {
	input := textinput.New()
	input.Placeholder = "S3 or L4014"
	input.CharLimit = 8
	input.Width = 12

	s := &session{power: protocol.PowerUnknown}
	th.SetDelegate(s)

	return Model{
		throttle:     th,
		session:      s,
		addressInput: input,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}
