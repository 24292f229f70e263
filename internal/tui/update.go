package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"roundhouse/withrottle-go/pkg/protocol"
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.throttle.Poll()
		return m, tick()

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateDriving(msg)
	}

	return m, nil
}

// updateTyping handles keys while the address prompt is focused.
func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		address := strings.ToUpper(strings.TrimSpace(m.addressInput.Value()))
		if address != "" {
			m.err = m.throttle.AddLocomotive(address)
		}
		m.addressInput.Reset()
		m.addressInput.Blur()
		m.typing = false
		return m, nil
	case "esc":
		m.addressInput.Reset()
		m.addressInput.Blur()
		m.typing = false
		return m, nil
	}

	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

// updateDriving handles the cab keys.
func (m Model) updateDriving(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "a":
		m.typing = true
		return m, m.addressInput.Focus()

	case "s":
		if m.session.stealAddress != "" {
			m.err = m.throttle.StealLocomotive(m.session.stealAddress)
		}
		return m, nil

	case "x":
		if m.throttle.Selected() {
			m.err = m.throttle.ReleaseLocomotive(m.throttle.Address())
		}
		return m, nil

	case "up":
		m.err = m.nudgeSpeed(1)
		return m, nil
	case "down":
		m.err = m.nudgeSpeed(-1)
		return m, nil
	case "pgup":
		m.err = m.nudgeSpeed(10)
		return m, nil
	case "pgdown":
		m.err = m.nudgeSpeed(-10)
		return m, nil

	case "r":
		if m.throttle.Direction() == protocol.Forward {
			m.err = m.throttle.SetDirection(protocol.Reverse)
		} else {
			m.err = m.throttle.SetDirection(protocol.Forward)
		}
		return m, nil

	case " ", "space":
		m.err = m.throttle.EmergencyStop()
		return m, nil

	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		num := int(msg.String()[0] - '0')
		m.err = m.toggleFunction(num)
		return m, nil
	}

	return m, nil
}

func (m Model) nudgeSpeed(delta int) error {
	if !m.throttle.Selected() {
		return nil
	}
	speed := m.throttle.Speed() + delta
	if speed < protocol.MinSpeed {
		speed = protocol.MinSpeed
	}
	if speed > protocol.MaxSpeed {
		speed = protocol.MaxSpeed
	}
	return m.throttle.SetSpeed(speed)
}

func (m Model) toggleFunction(num int) error {
	if !m.throttle.Selected() {
		return nil
	}
	return m.throttle.SetFunction(num, !m.session.funcs[num])
}
