package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"roundhouse/withrottle-go/pkg/protocol"
)

const speedBarWidth = 42

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("wthrottle"))
	b.WriteString("\n")
	b.WriteString(m.cabPanel())
	b.WriteString("\n")
	b.WriteString(m.functionsPanel())
	b.WriteString("\n")
	b.WriteString(m.eventsPanel())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleError.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.typing {
		b.WriteString(styleHelp.Render("address: " + m.addressInput.View() + "  (enter to select, esc to cancel)"))
	} else {
		b.WriteString(styleHelp.Render("a address  s steal  x release  ↑/↓ speed  r reverse  space STOP  0-9 functions  q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) cabPanel() string {
	address := m.throttle.Address()
	if address == "" {
		address = "none"
	}

	rows := []string{
		styleLabel.Render("address") + styleValue.Render(address),
		styleLabel.Render("speed") + m.speedBar(),
		styleLabel.Render("direction") + styleValue.Render(m.throttle.Direction().String()),
		styleLabel.Render("power") + styleValue.Render(m.session.power.String()),
		styleLabel.Render("fast clock") + styleValue.Render(m.fastClock()),
	}
	return stylePanel.Render(strings.Join(rows, "\n"))
}

func (m Model) speedBar() string {
	speed := m.throttle.Speed()
	filled := speed * speedBarWidth / protocol.MaxSpeed
	bar := strings.Repeat("█", filled) + strings.Repeat("░", speedBarWidth-filled)
	return styleSpeedBar.Render(fmt.Sprintf("%s %3d", bar, speed))
}

func (m Model) fastClock() string {
	if m.throttle.FastTimeRate() == 0 {
		return "paused"
	}
	return fmt.Sprintf("%02d:%02d (rate %g)",
		m.throttle.FastTimeHours(), m.throttle.FastTimeMinutes(), m.throttle.FastTimeRate())
}

func (m Model) functionsPanel() string {
	var cells []string
	for i := 0; i <= 9; i++ {
		label := fmt.Sprintf("F%d", i)
		if m.session.funcs[i] {
			cells = append(cells, styleFuncOn.Render(label))
		} else {
			cells = append(cells, styleFuncOff.Render(label))
		}
	}
	return stylePanel.Render(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(cells, "  ")))
}

func (m Model) eventsPanel() string {
	if len(m.session.events) == 0 {
		return stylePanel.Render(styleEvent.Render("waiting for server traffic"))
	}
	var rows []string
	for _, e := range m.session.events {
		rows = append(rows, styleEvent.Render(e))
	}
	return stylePanel.Render(strings.Join(rows, "\n"))
}
