package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"roundhouse/withrottle-go/pkg/protocol"
)

func Run(th *protocol.Throttle) error {
	p := tea.NewProgram(New(th), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
