package cli

import "github.com/charmbracelet/lipgloss"

// Output styles.
var (
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)
