package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#83a598")
	colorRed    = lipgloss.Color("#fb4934")
	colorGreen  = lipgloss.Color("#8ec07c")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleClock    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(colorHeader).MarginTop(1)
	styleTimer    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleError    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleLabel    = lipgloss.NewStyle().Width(14)
	styleSelected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleDialog   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(0, 2).
			MarginTop(1)
)
