package tui

import "github.com/charmbracelet/lipgloss"

// Colors adapt to light and dark terminals.
var (
	accent = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "205"}
	muted  = lipgloss.AdaptiveColor{Light: "245", Dark: "240"}
	ok     = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	warn   = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	bad    = lipgloss.Color("196")
)

var (
	tabStyle         = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle   = tabStyle.Foreground(accent).Bold(true).Underline(true)
	inactiveTabStyle = tabStyle.Foreground(muted)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	lineStyle    = lipgloss.NewStyle().Padding(0, 2)
	statusStyle  = lineStyle.Foreground(ok)
	errorStyle   = lineStyle.Foreground(bad)
	warningStyle = lineStyle.Foreground(warn)

	dangerStyle = lipgloss.NewStyle().Foreground(bad).Bold(true)
)
