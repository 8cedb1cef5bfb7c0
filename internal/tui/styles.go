// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(12)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065"))

	voiceStyles = map[string]lipgloss.Style{
		"silent":   lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		"unvoiced": lipgloss.NewStyle().Foreground(lipgloss.Color("#E0A030")),
		"voiced":   highlightStyle,
	}
)
