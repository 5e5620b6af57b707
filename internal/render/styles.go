package render

import "github.com/charmbracelet/lipgloss"

type styles struct {
	symbol     lipgloss.Style
	name       lipgloss.Style
	ca         lipgloss.Style
	age        lipgloss.Style
	live       lipgloss.Style
	connecting lipgloss.Style
	down       lipgloss.Style
	stamp      lipgloss.Style
	user       lipgloss.Style
	oracle     lipgloss.Style
}

func newStyles() styles {
	return styles{
		symbol:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Width(12),
		name:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(28).MaxWidth(28),
		ca:         lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		age:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		live:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		connecting: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		down:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		stamp:      lipgloss.NewStyle().Faint(true),
		user:       lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		oracle:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")).PaddingLeft(2),
	}
}
