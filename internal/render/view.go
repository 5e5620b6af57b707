// Package render formats feed events and oracle messages for the terminal.
package render

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/oracle"
	"prophet-ai/internal/web"
)

var defaultStyles = newStyles()

// TokenLine renders one accepted token: symbol, name, short CA and age.
func TokenLine(t domain.ObservedToken, now time.Time) string {
	s := defaultStyles
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.symbol.Render("$"+t.Symbol),
		s.name.Render(t.Name),
		s.ca.Render(web.FormatCA(t.Mint)),
		"  ",
		s.age.Render(web.TimeAgo(now, t.ObservedAt)),
	)
}

// StatusLine renders a connection state change observed at.
func StatusLine(state domain.ConnState, at time.Time) string {
	s := defaultStyles

	style := s.down
	switch state {
	case domain.ConnConnected:
		style = s.live
	case domain.ConnConnecting:
		style = s.connecting
	}

	return fmt.Sprintf("%s %s",
		s.stamp.Render(at.Format("15:04:05")),
		style.Render("feed "+web.StatusLabel(state)),
	)
}

// MessageLine renders one oracle transcript entry.
func MessageLine(m oracle.Message) string {
	s := defaultStyles
	if m.IsUser {
		return s.user.Render("> " + m.Text)
	}
	return s.oracle.Render("ORACLE: " + m.Text)
}
