package chat

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var lines []string

	if banner := m.renderOfflineBanner(); banner != "" {
		lines = append(lines, banner)
	} else if banner := m.renderNewMessagesBanner(); banner != "" {
		lines = append(lines, banner)
	}

	lines = append(lines, m.viewport.View())

	if m.renderers.TypingIndicator != nil && len(m.typing) > 0 {
		lines = append(lines, m.renderers.TypingIndicator(m.typing))
	}
	if m.editingMessageID != "" {
		lines = append(lines, m.input.View())
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(statusColor).Render(m.statusLine()))

	return m.zoneManager.Scan(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderOfflineBanner is visible only while the connection is down; it wins
// over the new-messages banner.
func (m *Model) renderOfflineBanner() string {
	if m.online {
		return ""
	}
	style := lipgloss.NewStyle().Background(offlineColor).Foreground(lipgloss.Color("231")).Bold(true)
	return style.Render(" connection lost — reconnecting ")
}

func (m *Model) renderNewMessagesBanner() string {
	if !m.pendingNotification() {
		return ""
	}
	label := fmt.Sprintf(" ↓ new messages from %s — End to jump ", bannerAuthors(m.pendingAuthors))
	style := lipgloss.NewStyle().Background(bannerColor).Foreground(lipgloss.Color("231")).Bold(true)
	return m.zoneManager.Mark("banner-new", style.Render(label))
}

func (m *Model) statusLine() string {
	if m.status != "" {
		return m.status
	}
	name := m.channel.Name
	if name == "" {
		name = m.channel.ID
	}
	line := fmt.Sprintf("#%s · %d messages", name, len(m.messages))
	if m.hasMore {
		line += " · scroll up for history"
	}
	return line
}
