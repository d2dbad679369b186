package chat

import "github.com/charmbracelet/lipgloss"

var (
	metaColor    = lipgloss.Color("243")
	statusColor  = lipgloss.Color("245")
	bannerColor  = lipgloss.Color("33")
	offlineColor = lipgloss.Color("160")
	errorColor   = lipgloss.Color("196")
	localColor   = lipgloss.Color("120")
)

// userPalette cycles across remote users so adjacent authors stay
// distinguishable.
var userPalette = []lipgloss.Color{
	lipgloss.Color("39"),
	lipgloss.Color("208"),
	lipgloss.Color("170"),
	lipgloss.Color("76"),
	lipgloss.Color("214"),
	lipgloss.Color("45"),
	lipgloss.Color("203"),
}

func (m *Model) colorForUser(id string) lipgloss.Color {
	if id == m.localUser.ID {
		return localColor
	}
	var sum int
	for _, r := range id {
		sum += int(r)
	}
	return userPalette[sum%len(userPalette)]
}
