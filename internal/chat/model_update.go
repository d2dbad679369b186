package chat

import tea "github.com/charmbracelet/bubbletea"

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case pollMsg:
		return m.handlePollMsg(msg)
	case ConnectivityMsg:
		return m.handleConnectivityMsg(msg)
	case TypingMsg:
		return m.handleTypingMsg(msg)
	case anchorRetryMsg:
		return m.handleAnchorRetryMsg(msg)
	case bottomRetryMsg:
		return m.handleBottomRetryMsg(msg)
	case editResultMsg:
		return m.handleEditResultMsg(msg)
	default:
		var cmd tea.Cmd
		if m.editingMessageID != "" {
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.resize()
	return m, nil
}

// resize recomputes the viewport box from the window size and the chrome
// around it (banners, input, status line).
func (m *Model) resize() {
	chrome := 2 // status line + margin
	if m.editingMessageID != "" {
		chrome += m.input.Height()
	}
	if !m.online || m.pendingNotification() {
		chrome++
	}
	height := m.height - chrome
	if height < 0 {
		height = 0
	}
	wasAtBottom := m.distanceFromBottom() == 0
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.input.SetWidth(m.width)
	m.refreshViewport(wasAtBottom)
}
