package chat

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingMessageID != "" {
		return m.handleEditKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	case tea.KeyEnd:
		return m, m.goToNewMessages()
	case tea.KeyEsc:
		// Nothing is being edited; Escape just dismisses the banner.
		m.clearNewMessageNotification()
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.Close()
		return m, tea.Quit
	case "e":
		if m.actionAllowed("edit") {
			if own := m.lastOwnMessage(); own != nil {
				m.enterEditMode(own.ID, own.Body)
				m.resize()
			} else {
				m.status = "no message of yours to edit"
			}
		}
		return m, nil
	case "d":
		if m.actionAllowed("remove") {
			if own := m.lastOwnMessage(); own != nil {
				m.removeMessage(own.ID)
			} else {
				m.status = "no message of yours to remove"
			}
		}
		return m, nil
	case "o":
		if m.actionAllowed("thread") && !m.opts.ThreadView {
			if last := m.lastEntryMessage(); last != nil {
				if err := m.ops.OpenThread(last.ID); err != nil {
					m.status = err.Error()
				}
			}
		}
		return m, nil
	case "y":
		if m.actionAllowed("copy") {
			if last := m.lastEntryMessage(); last != nil {
				if err := clipboard.WriteAll(last.Body); err != nil {
					m.status = err.Error()
				} else {
					m.status = "copied last message"
				}
			}
		}
		return m, nil
	}

	// Everything else drives the scroll container.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, m.afterScroll())
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.exitEditMode()
		m.resize()
		return m, nil
	case tea.KeyEnter:
		return m, m.submitEdit()
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// afterScroll runs whatever follows a live scroll-offset change: clearing
// the banner when the user is back near the bottom, and triggering the
// load-more contract near the top.
func (m *Model) afterScroll() tea.Cmd {
	m.syncNotificationWithScroll()
	if m.viewport.YOffset <= 3 {
		return m.loadMore()
	}
	return nil
}
