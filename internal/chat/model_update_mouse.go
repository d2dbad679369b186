package chat

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelchat/kestrel/internal/timeline"
	"github.com/kestrelchat/kestrel/internal/types"
)

func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if handled, cmd := m.handleMouseClick(msg); handled {
			return m, cmd
		}
	}
	if msg.Action == tea.MouseActionMotion {
		m.handleMouseHover(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, m.afterScroll())
}

func (m *Model) handleMouseClick(msg tea.MouseMsg) (bool, tea.Cmd) {
	if m.pendingNotification() && m.zoneManager.Get("banner-new").InBounds(msg) {
		return true, m.goToNewMessages()
	}

	for _, entry := range m.entries {
		me, ok := entry.(*timeline.MessageEntry)
		if !ok || me.Message.ID == "" {
			continue
		}
		message := me.Message

		if message.Status == types.StatusFailed && m.actionAllowed("retry") &&
			m.zoneManager.Get("retry-"+message.ID).InBounds(msg) {
			if err := m.ops.RetrySendMessage(message.ID); err != nil {
				m.status = err.Error()
			} else {
				m.status = "resending…"
			}
			return true, nil
		}

		if m.actionAllowed("copy") && m.zoneManager.Get("byline-"+message.ID).InBounds(msg) {
			if err := clipboard.WriteAll(message.Body); err != nil {
				m.status = err.Error()
			} else {
				m.status = "copied message from @" + displayName(message.User)
			}
			return true, nil
		}

		if user, ok := m.mentionAt(message, msg); ok {
			m.ops.OnMentionsClick(message, user)
			return true, nil
		}
	}
	return false, nil
}

func (m *Model) handleMouseHover(msg tea.MouseMsg) {
	for _, entry := range m.entries {
		me, ok := entry.(*timeline.MessageEntry)
		if !ok || me.Message.ID == "" {
			continue
		}
		if user, ok := m.mentionAt(me.Message, msg); ok {
			m.ops.OnMentionsHover(me.Message, user)
			return
		}
	}
}

// mentionAt resolves the mentioned user under the cursor, if any. A zone
// with no matching user in the mention list resolves to nothing, so no
// callback fires for it.
func (m *Model) mentionAt(message types.Message, msg tea.MouseMsg) (types.User, bool) {
	for _, user := range message.Mentions {
		if m.zoneManager.Get("mention-" + message.ID + "-" + user.ID).InBounds(msg) {
			return user, true
		}
	}
	return types.User{}, false
}
