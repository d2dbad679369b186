package chat

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelchat/kestrel/internal/db"
	"github.com/kestrelchat/kestrel/internal/types"
)

// editResultMsg reports the outcome of a submitted edit.
type editResultMsg struct {
	msg *types.Message
	err error
}

// enterEditMode puts the view in single-message edit mode. Only one message
// can be in edit mode at a time; entering again replaces the previous one.
func (m *Model) enterEditMode(msgID, body string) {
	m.editingMessageID = msgID
	m.input.SetValue(body)
	m.input.CursorEnd()
	m.input.Focus()
	m.status = fmt.Sprintf("editing %s | Enter to save, Esc to cancel", msgID)
}

// exitEditMode cancels edit mode, whether via Escape or explicit cancel.
func (m *Model) exitEditMode() {
	m.editingMessageID = ""
	m.input.Reset()
	m.input.Blur()
	m.status = ""
}

func (m *Model) submitEdit() tea.Cmd {
	msgID := m.editingMessageID
	body := strings.TrimSpace(m.input.Value())
	if body == "" {
		m.exitEditMode()
		m.status = "edit cancelled: empty body"
		return nil
	}
	ops := m.ops
	conn := m.conn
	return func() tea.Msg {
		if err := ops.UpdateMessage(msgID, body); err != nil {
			return editResultMsg{err: err}
		}
		updated, err := db.GetMessage(conn, msgID)
		if err != nil {
			return editResultMsg{err: err}
		}
		if updated == nil {
			return editResultMsg{err: fmt.Errorf("message %s not found after edit", msgID)}
		}
		return editResultMsg{msg: updated}
	}
}

func (m *Model) handleEditResultMsg(msg editResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = msg.err.Error()
		return m, nil
	}
	m.exitEditMode()
	m.resize()
	m.applyMessageUpdate(*msg.msg)
	m.rebuild()
	m.refreshViewport(false)
	m.status = fmt.Sprintf("edited %s", msg.msg.ID)
	return m, nil
}

// applyMessageUpdate swaps an updated message into the local slice in
// place.
func (m *Model) applyMessageUpdate(msg types.Message) {
	for i := range m.messages {
		if m.messages[i].ID == msg.ID {
			m.messages[i] = msg
			return
		}
	}
}

// removeMessage forwards a removal and reflects the soft delete locally so
// the entry collapses right away; the next poll carries the canonical store
// state.
func (m *Model) removeMessage(id string) {
	if err := m.ops.RemoveMessage(id); err != nil {
		m.status = err.Error()
		return
	}
	now := time.Now()
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].DeletedAt = &now
			break
		}
	}
	m.rebuild()
	m.refreshViewport(false)
	m.status = fmt.Sprintf("removed %s", id)
}

// lastOwnMessage finds the newest editable message authored locally.
func (m *Model) lastOwnMessage() *types.Message {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.User.ID != m.localUser.ID || msg.ID == "" {
			continue
		}
		if msg.Deleted() || msg.Kind != types.KindRegular {
			continue
		}
		return &msg
	}
	return nil
}
