package chat

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelchat/kestrel/internal/types"
)

// recordingOps captures forwarded channel callbacks for assertions.
type recordingOps struct {
	removed   []string
	removeErr error
}

func (o *recordingOps) UpdateMessage(id, body string) error { return nil }

func (o *recordingOps) RemoveMessage(id string) error {
	if o.removeErr != nil {
		return o.removeErr
	}
	o.removed = append(o.removed, id)
	return nil
}

func (o *recordingOps) RetrySendMessage(id string) error { return nil }
func (o *recordingOps) OpenThread(id string) error { return nil }
func (o *recordingOps) OnMentionsClick(types.Message, types.User) {}
func (o *recordingOps) OnMentionsHover(types.Message, types.User) {}

func TestEscapeCancelsEdit(t *testing.T) {
	m := newTestModel(t, 3)
	m.enterEditMode("m1", "original body")
	if m.editingMessageID != "m1" {
		t.Fatalf("editing id = %q, want m1", m.editingMessageID)
	}

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editingMessageID != "" {
		t.Errorf("editing id = %q after Escape, want empty", m.editingMessageID)
	}
	if m.input.Value() != "" {
		t.Errorf("input still holds %q after cancel", m.input.Value())
	}
}

func TestEnterEditModeReplacesPrevious(t *testing.T) {
	m := newTestModel(t, 3)
	m.enterEditMode("m1", "one")
	m.enterEditMode("m2", "two")
	if m.editingMessageID != "m2" {
		t.Errorf("editing id = %q, want m2 (one at a time)", m.editingMessageID)
	}
	if m.input.Value() != "two" {
		t.Errorf("input = %q, want body of the new target", m.input.Value())
	}
}

func TestLastOwnMessage(t *testing.T) {
	m := newTestModel(t, 3)
	if got := m.lastOwnMessage(); got != nil {
		t.Fatalf("lastOwnMessage = %v, want nil with no local messages", got)
	}

	mine := testMsg("mine", "me", testBase.Add(time.Hour))
	deleted := testMsg("gone", "me", testBase.Add(2*time.Hour))
	now := testBase.Add(3 * time.Hour)
	deleted.DeletedAt = &now
	m.messages = append(m.messages, mine, deleted)

	got := m.lastOwnMessage()
	if got == nil || got.ID != "mine" {
		t.Errorf("lastOwnMessage = %v, want mine (deleted ones skipped)", got)
	}
}

func TestEditKeyRequiresOwnMessage(t *testing.T) {
	m := newTestModel(t, 3)
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.editingMessageID != "" {
		t.Error("edit mode entered with no local message")
	}

	m.messages = append(m.messages, testMsg("mine", "me", testBase.Add(time.Hour)))
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.editingMessageID != "mine" {
		t.Errorf("editing id = %q, want mine", m.editingMessageID)
	}
}

func TestActionSetGatesEdit(t *testing.T) {
	m := newTestModel(t, 3)
	m.opts.MessageActions = []string{"copy"}
	m.messages = append(m.messages, testMsg("mine", "me", testBase.Add(time.Hour)))

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.editingMessageID != "" {
		t.Error("edit should be gated out by the action set")
	}
}

func TestApplyMessageUpdate(t *testing.T) {
	m := newTestModel(t, 3)
	updated := m.messages[1]
	updated.Body = "rewritten"
	updated.UpdatedAt = updated.UpdatedAt.Add(time.Minute)

	m.applyMessageUpdate(updated)
	if m.messages[1].Body != "rewritten" {
		t.Errorf("body = %q, want rewritten", m.messages[1].Body)
	}
	if !m.messages[1].Edited() {
		t.Error("updated message should report Edited")
	}
}

func TestRemoveKeyDeletesLastOwnMessage(t *testing.T) {
	m := newTestModel(t, 3)
	ops := &recordingOps{}
	m.ops = ops
	m.messages = append(m.messages, testMsg("mine", "me", testBase.Add(time.Hour)))
	m.rebuild()

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})

	if len(ops.removed) != 1 || ops.removed[0] != "mine" {
		t.Fatalf("removed = %v, want [mine]", ops.removed)
	}
	last := m.messages[len(m.messages)-1]
	if !last.Deleted() {
		t.Error("removed message should be soft-deleted locally")
	}
	if m.lastOwnMessage() != nil {
		t.Error("deleted message must not be offered for edit or remove again")
	}
}

func TestRemoveKeyWithoutOwnMessage(t *testing.T) {
	m := newTestModel(t, 3)
	ops := &recordingOps{}
	m.ops = ops

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if len(ops.removed) != 0 {
		t.Errorf("removed = %v, want none with no local message", ops.removed)
	}
}

func TestActionSetGatesRemove(t *testing.T) {
	m := newTestModel(t, 3)
	ops := &recordingOps{}
	m.ops = ops
	m.opts.MessageActions = []string{"copy"}
	m.messages = append(m.messages, testMsg("mine", "me", testBase.Add(time.Hour)))
	m.rebuild()

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if len(ops.removed) != 0 {
		t.Error("remove should be gated out by the action set")
	}
}

func TestRemoveErrorKeepsMessage(t *testing.T) {
	m := newTestModel(t, 3)
	m.ops = &recordingOps{removeErr: errors.New("store unreachable")}
	m.messages = append(m.messages, testMsg("mine", "me", testBase.Add(time.Hour)))
	m.rebuild()

	m.removeMessage("mine")

	if m.messages[len(m.messages)-1].Deleted() {
		t.Error("failed removal must not soft-delete locally")
	}
	if m.status != "store unreachable" {
		t.Errorf("status = %q, want the forwarded error", m.status)
	}
}

func TestConnectivityToggle(t *testing.T) {
	m := newTestModel(t, 3)
	m.handleConnectivityMsg(ConnectivityMsg{Online: false})
	if m.online {
		t.Error("offline transition not reflected")
	}
	if m.renderOfflineBanner() == "" {
		t.Error("offline banner should be visible")
	}
	m.handleConnectivityMsg(ConnectivityMsg{Online: true})
	if !m.online {
		t.Error("online transition not reflected")
	}
	if m.renderOfflineBanner() != "" {
		t.Error("offline banner should be hidden while online")
	}
}
