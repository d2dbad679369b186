package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kestrelchat/kestrel/internal/types"
)

var testBase = time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

func testMsg(id, user string, t time.Time) types.Message {
	return types.Message{
		ID:        id,
		CreatedAt: t,
		UpdatedAt: t,
		User:      types.User{ID: user},
		Body:      "message " + id,
		Kind:      types.KindRegular,
		Status:    types.StatusReceived,
	}
}

// newTestModel builds a model directly, bypassing the store, with enough
// same-day messages that the content overflows the viewport.
func newTestModel(t *testing.T, count int) *Model {
	t.Helper()
	msgs := make([]types.Message, 0, count)
	for i := 0; i < count; i++ {
		msgs = append(msgs, testMsg(fmt.Sprintf("m%d", i), "amy", testBase.Add(time.Duration(i)*time.Minute)))
	}
	m := &Model{
		localUser:   types.User{ID: "me"},
		channel:     types.Channel{ID: "general", Name: "general"},
		zoneManager: zone.New(),
		viewport:    viewport.New(40, 6),
		input:       newInputModel(),
		online:      true,
		messages:    msgs,
	}
	m.rebuild()
	m.refreshViewport(true)
	return m
}

func appendMessage(m *Model, msg types.Message) (prev, curr *types.Message) {
	prev = m.lastEntryMessage()
	m.messages = append(m.messages, msg)
	m.rebuild()
	m.refreshViewport(false)
	return prev, m.lastEntryMessage()
}

func TestNotificationRaisedWhenScrolledUp(t *testing.T) {
	m := newTestModel(t, 30)
	m.setOffset(0) // user reading old history
	if !m.scrolledUp() {
		t.Fatal("test setup: expected scrolled-up state")
	}

	prev, curr := appendMessage(m, testMsg("new", "bob", testBase.Add(time.Hour)))
	cmd := m.reconcileScroll(prev, curr)

	if cmd != nil {
		t.Error("no auto-scroll command expected while scrolled up")
	}
	if !m.pendingNotification() {
		t.Error("pending notification should be raised")
	}
	if m.viewport.YOffset != 0 {
		t.Errorf("viewport moved to %d, want 0", m.viewport.YOffset)
	}
}

func TestOwnMessageForcesScrollToBottom(t *testing.T) {
	m := newTestModel(t, 30)
	m.setOffset(0)

	prev, curr := appendMessage(m, testMsg("mine", "me", testBase.Add(time.Hour)))
	cmd := m.reconcileScroll(prev, curr)

	if cmd == nil {
		t.Error("own message should schedule the deferred bottom re-issue")
	}
	if m.pendingNotification() {
		t.Error("own message must not raise the banner")
	}
	if m.distanceFromBottom() != 0 {
		t.Errorf("distance from bottom = %d, want 0", m.distanceFromBottom())
	}
}

func TestNewMessageAtBottomAutoScrolls(t *testing.T) {
	m := newTestModel(t, 30)
	// viewport already at bottom from setup

	prev, curr := appendMessage(m, testMsg("new", "bob", testBase.Add(time.Hour)))
	cmd := m.reconcileScroll(prev, curr)

	if cmd == nil {
		t.Error("expected auto-scroll command")
	}
	if m.pendingNotification() {
		t.Error("no banner expected when user is at the bottom")
	}
	if m.distanceFromBottom() != 0 {
		t.Errorf("distance from bottom = %d, want 0", m.distanceFromBottom())
	}
}

func TestNoTransitionOnEmptySides(t *testing.T) {
	m := newTestModel(t, 3)
	curr := m.lastEntryMessage()

	if cmd := m.reconcileScroll(nil, curr); cmd != nil {
		t.Error("nil previous message must not fire a transition")
	}
	if cmd := m.reconcileScroll(curr, nil); cmd != nil {
		t.Error("nil current message must not fire a transition")
	}
	if m.pendingNotification() {
		t.Error("no banner expected")
	}
}

func TestUnchangedLastMessageIsQuiet(t *testing.T) {
	m := newTestModel(t, 5)
	m.setOffset(0)
	last := m.lastEntryMessage()

	if cmd := m.reconcileScroll(last, last); cmd != nil {
		t.Error("same last message must not scroll")
	}
	if m.pendingNotification() {
		t.Error("same last message must not raise the banner")
	}
}

func TestScrollBackClearsNotification(t *testing.T) {
	m := newTestModel(t, 30)
	m.setOffset(0)
	prev, curr := appendMessage(m, testMsg("new", "bob", testBase.Add(time.Hour)))
	m.reconcileScroll(prev, curr)
	if !m.pendingNotification() {
		t.Fatal("banner should be up")
	}

	m.viewport.GotoBottom()
	m.syncNotificationWithScroll()
	if m.pendingNotification() {
		t.Error("scrolling back under the threshold should clear the banner")
	}
}

func TestGoToNewMessagesClears(t *testing.T) {
	m := newTestModel(t, 30)
	m.setOffset(0)
	prev, curr := appendMessage(m, testMsg("new", "bob", testBase.Add(time.Hour)))
	m.reconcileScroll(prev, curr)

	cmd := m.goToNewMessages()
	if cmd == nil {
		t.Error("explicit action should schedule the deferred bottom re-issue")
	}
	if m.pendingNotification() {
		t.Error("explicit action should clear the banner")
	}
	if m.distanceFromBottom() != 0 {
		t.Errorf("distance from bottom = %d, want 0", m.distanceFromBottom())
	}
}

func TestBannerAuthors(t *testing.T) {
	tests := []struct {
		authors []string
		want    string
	}{
		{nil, ""},
		{[]string{"amy"}, "amy"},
		{[]string{"amy", "bob"}, "amy and bob"},
		{[]string{"amy", "bob", "cat"}, "amy, bob and others"},
	}
	for _, tt := range tests {
		if got := bannerAuthors(tt.authors); got != tt.want {
			t.Errorf("bannerAuthors(%v) = %q, want %q", tt.authors, got, tt.want)
		}
	}
}

func TestAddNewMessageAuthorDeduplicates(t *testing.T) {
	m := newTestModel(t, 1)
	m.addNewMessageAuthor("bob")
	m.addNewMessageAuthor("bob")
	if len(m.pendingAuthors) != 1 {
		t.Errorf("authors = %v, want one entry", m.pendingAuthors)
	}
}
