package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/kestrelchat/kestrel/internal/timeline"
	"github.com/kestrelchat/kestrel/internal/types"
)

// reconcileScroll decides, once per update cycle, between auto-scrolling to
// the new last message and raising the new-messages banner. prev and curr
// are the last message of the previous and current cycle; no transition
// fires while either side is empty (startup, empty channel).
func (m *Model) reconcileScroll(prev, curr *types.Message) tea.Cmd {
	if prev == nil || curr == nil {
		return nil
	}
	if prev.ID == curr.ID {
		return nil
	}
	if curr.User.ID == m.localUser.ID {
		// Own messages always land at the true bottom.
		m.refreshViewport(true)
		return m.scrollToBottom()
	}
	if !m.scrolledUp() {
		m.refreshViewport(true)
		return m.scrollToBottom()
	}
	// Scrolled up: raise (or extend) the banner instead of scrolling.
	m.addNewMessageAuthor(displayName(curr.User))
	return nil
}

// addNewMessageAuthor tracks an author for the pending banner, once.
func (m *Model) addNewMessageAuthor(author string) {
	for _, existing := range m.pendingAuthors {
		if existing == author {
			return
		}
	}
	m.pendingAuthors = append(m.pendingAuthors, author)
}

func (m *Model) clearNewMessageNotification() {
	m.pendingAuthors = nil
}

// pendingNotification reports whether the new-messages banner is up.
func (m *Model) pendingNotification() bool {
	return len(m.pendingAuthors) > 0
}

// goToNewMessages is the explicit banner action: jump down and clear.
func (m *Model) goToNewMessages() tea.Cmd {
	m.refreshViewport(true)
	return m.scrollToBottom()
}

// syncNotificationWithScroll clears the banner when the user scrolls back
// within the threshold on their own, no new message required.
func (m *Model) syncNotificationWithScroll() {
	if m.pendingNotification() && !m.scrolledUp() {
		m.clearNewMessageNotification()
	}
}

// maybeNotify sends an OS notification for messages that mention the local
// user while the banner is up. Own, system, and error messages never
// notify.
func (m *Model) maybeNotify(msg types.Message) {
	if msg.User.ID == m.localUser.ID {
		return
	}
	if msg.Kind != types.KindRegular {
		return
	}
	if !m.pendingNotification() {
		return
	}
	mentioned := false
	for _, u := range msg.Mentions {
		if u.ID == m.localUser.ID {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return
	}
	title := displayName(msg.User)
	if m.channel.Name != "" {
		title += " · " + m.channel.Name
	}
	_ = beeep.Notify(title, msg.Body, "")
}

// lastEntryMessage is the last message of the current cycle.
func (m *Model) lastEntryMessage() *types.Message {
	return timeline.LastMessage(m.entries)
}

func displayName(u types.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

func bannerAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " and " + authors[1]
	default:
		return strings.Join(authors[:2], ", ") + " and others"
	}
}
