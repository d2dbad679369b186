package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scrolledUpThreshold is how many lines above the bottom the viewport must
// sit before the user counts as "scrolled up" and new messages stop
// auto-scrolling.
const scrolledUpThreshold = 10

// anchorSettleDelay is how long to wait before re-applying a scroll
// position, absorbing late layout shifts from attachment rendering.
const anchorSettleDelay = 150 * time.Millisecond

// scrollSnapshot captures distance-from-bottom just before a timeline
// mutation. Consumed once by restoreAnchor, then discarded.
type scrollSnapshot struct {
	fromBottom int
	valid      bool
}

// anchorRetryMsg re-applies a restored anchor after layout settles.
// gen identifies the schedule generation it belongs to; a stale gen means
// the task was cancelled.
type anchorRetryMsg struct {
	gen        int
	fromBottom int
}

// bottomRetryMsg re-issues a scroll-to-bottom after layout settles.
type bottomRetryMsg struct {
	gen int
}

// captureAnchor snapshots the current scroll position ahead of a mutation.
// Thread views opt out of anchoring entirely, and there is nothing to
// capture before the first layout.
func (m *Model) captureAnchor() scrollSnapshot {
	if m.opts.ThreadView || m.viewport.Height <= 0 {
		return scrollSnapshot{}
	}
	return scrollSnapshot{fromBottom: m.contentHeight - m.viewport.YOffset, valid: true}
}

// restoreAnchor puts the viewport back so the content the user was reading
// stays put after new entries landed above it. Returns a deferred
// re-application task unless ownMessage forced a scroll to bottom path.
func (m *Model) restoreAnchor(snap scrollSnapshot, ownMessage bool) tea.Cmd {
	if !snap.valid {
		return nil
	}
	m.setOffset(m.contentHeight - snap.fromBottom)
	if ownMessage {
		return nil
	}
	gen := m.scheduleGen
	fromBottom := snap.fromBottom
	return tea.Tick(anchorSettleDelay, func(time.Time) tea.Msg {
		return anchorRetryMsg{gen: gen, fromBottom: fromBottom}
	})
}

// scrollToBottom jumps to the newest content and schedules one deferred
// re-issue to absorb late attachment layout shifts.
func (m *Model) scrollToBottom() tea.Cmd {
	m.viewport.GotoBottom()
	m.clearNewMessageNotification()
	gen := m.scheduleGen
	return tea.Tick(anchorSettleDelay, func(time.Time) tea.Msg {
		return bottomRetryMsg{gen: gen}
	})
}

func (m *Model) handleAnchorRetryMsg(msg anchorRetryMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.scheduleGen {
		return m, nil // cancelled
	}
	m.setOffset(m.contentHeight - msg.fromBottom)
	return m, nil
}

func (m *Model) handleBottomRetryMsg(msg bottomRetryMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.scheduleGen {
		return m, nil
	}
	m.viewport.GotoBottom()
	return m, nil
}

// setOffset clamps and applies a scroll offset. A viewport with no layout
// yet is a no-op, not an error.
func (m *Model) setOffset(offset int) {
	if m.viewport.Height <= 0 {
		return
	}
	maxOffset := m.contentHeight - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	m.viewport.SetYOffset(offset)
}

// ListenToScroll is the hook handed to scrolling collaborators: it applies
// a reported offset and reconciles the new-message banner against it.
func (m *Model) ListenToScroll(offset int) {
	m.setOffset(offset)
	m.syncNotificationWithScroll()
}

// distanceFromBottom is how many lines of content sit below the viewport.
func (m *Model) distanceFromBottom() int {
	if m.viewport.Height <= 0 {
		return 0
	}
	d := m.contentHeight - m.viewport.Height - m.viewport.YOffset
	if d < 0 {
		return 0
	}
	return d
}

// scrolledUp reports whether the user has scrolled far enough from the
// bottom that new messages should raise the banner instead of auto-scroll.
func (m *Model) scrolledUp() bool {
	return m.distanceFromBottom() > scrolledUpThreshold
}

// refreshViewport re-renders the entry sequence into the viewport.
func (m *Model) refreshViewport(scrollToBottom bool) {
	content := m.renderEntries()
	// Keep content at least one line taller than the viewport so the
	// renderer always scrolls instead of clipping the first line.
	contentHeight := lipgloss.Height(content)
	if contentHeight > 0 && contentHeight <= m.viewport.Height {
		content = "\n" + content
		contentHeight++
	}
	m.contentHeight = contentHeight
	m.viewport.SetContent(content)
	if scrollToBottom {
		m.viewport.GotoBottom()
		return
	}
	m.setOffset(m.viewport.YOffset)
}
