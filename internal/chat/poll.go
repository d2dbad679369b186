package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelchat/kestrel/internal/db"
	"github.com/kestrelchat/kestrel/internal/types"
)

const pollInterval = time.Second

// pollMsg carries one cycle's worth of external state: new messages past
// the cursor, the full event history and read state, and a store error when
// the backend was unreachable.
type pollMsg struct {
	newMessages  []types.Message
	events       types.EventHistory
	eventVersion db.EventVersion
	read         types.ReadState
	err          error
}

// ConnectivityMsg is an explicit online/offline transition delivered by
// the session collaborator (program.Send). Every toggle is reflected
// immediately; there is no debouncing.
type ConnectivityMsg struct {
	Online bool
}

// TypingMsg carries opaque typing-indicator data from the channel
// collaborator through to the typing renderer.
type TypingMsg struct {
	Users []types.User
}

func (m *Model) Init() tea.Cmd {
	return m.pollCmd()
}

// pollCmd is the standing subscription to the channel store. It re-arms
// itself from the update loop; once Close bumps the generation the chain
// stops re-arming.
func (m *Model) pollCmd() tea.Cmd {
	if m.closed {
		return nil
	}
	conn := m.conn
	cursor := m.lastCursor
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		var q db.MessageQuery
		if cursor != nil {
			q.Since = cursor
		}
		newMessages, err := db.GetMessages(conn, q)
		if err != nil {
			return pollMsg{err: err}
		}
		events, err := db.GetEventHistory(conn)
		if err != nil {
			return pollMsg{err: err}
		}
		eventVersion, err := db.EventsVersion(conn)
		if err != nil {
			return pollMsg{err: err}
		}
		read, err := db.GetReadState(conn)
		if err != nil {
			return pollMsg{err: err}
		}
		return pollMsg{newMessages: newMessages, events: events, eventVersion: eventVersion, read: read}
	})
}

func (m *Model) handlePollMsg(msg pollMsg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	if msg.err != nil {
		m.online = false
		m.status = msg.err.Error()
		return m, m.pollCmd()
	}
	m.online = true

	prevLast := m.lastEntryMessage()
	grew := len(msg.newMessages) > 0
	eventsChanged := msg.eventVersion != m.eventVersion

	// Two-phase commit around the mutation: snapshot distance-from-bottom
	// before new entries land, restore after.
	var snap scrollSnapshot
	if grew || eventsChanged {
		snap = m.captureAnchor()
	}

	if grew {
		incoming := m.filterNewMessages(msg.newMessages)
		m.messages = append(m.messages, incoming...)
		last := msg.newMessages[len(msg.newMessages)-1]
		m.lastCursor = &types.MessageCursor{ID: last.ID, TS: last.CreatedAt}
	}
	m.events = msg.events
	m.eventVersion = msg.eventVersion
	m.read = msg.read

	m.rebuild()
	m.refreshViewport(false)

	currLast := m.lastEntryMessage()
	ownMessage := currLast != nil && currLast.User.ID == m.localUser.ID

	var cmds []tea.Cmd
	if cmd := m.reconcileScroll(prevLast, currLast); cmd != nil {
		cmds = append(cmds, cmd)
	} else if snap.valid {
		if cmd := m.restoreAnchor(snap, ownMessage); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.pendingNotification() {
		for _, incoming := range msg.newMessages {
			m.maybeNotify(incoming)
		}
	}

	cmds = append(cmds, m.pollCmd())
	return m, tea.Batch(cmds...)
}

// filterNewMessages drops poll results already present locally (the
// timeline deduplicates by id anyway, but there is no point carrying them).
func (m *Model) filterNewMessages(incoming []types.Message) []types.Message {
	known := make(map[string]struct{}, len(m.messages))
	for _, msg := range m.messages {
		if msg.ID != "" {
			known[msg.ID] = struct{}{}
		}
	}
	out := make([]types.Message, 0, len(incoming))
	for _, msg := range incoming {
		if _, dup := known[msg.ID]; dup {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (m *Model) handleConnectivityMsg(msg ConnectivityMsg) (tea.Model, tea.Cmd) {
	m.online = msg.Online
	return m, nil
}

func (m *Model) handleTypingMsg(msg TypingMsg) (tea.Model, tea.Cmd) {
	m.typing = msg.Users
	return m, nil
}

// loadMore pages older history in and keeps the viewport anchored on what
// the user was reading. This is the callback contract for the
// infinite-scroll collaborator; the trigger here is scrolling near the top.
func (m *Model) loadMore() tea.Cmd {
	if m.opts.ThreadView || !m.hasMore || m.loadingMore || m.oldestCursor == nil {
		return nil
	}
	m.loadingMore = true
	defer func() { m.loadingMore = false }()

	older, err := db.GetMessages(m.conn, db.MessageQuery{Before: m.oldestCursor, Limit: m.opts.Last})
	if err != nil {
		m.status = err.Error()
		return nil
	}
	if len(older) == 0 {
		m.hasMore = false
		return nil
	}

	snap := m.captureAnchor()

	first := older[0]
	m.oldestCursor = &types.MessageCursor{ID: first.ID, TS: first.CreatedAt}
	if len(older) < m.opts.Last {
		m.hasMore = false
	}
	m.messages = append(older, m.messages...)
	m.rebuild()
	m.refreshViewport(false)

	return m.restoreAnchor(snap, false)
}
