package chat

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kestrelchat/kestrel/internal/db"
	"github.com/kestrelchat/kestrel/internal/timeline"
	"github.com/kestrelchat/kestrel/internal/types"
)

// Options configure the timeline view.
type Options struct {
	DB        *sql.DB
	Channel   types.Channel
	LocalUser types.User

	// Last is the initial page size.
	Last int
	// NoGroupByUser forces every message into its own group.
	NoGroupByUser bool
	// ThreadView marks a sub-conversation view: no date markers, no scroll
	// anchoring adjustments.
	ThreadView bool
	// MessageActions is the set of per-message actions to allow
	// ("copy", "edit", "remove", "retry", "thread"). Empty means all.
	MessageActions []string

	// Ops is the channel collaborator. Defaults to the store-backed one.
	Ops ChannelOps
	// Renderers override per-entry rendering. Nil fields fall back to the
	// built-in lipgloss renderers.
	Renderers EntryRenderers
}

// Run starts the timeline UI and blocks until it exits.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithMouseCellMotion())
	_, err = program.Run()
	model.Close()
	return err
}

// Model is the stateful timeline view: it owns the reconciliation cycle,
// scroll anchoring, the new-messages banner, connectivity state, and the
// single-message edit mode. All mutation happens on the Bubble Tea update
// loop; there is no concurrent access.
type Model struct {
	conn      *sql.DB
	channel   types.Channel
	localUser types.User
	opts      Options
	ops       ChannelOps
	renderers EntryRenderers

	viewport    viewport.Model
	input       textarea.Model
	zoneManager *zone.Manager

	// Raw inputs for the current cycle.
	messages []types.Message
	events   types.EventHistory
	read     types.ReadState
	typing   []types.User

	// Output of the last reconciliation cycle.
	entries       []timeline.Entry
	contentHeight int
	eventVersion  db.EventVersion

	lastCursor   *types.MessageCursor
	oldestCursor *types.MessageCursor
	hasMore      bool
	loadingMore  bool

	width  int
	height int
	status string

	// New-messages banner state. Non-empty means a notification is pending.
	pendingAuthors []string

	online bool

	editingMessageID string

	// scheduleGen keys every deferred scroll task; bumping it cancels all
	// outstanding ones at once.
	scheduleGen int
	closed      bool
}

// NewModel loads the initial page and builds the first render model.
func NewModel(opts Options) (*Model, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("chat: store connection is required")
	}
	if opts.Last <= 0 {
		opts.Last = 50
	}
	if opts.Ops == nil {
		opts.Ops = NewStoreOps(opts.DB)
	}

	rawMessages, err := db.GetMessages(opts.DB, db.MessageQuery{Limit: opts.Last})
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	events, err := db.GetEventHistory(opts.DB)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	read, err := db.GetReadState(opts.DB)
	if err != nil {
		return nil, fmt.Errorf("load read state: %w", err)
	}
	eventVersion, err := db.EventsVersion(opts.DB)
	if err != nil {
		return nil, err
	}

	m := &Model{
		conn:         opts.DB,
		channel:      opts.Channel,
		localUser:    opts.LocalUser,
		opts:         opts,
		ops:          opts.Ops,
		renderers:    opts.Renderers,
		viewport:     viewport.New(0, 0),
		input:        newInputModel(),
		zoneManager:  zone.New(),
		messages:     rawMessages,
		events:       events,
		read:         read,
		eventVersion: eventVersion,
		hasMore:      len(rawMessages) >= opts.Last,
		online:       true,
	}
	if len(rawMessages) > 0 {
		first := rawMessages[0]
		last := rawMessages[len(rawMessages)-1]
		m.oldestCursor = &types.MessageCursor{ID: first.ID, TS: first.CreatedAt}
		m.lastCursor = &types.MessageCursor{ID: last.ID, TS: last.CreatedAt}
	}
	m.rebuild()
	m.refreshViewport(true)
	return m, nil
}

// Close tears the model down: outstanding deferred scroll tasks are
// cancelled and the poll subscription goes dead. Safe to call twice.
func (m *Model) Close() {
	m.closed = true
	m.scheduleGen++
}

// rebuild runs one pure reconciliation cycle over the current inputs.
func (m *Model) rebuild() {
	model := timeline.Build(timeline.Inputs{
		Messages:      m.messages,
		Events:        m.events,
		Read:          m.read,
		NoGroupByUser: m.opts.NoGroupByUser,
		ThreadView:    m.opts.ThreadView,
	})
	m.entries = model.Entries
}

// actionAllowed reports whether a per-message action is in the configured
// action set. An empty set allows everything.
func (m *Model) actionAllowed(action string) bool {
	if len(m.opts.MessageActions) == 0 {
		return true
	}
	for _, a := range m.opts.MessageActions {
		if a == action {
			return true
		}
	}
	return false
}

func newInputModel() textarea.Model {
	input := textarea.New()
	input.Placeholder = "Edit message"
	input.CharLimit = 0
	input.SetHeight(1)
	input.ShowLineNumbers = false
	return input
}
