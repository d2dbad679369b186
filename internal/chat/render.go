package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/kestrelchat/kestrel/internal/timeline"
	"github.com/kestrelchat/kestrel/internal/types"
)

// EntryRenderers are the pluggable per-entry renderer components. Nil
// fields fall back to the built-in renderers; a nil TypingIndicator simply
// omits that line.
type EntryRenderers struct {
	Message         func(msg types.Message, group timeline.GroupStyle, readBy []types.User, width int) string
	DateSeparator   func(date time.Time, width int) string
	Event           func(ev types.ChannelEvent, width int) string
	TypingIndicator func(users []types.User) string
}

// renderEntries turns the current entry sequence into viewport content.
func (m *Model) renderEntries() string {
	width := m.viewport.Width
	chunks := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		switch e := entry.(type) {
		case *timeline.DateMarker:
			if m.renderers.DateSeparator != nil {
				chunks = append(chunks, m.renderers.DateSeparator(e.Date, width))
			} else {
				chunks = append(chunks, m.formatDateMarker(e.Date, width))
			}
		case *timeline.EventEntry:
			if m.renderers.Event != nil {
				chunks = append(chunks, m.renderers.Event(e.Event, width))
			} else {
				chunks = append(chunks, m.formatEvent(e.Event, width))
			}
		case *timeline.MessageEntry:
			if m.renderers.Message != nil {
				chunks = append(chunks, m.renderers.Message(e.Message, e.Group, e.ReadBy, width))
			} else {
				chunks = append(chunks, m.formatMessage(e))
			}
		}
	}
	return strings.Join(chunks, "\n")
}

func (m *Model) formatDateMarker(date time.Time, width int) string {
	label := date.Local().Format("Monday, January 2")
	line := "── " + label + " ──"
	style := lipgloss.NewStyle().Foreground(metaColor).Bold(true)
	return "\n" + style.Render(line)
}

func (m *Model) formatEvent(ev types.ChannelEvent, width int) string {
	text := ev.Text
	if text == "" {
		text = ev.Kind
	}
	if width > 0 {
		text = ansi.Wrap(text, width, "")
	}
	return lipgloss.NewStyle().Foreground(metaColor).Italic(true).Render(text)
}

// formatMessage renders one message entry. Grouping drives the chrome: a
// byline on top/single, a footer on bottom/single, bare body in between.
// GroupNone (style never computed) renders like an ungrouped message.
func (m *Model) formatMessage(entry *timeline.MessageEntry) string {
	msg := entry.Message
	width := m.viewport.Width
	color := m.colorForUser(msg.User.ID)

	if msg.Deleted() {
		return lipgloss.NewStyle().Foreground(metaColor).Faint(true).Italic(true).
			Render("· message deleted ·")
	}
	if msg.Kind == types.KindReadMarker {
		return lipgloss.NewStyle().Foreground(metaColor).Render("── new ──")
	}

	showByline := entry.Group == timeline.GroupTop || entry.Group == timeline.GroupSingle ||
		entry.Group == timeline.GroupNone
	showFooter := entry.Group == timeline.GroupBottom || entry.Group == timeline.GroupSingle ||
		entry.Group == timeline.GroupNone

	var lines []string
	if showByline {
		byline := renderByline(displayName(msg.User), color)
		lines = append(lines, "", m.zoneManager.Mark("byline-"+msg.ID, byline))
	}

	body := highlightCodeBlocks(msg.Body)
	body = m.markMentionZones(msg, body)
	if width > 0 {
		body = ansi.Wrap(body, width, "")
	}
	switch msg.Kind {
	case types.KindSystem:
		body = lipgloss.NewStyle().Foreground(metaColor).Italic(true).Render(body)
	case types.KindError:
		body = lipgloss.NewStyle().Foreground(errorColor).Render(body)
	}
	lines = append(lines, body)

	for _, att := range msg.Attachments {
		label := att.Title
		if label == "" {
			label = att.URL
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(metaColor).
			Render(fmt.Sprintf("⎘ %s (%s)", label, att.Type)))
	}

	switch msg.Status {
	case types.StatusPending:
		lines = append(lines, lipgloss.NewStyle().Foreground(metaColor).Faint(true).Render("sending…"))
	case types.StatusFailed:
		retry := lipgloss.NewStyle().Foreground(errorColor).Render("failed — click to retry")
		if msg.ID != "" {
			retry = m.zoneManager.Mark("retry-"+msg.ID, retry)
		}
		lines = append(lines, retry)
	}

	if showFooter {
		lines = append(lines, m.formatFooter(msg, entry.ReadBy, width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) formatFooter(msg types.Message, readBy []types.User, width int) string {
	parts := []string{humanize.Time(msg.CreatedAt)}
	if msg.Edited() {
		parts = append(parts, "(edited)")
	}
	if len(readBy) > 0 {
		names := make([]string, len(readBy))
		for i, u := range readBy {
			names[i] = "@" + displayName(u)
		}
		parts = append(parts, "seen by "+strings.Join(names, " "))
	}
	footer := strings.Join(parts, "  ")
	if width > 0 {
		footer = ansi.Wrap(footer, width, "")
	}
	return lipgloss.NewStyle().Foreground(metaColor).Faint(true).Render(footer)
}

// markMentionZones wraps @-mentions of known mentioned users in click
// zones. Text that looks like a mention but matches nobody in the message's
// mention list is left alone, so no callback can fire for it.
func (m *Model) markMentionZones(msg types.Message, body string) string {
	if msg.ID == "" || len(msg.Mentions) == 0 {
		return body
	}
	for _, user := range msg.Mentions {
		needle := "@" + user.ID
		if !strings.Contains(body, needle) {
			continue
		}
		zoneID := "mention-" + msg.ID + "-" + user.ID
		styled := lipgloss.NewStyle().Bold(true).Underline(true).Render(needle)
		body = strings.Replace(body, needle, m.zoneManager.Mark(zoneID, styled), 1)
	}
	return body
}

func renderByline(name string, color lipgloss.Color) string {
	style := lipgloss.NewStyle().Background(color).Foreground(lipgloss.Color("0")).Bold(true)
	return style.Render(" @" + name + " ")
}
