package timeline

import (
	"sort"
	"time"

	"github.com/kestrelchat/kestrel/internal/types"
)

// BuildOptions tune entry construction.
type BuildOptions struct {
	// NoDateMarkers suppresses date separator insertion (thread views).
	NoDateMarkers bool
}

// BuildEntries merges messages with date markers and bucketed channel
// events into one ordered entry sequence. It is a pure function of its
// inputs: the same (messages, events) pair always yields the same sequence.
//
// Read-marker and soft-deleted messages pass through untouched: they get no
// date marker and no events appended, and they do not advance the
// day-change tracking for their neighbors. Events bucketed under
// FirstEventBucket land after the first regular message; events bucketed
// under a message id land after that message. The whole sequence is then
// re-sorted by timestamp, so callers must not assume input order survives.
func BuildEntries(messages []types.Message, events types.EventHistory, opts BuildOptions) []Entry {
	entries := make([]Entry, 0, len(messages)+len(messages)/4+1)
	seen := make(map[string]struct{}, len(messages))

	var prevDay *[3]int
	placedFirst := false
	for _, msg := range messages {
		if msg.ID != "" {
			if _, dup := seen[msg.ID]; dup {
				continue
			}
			seen[msg.ID] = struct{}{}
		}

		if msg.Kind == types.KindReadMarker || msg.Deleted() {
			entries = append(entries, &MessageEntry{Message: msg})
			continue
		}

		day := calendarDay(msg.CreatedAt)
		if !opts.NoDateMarkers && (prevDay == nil || *prevDay != day) {
			entries = append(entries, &DateMarker{Date: msg.CreatedAt})
		}
		prevDay = &day

		entries = append(entries, &MessageEntry{Message: msg})

		if !placedFirst {
			placedFirst = true
			for _, ev := range events[types.FirstEventBucket] {
				entries = append(entries, &EventEntry{Event: ev})
			}
		}
		if msg.ID != "" {
			for _, ev := range events[msg.ID] {
				entries = append(entries, &EventEntry{Event: ev})
			}
		}
	}

	// Inputs are expected in ascending creation order but callers are not
	// trusted to maintain that, and event timestamps can interleave
	// anywhere. Stable sort keeps a date marker ahead of the message that
	// spawned it when timestamps tie.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp().Before(entries[j].Timestamp())
	})
	return entries
}

// calendarDay returns the local-time calendar day of t.
func calendarDay(t time.Time) [3]int {
	y, m, d := t.Local().Date()
	return [3]int{y, int(m), d}
}
