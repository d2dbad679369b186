package db

import (
	"testing"
	"time"

	"github.com/kestrelchat/kestrel/internal/types"
)

func TestMessageRoundTrip(t *testing.T) {
	conn, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer conn.Close()

	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	deletedAt := created.Add(time.Hour)
	_, err = CreateMessage(conn, types.Message{
		ID:          "m1",
		CreatedAt:   created,
		UpdatedAt:   created,
		User:        types.User{ID: "amy", Name: "Amy"},
		Body:        "hello",
		Attachments: []types.Attachment{{Type: "image", Title: "cat.png"}},
		Mentions:    []types.User{{ID: "bob"}},
		DeletedAt:   &deletedAt,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := GetMessage(conn, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("message not found")
	}
	if got.Body != "hello" || got.User.Name != "Amy" {
		t.Errorf("unexpected message: %+v", got)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Title != "cat.png" {
		t.Errorf("attachments = %v", got.Attachments)
	}
	if len(got.Mentions) != 1 || got.Mentions[0].ID != "bob" {
		t.Errorf("mentions = %v", got.Mentions)
	}
	if got.DeletedAt == nil || !got.DeletedAt.Equal(time.UnixMilli(deletedAt.UnixMilli())) {
		t.Errorf("deleted_at = %v", got.DeletedAt)
	}
	if !got.CreatedAt.Equal(time.UnixMilli(created.UnixMilli())) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
}

func TestGetMessagesPaging(t *testing.T) {
	conn, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer conn.Close()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ids := []string{"a", "b", "c", "d"}
	for i, id := range ids {
		_, err := CreateMessage(conn, types.Message{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			User:      types.User{ID: "amy"},
		})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	// Tail page.
	tail, err := GetMessages(conn, MessageQuery{Limit: 2})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(tail) != 2 || tail[0].ID != "c" || tail[1].ID != "d" {
		t.Fatalf("tail = %v", msgIDs(tail))
	}

	// Page older history before the tail.
	cursor := &types.MessageCursor{ID: tail[0].ID, TS: tail[0].CreatedAt}
	older, err := GetMessages(conn, MessageQuery{Before: cursor, Limit: 10})
	if err != nil {
		t.Fatalf("before: %v", err)
	}
	if len(older) != 2 || older[0].ID != "a" || older[1].ID != "b" {
		t.Fatalf("older = %v", msgIDs(older))
	}

	// Poll for new messages after the tail.
	last := tail[len(tail)-1]
	since, err := GetMessages(conn, MessageQuery{Since: &types.MessageCursor{ID: last.ID, TS: last.CreatedAt}})
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(since) != 0 {
		t.Fatalf("since = %v, want empty", msgIDs(since))
	}
}

func msgIDs(msgs []types.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestUpdateRemoveStatus(t *testing.T) {
	conn, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer conn.Close()

	if _, err := CreateMessage(conn, types.Message{ID: "m1", User: types.User{ID: "amy"}, Body: "v1", CreatedAt: time.Now().Add(-time.Second)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := UpdateMessage(conn, "m1", "v2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := GetMessage(conn, "m1")
	if got.Body != "v2" {
		t.Errorf("body = %q, want v2", got.Body)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("updated_at not bumped")
	}

	if err := RemoveMessage(conn, "m1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ = GetMessage(conn, "m1")
	if got.DeletedAt == nil {
		t.Error("remove did not soft-delete")
	}

	if err := SetMessageStatus(conn, "m1", types.StatusFailed); err != nil {
		t.Fatalf("status: %v", err)
	}
	got, _ = GetMessage(conn, "m1")
	if got.Status != types.StatusFailed {
		t.Errorf("status = %q, want failed", got.Status)
	}

	if err := UpdateMessage(conn, "missing", "x"); err == nil {
		t.Error("update of missing message should fail")
	}
}

func TestEventHistoryAndReadState(t *testing.T) {
	conn, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer conn.Close()

	now := time.Now()
	if err := AddEvent(conn, types.FirstEventBucket, types.ChannelEvent{Kind: "member.joined", CreatedAt: now}); err != nil {
		t.Fatalf("add event: %v", err)
	}
	if err := AddEvent(conn, "m1", types.ChannelEvent{Kind: "channel.renamed", CreatedAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("add event: %v", err)
	}

	history, err := GetEventHistory(conn)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history[types.FirstEventBucket]) != 1 || len(history["m1"]) != 1 {
		t.Errorf("history = %v", history)
	}

	if err := SetLastRead(conn, types.User{ID: "amy", Name: "Amy"}, now); err != nil {
		t.Fatalf("set last read: %v", err)
	}
	state, err := GetReadState(conn)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	record, ok := state["amy"]
	if !ok || record.LastRead == nil {
		t.Fatalf("read record = %+v", record)
	}
	if !record.LastRead.Equal(time.UnixMilli(now.UnixMilli())) {
		t.Errorf("last read = %v, want %v", record.LastRead, now)
	}
}

func TestEventsVersionChangesOnAppend(t *testing.T) {
	conn, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer conn.Close()

	empty, err := EventsVersion(conn)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if empty != (EventVersion{}) {
		t.Errorf("empty store version = %+v, want zero", empty)
	}

	if err := AddEvent(conn, "m1", types.ChannelEvent{Kind: "member.joined"}); err != nil {
		t.Fatalf("add event: %v", err)
	}
	one, err := EventsVersion(conn)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if one == empty {
		t.Error("version must change after an append")
	}
	if one.Count != 1 {
		t.Errorf("count = %d, want 1", one.Count)
	}

	again, err := EventsVersion(conn)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if again != one {
		t.Errorf("version = %+v on an unchanged store, want %+v", again, one)
	}
}

func TestSeed(t *testing.T) {
	conn, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer conn.Close()

	if err := Seed(conn, "me"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	count, err := CountMessages(conn)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count == 0 {
		t.Fatal("seed inserted no messages")
	}
	if err := Seed(conn, "me"); err == nil {
		t.Error("seeding a non-empty store should fail")
	}
}
