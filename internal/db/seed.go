package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelchat/kestrel/internal/types"
)

// Seed populates an empty store with a small demo channel spanning two
// calendar days, a couple of channel events, and read pointers, so the
// viewer has something to show out of the box.
func Seed(conn *sql.DB, localUser string) error {
	count, err := CountMessages(conn)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("store already has %d messages; refusing to seed", count)
	}

	amy := types.User{ID: "amy", Name: "Amy"}
	bob := types.User{ID: "bob", Name: "Bob"}
	local := types.User{ID: localUser, Name: localUser}

	yesterday := time.Now().Add(-26 * time.Hour)
	today := time.Now().Add(-30 * time.Minute)

	seedMsgs := []types.Message{
		{User: amy, Body: "morning! shipping the importer today", CreatedAt: yesterday},
		{User: amy, Body: "last night's run finished clean", CreatedAt: yesterday.Add(time.Minute)},
		{User: bob, Body: "nice. did the retry queue drain?", CreatedAt: yesterday.Add(3 * time.Minute)},
		{User: amy, Body: "```sql\nSELECT count(*) FROM retries WHERE state = 'stuck';\n```\nzero stuck rows", CreatedAt: yesterday.Add(5 * time.Minute)},
		{User: bob, Body: "here's the dashboard screenshot", CreatedAt: today,
			Attachments: []types.Attachment{{Type: "image", Title: "dashboard.png"}}},
		{User: local, Body: fmt.Sprintf("thanks @%s, reviewing now", bob.ID), CreatedAt: today.Add(time.Minute),
			Mentions: []types.User{bob}},
		{User: amy, Body: "ping me if anything looks off", CreatedAt: today.Add(2 * time.Minute)},
	}

	var lastTS time.Time
	var secondID string
	for i, msg := range seedMsgs {
		msg.ID = uuid.NewString()
		if _, err := CreateMessage(conn, msg); err != nil {
			return err
		}
		if i == 1 {
			secondID = msg.ID
		}
		lastTS = msg.CreatedAt
	}

	events := []struct {
		bucket string
		ev     types.ChannelEvent
	}{
		{types.FirstEventBucket, types.ChannelEvent{
			Kind: "member.joined", User: amy, Text: "Amy joined the channel",
			CreatedAt: yesterday.Add(30 * time.Second),
		}},
		{secondID, types.ChannelEvent{
			Kind: "member.joined", User: bob, Text: "Bob joined the channel",
			CreatedAt: yesterday.Add(2 * time.Minute),
		}},
	}
	for _, e := range events {
		if err := AddEvent(conn, e.bucket, e.ev); err != nil {
			return err
		}
	}

	if err := SetLastRead(conn, amy, lastTS.Add(time.Second)); err != nil {
		return err
	}
	return SetLastRead(conn, bob, today.Add(90*time.Second))
}
