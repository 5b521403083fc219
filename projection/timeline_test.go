package projection

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func textFrame(id, sender, text, at string) Frame {
	return Frame{Type: "Text", ID: id, SenderName: sender, Text: text, Datetime: at}
}

func TestTimeline_Orders_Out_Of_Order_Frames(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	// Frames arrive newest first, as a reconnect drain would send them
	req.True(timeline.Apply(textFrame("m2", "bob", "second", "2026-02-14T10:31:00Z")))
	req.True(timeline.Apply(textFrame("m1", "alice", "first", "2026-02-14T10:30:00Z")))
	req.True(timeline.Apply(textFrame("m3", "carol", "third", "2026-02-14T10:32:00Z")))

	req.Equal([]string{"first", "second", "third"},
		lo.Map(timeline.Entries(), func(e Entry, _ int) string { return e.Text }))
}

func TestTimeline_Deduplicates_Redelivered_Frames(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	frame := textFrame("m1", "alice", "hello", "2026-02-14T10:30:00Z")
	req.True(timeline.Apply(frame))
	// The channel is at-least-once; the same frame can come twice
	req.False(timeline.Apply(frame))

	req.Len(timeline.Entries(), 1)
}

func TestTimeline_Applies_Edits(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	req.True(timeline.Apply(textFrame("m1", "alice", "helo", "2026-02-14T10:30:00Z")))
	req.True(timeline.Apply(Frame{Type: "Edit", ID: "m1", NewText: "hello"}))

	entries := timeline.Entries()
	req.Equal("hello", entries[0].Text)
	req.True(entries[0].Edited)

	// An edit for a message never seen changes nothing
	req.False(timeline.Apply(Frame{Type: "Edit", ID: "ghost", NewText: "boo"}))
}

func TestTimeline_Delete_Removes_And_Tombstones(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	frame := textFrame("m1", "alice", "regret", "2026-02-14T10:30:00Z")
	req.True(timeline.Apply(frame))
	req.True(timeline.Apply(Frame{Type: "Delete", ID: "m1"}))
	req.Empty(timeline.Entries())

	// A late redelivery of the deleted message must not resurrect it
	req.False(timeline.Apply(frame))
	req.Empty(timeline.Entries())
}

func TestTimeline_Attaches_Translations(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	req.True(timeline.Apply(textFrame("m1", "alice", "hello", "2026-02-14T10:30:00Z")))
	req.True(timeline.Apply(Frame{
		Type: "Translate", ID: "m1",
		TextFr: "bonjour", TextVn: "chào", TextEn: "hello",
	}))

	entry := timeline.Entries()[0]
	req.Equal("bonjour", entry.TextFr)
	req.Equal("chào", entry.TextVn)
	req.Equal("hello", entry.TextEn)
}
