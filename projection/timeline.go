// Package projection builds a local, ordered view of one group conversation
// from the frames arriving on the unread channel. It handles the channel's
// delivery quirks so renderers don't have to: duplicate frames (the channel
// is at-least-once), out-of-order arrival, and change events referencing
// messages by id.
package projection

import (
	"sort"
	"time"
)

// Frame is the decoded wire shape shared by all unread-channel frames. The
// Type tag says which of the optional fields are meaningful.
type Frame struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Text       string `json:"text"`
	SenderName string `json:"sender_name"`
	Datetime   string `json:"datetime"`
	NewText    string `json:"new_text"`
	TextFr     string `json:"text_fr"`
	TextVn     string `json:"text_vn"`
	TextEn     string `json:"text_en"`
}

// Entry is one message as the timeline currently understands it.
type Entry struct {
	ID         string
	SenderName string
	Text       string
	At         time.Time
	Edited     bool
	TextFr     string
	TextVn     string
	TextEn     string
}

// Timeline accumulates frames into an ordered transcript. Not safe for
// concurrent use; callers own the read loop.
type Timeline struct {
	entries []Entry
	seen    map[string]bool
}

func NewTimeline() *Timeline {
	return &Timeline{seen: make(map[string]bool)}
}

// Apply folds one frame into the timeline and reports whether anything
// changed. A duplicate delivery or an event for an unknown message returns
// false so renderers can stay quiet.
func (t *Timeline) Apply(frame Frame) bool {
	switch frame.Type {
	case "Text":
		return t.post(frame)
	case "Edit":
		return t.edit(frame.ID, frame.NewText)
	case "Delete":
		return t.remove(frame.ID)
	case "Translate":
		return t.translate(frame)
	default:
		return false
	}
}

// Entries returns the transcript in chronological order.
func (t *Timeline) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Timeline) post(frame Frame) bool {
	if t.seen[frame.ID] {
		return false
	}
	t.seen[frame.ID] = true

	at, err := time.Parse(time.RFC3339, frame.Datetime)
	if err != nil {
		// Unparseable timestamps sort last in arrival order
		at = time.Time{}
		if n := len(t.entries); n > 0 {
			at = t.entries[n-1].At.Add(time.Nanosecond)
		}
	}

	entry := Entry{
		ID:         frame.ID,
		SenderName: frame.SenderName,
		Text:       frame.Text,
		At:         at,
	}
	idx := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].At.After(at)
	})
	t.entries = append(t.entries, Entry{})
	copy(t.entries[idx+1:], t.entries[idx:])
	t.entries[idx] = entry
	return true
}

func (t *Timeline) edit(id, newText string) bool {
	for i := range t.entries {
		if t.entries[i].ID == id {
			t.entries[i].Text = newText
			t.entries[i].Edited = true
			return true
		}
	}
	return false
}

func (t *Timeline) remove(id string) bool {
	for i := range t.entries {
		if t.entries[i].ID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	// Remember the id so a late duplicate of the deleted message is dropped
	if t.seen[id] {
		return false
	}
	t.seen[id] = true
	return false
}

func (t *Timeline) translate(frame Frame) bool {
	for i := range t.entries {
		if t.entries[i].ID == frame.ID {
			t.entries[i].TextFr = frame.TextFr
			t.entries[i].TextVn = frame.TextVn
			t.entries[i].TextEn = frame.TextEn
			return true
		}
	}
	return false
}
