package advice

import "sort"

// Entry is one rendered message in the timeline. The variants form a closed
// set so render code can match exhaustively.
type Entry interface {
	isEntry()
}

// UserProduct shows the product the user asked about.
type UserProduct struct {
	Item PickedItem
}

// UserText shows one of the user's answers.
type UserText struct {
	Text string
}

// AssistantTyping is the ephemeral "assistant is typing" placeholder.
type AssistantTyping struct{}

// AssistantSurvey embeds the live survey widget for a room.
type AssistantSurvey struct {
	RoomID int64
}

func (UserProduct) isEntry()     {}
func (UserText) isEntry()        {}
func (AssistantTyping) isEntry() {}
func (AssistantSurvey) isEntry() {}

// Timeline is the append-mostly sequence of entries rendered for the active
// room. Its methods maintain two invariants: at most one AssistantTyping
// entry exists and it is always last, and no two AssistantSurvey entries
// share a room id.
type Timeline struct {
	entries []Entry
}

// Entries returns a copy of the current entries in order.
func (t *Timeline) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Timeline) Len() int { return len(t.entries) }

// Clear removes every entry.
func (t *Timeline) Clear() { t.entries = nil }

// HasTyping reports whether the typing placeholder is present.
func (t *Timeline) HasTyping() bool {
	for _, e := range t.entries {
		if _, ok := e.(AssistantTyping); ok {
			return true
		}
	}
	return false
}

// ShowTyping appends the typing placeholder. A second placeholder is never
// added.
func (t *Timeline) ShowTyping() {
	if t.HasTyping() {
		return
	}
	t.entries = append(t.entries, AssistantTyping{})
}

// HideTyping removes the typing placeholder, if present.
func (t *Timeline) HideTyping() {
	for i, e := range t.entries {
		if _, ok := e.(AssistantTyping); ok {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// Append adds a non-typing entry. While the typing placeholder is visible
// the entry is inserted in front of it, keeping the placeholder last. A
// survey entry whose room id is already present is dropped.
func (t *Timeline) Append(e Entry) {
	if _, ok := e.(AssistantTyping); ok {
		t.ShowTyping()
		return
	}
	if s, ok := e.(AssistantSurvey); ok && t.HasSurvey(s.RoomID) {
		return
	}
	if n := len(t.entries); n > 0 {
		if _, typing := t.entries[n-1].(AssistantTyping); typing {
			t.entries = append(t.entries[:n-1], e, AssistantTyping{})
			return
		}
	}
	t.entries = append(t.entries, e)
}

// HasSurvey reports whether a survey entry for the room exists.
func (t *Timeline) HasSurvey(roomID int64) bool {
	for _, e := range t.entries {
		if s, ok := e.(AssistantSurvey); ok && s.RoomID == roomID {
			return true
		}
	}
	return false
}

// RemoveRoom drops survey entries tied to the room id. Used when a room is
// deleted out from under the timeline.
func (t *Timeline) RemoveRoom(roomID int64) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if s, ok := e.(AssistantSurvey); ok && s.RoomID == roomID {
			continue
		}
		kept = append(kept, e)
	}
	t.entries = kept
}

// Rebuild replaces the timeline with the deterministic reconstruction of a
// room detail snapshot: the picked item, one text entry per answer in
// ascending step order, then the live survey entry.
func (t *Timeline) Rebuild(detail ChatRoomDetail) {
	answers := make([]RecordedAnswer, len(detail.Answers))
	copy(answers, detail.Answers)
	sort.SliceStable(answers, func(i, j int) bool { return answers[i].Step < answers[j].Step })

	entries := make([]Entry, 0, len(answers)+2)
	entries = append(entries, UserProduct{Item: detail.Item})
	for _, a := range answers {
		entries = append(entries, UserText{Text: a.SelectedOption})
	}
	entries = append(entries, AssistantSurvey{RoomID: detail.ID})
	t.entries = entries
}
