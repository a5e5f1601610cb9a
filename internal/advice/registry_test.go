package advice

import (
	"reflect"
	"testing"
)

func sampleRooms() []ChatRoom {
	return []ChatRoom{
		{ID: 1, Title: "Winter Coat"},
		{ID: 2, Title: "Mechanical Keyboard"},
		{ID: 3, Title: "running shoes"},
	}
}

func TestSearchEmptyQueryIsIdentity(t *testing.T) {
	rooms := sampleRooms()
	got := Search("", rooms)
	if !reflect.DeepEqual(got, rooms) {
		t.Errorf("Search(\"\") = %v, want input unchanged", got)
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	rooms := sampleRooms()

	tests := []struct {
		query string
		want  []int64
	}{
		{"coat", []int64{1}},
		{"COAT", []int64{1}},
		{"o", []int64{1, 2, 3}},
		{"RUNNING", []int64{3}},
		{"plasma", nil},
	}
	for _, tt := range tests {
		got := Search(tt.query, rooms)
		var ids []int64
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		if !reflect.DeepEqual(ids, tt.want) {
			t.Errorf("Search(%q) ids = %v, want %v", tt.query, ids, tt.want)
		}
	}
}

func TestSearchDoesNotMutateSource(t *testing.T) {
	rooms := sampleRooms()
	before := make([]ChatRoom, len(rooms))
	copy(before, rooms)

	Search("key", rooms)
	if !reflect.DeepEqual(rooms, before) {
		t.Error("Search mutated its input slice")
	}
}

func TestPrependKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Replace(sampleRooms())
	r.Prepend(ChatRoom{ID: 9, Title: "New Chat"})

	rooms := r.Rooms()
	if rooms[0].ID != 9 {
		t.Errorf("first room = %d, want 9", rooms[0].ID)
	}
	if rooms[1].ID != 1 || rooms[3].ID != 3 {
		t.Error("Prepend re-ordered the existing rooms")
	}
}

func TestPrependIgnoresDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Replace(sampleRooms())
	r.Prepend(ChatRoom{ID: 2, Title: "Mechanical Keyboard"})

	if len(r.Rooms()) != 3 {
		t.Errorf("rooms = %d, want 3 after duplicate Prepend", len(r.Rooms()))
	}
}

func TestRemove(t *testing.T) {
	r := NewRegistry()
	r.Replace(sampleRooms())

	if !r.Remove(2) {
		t.Fatal("Remove(2) = false, want true")
	}
	if _, ok := r.Get(2); ok {
		t.Error("room 2 still listed after Remove")
	}
	if r.Remove(2) {
		t.Error("second Remove(2) = true, want false")
	}
}

func TestReplaceCopies(t *testing.T) {
	src := sampleRooms()
	r := NewRegistry()
	r.Replace(src)
	src[0].Title = "mutated"

	if r.Rooms()[0].Title == "mutated" {
		t.Error("Replace aliased the caller's slice")
	}
	if !r.Loaded() {
		t.Error("Loaded() = false after Replace")
	}
}
