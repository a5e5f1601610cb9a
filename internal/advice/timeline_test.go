package advice

import (
	"reflect"
	"testing"
)

func typingCount(t *Timeline) int {
	n := 0
	for _, e := range t.Entries() {
		if _, ok := e.(AssistantTyping); ok {
			n++
		}
	}
	return n
}

func TestAtMostOneTypingEntry(t *testing.T) {
	var tl Timeline
	tl.ShowTyping()
	tl.ShowTyping()
	tl.Append(AssistantTyping{})

	if got := typingCount(&tl); got != 1 {
		t.Errorf("typing entries = %d, want 1", got)
	}
}

func TestTypingStaysLast(t *testing.T) {
	var tl Timeline
	tl.Append(UserProduct{Item: PickedItem{Name: "Coat"}})
	tl.ShowTyping()
	tl.Append(UserText{Text: "yes"})

	entries := tl.Entries()
	if _, ok := entries[len(entries)-1].(AssistantTyping); !ok {
		t.Fatalf("last entry = %T, want AssistantTyping", entries[len(entries)-1])
	}
	if _, ok := entries[1].(UserText); !ok {
		t.Errorf("entry inserted after typing instead of before it: %T", entries[1])
	}
}

func TestHideTyping(t *testing.T) {
	var tl Timeline
	tl.Append(UserText{Text: "hello"})
	tl.ShowTyping()
	tl.HideTyping()
	tl.HideTyping() // second removal is a no-op

	if tl.HasTyping() {
		t.Error("typing entry still present after HideTyping")
	}
	if tl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tl.Len())
	}
}

func TestSurveyDedupeByRoom(t *testing.T) {
	var tl Timeline
	tl.Append(AssistantSurvey{RoomID: 7})
	tl.Append(AssistantSurvey{RoomID: 7})
	tl.Append(AssistantSurvey{RoomID: 9})

	surveys := 0
	for _, e := range tl.Entries() {
		if s, ok := e.(AssistantSurvey); ok && s.RoomID == 7 {
			surveys++
		}
	}
	if surveys != 1 {
		t.Errorf("survey entries for room 7 = %d, want 1", surveys)
	}
}

func TestRemoveRoom(t *testing.T) {
	var tl Timeline
	tl.Append(UserText{Text: "kept"})
	tl.Append(AssistantSurvey{RoomID: 7})
	tl.RemoveRoom(7)

	for _, e := range tl.Entries() {
		if s, ok := e.(AssistantSurvey); ok && s.RoomID == 7 {
			t.Fatal("survey entry for deleted room still present")
		}
	}
	if tl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tl.Len())
	}
}

func TestRebuildIsDeterministic(t *testing.T) {
	detail := ChatRoomDetail{
		ID:   7,
		Item: PickedItem{ID: 1, Name: "Coat", Price: 238400},
		Answers: []RecordedAnswer{
			{Step: 3, SelectedOption: "third"},
			{Step: 1, SelectedOption: "first"},
			{Step: 2, SelectedOption: "second"},
		},
		CurrentStep: 4,
	}

	var tl Timeline
	tl.Rebuild(detail)

	want := []Entry{
		UserProduct{Item: detail.Item},
		UserText{Text: "first"},
		UserText{Text: "second"},
		UserText{Text: "third"},
		AssistantSurvey{RoomID: 7},
	}
	if !reflect.DeepEqual(tl.Entries(), want) {
		t.Errorf("Rebuild() = %#v, want %#v", tl.Entries(), want)
	}

	// Rebuilding from the same snapshot yields the same transcript.
	var again Timeline
	again.Rebuild(detail)
	if !reflect.DeepEqual(tl.Entries(), again.Entries()) {
		t.Error("two rebuilds of the same detail differ")
	}
}

func TestRebuildDoesNotMutateDetail(t *testing.T) {
	answers := []RecordedAnswer{
		{Step: 2, SelectedOption: "b"},
		{Step: 1, SelectedOption: "a"},
	}
	detail := ChatRoomDetail{ID: 3, Answers: answers, CurrentStep: 3}

	var tl Timeline
	tl.Rebuild(detail)

	if answers[0].Step != 2 || answers[1].Step != 1 {
		t.Error("Rebuild sorted the caller's answers slice in place")
	}
}
