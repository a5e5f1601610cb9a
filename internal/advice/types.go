// Package advice implements the purchase-advice session core: the chat-room
// registry, the survey step engine, and the message-timeline controller.
package advice

import "time"

// ChatRoom is one persisted advice conversation as listed by the service.
type ChatRoom struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// PickedItem is a user-picked product staged locally before a room exists
// for it.
type PickedItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"imageUrl"`
	Kind     string `json:"kind"`
}

// RecordedAnswer is one answered survey step inside a room detail snapshot.
type RecordedAnswer struct {
	Step           int    `json:"step"`
	SelectedOption string `json:"selectedOption"`
}

// ChatRoomDetail is the immutable snapshot fetched when a room is reopened.
// It is used to reconstruct the timeline and is never patched in place.
type ChatRoomDetail struct {
	ID          int64            `json:"id"`
	Item        PickedItem       `json:"pickedItem"`
	Answers     []RecordedAnswer `json:"answers"`
	Result      string           `json:"result"`
	CurrentStep int              `json:"currentStep"`
}

// Option is one selectable answer for a survey question.
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// SurveyQuestion is the polled survey cursor for a room: either an
// in-progress question or the terminal done marker. Once Done is observed a
// room never returns to in-progress.
type SurveyQuestion struct {
	Done         bool
	Step         int
	Text         string
	Options      []Option
	FinalMessage string
}

// ChatResult is the final verdict for a completed room. Terminal: once
// fetched it does not change.
type ChatResult struct {
	Decision string `json:"decision"`
	Message  string `json:"message"`
}
