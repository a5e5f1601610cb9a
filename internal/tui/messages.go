package tui

import (
	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/api"
)

// ============================================================================
// Room Registry Messages
// ============================================================================

// RoomsListedMsg carries the result of a room list fetch.
type RoomsListedMsg struct {
	Rooms []advice.ChatRoom
	Err   error
}

// RoomCreatedMsg carries the result of a room creation. Item is the picked
// item the send was for, so a failure can restore it exactly.
type RoomCreatedMsg struct {
	Item    advice.PickedItem
	Created api.CreatedRoom
	Err     error
}

// RoomDeletedMsg carries the result of a confirmed room deletion.
type RoomDeletedMsg struct {
	RoomID int64
	Err    error
}

// ============================================================================
// Session Messages
// ============================================================================

// RoomDetailMsg carries the restore snapshot for an opened room.
type RoomDetailMsg struct {
	RoomID int64
	Detail advice.ChatRoomDetail
	Err    error
}

// ============================================================================
// Survey Messages
// ============================================================================

// QuestionMsg carries a fetched survey question for a room.
type QuestionMsg struct {
	RoomID   int64
	Question advice.SurveyQuestion
	Err      error
}

// AnswerSubmittedMsg signals that an answer submission finished.
type AnswerSubmittedMsg struct {
	RoomID int64
	Step   int
	Err    error
}

// ResultDueMsg fires when the post-completion typing delay elapses and the
// verdict should be fetched.
type ResultDueMsg struct {
	RoomID int64
}

// ResultMsg carries the fetched verdict for a room.
type ResultMsg struct {
	RoomID int64
	Result advice.ChatResult
	Err    error
}

// ============================================================================
// Utility Messages
// ============================================================================

// ToastExpiredMsg signals that the visible toast dismissed itself.
type ToastExpiredMsg struct{}

// LongPressFiredMsg fires when a press-and-hold in the room browser crosses
// the long-press threshold. Seq identifies the gesture the timer belongs to.
type LongPressFiredMsg struct {
	Seq int
}
