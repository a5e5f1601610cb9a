package advice

import "errors"

// ErrNothingStaged is returned by BeginSend when no picked item is staged.
var ErrNothingStaged = errors.New("no picked item staged")

// Session is the single point of truth for the visible message timeline.
// It arbitrates between restoring an existing room and creating a new one,
// and owns the staged item and the active-room marker.
//
// Methods are the synchronous apply-phase of each user action: the network
// call happens elsewhere and its completion is validated against the
// current state here, so stale completions land as no-ops instead of
// corrupting the transcript.
type Session struct {
	timeline   Timeline
	staged     *PickedItem
	activeRoom int64 // 0 = none
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Timeline exposes the timeline for rendering and inspection.
func (s *Session) Timeline() *Timeline { return &s.timeline }

// ActiveRoom returns the active room id, or 0 when no room is open.
func (s *Session) ActiveRoom() int64 { return s.activeRoom }

// Staged returns the currently staged picked item, if any.
func (s *Session) Staged() (PickedItem, bool) {
	if s.staged == nil {
		return PickedItem{}, false
	}
	return *s.staged, true
}

// StagePick stages an item for sending, replacing any previous one.
func (s *Session) StagePick(item PickedItem) {
	it := item
	s.staged = &it
}

// ClearStagedPick drops the staged item.
func (s *Session) ClearStagedPick() {
	s.staged = nil
}

// BeginSend starts the optimistic send: the product entry and the typing
// placeholder are appended and the staged item is cleared. The returned
// item is what the room-creation call must use, and what FailSend restores.
func (s *Session) BeginSend() (PickedItem, error) {
	if s.staged == nil {
		return PickedItem{}, ErrNothingStaged
	}
	item := *s.staged
	s.staged = nil
	s.timeline.Append(UserProduct{Item: item})
	s.timeline.ShowTyping()
	return item, nil
}

// FinishSend commits a successful send: the typing placeholder goes away,
// the new room becomes active, and its survey entry is appended.
func (s *Session) FinishSend(roomID int64) {
	s.timeline.HideTyping()
	s.activeRoom = roomID
	s.timeline.Append(AssistantSurvey{RoomID: roomID})
}

// FailSend rolls the optimistic send back: the typing placeholder goes
// away and the exact item that was staged is restored so the user can
// retry without re-selecting.
func (s *Session) FailSend(item PickedItem) {
	s.timeline.HideTyping()
	it := item
	s.staged = &it
}

// OpenRoom marks the room active and empties the timeline ahead of the
// detail fetch.
func (s *Session) OpenRoom(roomID int64) {
	s.activeRoom = roomID
	s.timeline.Clear()
}

// ApplyDetail reconstructs the timeline from a fetched detail snapshot.
// Dropped when the room is no longer active (it was deleted or another
// room was opened while the fetch was in flight).
func (s *Session) ApplyDetail(detail ChatRoomDetail) bool {
	if s.activeRoom != detail.ID {
		return false
	}
	s.timeline.Rebuild(detail)
	return true
}

// ApplyDetailError handles a failed detail fetch: the survey entry is
// appended anyway so the embedded widget can recover by polling on its
// own.
func (s *Session) ApplyDetailError(roomID int64) bool {
	if s.activeRoom != roomID {
		return false
	}
	s.timeline.Append(AssistantSurvey{RoomID: roomID})
	return true
}

// StartNewChat clears the timeline, the staged item, and the active-room
// marker. The room list is untouched.
func (s *Session) StartNewChat() {
	s.timeline.Clear()
	s.staged = nil
	s.activeRoom = 0
}

// RoomDeleted reconciles a confirmed delete with the open timeline. When
// the deleted room is the active one, deletion wins: the timeline is
// cleared and the marker reset rather than left pointing at a dangling id.
// Returns true when the visible timeline was affected.
func (s *Session) RoomDeleted(roomID int64) bool {
	if s.activeRoom == roomID {
		s.timeline.Clear()
		s.activeRoom = 0
		return true
	}
	s.timeline.RemoveRoom(roomID)
	return false
}
