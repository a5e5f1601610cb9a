package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/api"
	"github.com/mull-dev/mull/internal/tui"
)

// CreateRoom sends the staged product and opens a new room for it. The
// item rides along in the message so a failed send can restore it intact.
func CreateRoom(client *api.Client, item advice.PickedItem) tea.Cmd {
	return func() tea.Msg {
		created, err := client.CreateRoom(context.Background(), item.Kind, item.ID)
		return tui.RoomCreatedMsg{Item: item, Created: created, Err: err}
	}
}

// FetchDetail restores a previously created room's conversation.
func FetchDetail(client *api.Client, roomID int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := client.Room(context.Background(), roomID)
		return tui.RoomDetailMsg{RoomID: roomID, Detail: detail, Err: err}
	}
}

// FetchQuestion asks the service for the room's current survey question.
func FetchQuestion(client *api.Client, roomID int64) tea.Cmd {
	return func() tea.Msg {
		q, err := client.Question(context.Background(), roomID)
		return tui.QuestionMsg{RoomID: roomID, Question: q, Err: err}
	}
}

// SubmitAnswer submits a selected option together with its request token.
func SubmitAnswer(client *api.Client, req advice.SubmitRequest) tea.Cmd {
	return func() tea.Msg {
		err := client.SubmitAnswer(context.Background(), req.RoomID, req.Step, req.OptionID, req.Token)
		return tui.AnswerSubmittedMsg{RoomID: req.RoomID, Step: req.Step, Err: err}
	}
}

// FetchResult retrieves the final recommendation for a completed survey.
func FetchResult(client *api.Client, roomID int64) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Result(context.Background(), roomID)
		return tui.ResultMsg{RoomID: roomID, Result: result, Err: err}
	}
}

// ResultDue fires after the thinking pause that precedes the result fetch.
func ResultDue(roomID int64, pause time.Duration) tea.Cmd {
	return tea.Tick(pause, func(time.Time) tea.Msg {
		return tui.ResultDueMsg{RoomID: roomID}
	})
}

// ArmLongPress schedules the long-press threshold check for a pointer
// press. Seq ties the timer to one specific press; a stale timer whose
// press already ended is ignored by the recognizer.
func ArmLongPress(seq int, threshold time.Duration) tea.Cmd {
	return tea.Tick(threshold, func(time.Time) tea.Msg {
		return tui.LongPressFiredMsg{Seq: seq}
	})
}
