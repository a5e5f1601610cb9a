// Package app provides the main TUI application that wires all views together.
package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/api"
	"github.com/mull-dev/mull/internal/config"
	"github.com/mull-dev/mull/internal/log"
	"github.com/mull-dev/mull/internal/toast"
	"github.com/mull-dev/mull/internal/tui"
	"github.com/mull-dev/mull/internal/tui/commands"
	"github.com/mull-dev/mull/internal/tui/views"
)

// App is the main TUI application that wires all views together. Remote
// calls live in commands; every completion message is keyed by room id and
// validated against the current state before it mutates anything, so late
// responses for closed or deleted rooms fall through harmlessly.
type App struct {
	model *tui.Model

	chatView   views.ChatModel
	pickerView views.PickerModel
	roomsView  views.RoomsModel
}

// New creates the application around a configured client and logger.
func New(cfg *config.Config, client *api.Client, logger *log.Logger) *App {
	model := tui.NewModel(cfg, client, logger)

	return &App{
		model:      model,
		chatView:   views.NewChatModel(model, model.Width, model.Height),
		pickerView: views.NewPickerModel(model.Width, model.Height),
		roomsView:  views.NewRoomsModel(model, model.Width, model.Height),
	}
}

// Close releases the toast notifier's timers. Call after the program exits.
func (a *App) Close() {
	a.model.Toast.Close()
}

// Init returns the initial command for the TUI.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.chatView.Init(),
		commands.ListenToast(a.model.Toast.Events()),
	)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.chatView, cmd = a.chatView.Update(msg)
		cmds = append(cmds, cmd)
		a.pickerView, cmd = a.pickerView.Update(msg)
		cmds = append(cmds, cmd)
		a.roomsView, cmd = a.roomsView.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == tui.KeyCtrlC {
			return a, tea.Quit
		}

	// ===== View intents =====

	case views.OpenPickerMsg:
		a.model.State = tui.StatePicker
		a.pickerView = views.NewPickerModel(a.model.Width, a.model.Height)
		return a, a.pickerView.Init()

	case views.ClosePickerMsg:
		a.model.State = tui.StateChat
		return a, a.chatView.Init()

	case views.StageItemMsg:
		a.model.Session.StagePick(msg.Item)
		a.model.State = tui.StateChat
		a.chatView.Refresh()
		return a, a.chatView.Init()

	case views.SendStagedMsg:
		return a.handleSendStaged()

	case views.OpenRoomsMsg:
		a.model.State = tui.StateRooms
		a.roomsView = views.NewRoomsModel(a.model, a.model.Width, a.model.Height)
		return a, commands.ListRooms(a.model.Client)

	case views.CloseBrowserMsg:
		a.model.State = tui.StateChat
		return a, a.chatView.Init()

	case views.NewChatMsg:
		a.model.Session.StartNewChat()
		a.chatView.DetachSurvey()
		a.chatView.Refresh()
		a.model.State = tui.StateChat
		return a, a.chatView.Init()

	case views.OpenRoomMsg:
		a.model.Session.OpenRoom(msg.RoomID)
		a.chatView.DetachSurvey()
		a.chatView.Refresh()
		a.model.State = tui.StateChat
		return a, tea.Batch(
			a.chatView.Init(),
			commands.FetchDetail(a.model.Client, msg.RoomID),
		)

	case views.ConfirmDeleteMsg:
		return a, commands.DeleteRoom(a.model.Client, msg.RoomID)

	case views.OptionPickedMsg:
		req := a.model.Engine.Select(msg.RoomID, msg.Step, msg.OptionID)
		if req == nil {
			return a, nil
		}
		a.chatView.Refresh()
		return a, commands.SubmitAnswer(a.model.Client, *req)

	case views.RetrySurveyMsg:
		return a.handleRetry(msg.RoomID)

	// ===== Remote completions =====

	case tui.RoomCreatedMsg:
		return a.handleRoomCreated(msg)

	case tui.RoomDetailMsg:
		return a.handleRoomDetail(msg)

	case tui.QuestionMsg:
		return a.handleQuestion(msg)

	case tui.AnswerSubmittedMsg:
		return a.handleAnswerSubmitted(msg)

	case tui.ResultDueMsg:
		if !a.model.Engine.BeginResultFetch(msg.RoomID) {
			return a, nil
		}
		return a, commands.FetchResult(a.model.Client, msg.RoomID)

	case tui.ResultMsg:
		return a.handleResult(msg)

	case tui.RoomsListedMsg:
		if msg.Err != nil {
			// A failed list degrades to an empty browser, logged but
			// never toasted.
			a.model.Registry.Replace(nil)
			a.model.LogEvent(log.LogEvent{Event: log.EventListFailed, Reason: failureText(msg.Err)})
			return a, nil
		}
		a.model.Registry.Replace(msg.Rooms)
		return a, nil

	case tui.RoomDeletedMsg:
		return a.handleRoomDeleted(msg)

	case tui.ToastExpiredMsg:
		a.chatView.Refresh()
		return a, commands.ListenToast(a.model.Toast.Events())

	case tui.LongPressFiredMsg:
		var cmd tea.Cmd
		a.roomsView, cmd = a.roomsView.Update(msg)
		return a, cmd
	}

	// Everything else goes to the active view.
	var cmd tea.Cmd
	switch a.model.State {
	case tui.StateChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case tui.StatePicker:
		a.pickerView, cmd = a.pickerView.Update(msg)
	case tui.StateRooms:
		a.roomsView, cmd = a.roomsView.Update(msg)
	}
	return a, cmd
}

// handleSendStaged turns the staged item into a send in flight.
func (a *App) handleSendStaged() (tea.Model, tea.Cmd) {
	item, err := a.model.Session.BeginSend()
	if err != nil {
		return a, nil
	}
	a.chatView.Refresh()
	return a, commands.CreateRoom(a.model.Client, item)
}

// handleRoomCreated finishes or rolls back a send.
func (a *App) handleRoomCreated(msg tui.RoomCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.model.Session.FailSend(msg.Item)
		a.model.Toast.Show(toast.KindSendFailed)
		a.model.LogEvent(log.LogEvent{
			Event:  log.EventSendFailed,
			Title:  msg.Item.Name,
			Reason: failureText(msg.Err),
		})
		a.chatView.Refresh()
		return a, nil
	}

	roomID := msg.Created.ID
	a.model.Session.FinishSend(roomID)
	a.model.Registry.Prepend(advice.ChatRoom{
		ID:        roomID,
		Title:     msg.Item.Name,
		CreatedAt: msg.Created.CreatedAt,
	})
	a.model.Engine.Open(roomID)
	a.chatView.AttachSurvey(roomID)
	a.model.LogEvent(log.LogEvent{Event: log.EventRoomCreated, RoomID: roomID, Title: msg.Item.Name})
	a.chatView.Refresh()

	if a.model.Engine.BeginQuestionFetch(roomID) {
		return a, commands.FetchQuestion(a.model.Client, roomID)
	}
	return a, nil
}

// handleRoomDetail applies a restore snapshot, or degrades to an empty
// conversation with just the survey when the snapshot fetch failed.
func (a *App) handleRoomDetail(msg tui.RoomDetailMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if !a.model.Session.ApplyDetailError(msg.RoomID) {
			// The user moved on before the response landed.
			return a, nil
		}
		a.model.LogEvent(log.LogEvent{
			Event:  log.EventRestoreFailed,
			RoomID: msg.RoomID,
			Reason: failureText(msg.Err),
		})
	} else if !a.model.Session.ApplyDetail(msg.Detail) {
		return a, nil
	}

	a.model.Engine.Open(msg.RoomID)
	a.chatView.AttachSurvey(msg.RoomID)
	a.chatView.Refresh()

	if a.model.Engine.BeginQuestionFetch(msg.RoomID) {
		return a, commands.FetchQuestion(a.model.Client, msg.RoomID)
	}
	return a, nil
}

// handleQuestion feeds a fetched question into the engine and reacts to
// what actually advanced.
func (a *App) handleQuestion(msg tui.QuestionMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if a.model.Engine.FailQuestion(msg.RoomID, failureText(msg.Err)) {
			a.model.LogEvent(log.LogEvent{
				Event:  log.EventStepFailed,
				RoomID: msg.RoomID,
				Reason: failureText(msg.Err),
			})
			a.chatView.Refresh()
		}
		return a, nil
	}

	switch a.model.Engine.ApplyQuestion(msg.RoomID, msg.Question) {
	case advice.AdvanceQuestion:
		a.chatView.PushQuestion(msg.RoomID, msg.Question)
		return a, nil

	case advice.AdvanceDone:
		a.model.LogEvent(log.LogEvent{Event: log.EventSurveyCompleted, RoomID: msg.RoomID})
		a.chatView.Refresh()
		// The advisor "thinks" for a moment before the verdict appears.
		return a, commands.ResultDue(msg.RoomID, a.model.Cfg.TypingDelay())

	default:
		// Repeat or stale; nothing changed.
		return a, nil
	}
}

// handleAnswerSubmitted arms the next question fetch after a successful
// submission.
func (a *App) handleAnswerSubmitted(msg tui.AnswerSubmittedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if a.model.Engine.FailSubmit(msg.RoomID, failureText(msg.Err)) {
			a.model.LogEvent(log.LogEvent{
				Event:  log.EventStepFailed,
				RoomID: msg.RoomID,
				Step:   msg.Step,
				Reason: failureText(msg.Err),
			})
			a.chatView.Refresh()
		}
		return a, nil
	}

	if !a.model.Engine.SubmitOK(msg.RoomID, msg.Step) {
		return a, nil
	}
	a.chatView.Refresh()
	return a, commands.FetchQuestion(a.model.Client, msg.RoomID)
}

// handleResult records the verdict.
func (a *App) handleResult(msg tui.ResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if a.model.Engine.FailResult(msg.RoomID, failureText(msg.Err)) {
			a.model.LogEvent(log.LogEvent{
				Event:  log.EventStepFailed,
				RoomID: msg.RoomID,
				Reason: failureText(msg.Err),
			})
			a.chatView.Refresh()
		}
		return a, nil
	}

	if a.model.Engine.ApplyResult(msg.RoomID, msg.Result) {
		a.chatView.Refresh()
	}
	return a, nil
}

// handleRoomDeleted applies a confirmed deletion everywhere it is visible.
func (a *App) handleRoomDeleted(msg tui.RoomDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.model.Toast.Show(toast.KindDeleteFailed)
		a.chatView.Refresh()
		return a, nil
	}

	a.model.Registry.Remove(msg.RoomID)
	if a.model.Session.RoomDeleted(msg.RoomID) {
		a.chatView.DetachSurvey()
	}
	a.model.Engine.Forget(msg.RoomID)
	a.model.Toast.Show(toast.KindRoomDeleted)
	a.model.LogEvent(log.LogEvent{Event: log.EventRoomDeleted, RoomID: msg.RoomID})
	a.chatView.Refresh()
	return a, nil
}

// handleRetry re-dispatches the failed operation for a room.
func (a *App) handleRetry(roomID int64) (tea.Model, tea.Cmd) {
	kind, req := a.model.Engine.Retry(roomID)
	a.chatView.Refresh()

	switch kind {
	case advice.RetryQuestion:
		return a, commands.FetchQuestion(a.model.Client, roomID)
	case advice.RetrySubmit:
		return a, commands.SubmitAnswer(a.model.Client, *req)
	case advice.RetryResult:
		return a, commands.FetchResult(a.model.Client, roomID)
	}
	return a, nil
}

// View renders the active view.
func (a *App) View() string {
	switch a.model.State {
	case tui.StatePicker:
		return a.pickerView.View()
	case tui.StateRooms:
		return a.roomsView.View()
	default:
		return a.chatView.View()
	}
}

// failureText extracts the user-facing reason from a client error.
func failureText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ""
}
