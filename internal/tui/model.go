package tui

import (
	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/api"
	"github.com/mull-dev/mull/internal/config"
	"github.com/mull-dev/mull/internal/log"
	"github.com/mull-dev/mull/internal/toast"
)

// ViewState represents the current state of the TUI.
type ViewState int

const (
	StateChat   ViewState = iota // main timeline for the active (or empty) session
	StatePicker                  // staging a picked item
	StateRooms                   // room browser
)

// Model holds the application state shared across views: the session core,
// the room registry, the survey engine, and the side-channel services.
type Model struct {
	State ViewState

	Cfg    *config.Config
	Client *api.Client
	Log    *log.Logger

	Session  *advice.Session
	Registry *advice.Registry
	Engine   *advice.Engine
	Toast    *toast.Notifier

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates the shared model with fresh session state.
func NewModel(cfg *config.Config, client *api.Client, logger *log.Logger) *Model {
	return &Model{
		State:    StateChat,
		Cfg:      cfg,
		Client:   client,
		Log:      logger,
		Session:  advice.NewSession(),
		Registry: advice.NewRegistry(),
		Engine:   advice.NewEngine(),
		Toast:    toast.NewNotifier(cfg.ToastDuration()),

		// Default dimensions (updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}

// LogEvent appends an event to the JSONL log, swallowing write errors: the
// log is diagnostics, never a reason to interrupt the session.
func (m *Model) LogEvent(event log.LogEvent) {
	if m.Log == nil {
		return
	}
	_ = m.Log.Append(event)
}
