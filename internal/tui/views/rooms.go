package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/gesture"
	"github.com/mull-dev/mull/internal/tui"
	"github.com/mull-dev/mull/internal/tui/commands"
)

// ============================================================================
// Message Types
// ============================================================================

// OpenRoomMsg is sent when the user opens a previous chat.
type OpenRoomMsg struct {
	RoomID int64
}

// NewChatMsg is sent when the user starts a fresh chat from the browser.
type NewChatMsg struct{}

// ConfirmDeleteMsg is sent after the user confirmed a room deletion in the
// modal. Only this message triggers the delete call.
type ConfirmDeleteMsg struct {
	RoomID int64
}

// CloseBrowserMsg is sent when the user leaves the room browser.
type CloseBrowserMsg struct{}

// ============================================================================
// RoomsModel
// ============================================================================

// listTop is the number of rendered lines above the first room row inside
// the browser box. Keep in sync with View: border, padding, title, blank,
// search, blank.
const listTop = 6

// RoomsModel is the view model for the room browser. Deleting is a
// two-phase affair: first mark a target (the d key or a press-and-hold),
// then confirm in a modal. Anything else cancels the marked target.
type RoomsModel struct {
	shared *tui.Model

	search textinput.Model
	cursor int

	pendingTarget int64 // room marked for deletion, 0 when none
	confirming    bool

	// mouse press-and-hold tracking
	recognizer *gesture.Recognizer
	pressedID  int64
	pressedRow int

	width  int
	height int
}

// NewRoomsModel creates the room browser bound to the shared state.
func NewRoomsModel(shared *tui.Model, width, height int) RoomsModel {
	ti := textinput.New()
	ti.Placeholder = "Search chats..."
	ti.CharLimit = 100
	ti.Width = 40

	return RoomsModel{
		shared:     shared,
		search:     ti,
		recognizer: &gesture.Recognizer{},
		width:      width,
		height:     height,
	}
}

// Init returns the initial command for the rooms view.
func (m RoomsModel) Init() tea.Cmd {
	return nil
}

// visible returns the rooms matching the current search query.
func (m RoomsModel) visible() []advice.ChatRoom {
	return advice.Search(m.search.Value(), m.shared.Registry.Rooms())
}

// clampCursor keeps the cursor inside the visible list after a refresh.
func (m *RoomsModel) clampCursor() {
	n := len(m.visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// cancelTarget drops the marked delete target and any pending press.
func (m *RoomsModel) cancelTarget() {
	m.pendingTarget = 0
	m.recognizer.Cancel()
}

// Update handles messages for the rooms view.
func (m RoomsModel) Update(msg tea.Msg) (RoomsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tui.LongPressFiredMsg:
		// The hold crossed the threshold: mark the pressed room.
		if m.recognizer.Fire(msg.Seq) {
			m.pendingTarget = m.pressedID
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// updateConfirm handles the delete confirmation modal.
func (m RoomsModel) updateConfirm(msg tea.KeyMsg) (RoomsModel, tea.Cmd) {
	switch msg.String() {
	case "y", tui.KeyEnter:
		roomID := m.pendingTarget
		m.confirming = false
		m.pendingTarget = 0
		if roomID == 0 {
			return m, nil
		}
		return m, func() tea.Msg {
			return ConfirmDeleteMsg{RoomID: roomID}
		}
	case "n", tui.KeyEsc:
		m.confirming = false
		m.pendingTarget = 0
		return m, nil
	}
	return m, nil
}

// updateSearch handles keys while the search input is focused.
func (m RoomsModel) updateSearch(msg tea.KeyMsg) (RoomsModel, tea.Cmd) {
	switch msg.String() {
	case tui.KeyEnter, tui.KeyEsc:
		m.search.Blur()
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	m.cancelTarget()
	return m, cmd
}

// updateBrowse handles keys in list navigation mode.
func (m RoomsModel) updateBrowse(msg tea.KeyMsg) (RoomsModel, tea.Cmd) {
	rooms := m.visible()

	switch msg.String() {
	case tui.KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.cancelTarget()
		return m, nil

	case tui.KeyDown, "j":
		if m.cursor < len(rooms)-1 {
			m.cursor++
		}
		m.cancelTarget()
		return m, nil

	case "/":
		m.cancelTarget()
		m.search.Focus()
		return m, textinput.Blink

	case "n":
		m.cancelTarget()
		return m, func() tea.Msg { return NewChatMsg{} }

	case "d":
		if len(rooms) == 0 {
			return m, nil
		}
		target := rooms[m.cursor].ID
		if m.pendingTarget == target {
			m.confirming = true
			return m, nil
		}
		m.pendingTarget = target
		return m, nil

	case tui.KeyEnter:
		if m.pendingTarget != 0 {
			m.confirming = true
			return m, nil
		}
		if len(rooms) == 0 {
			return m, nil
		}
		roomID := rooms[m.cursor].ID
		return m, func() tea.Msg { return OpenRoomMsg{RoomID: roomID} }

	case tui.KeyEsc, tui.KeyTab:
		if m.pendingTarget != 0 {
			m.cancelTarget()
			return m, nil
		}
		return m, func() tea.Msg { return CloseBrowserMsg{} }
	}

	return m, nil
}

// updateMouse implements tap-to-open and press-and-hold-to-mark.
func (m RoomsModel) updateMouse(msg tea.MouseMsg) (RoomsModel, tea.Cmd) {
	if m.confirming {
		return m, nil
	}

	rooms := m.visible()
	row := msg.Y - listTop

	switch msg.Action {
	case tea.MouseActionPress:
		// Some terminal encodings report no button on release, so the
		// button is only checked when the press starts.
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if row < 0 || row >= len(rooms) {
			// Press outside the list cancels any marked target.
			m.cancelTarget()
			return m, nil
		}
		m.pressedRow = row
		m.pressedID = rooms[row].ID
		m.cursor = row
		seq := m.recognizer.Begin()
		return m, commands.ArmLongPress(seq, m.shared.Cfg.LongPress())

	case tea.MouseActionRelease:
		outcome := m.recognizer.End()
		switch outcome {
		case gesture.Tap:
			// A short tap opens the room when released over the same row.
			if row == m.pressedRow && m.pressedID != 0 {
				m.pendingTarget = 0
				roomID := m.pressedID
				return m, func() tea.Msg { return OpenRoomMsg{RoomID: roomID} }
			}
		case gesture.LongPress:
			// Target already marked by LongPressFiredMsg; the release
			// must not also open the room.
		}
		return m, nil
	}

	return m, nil
}

// View renders the rooms view.
func (m RoomsModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Your chats"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	rooms := m.visible()
	switch {
	case !m.shared.Registry.Loaded():
		b.WriteString(tui.DimStyle.Render("Loading chats..."))
		b.WriteString("\n")
	case len(rooms) == 0 && m.search.Value() != "":
		b.WriteString(tui.DimStyle.Render("No chats match your search."))
		b.WriteString("\n")
	case len(rooms) == 0:
		b.WriteString(tui.DimStyle.Render("No chats yet. Press n to start one."))
		b.WriteString("\n")
	default:
		for i, room := range rooms {
			var line strings.Builder
			if i == m.cursor {
				line.WriteString("❯ ")
			} else {
				line.WriteString("  ")
			}

			title := room.Title
			when := room.CreatedAt.Format("Jan 02 15:04")
			switch {
			case room.ID == m.pendingTarget:
				line.WriteString(tui.ErrorStyle.Render(fmt.Sprintf("%s · delete? (d or Enter)", title)))
			case i == m.cursor:
				line.WriteString(tui.SelectedStyle.Render(title))
				line.WriteString(tui.DimStyle.Render("  " + when))
			default:
				line.WriteString(title)
				line.WriteString(tui.DimStyle.Render("  " + when))
			}
			b.WriteString(line.String())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	if m.confirming {
		room, _ := m.shared.Registry.Get(m.pendingTarget)
		prompt := fmt.Sprintf("Delete \"%s\"? This cannot be undone. (y/n)", room.Title)
		b.WriteString(tui.WarningStyle.Render(prompt))
	} else if m.pendingTarget != 0 {
		b.WriteString(tui.DimStyle.Render("d/Enter: confirm delete · any move cancels"))
	} else {
		b.WriteString(tui.DimStyle.Render("Enter: open · n: new chat · d: delete · /: search · Esc: back"))
	}

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}
