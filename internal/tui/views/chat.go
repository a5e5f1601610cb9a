package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// SendStagedMsg is sent when the user sends the staged item to start a
// new advice conversation.
type SendStagedMsg struct{}

// OpenPickerMsg is sent when the user wants to stage an item.
type OpenPickerMsg struct{}

// OpenRoomsMsg is sent when the user opens the room browser.
type OpenRoomsMsg struct{}

// ============================================================================
// ChatModel
// ============================================================================

// ChatModel is the view model for the conversation screen. The timeline
// itself lives in the session; this model renders it and embeds the survey
// widget for the active room.
type ChatModel struct {
	shared    *tui.Model
	viewport  viewport.Model
	spinner   spinner.Model
	survey    SurveyModel
	hasSurvey bool
	width     int
	height    int
}

// NewChatModel creates the conversation view bound to the shared state.
func NewChatModel(shared *tui.Model, width, height int) ChatModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	vp := viewport.New(chatViewportWidth(width), chatViewportHeight(height))

	m := ChatModel{
		shared:   shared,
		viewport: vp,
		spinner:  sp,
		width:    width,
		height:   height,
	}
	m.Refresh()
	return m
}

func chatViewportHeight(height int) int {
	h := height - 10
	if h < 5 {
		h = 5
	}
	return h
}

func chatViewportWidth(width int) int {
	w := width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// Init returns the initial command for the chat view.
func (m ChatModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// AttachSurvey binds the embedded survey widget to the given room,
// replacing any widget from a previous room.
func (m *ChatModel) AttachSurvey(roomID int64) {
	if m.hasSurvey && m.survey.RoomID() == roomID {
		return
	}
	m.survey = NewSurveyModel(roomID, m.shared.Engine)
	m.hasSurvey = true
}

// DetachSurvey drops the embedded survey widget.
func (m *ChatModel) DetachSurvey() {
	m.hasSurvey = false
}

// PushQuestion hands a newly arrived question to the survey widget.
func (m *ChatModel) PushQuestion(roomID int64, q advice.SurveyQuestion) {
	m.AttachSurvey(roomID)
	m.survey.PushQuestion(q)
	m.Refresh()
}

// Refresh rebuilds the viewport from the timeline and scrolls to the
// newest entry.
func (m *ChatModel) Refresh() {
	m.viewport.SetContent(m.timelineContent())
	m.viewport.GotoBottom()
}

// busy reports whether something is in flight for the active room, which
// keeps the spinner ticking.
func (m ChatModel) busy() bool {
	if m.shared.Session.Timeline().HasTyping() {
		return true
	}
	switch m.shared.Engine.StateOf(m.shared.Session.ActiveRoom()) {
	case advice.StepAwaitingQuestion, advice.StepSubmitting,
		advice.StepCompleting, advice.StepAwaitingResult:
		return true
	}
	return false
}

// surveyPending reports whether the survey widget wants key input.
func (m ChatModel) surveyPending() bool {
	if !m.hasSurvey {
		return false
	}
	switch m.shared.Engine.StateOf(m.survey.RoomID()) {
	case advice.StepAwaitingPick, advice.StepFailed:
		return true
	}
	return false
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The survey gets first pick while it is waiting on the user.
		if m.surveyPending() {
			m.survey, cmd = m.survey.Update(msg)
			if cmd != nil {
				m.Refresh()
				return m, cmd
			}
			switch msg.String() {
			case tui.KeyUp, tui.KeyDown, "k", "j":
				// Cursor moved inside the widget; re-render and keep
				// the key away from the viewport's scroll bindings.
				m.Refresh()
				return m, nil
			}
		}

		switch msg.String() {
		case "p":
			return m, func() tea.Msg { return OpenPickerMsg{} }

		case tui.KeyTab, "l":
			return m, func() tea.Msg { return OpenRoomsMsg{} }

		case tui.KeyEnter, "s":
			// Sending needs a staged item and no send already in flight.
			if _, ok := m.shared.Session.Staged(); !ok {
				return m, nil
			}
			if m.shared.Session.Timeline().HasTyping() {
				return m, nil
			}
			return m, func() tea.Msg { return SendStagedMsg{} }

		case "x":
			m.shared.Session.ClearStagedPick()
			return m, nil
		}

	case spinner.TickMsg:
		// Keep the tick chain alive even while idle so the indicator
		// animates as soon as something is in flight again.
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.busy() {
			m.Refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = chatViewportWidth(msg.Width)
		m.viewport.Height = chatViewportHeight(msg.Height)
		m.Refresh()
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("mull · buy or not?"))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if item, ok := m.shared.Session.Staged(); ok {
		staged := fmt.Sprintf("Staged: %s · %s원 · %s", item.Name, formatPrice(item.Price), item.Kind)
		b.WriteString(tui.WarningStyle.Render(staged))
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Enter: ask for advice · x: unstage"))
	} else {
		b.WriteString(tui.DimStyle.Render("p: pick an item to ask about"))
	}
	b.WriteString("\n\n")

	if kind, ok := m.shared.Toast.Current(); ok {
		b.WriteString(tui.ToastStyle.Render(kind.Message()))
		b.WriteString("\n")
	}

	b.WriteString(tui.DimStyle.Render("Tab: chats · p: pick item · Ctrl+C: quit"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// timelineContent formats the session timeline for the viewport.
func (m ChatModel) timelineContent() string {
	entries := m.shared.Session.Timeline().Entries()
	if len(entries) == 0 {
		return tui.DimStyle.Render("Pick an item and ask whether to buy it.")
	}

	var b strings.Builder
	for i, entry := range entries {
		switch e := entry.(type) {
		case advice.UserProduct:
			b.WriteString(tui.UserStyle.Render("You: "))
			b.WriteString(fmt.Sprintf("%s · %s원 · %s", e.Item.Name, formatPrice(e.Item.Price), e.Item.Kind))

		case advice.UserText:
			b.WriteString(tui.UserStyle.Render("You: "))
			b.WriteString(e.Text)

		case advice.AssistantTyping:
			b.WriteString(m.spinner.View())
			b.WriteString(tui.DimStyle.Render(" typing..."))

		case advice.AssistantSurvey:
			if m.hasSurvey && m.survey.RoomID() == e.RoomID {
				b.WriteString(m.survey.View())
			} else {
				b.WriteString(tui.DimStyle.Render("Loading the survey..."))
			}
		}

		if i < len(entries)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// formatPrice groups digits in thousands for display.
func formatPrice(price int64) string {
	s := fmt.Sprintf("%d", price)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
