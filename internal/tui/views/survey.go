// Package views provides TUI view components for the mull application.
package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// OptionPickedMsg is sent when the user confirms an option for the current
// survey step.
type OptionPickedMsg struct {
	RoomID   int64
	Step     int
	OptionID int64
}

// RetrySurveyMsg is sent when the user asks to retry the step that failed.
type RetrySurveyMsg struct {
	RoomID int64
}

// ============================================================================
// SurveyModel
// ============================================================================

// SurveyModel is the embedded widget for one room's survey. It keeps every
// question it has shown so earlier steps stay visible with their answers;
// the engine remains the authority on what the current step may do.
type SurveyModel struct {
	roomID int64
	engine *advice.Engine
	asked  []advice.SurveyQuestion
	cursor int
}

// NewSurveyModel creates a survey widget bound to one room.
func NewSurveyModel(roomID int64, engine *advice.Engine) SurveyModel {
	return SurveyModel{
		roomID: roomID,
		engine: engine,
	}
}

// RoomID returns the room this widget renders.
func (m SurveyModel) RoomID() int64 { return m.roomID }

// PushQuestion records a newly arrived question as the current step and
// resets the cursor to its first option.
func (m *SurveyModel) PushQuestion(q advice.SurveyQuestion) {
	m.asked = append(m.asked, q)
	m.cursor = 0
}

// current returns the question the user is answering right now, if any.
func (m SurveyModel) current() (advice.SurveyQuestion, bool) {
	if len(m.asked) == 0 {
		return advice.SurveyQuestion{}, false
	}
	return m.asked[len(m.asked)-1], true
}

// Update handles input for the survey widget. Keys only act while the
// engine allows a pick or a retry; everything else is ignored so a
// double press during submission cannot fire twice.
func (m SurveyModel) Update(msg tea.Msg) (SurveyModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	state := m.engine.StateOf(m.roomID)

	if state == advice.StepFailed {
		switch key.String() {
		case "r", tui.KeyEnter:
			roomID := m.roomID
			return m, func() tea.Msg {
				return RetrySurveyMsg{RoomID: roomID}
			}
		}
		return m, nil
	}

	if state != advice.StepAwaitingPick {
		return m, nil
	}

	q, ok := m.current()
	if !ok || len(q.Options) == 0 {
		return m, nil
	}

	switch key.String() {
	case tui.KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tui.KeyDown, "j":
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
		return m, nil

	case tui.KeyEnter, " ":
		return m.pick(q, m.cursor)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// Number keys pick immediately
		idx := int(key.String()[0] - '1')
		if idx >= 0 && idx < len(q.Options) {
			return m.pick(q, idx)
		}
		return m, nil
	}

	return m, nil
}

// pick emits the selection for the given option index.
func (m SurveyModel) pick(q advice.SurveyQuestion, idx int) (SurveyModel, tea.Cmd) {
	m.cursor = idx
	picked := OptionPickedMsg{
		RoomID:   m.roomID,
		Step:     q.Step,
		OptionID: q.Options[idx].ID,
	}
	return m, func() tea.Msg {
		return picked
	}
}

// View renders the survey history and the current step.
func (m SurveyModel) View() string {
	var b strings.Builder

	state := m.engine.StateOf(m.roomID)

	if len(m.asked) == 0 {
		switch state {
		case advice.StepIdle, advice.StepAwaitingQuestion:
			return tui.DimStyle.Render("Getting the first question...")
		}
	}

	for i, q := range m.asked {
		isCurrent := i == len(m.asked)-1

		b.WriteString(tui.AssistantStyle.Render("Advisor: "))
		b.WriteString(q.Text)
		b.WriteString("\n")

		if isCurrent && state == advice.StepAwaitingPick {
			m.renderPickable(&b, q)
		} else {
			m.renderAnswered(&b, q)
		}

		b.WriteString("\n")
	}

	switch state {
	case advice.StepSubmitting:
		b.WriteString(tui.DimStyle.Render("Sending your answer..."))
		b.WriteString("\n")

	case advice.StepCompleting, advice.StepAwaitingResult:
		if final := m.engine.FinalMessage(m.roomID); final != "" {
			b.WriteString(tui.AssistantStyle.Render("Advisor: "))
			b.WriteString(final)
			b.WriteString("\n")
		}

	case advice.StepResolved:
		if final := m.engine.FinalMessage(m.roomID); final != "" {
			b.WriteString(tui.AssistantStyle.Render("Advisor: "))
			b.WriteString(final)
			b.WriteString("\n\n")
		}
		if result, ok := m.engine.Result(m.roomID); ok {
			b.WriteString(tui.SuccessStyle.Render(fmt.Sprintf("Verdict: %s", result.Decision)))
			b.WriteString("\n")
			if result.Message != "" {
				b.WriteString(result.Message)
				b.WriteString("\n")
			}
		}

	case advice.StepFailed:
		b.WriteString(tui.ErrorStyle.Render(m.engine.Failure(m.roomID)))
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("r: retry"))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderPickable renders the options of the step awaiting a pick.
func (m SurveyModel) renderPickable(b *strings.Builder, q advice.SurveyQuestion) {
	for i, opt := range q.Options {
		var line strings.Builder

		if i == m.cursor {
			line.WriteString("❯ ")
		} else {
			line.WriteString("  ")
		}
		line.WriteString(fmt.Sprintf("%d. ", i+1))

		if i == m.cursor {
			b.WriteString(line.String())
			b.WriteString(tui.SelectedStyle.Render(opt.Label))
		} else {
			b.WriteString(line.String())
			b.WriteString(opt.Label)
		}
		b.WriteString("\n")
	}
	b.WriteString(tui.DimStyle.Render("Enter to answer · ↑↓ to navigate · 1-9 quick pick"))
	b.WriteString("\n")
}

// renderAnswered renders a step whose answer is locked in, marking the
// picked option. The in-flight step renders the same way so the chosen
// option stays visible while the submission is pending.
func (m SurveyModel) renderAnswered(b *strings.Builder, q advice.SurveyQuestion) {
	chosen, hasChoice := m.engine.Selected(m.roomID, q.Step)

	for i, opt := range q.Options {
		mark := "  "
		label := opt.Label
		if hasChoice && opt.ID == chosen {
			mark = "● "
			label = tui.SuccessStyle.Render(label)
		} else {
			label = tui.DimStyle.Render(label)
		}
		b.WriteString(mark)
		b.WriteString(fmt.Sprintf("%d. ", i+1))
		b.WriteString(label)
		b.WriteString("\n")
	}
}
