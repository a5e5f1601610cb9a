package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/config"
	"github.com/mull-dev/mull/internal/tui"
)

// chatFixture builds a conversation view over room 7 with a question
// awaiting a pick.
func chatFixture(t *testing.T, height int, options []advice.Option) ChatModel {
	t.Helper()

	shared := tui.NewModel(config.DefaultConfig(), nil, nil)
	t.Cleanup(shared.Toast.Close)

	shared.Session.OpenRoom(7)
	shared.Session.ApplyDetailError(7)
	shared.Engine.Open(7)
	if !shared.Engine.BeginQuestionFetch(7) {
		t.Fatal("question fetch refused for a fresh room")
	}

	q := advice.SurveyQuestion{Step: 1, Text: "Do you need it right now?", Options: options}
	if got := shared.Engine.ApplyQuestion(7, q); got != advice.AdvanceQuestion {
		t.Fatalf("ApplyQuestion = %v, want AdvanceQuestion", got)
	}

	chat := NewChatModel(shared, 80, height)
	chat.PushQuestion(7, q)
	return chat
}

func TestChatRendersCursorMoveOnKeypress(t *testing.T) {
	chat := chatFixture(t, 40, []advice.Option{
		{ID: 1, Label: "Yes"},
		{ID: 2, Label: "No"},
	})

	before := chat.View()
	if !strings.Contains(before, "❯ 1. ") {
		t.Fatalf("cursor not on the first option:\n%s", before)
	}

	chat, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Errorf("navigation key produced a command: %#v", cmd())
	}

	after := chat.View()
	if !strings.Contains(after, "❯ 2. ") {
		t.Errorf("view still shows the old cursor after the keypress:\n%s", after)
	}
	if strings.Contains(after, "❯ 1. ") {
		t.Errorf("cursor rendered on two options at once:\n%s", after)
	}
}

func TestChatSurveyNavigationDoesNotScrollViewport(t *testing.T) {
	options := make([]advice.Option, 8)
	for i := range options {
		options[i] = advice.Option{ID: int64(i + 1), Label: "Option"}
	}
	chat := chatFixture(t, 12, options)

	// The survey is taller than the viewport, which sits at the bottom.
	offset := chat.viewport.YOffset
	if offset == 0 {
		t.Fatalf("content fits the viewport; nothing to scroll (total %d lines)", chat.viewport.TotalLineCount())
	}

	// Up is both a survey key and a viewport scroll binding; only the
	// survey may act on it.
	chat, _ = chat.Update(tea.KeyMsg{Type: tea.KeyUp})
	if chat.viewport.YOffset != offset {
		t.Errorf("survey navigation scrolled the viewport: offset %d -> %d", offset, chat.viewport.YOffset)
	}
}
