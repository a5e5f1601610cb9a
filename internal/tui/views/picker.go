package views

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-dev/mull/internal/advice"
	"github.com/mull-dev/mull/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// StageItemMsg is sent when the user finished describing an item to stage.
type StageItemMsg struct {
	Item advice.PickedItem
}

// ClosePickerMsg is sent when the user leaves the picker without staging.
type ClosePickerMsg struct{}

// ============================================================================
// PickerModel
// ============================================================================

const (
	pickerFieldName = iota
	pickerFieldPrice
	pickerFieldKind
	pickerFieldCount
)

// PickerModel is the view model for staging an item to ask about.
type PickerModel struct {
	inputs  []textinput.Model
	focused int
	errMsg  string
	width   int
	height  int
}

// NewPickerModel creates the item picker form.
func NewPickerModel(width, height int) PickerModel {
	inputs := make([]textinput.Model, pickerFieldCount)

	name := textinput.New()
	name.Placeholder = "What are you thinking of buying?"
	name.CharLimit = 120
	name.Width = 50
	name.Focus()
	inputs[pickerFieldName] = name

	price := textinput.New()
	price.Placeholder = "Price in won, e.g. 238400"
	price.CharLimit = 12
	price.Width = 50
	inputs[pickerFieldPrice] = price

	kind := textinput.New()
	kind.Placeholder = "Category, e.g. clothing"
	kind.CharLimit = 40
	kind.Width = 50
	inputs[pickerFieldKind] = kind

	return PickerModel{
		inputs:  inputs,
		focused: pickerFieldName,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command for the picker view.
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the picker view.
func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyEsc:
			return m, func() tea.Msg { return ClosePickerMsg{} }

		case tui.KeyTab, tui.KeyDown:
			return m.focusField((m.focused + 1) % pickerFieldCount)

		case "shift+tab", tui.KeyUp:
			return m.focusField((m.focused + pickerFieldCount - 1) % pickerFieldCount)

		case tui.KeyEnter:
			if m.focused < pickerFieldCount-1 {
				return m.focusField(m.focused + 1)
			}
			return m.submit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// focusField moves focus to the given input.
func (m PickerModel) focusField(idx int) (PickerModel, tea.Cmd) {
	for i := range m.inputs {
		if i == idx {
			continue
		}
		m.inputs[i].Blur()
	}
	m.focused = idx
	m.inputs[idx].Focus()
	return m, textinput.Blink
}

// submit validates the form and stages the item.
func (m PickerModel) submit() (PickerModel, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[pickerFieldName].Value())
	priceText := strings.TrimSpace(m.inputs[pickerFieldPrice].Value())
	kind := strings.TrimSpace(m.inputs[pickerFieldKind].Value())

	if name == "" {
		m.errMsg = "Give the item a name."
		return m, nil
	}
	price, err := strconv.ParseInt(priceText, 10, 64)
	if err != nil || price < 0 {
		m.errMsg = "Price must be a whole number."
		return m, nil
	}
	if kind == "" {
		kind = "etc"
	}

	// There is no catalog to browse yet, so staged items get a
	// client-side id.
	item := advice.PickedItem{
		ID:    time.Now().UnixMilli(),
		Name:  name,
		Price: price,
		Kind:  kind,
	}
	m.errMsg = ""
	return m, func() tea.Msg {
		return StageItemMsg{Item: item}
	}
}

// View renders the picker view.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Pick an item"))
	b.WriteString("\n\n")

	labels := [pickerFieldCount]string{"Name", "Price", "Kind"}
	for i, input := range m.inputs {
		label := labels[i]
		if i == m.focused {
			b.WriteString(tui.SelectedStyle.Render(label))
		} else {
			b.WriteString(tui.DimStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(tui.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render("Enter: next/stage · Tab: next field · Esc: back"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}
