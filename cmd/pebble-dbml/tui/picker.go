package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
)

// ErrCancelled is returned when the picker is closed without confirming.
var ErrCancelled = errors.New("model selection cancelled")

// PickMode represents the current mode of the picker
type PickMode int

const (
	ModeList PickMode = iota
	ModeConfirm
	ModeDone
	ModeCancelled
)

type keyMap struct {
	Toggle key.Binding
	All    key.Binding
	Accept key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all/none")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// TableNamer returns the table name shown next to a model.
type TableNamer func(m *registry.Model) (string, error)

// PickerModel is the Bubbletea model for choosing which models to render.
type PickerModel struct {
	mode         PickMode
	list         list.Model
	confirmation ConfirmationDialog
	width        int
	height       int
}

// NewPickerModel creates a picker with every model checked.
func NewPickerModel(models []*registry.Model, namer TableNamer) (PickerModel, error) {
	items := make([]list.Item, 0, len(models))
	for _, m := range models {
		table, err := namer(m)
		if err != nil {
			return PickerModel{}, err
		}
		items = append(items, ModelItem{Model: m, Table: table, Checked: true})
	}

	l := list.New(items, ModelItemDelegate{}, 0, 0)
	l.Title = "Models"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.All, keys.Accept}
	}

	return PickerModel{mode: ModeList, list: l}, nil
}

// Init initializes the model
func (m PickerModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeList:
			if m.list.FilterState() == list.Filtering {
				break
			}
			switch {
			case key.Matches(msg, keys.Quit):
				m.mode = ModeCancelled
				return m, tea.Quit

			case key.Matches(msg, keys.Toggle):
				return m, m.toggle(m.list.GlobalIndex())

			case key.Matches(msg, keys.All):
				return m, m.toggleAll()

			case key.Matches(msg, keys.Accept):
				n := len(m.Selected())
				if n == 0 {
					return m, nil
				}
				m.confirmation = NewConfirmationDialog(
					"Generate DBML",
					fmt.Sprintf("Render %d of %d models?", n, len(m.list.Items())),
				)
				m.mode = ModeConfirm
				return m, nil
			}

		case ModeConfirm:
			if msg.String() == "esc" {
				m.mode = ModeList
				return m, nil
			}
			if key.Matches(msg, keys.Quit) {
				m.mode = ModeCancelled
				return m, tea.Quit
			}
			if m.confirmation.Update(msg) {
				if m.confirmation.YesSelected {
					m.mode = ModeDone
					return m, tea.Quit
				}
				m.mode = ModeList
			}
			return m, nil
		}
	}

	if m.mode == ModeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// toggle flips the item at index, a position in the unfiltered list.
func (m *PickerModel) toggle(index int) tea.Cmd {
	items := m.list.Items()
	if index < 0 || index >= len(items) {
		return nil
	}
	item := items[index].(ModelItem)
	item.Checked = !item.Checked
	return m.list.SetItem(index, item)
}

// toggleAll checks every model, or clears them all when all are checked.
func (m *PickerModel) toggleAll() tea.Cmd {
	items := m.list.Items()
	check := len(m.Selected()) != len(items)
	var cmds []tea.Cmd
	for i, it := range items {
		item := it.(ModelItem)
		item.Checked = check
		cmds = append(cmds, m.list.SetItem(i, item))
	}
	return tea.Batch(cmds...)
}

// Selected returns the checked models in list order.
func (m PickerModel) Selected() []*registry.Model {
	var selected []*registry.Model
	for _, it := range m.list.Items() {
		if item := it.(ModelItem); item.Checked {
			selected = append(selected, item.Model)
		}
	}
	return selected
}

// Mode returns the current mode.
func (m PickerModel) Mode() PickMode {
	return m.mode
}

// View renders the UI
func (m PickerModel) View() string {
	switch m.mode {
	case ModeList:
		help := helpStyle.Render(
			FormatKey("↑/↓", "navigate") + " • " +
				FormatKey("space", "toggle") + " • " +
				FormatKey("a", "all/none") + " • " +
				FormatKey("enter", "generate") + " • " +
				FormatKey("q", "quit"),
		)
		status := infoStyle.Render(fmt.Sprintf("%d selected", len(m.Selected())))
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), status, help)

	case ModeConfirm:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmation.View())
	}

	return ""
}

// RunPicker lets the user narrow models down interactively.
func RunPicker(models []*registry.Model, namer TableNamer) ([]*registry.Model, error) {
	model, err := NewPickerModel(models, namer)
	if err != nil {
		return nil, err
	}

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}

	picked := final.(PickerModel)
	if picked.Mode() != ModeDone {
		return nil, ErrCancelled
	}
	return picked.Selected(), nil
}
