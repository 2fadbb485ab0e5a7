package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
)

// ConfirmationDialog represents a yes/no confirmation dialog
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
}

// NewConfirmationDialog creates a new confirmation dialog with "Yes" selected.
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:       title,
		Message:     message,
		YesSelected: true,
	}
}

// Update moves the selection. It reports whether enter was pressed.
func (d *ConfirmationDialog) Update(msg tea.Msg) (done bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}

	switch keyMsg.String() {
	case "left", "h", "y":
		d.YesSelected = true
	case "right", "l", "n":
		d.YesSelected = false
	case "enter":
		return true
	}
	return false
}

// View renders the confirmation dialog
func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Yes")
	noButton := inactiveButtonStyle.Render("No")

	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Yes")
	} else {
		noButton = activeButtonStyle.Render("No")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("←/→", "navigate") + " • " + FormatKey("enter", "confirm") + " • " + FormatKey("esc", "back")))

	return boxStyle.Render(b.String())
}

// ModelItem represents a model in the picker list
type ModelItem struct {
	Model   *registry.Model
	Table   string
	Checked bool
}

func (i ModelItem) FilterValue() string { return i.Model.Label() }
func (i ModelItem) Title() string {
	return fmt.Sprintf("%s %s", FormatCheck(i.Checked), i.Model.Label())
}
func (i ModelItem) Description() string {
	return mutedStyle.Render(fmt.Sprintf("table %s • %d fields", i.Table, len(i.Model.Fields)))
}

// ModelItemDelegate is a custom delegate for model list items
type ModelItemDelegate struct{}

func (d ModelItemDelegate) Height() int                             { return 2 }
func (d ModelItemDelegate) Spacing() int                            { return 1 }
func (d ModelItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d ModelItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ModelItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + i.Description())
	} else {
		s = unselectedItemStyle.Render("  " + i.Title() + "\n  " + i.Description())
	}

	_, _ = fmt.Fprint(w, s)
}
