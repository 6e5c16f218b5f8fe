// internal/ui/picker.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hubchat/internal/session"
)

// PickerState holds the state for the model picker overlay.
type PickerState struct {
	models    []session.ModelRef
	cursor    int
	scrollTop int
	maxHeight int
}

// NewPickerState creates a new picker state.
func NewPickerState() *PickerState {
	return &PickerState{
		maxHeight: 20, // default, will be updated based on terminal size
	}
}

// Load fills the picker with the models for a task.
func (p *PickerState) Load(models []session.ModelRef) {
	p.models = models
	p.cursor = 0
	p.scrollTop = 0
}

// Up moves the cursor up.
func (p *PickerState) Up() {
	if p.cursor > 0 {
		p.cursor--
		if p.cursor < p.scrollTop {
			p.scrollTop = p.cursor
		}
	}
}

// Down moves the cursor down.
func (p *PickerState) Down() {
	if p.cursor < len(p.models)-1 {
		p.cursor++
		if p.cursor >= p.scrollTop+p.maxHeight {
			p.scrollTop = p.cursor - p.maxHeight + 1
		}
	}
}

// Selected returns the model under the cursor, or nil if none.
func (p *PickerState) Selected() *session.ModelRef {
	if p.cursor >= 0 && p.cursor < len(p.models) {
		return &p.models[p.cursor]
	}
	return nil
}

// SetMaxHeight updates the max visible rows.
func (p *PickerState) SetMaxHeight(height int) {
	p.maxHeight = height - 10 // Leave room for header/footer
	if p.maxHeight < 5 {
		p.maxHeight = 5
	}
}

// Render renders the picker overlay.
func (p *PickerState) Render(task session.Task, width, height int) string {
	var content strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Render("PICK A MODEL")
	content.WriteString(title)
	content.WriteString("\n")
	content.WriteString(DimStyle.Render(fmt.Sprintf("Task: %s", task)))
	content.WriteString("\n\n")

	if len(p.models) == 0 {
		content.WriteString(DimStyle.Render("No models available for this task."))
		content.WriteString("\n\n")
		content.WriteString(DimStyle.Render("Verify a token and /refresh to load the catalog."))
	} else {
		visibleEnd := p.scrollTop + p.maxHeight
		if visibleEnd > len(p.models) {
			visibleEnd = len(p.models)
		}

		for i := p.scrollTop; i < visibleEnd; i++ {
			m := p.models[i]

			name := m.DisplayName
			if len(name) > 60 {
				name = name[:58] + ".."
			}

			cursor := "  "
			lineStyle := DimStyle
			if i == p.cursor {
				cursor = "> "
				lineStyle = lipgloss.NewStyle().Foreground(Cyan)
			}

			content.WriteString(cursor)
			content.WriteString(lineStyle.Render(name))
			content.WriteString("\n")
		}

		if len(p.models) > p.maxHeight {
			scrollInfo := fmt.Sprintf("Showing %d-%d of %d",
				p.scrollTop+1, visibleEnd, len(p.models))
			content.WriteString("\n")
			content.WriteString(DimStyle.Render(scrollInfo))
		}
	}

	content.WriteString("\n\n")
	content.WriteString(DimStyle.Render("Up/Down: Navigate | Enter: Select | Esc: Cancel"))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 2).
		MaxWidth(width - 10).
		MaxHeight(height - 4)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlayStyle.Render(content.String()),
	)
}
