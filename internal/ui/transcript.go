// internal/ui/transcript.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"hubchat/internal/inference"
	"hubchat/internal/session"
)

// barWidth is the width of the score bars for classification results.
const barWidth = 20

// TranscriptView renders the conversation into a scrolling viewport.
type TranscriptView struct {
	Viewport viewport.Model
	renderer *glamour.TermRenderer
}

func NewTranscriptView(width, height int) *TranscriptView {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()
	vp.MouseWheelEnabled = true

	// Markdown renderer for assistant text; nil means plain fallback.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		renderer = nil
	}

	return &TranscriptView{
		Viewport: vp,
		renderer: renderer,
	}
}

// SetSize resizes the viewport and the markdown word wrap.
func (v *TranscriptView) SetSize(width, height int) {
	v.Viewport.Width = width
	v.Viewport.Height = height
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	); err == nil {
		v.renderer = renderer
	}
}

// Refresh re-renders the entries and scrolls to the bottom.
func (v *TranscriptView) Refresh(entries []session.Entry, streamingID int) {
	v.Viewport.SetContent(v.render(entries, streamingID))
	v.Viewport.GotoBottom()
}

func (v *TranscriptView) render(entries []session.Entry, streamingID int) string {
	var sb strings.Builder

	for _, e := range entries {
		ts := e.CreatedAt.Format("15:04")
		style := RoleStyle(e.Role)
		header := style.Render(fmt.Sprintf("[%s] %s:", ts, FormatRole(e.Role)))

		sb.WriteString(header)
		if e.ID == streamingID {
			sb.WriteString(DimStyle.Render(" …"))
		}
		sb.WriteString("\n")

		sb.WriteString(v.renderBody(e))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (v *TranscriptView) renderBody(e session.Entry) string {
	var sb strings.Builder

	text := e.Text
	if e.Role == session.RoleAssistant && v.renderer != nil && text != "" {
		if rendered, err := v.renderer.Render(text); err == nil {
			text = strings.Trim(rendered, "\n")
		}
	}

	for _, line := range strings.Split(text, "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if !e.Image.IsZero() {
		sb.WriteString("  ")
		sb.WriteString(DimStyle.Render(fmt.Sprintf("[image: %s]", e.Image.Path())))
		sb.WriteString("\n")
	}
	if !e.Audio.IsZero() {
		sb.WriteString("  ")
		sb.WriteString(DimStyle.Render(fmt.Sprintf("[audio: %s]", e.Audio.Path())))
		sb.WriteString("\n")
	}
	if len(e.Labels) > 0 {
		sb.WriteString(renderLabels(e.Labels))
	}

	return sb.String()
}

// renderLabels draws a score bar per label, ranked as returned.
func renderLabels(labels []inference.Label) string {
	var sb strings.Builder

	nameWidth := 0
	for _, l := range labels {
		if len(l.Name) > nameWidth {
			nameWidth = len(l.Name)
		}
	}

	for _, l := range labels {
		filled := int(l.Score*barWidth + 0.5)
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		sb.WriteString(fmt.Sprintf("  %-*s %s %.3f\n",
			nameWidth, l.Name, LabelBarStyle.Render(bar), l.Score))
	}

	return sb.String()
}
