// internal/ui/detail.go
package ui

import (
	"fmt"
	"strings"

	"hubchat/internal/card"
	"hubchat/internal/hub"
)

// DetailState is the model-detail side panel. It owns exactly one
// model's data at a time; a selection change discards everything and a
// fresh fetch replaces it wholesale.
type DetailState struct {
	ModelID string
	Detail  hub.Detail
	Card    card.Card
	HasCard bool
	Loading bool
}

// Reset clears the panel for a new selection.
func (d *DetailState) Reset(modelID string) {
	*d = DetailState{ModelID: modelID, Loading: true}
}

// SetDetail stores fetched metadata.
func (d *DetailState) SetDetail(detail hub.Detail) {
	d.Detail = detail
	d.Loading = false
}

// SetCard stores the extracted model card. Card fetch failures simply
// never call this; the panel then shows metadata only.
func (d *DetailState) SetCard(c card.Card) {
	d.Card = c
	d.HasCard = true
}

// Render renders the detail panel at the given width.
func (d *DetailState) Render(width int) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("MODEL"))
	sb.WriteString("\n\n")

	if d.ModelID == "" {
		sb.WriteString(DimStyle.Render("No model selected."))
		return sb.String()
	}

	sb.WriteString(AssistantStyle.Render(d.ModelID))
	sb.WriteString("\n")

	if d.Loading {
		sb.WriteString(DimStyle.Render("Loading…"))
		return sb.String()
	}

	if d.Detail.Author != "" {
		sb.WriteString(fmt.Sprintf("by %s\n", d.Detail.Author))
	}
	if d.Detail.License != "" {
		sb.WriteString(fmt.Sprintf("License: %s\n", d.Detail.License))
	}
	sb.WriteString(fmt.Sprintf("Downloads: %d   Likes: %d\n", d.Detail.Downloads, d.Detail.Likes))
	if !d.Detail.LastModified.IsZero() {
		sb.WriteString(fmt.Sprintf("Updated: %s\n", d.Detail.LastModified.Format("2006-01-02")))
	}
	if len(d.Detail.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(d.Detail.Languages, ", ")))
	}
	if len(d.Detail.Datasets) > 0 {
		sb.WriteString(fmt.Sprintf("Datasets: %s\n", strings.Join(d.Detail.Datasets, ", ")))
	}

	if len(d.Detail.Metrics) > 0 {
		sb.WriteString("\n")
		sb.WriteString(SystemStyle.Render("Metrics"))
		sb.WriteString("\n")
		for _, m := range d.Detail.Metrics {
			name := m.Name
			if name == "" {
				name = m.Type
			}
			sb.WriteString(fmt.Sprintf("  %s: %v (%s)\n", name, m.Value, m.Dataset))
		}
	}

	if d.HasCard {
		writeCardSection(&sb, "About", d.Card.Description, width)
		writeCardSection(&sb, "Usage", d.Card.Usage, width)
		writeCardSection(&sb, "Limitations", d.Card.Limitations, width)
		writeCardSection(&sb, "Training data", d.Card.TrainingData, width)
	}

	return sb.String()
}

func writeCardSection(sb *strings.Builder, title, body string, width int) {
	if body == "" {
		return
	}
	if max := width * 6; max > 0 && len(body) > max {
		body = body[:max] + "…"
	}
	sb.WriteString("\n")
	sb.WriteString(SystemStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n")
}
