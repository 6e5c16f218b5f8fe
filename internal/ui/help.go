// internal/ui/help.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Help overlay content and rendering

var (
	// Help section title style
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan).
			MarginBottom(1)

	// Help section header style
	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Yellow).
				MarginTop(1)

	// Help key style (for keybindings)
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// Help command style (for slash commands)
	helpCmdStyle = lipgloss.NewStyle().
			Foreground(Magenta)

	// Help description style
	helpDescStyle = lipgloss.NewStyle().
			Foreground(White)

	// Help dim style (for secondary info)
	helpDimStyle = lipgloss.NewStyle().
			Foreground(Dim)
)

// HelpContent returns the formatted help overlay content
func HelpContent(width, height int) string {
	var content strings.Builder

	// Title
	title := helpTitleStyle.Render("HUBCHAT HELP")
	content.WriteString(title)
	content.WriteString("\n\n")

	// Keybindings section
	content.WriteString(helpSectionStyle.Render("KEYBINDINGS"))
	content.WriteString("\n\n")

	keybindings := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send the current input"},
		{"Ctrl+T", "Cycle through task categories"},
		{"Ctrl+P", "Open the model picker"},
		{"Ctrl+D", "Toggle the model detail panel"},
		{"F1", "Toggle this help overlay"},
		{"Esc", "Close overlay / Return to input"},
		{"Ctrl+C / Ctrl+Q", "Quit hubchat"},
	}

	for _, kb := range keybindings {
		key := helpKeyStyle.Width(16).Render(kb.key)
		desc := helpDescStyle.Render(kb.desc)
		content.WriteString("  " + key + "  " + desc + "\n")
	}

	// Slash commands section
	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("SLASH COMMANDS"))
	content.WriteString("\n\n")

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help", "Show this help overlay"},
		{"/task <tag>", "Switch the active task category"},
		{"/model [id]", "Open the model picker, or select directly"},
		{"/key <token>", "Set the API token"},
		{"/verify", "Verify the current token"},
		{"/refresh", "Re-fetch the model catalog"},
		{"/image <path>", "Select an image for image classification"},
		{"/card", "Toggle the model detail panel"},
		{"/export", "Export the transcript to markdown"},
		{"/quit", "Exit hubchat"},
	}

	for _, cmd := range commands {
		cmdStr := helpCmdStyle.Width(16).Render(cmd.cmd)
		desc := helpDescStyle.Render(cmd.desc)
		content.WriteString("  " + cmdStr + "  " + desc + "\n")
	}

	// Tasks section
	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("TASKS"))
	content.WriteString("\n\n")

	tasks := []string{
		"text-generation       chat with a model, responses stream in",
		"text-to-image         generate an image from a prompt",
		"text-classification   rank sentiment/intent labels for a text",
		"summarization         condense a long text",
		"image-classification  rank labels for a selected image",
		"text-to-speech        synthesize audio from a text",
	}
	for _, line := range tasks {
		content.WriteString("  " + helpDimStyle.Render(line) + "\n")
	}

	// Getting started section
	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("GETTING STARTED"))
	content.WriteString("\n\n")

	steps := []string{
		"1. Set a token with /key hf_... (or export HF_TOKEN)",
		"2. /verify to check it and load the live model catalog",
		"3. Pick a task with Ctrl+T and a model with Ctrl+P",
		"4. Type a message and press Enter",
	}
	for _, line := range steps {
		content.WriteString("  " + helpDimStyle.Render(line) + "\n")
	}

	// Footer
	content.WriteString("\n")
	footer := helpDimStyle.Render("Press F1 or Esc to close this help")
	content.WriteString(lipgloss.PlaceHorizontal(width-8, lipgloss.Center, footer))

	// Build the overlay box
	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 3).
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

// renderHelp renders the help overlay (called from app.go)
func (m Model) renderHelp() string {
	return HelpContent(m.width, m.height)
}
