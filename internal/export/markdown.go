// internal/export/markdown.go
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hubchat/internal/session"
)

// TranscriptExport contains the data needed to export a session.
type TranscriptExport struct {
	Title     string
	Task      string
	Model     string
	CreatedAt time.Time
	Entries   []session.Entry
}

// ExportTranscript generates a formatted markdown string from a session
// transcript.
func ExportTranscript(t *TranscriptExport) string {
	var sb strings.Builder

	// Title header
	sb.WriteString("# ")
	sb.WriteString(t.Title)
	sb.WriteString("\n\n")

	// Metadata section
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("**Created:** %s\n\n", t.CreatedAt.Format("2006-01-02 15:04:05")))
	if t.Task != "" {
		sb.WriteString(fmt.Sprintf("**Task:** `%s`\n\n", t.Task))
	}
	if t.Model != "" {
		sb.WriteString(fmt.Sprintf("**Model:** `%s`\n\n", t.Model))
	}
	sb.WriteString("---\n\n")

	// Entries section
	sb.WriteString("## Transcript\n\n")

	for i, e := range t.Entries {
		ts := e.CreatedAt.Format("15:04:05")
		sb.WriteString(fmt.Sprintf("### [%s] %s\n\n", ts, formatRole(e.Role)))

		content := strings.TrimSpace(e.Text)
		if content != "" {
			if containsCodeBlock(content) {
				// Content already has code blocks, render as-is
				sb.WriteString(content)
				sb.WriteString("\n")
			} else {
				// Wrap in blockquote for visual distinction
				for _, line := range strings.Split(content, "\n") {
					sb.WriteString("> ")
					sb.WriteString(line)
					sb.WriteString("\n")
				}
			}
		}

		// Attachments
		if !e.Image.IsZero() {
			sb.WriteString(fmt.Sprintf("\n![image](%s)\n", e.Image.Path()))
		}
		if !e.Audio.IsZero() {
			sb.WriteString(fmt.Sprintf("\n**Audio:** `%s`\n", e.Audio.Path()))
		}
		for _, l := range e.Labels {
			sb.WriteString(fmt.Sprintf("\n- %s: %.3f", l.Name, l.Score))
		}
		if len(e.Labels) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")

		// Add horizontal rule between entries (except after last)
		if i < len(t.Entries)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from hubchat on %s*\n", time.Now().Format("2006-01-02 15:04:05")))

	return sb.String()
}

// WriteTranscript exports a transcript to a markdown file in baseDir.
func WriteTranscript(t *TranscriptExport, baseDir string) (string, error) {
	// Generate filename: YYYY-MM-DD-title.md
	datePart := t.CreatedAt.Format("2006-01-02")
	namePart := sanitizeFilename(t.Title)
	filename := fmt.Sprintf("%s-%s.md", datePart, namePart)

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(baseDir, filename)

	content := ExportTranscript(t)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path, nil
}

// formatRole returns a display name for an entry author
func formatRole(role session.Role) string {
	switch role {
	case session.RoleUser:
		return "User"
	case session.RoleAssistant:
		return "Assistant"
	default:
		return string(role)
	}
}

// sanitizeFilename removes/replaces characters unsuitable for filenames
func sanitizeFilename(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces with hyphens
	name = strings.ReplaceAll(name, " ", "-")

	// Remove or replace problematic characters
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_':
			sb.WriteRune(r)
		default:
			// Skip other characters
		}
	}

	result := sb.String()

	// Collapse multiple hyphens
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}

	// Trim leading/trailing hyphens
	result = strings.Trim(result, "-")

	// Ensure non-empty
	if result == "" {
		result = "chat"
	}

	// Limit length
	if len(result) > 50 {
		result = result[:50]
	}

	return result
}

// containsCodeBlock checks if content already has markdown code blocks
func containsCodeBlock(content string) bool {
	return strings.Contains(content, "```")
}
