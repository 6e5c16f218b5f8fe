// Package card extracts readable fields from model card markdown.
// Everything here is best effort: model cards are free-form documents and
// the goal is a usable summary, not a faithful parse.
package card

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Card holds the fields pulled out of a model card README.
// All fields except Description may be empty when the source document
// has no matching section.
type Card struct {
	Description  string
	Usage        string
	Limitations  string
	TrainingData string
}

const (
	// Descriptions shorter than this fall back to the cleaned full text.
	minDescriptionLen = 50

	// Cap on the fallback description.
	maxFallbackLen = 1000
)

var (
	frontMatterRe = regexp.MustCompile(`(?s)\A---\s*\n.*?\n---\s*\n?`)
	imageRe       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	hruleRe       = regexp.MustCompile(`(?m)^[ \t]*[-*_]{3,}[ \t]*$`)
	newlinesRe    = regexp.MustCompile(`\n{3,}`)
	headingRe     = regexp.MustCompile(`^#{1,2}\s`)
	h2Re          = regexp.MustCompile(`(?m)^##\s`)

	usageHeadingRe = regexp.MustCompile(`(?im)^#{1,4}\s*(?:usage|how to use|examples)\b[^\n]*$`)
	limitHeadingRe = regexp.MustCompile(`(?im)^#{1,4}\s*(?:limitations(?:\s+and\s+bias)?|bias)\b[^\n]*$`)
	trainHeadingRe = regexp.MustCompile(`(?im)^#{1,4}\s*(?:training(?:\s+data)?|model\s+details)\b[^\n]*$`)

	// Strips every HTML element, including script/style bodies.
	htmlPolicy = bluemonday.StrictPolicy()
)

// Extract parses model card markdown into a Card. It never fails; the
// worst case is a Card with an empty description.
func Extract(markdown string) Card {
	text := stripFrontMatter(markdown)

	return Card{
		Description:  extractDescription(text),
		Usage:        extractSection(text, usageHeadingRe),
		Limitations:  extractSection(text, limitHeadingRe),
		TrainingData: extractSection(text, trainHeadingRe),
	}
}

// stripFrontMatter drops a leading YAML front-matter block, delimiters
// included.
func stripFrontMatter(text string) string {
	if !strings.HasPrefix(text, "---") {
		return text
	}
	return frontMatterRe.ReplaceAllString(text, "")
}

// cleanText is the fallback candidate: markdown and HTML noise removed,
// runs of blank lines collapsed.
func cleanText(text string) string {
	s := html.UnescapeString(htmlPolicy.Sanitize(text))
	s = imageRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = hruleRe.ReplaceAllString(s, "")
	s = newlinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// extractDescription scans from the top of the card, collecting prose
// until the first section heading. Short or empty results fall back to
// a prefix of the cleaned full text.
func extractDescription(text string) string {
	var kept []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" && len(kept) == 0 {
			continue
		}
		if isBadgeLine(trimmed) {
			continue
		}
		if headingRe.MatchString(trimmed) {
			if len(kept) > 0 {
				break
			}
			// Leading title heading, skip it.
			continue
		}
		kept = append(kept, line)
	}

	var usable []string
	for _, line := range kept {
		if strings.Contains(line, "![") || strings.Contains(line, "<") {
			continue
		}
		usable = append(usable, line)
	}

	desc := strings.TrimSpace(strings.Join(usable, "\n"))
	if len(desc) >= minDescriptionLen {
		return desc
	}

	fallback := cleanText(text)
	if len(fallback) > maxFallbackLen {
		fallback = fallback[:maxFallbackLen]
	}
	return strings.TrimSpace(fallback)
}

func isBadgeLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "badge") ||
		strings.Contains(lower, "shields.io") ||
		strings.Contains(lower, "<img")
}

// extractSection captures from a matching heading to the next level-2
// heading or end of text. Returns "" when the heading never appears.
// Nested headings inside the capture are left as-is.
func extractSection(text string, heading *regexp.Regexp) string {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	if end := h2Re.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return strings.TrimSpace(rest)
}
