// Package commands handles slash command parsing for the hubchat TUI.
package commands

import (
	"strings"
)

// Command interface for all command types
type Command interface {
	Type() string
}

// Help returns help text
type Help struct{}

func (Help) Type() string { return "help" }

// SetTask switches the active task category
type SetTask struct {
	Tag string
}

func (SetTask) Type() string { return "task" }

// PickModel opens the model picker, or selects a model directly
type PickModel struct {
	ID string
}

func (PickModel) Type() string { return "model" }

// SetKey replaces the API token
type SetKey struct {
	Token string
}

func (SetKey) Type() string { return "key" }

// Verify verifies the current API token
type Verify struct{}

func (Verify) Type() string { return "verify" }

// Refresh re-fetches the model catalog
type Refresh struct{}

func (Refresh) Type() string { return "refresh" }

// AttachImage selects an image for image classification
type AttachImage struct {
	Path string
}

func (AttachImage) Type() string { return "image" }

// ShowCard toggles the model detail panel
type ShowCard struct{}

func (ShowCard) Type() string { return "card" }

// Export exports the transcript to a markdown file
type Export struct{}

func (Export) Type() string { return "export" }

// Quit exits the program
type Quit struct{}

func (Quit) Type() string { return "quit" }

// ParseError represents a command parsing error
type ParseError struct {
	Message string
}

func (ParseError) Type() string { return "error" }

// Parse parses user input and returns the appropriate Command.
// Returns nil if the input is not a slash command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	// Split into command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help":
		return Help{}

	case "/task":
		if len(args) == 0 {
			return ParseError{Message: "/task requires a task tag"}
		}
		return SetTask{Tag: strings.ToLower(args[0])}

	case "/model":
		id := strings.Join(args, " ")
		return PickModel{ID: id}

	case "/key":
		if len(args) == 0 {
			return ParseError{Message: "/key requires a token"}
		}
		return SetKey{Token: args[0]}

	case "/verify":
		return Verify{}

	case "/refresh":
		return Refresh{}

	case "/image":
		if len(args) == 0 {
			return ParseError{Message: "/image requires a file path"}
		}
		return AttachImage{Path: strings.Join(args, " ")}

	case "/card":
		return ShowCard{}

	case "/export":
		return Export{}

	case "/quit", "/exit":
		return Quit{}

	default:
		return ParseError{Message: "unknown command: " + cmd}
	}
}
