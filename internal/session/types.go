// Package session owns the chat state: the transcript, the credential,
// the task catalog, and the dispatcher that turns a submission into one
// of six inference calls.
package session

import (
	"time"

	"hubchat/internal/blob"
	"hubchat/internal/inference"
)

// Role is the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Task is a supported pipeline tag.
type Task string

const (
	TaskTextGeneration      Task = "text-generation"
	TaskTextToImage         Task = "text-to-image"
	TaskTextClassification  Task = "text-classification"
	TaskSummarization       Task = "summarization"
	TaskImageClassification Task = "image-classification"
	TaskTextToSpeech        Task = "text-to-speech"
)

// Tasks lists the supported tasks in display order.
var Tasks = []Task{
	TaskTextGeneration,
	TaskTextToImage,
	TaskTextClassification,
	TaskSummarization,
	TaskImageClassification,
	TaskTextToSpeech,
}

// Supported reports whether the tag is one of the six handled tasks.
func (t Task) Supported() bool {
	switch t {
	case TaskTextGeneration, TaskTextToImage, TaskTextClassification,
		TaskSummarization, TaskImageClassification, TaskTextToSpeech:
		return true
	}
	return false
}

// verb is the "error while <verb>" fragment for failure messages.
func (t Task) verb() string {
	switch t {
	case TaskTextGeneration:
		return "generating text"
	case TaskTextToImage:
		return "generating the image"
	case TaskTextClassification:
		return "classifying the text"
	case TaskSummarization:
		return "summarizing the text"
	case TaskImageClassification:
		return "classifying the image"
	case TaskTextToSpeech:
		return "generating speech"
	default:
		return "handling the request"
	}
}

// Entry is one chat turn. Exactly one payload field (Image, Audio,
// Labels) may be set; once a payload kind is set it is only ever
// refined, never swapped for another kind.
type Entry struct {
	ID        int
	Role      Role
	Text      string
	CreatedAt time.Time

	Image  blob.Ref
	Audio  blob.Ref
	Labels []inference.Label
}

// ModelRef is one selectable model in the catalog.
type ModelRef struct {
	ID          string
	DisplayName string
}

// Credential is the API token state.
type Credential struct {
	Token    string
	Verified bool
	Checking bool
}
