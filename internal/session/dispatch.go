package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hubchat/internal/blob"
	"hubchat/internal/inference"
)

// creditExceededText is shown when the provider reports exhausted
// inference credits.
const creditExceededText = "You've used up your included inference credits for this month. Upgrade to a PRO account to keep going."

// echoLimit is how much of the original text the summarization reply
// quotes back.
const echoLimit = 150

// InferenceClient is the slice of the inference API the dispatcher
// needs. *inference.Client satisfies it; tests substitute a mock.
type InferenceClient interface {
	ChatStream(ctx context.Context, model string, messages []inference.Message) <-chan inference.Chunk
	TextToImage(ctx context.Context, model, prompt string) ([]byte, error)
	TextClassification(ctx context.Context, model, text string) ([]inference.Label, error)
	Summarization(ctx context.Context, model, text string) (string, error)
	ImageClassification(ctx context.Context, model string, image []byte) ([]inference.Label, error)
	TextToSpeech(ctx context.Context, model, text string) ([]byte, error)
}

// Update is one asynchronous transcript mutation produced by a dispatch.
// Entry replaces the transcript entry with the same ID. Done marks the
// end of the dispatch; the channel closes right after.
type Update struct {
	Entry Entry
	Done  bool
}

// Dispatcher routes a submission to the handler for its task tag.
type Dispatcher struct {
	client        InferenceClient
	blobs         *blob.Store
	creditMarkers []string
}

// NewDispatcher creates a dispatcher. creditMarkers are the provider
// error fragments that signal credit exhaustion.
func NewDispatcher(client InferenceClient, blobs *blob.Store, creditMarkers []string) *Dispatcher {
	return &Dispatcher{
		client:        client,
		blobs:         blobs,
		creditMarkers: creditMarkers,
	}
}

// tokenSetter is implemented by clients whose credential can be
// swapped at runtime.
type tokenSetter interface {
	SetToken(token string)
}

// SetToken forwards a credential change to the inference client.
func (d *Dispatcher) SetToken(token string) {
	if ts, ok := d.client.(tokenSetter); ok {
		ts.SetToken(token)
	}
}

// reject appends a single assistant-authored explanation and returns a
// closed update channel. No network call is made.
func reject(tr *Transcript, text string) <-chan Update {
	tr.Append(Entry{
		ID:        tr.NextID(),
		Role:      RoleAssistant,
		Text:      text,
		CreatedAt: time.Now(),
	})
	ch := make(chan Update)
	close(ch)
	return ch
}

// guard checks the preconditions shared by every submission. It returns
// a non-nil channel when the submission was rejected.
func guard(tr *Transcript, cred Credential, task Task, model string) <-chan Update {
	if !cred.Verified {
		return reject(tr, "Add and verify an API token before sending anything.")
	}
	if model == "" {
		return reject(tr, "Pick a model for this task first.")
	}
	if !task.Supported() {
		return reject(tr, fmt.Sprintf("The task %q isn't supported here.", task))
	}
	return nil
}

// Submit dispatches a text submission. The user entry and the assistant
// placeholder are appended synchronously; finalization arrives on the
// returned channel. The channel closes when the dispatch is finished.
func (d *Dispatcher) Submit(ctx context.Context, tr *Transcript, cred Credential, task Task, model, input string) <-chan Update {
	if rejected := guard(tr, cred, task, model); rejected != nil {
		return rejected
	}
	if task == TaskImageClassification {
		return reject(tr, "Select an image first, then submit it for classification.")
	}

	// History snapshot before this turn, for text generation.
	history := tr.Entries()

	now := time.Now()
	tr.Append(Entry{ID: tr.NextID(), Role: RoleUser, Text: input, CreatedAt: now})

	placeholder := Entry{
		ID:        tr.NextID(),
		Role:      RoleAssistant,
		Text:      placeholderText(task),
		CreatedAt: now,
	}
	tr.Append(placeholder)

	ch := make(chan Update, 100)
	go func() {
		defer close(ch)
		defer d.catchPanic(ch, task, placeholder)

		switch task {
		case TaskTextGeneration:
			d.runTextGeneration(ctx, ch, placeholder, history, input, model)
		case TaskTextToImage:
			d.runTextToImage(ctx, ch, placeholder, input, model)
		case TaskTextClassification:
			d.runTextClassification(ctx, ch, placeholder, input, model)
		case TaskSummarization:
			d.runSummarization(ctx, ch, placeholder, input, model)
		case TaskTextToSpeech:
			d.runTextToSpeech(ctx, ch, placeholder, input, model)
		}
		ch <- Update{Done: true}
	}()
	return ch
}

// SubmitImage dispatches an image-classification submission. The image
// is read synchronously so a bad path is rejected before any entries are
// created.
func (d *Dispatcher) SubmitImage(ctx context.Context, tr *Transcript, cred Credential, model, imagePath string) <-chan Update {
	if rejected := guard(tr, cred, TaskImageClassification, model); rejected != nil {
		return rejected
	}
	if imagePath == "" {
		return reject(tr, "Select an image first, then submit it for classification.")
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return reject(tr, fmt.Sprintf("Couldn't read %s.", imagePath))
	}

	preview, err := d.blobs.Put(blob.KindImage, data)
	if err != nil {
		log.Printf("image preview: %v", err)
	}

	now := time.Now()
	tr.Append(Entry{
		ID:        tr.NextID(),
		Role:      RoleUser,
		Text:      filepath.Base(imagePath),
		CreatedAt: now,
		Image:     preview,
	})

	placeholder := Entry{
		ID:        tr.NextID(),
		Role:      RoleAssistant,
		Text:      placeholderText(TaskImageClassification),
		CreatedAt: now,
	}
	tr.Append(placeholder)

	ch := make(chan Update, 100)
	go func() {
		defer close(ch)
		defer d.catchPanic(ch, TaskImageClassification, placeholder)

		labels, err := d.client.ImageClassification(ctx, model, data)
		if err != nil {
			placeholder.Text = d.failureText(TaskImageClassification, err)
		} else {
			placeholder.Text = "Here's what I see:"
			placeholder.Labels = labels
		}
		ch <- Update{Entry: placeholder}
		ch <- Update{Done: true}
	}()
	return ch
}

func placeholderText(task Task) string {
	switch task {
	case TaskTextGeneration:
		return ""
	case TaskTextToImage:
		return "Generating image…"
	case TaskTextClassification:
		return "Classifying…"
	case TaskSummarization:
		return "Summarizing…"
	case TaskImageClassification:
		return "Classifying image…"
	case TaskTextToSpeech:
		return "Generating speech…"
	default:
		return "Working…"
	}
}

func (d *Dispatcher) runTextGeneration(ctx context.Context, ch chan<- Update, entry Entry, history []Entry, input, model string) {
	messages := make([]inference.Message, 0, len(history)+1)
	for _, e := range history {
		if e.Text == "" {
			continue
		}
		messages = append(messages, inference.Message{Role: string(e.Role), Content: e.Text})
	}
	messages = append(messages, inference.Message{Role: string(RoleUser), Content: input})

	for chunk := range d.client.ChatStream(ctx, model, messages) {
		if chunk.Err != nil {
			entry.Text = d.failureText(TaskTextGeneration, chunk.Err)
			ch <- Update{Entry: entry}
			return
		}
		if chunk.Text != "" {
			entry.Text += chunk.Text
			ch <- Update{Entry: entry}
		}
		if chunk.Done {
			return
		}
	}
}

func (d *Dispatcher) runTextToImage(ctx context.Context, ch chan<- Update, entry Entry, input, model string) {
	data, err := d.client.TextToImage(ctx, model, input)
	if err == nil {
		var ref blob.Ref
		if ref, err = d.blobs.Put(blob.KindImage, data); err == nil {
			entry.Text = "Here's your image:"
			entry.Image = ref
		}
	}
	if err != nil {
		entry.Text = d.failureText(TaskTextToImage, err)
	}
	ch <- Update{Entry: entry}
}

func (d *Dispatcher) runTextClassification(ctx context.Context, ch chan<- Update, entry Entry, input, model string) {
	labels, err := d.client.TextClassification(ctx, model, input)
	if err != nil {
		entry.Text = d.failureText(TaskTextClassification, err)
	} else {
		entry.Text = "Classification results:"
		entry.Labels = labels
	}
	ch <- Update{Entry: entry}
}

func (d *Dispatcher) runSummarization(ctx context.Context, ch chan<- Update, entry Entry, input, model string) {
	summary, err := d.client.Summarization(ctx, model, input)
	if err != nil {
		entry.Text = d.failureText(TaskSummarization, err)
	} else {
		echo := input
		if len(echo) > echoLimit {
			echo = echo[:echoLimit] + "…"
		}
		entry.Text = fmt.Sprintf("**Summary**\n\n%s\n\n**Original (first %d characters)**\n\n> %s",
			summary, echoLimit, echo)
	}
	ch <- Update{Entry: entry}
}

func (d *Dispatcher) runTextToSpeech(ctx context.Context, ch chan<- Update, entry Entry, input, model string) {
	data, err := d.client.TextToSpeech(ctx, model, input)
	if err == nil {
		var ref blob.Ref
		if ref, err = d.blobs.Put(blob.KindAudio, data); err == nil {
			entry.Text = "Here's your audio:"
			entry.Audio = ref
		}
	}
	if err != nil {
		entry.Text = d.failureText(TaskTextToSpeech, err)
	}
	ch <- Update{Entry: entry}
}

// failureText maps a handler error to the in-transcript message. Credit
// exhaustion is detected by matching the configured provider fragments.
func (d *Dispatcher) failureText(task Task, err error) string {
	msg := err.Error()
	for _, marker := range d.creditMarkers {
		if marker != "" && strings.Contains(msg, marker) {
			return creditExceededText
		}
	}
	log.Printf("%s: %v", task, err)
	return fmt.Sprintf("Sorry, there was an error while %s.", task.verb())
}

// catchPanic is the last-resort safety net: a handler that panics still
// resolves its placeholder instead of killing the session.
func (d *Dispatcher) catchPanic(ch chan<- Update, task Task, placeholder Entry) {
	if r := recover(); r != nil {
		log.Printf("dispatch %s panic: %v", task, r)
		placeholder.Text = fmt.Sprintf("Sorry, there was an error while %s.", task.verb())
		ch <- Update{Entry: placeholder}
		ch <- Update{Done: true}
	}
}
