package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubchat/internal/blob"
	"hubchat/internal/config"
	"hubchat/internal/hub"
	"hubchat/internal/inference"
	"hubchat/internal/session"
)

// stubInference satisfies session.InferenceClient with canned results.
type stubInference struct {
	labels []inference.Label
}

func (s *stubInference) ChatStream(ctx context.Context, model string, messages []inference.Message) <-chan inference.Chunk {
	ch := make(chan inference.Chunk)
	close(ch)
	return ch
}

func (s *stubInference) TextToImage(ctx context.Context, model, prompt string) ([]byte, error) {
	return nil, nil
}

func (s *stubInference) TextClassification(ctx context.Context, model, text string) ([]inference.Label, error) {
	return s.labels, nil
}

func (s *stubInference) Summarization(ctx context.Context, model, text string) (string, error) {
	return "", nil
}

func (s *stubInference) ImageClassification(ctx context.Context, model string, image []byte) ([]inference.Label, error) {
	return s.labels, nil
}

func (s *stubInference) TextToSpeech(ctx context.Context, model, text string) ([]byte, error) {
	return nil, nil
}

func newTestModel(t *testing.T, client session.InferenceClient) Model {
	t.Helper()
	t.Setenv("TMPDIR", t.TempDir())

	blobs, err := blob.NewStore()
	require.NoError(t, err)
	t.Cleanup(func() { blobs.Close() })

	state := session.NewState(map[string][]string{
		"text-generation": {"default/model"},
	})
	dispatcher := session.NewDispatcher(client, blobs, nil)
	hubClient := hub.New("http://127.0.0.1:0", "")

	return New(&config.Config{}, state, dispatcher, hubClient, nil, blobs)
}

func TestCtrlPOpensPicker(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlP})
	got := updated.(Model)

	assert.Equal(t, ViewPicker, got.mode)
	require.NotNil(t, got.picker.Selected(), "picker should be loaded with the task's models")
	assert.Equal(t, "default/model", got.picker.Selected().ID)
}

func TestModelCommandOpensPicker(t *testing.T) {
	m := newTestModel(t, nil)
	m.input.SetValue("/model")

	updated, _ := m.handleSubmit()

	assert.Equal(t, ViewPicker, updated.(Model).mode)
}

func TestPickerSelectionReturnsToNormal(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlP})
	m = updated.(Model)
	require.Equal(t, ViewPicker, m.mode)

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(Model)

	assert.Equal(t, ViewNormal, got.mode)
	assert.Equal(t, "default/model", got.activeModel())
}

func TestEmptySubmitClassifiesSelectedImage(t *testing.T) {
	stub := &stubInference{labels: []inference.Label{{Name: "tabby", Score: 0.8}}}
	m := newTestModel(t, stub)
	m.state.Restore("hf_x", true)
	m.task = session.TaskImageClassification
	m.selected[session.TaskImageClassification] = "org/vit"

	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0600))
	m.imagePath = path

	updated, cmd := m.handleSubmit()
	got := updated.(Model)

	assert.True(t, got.pending, "a bare Enter with a selected image should dispatch")
	assert.NotNil(t, cmd)
	assert.Empty(t, got.imagePath, "the selected image is consumed by the dispatch")

	entries := got.state.Transcript.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "cat.png", entries[0].Text)
	assert.Equal(t, session.RoleUser, entries[0].Role)
}

func TestEmptySubmitWithoutImageDoesNothing(t *testing.T) {
	m := newTestModel(t, nil)
	m.task = session.TaskImageClassification

	updated, cmd := m.handleSubmit()
	got := updated.(Model)

	assert.False(t, got.pending)
	assert.Nil(t, cmd)
	assert.Zero(t, got.state.Transcript.Len())
}

func TestVerifyFailureMarksStatusError(t *testing.T) {
	m := newTestModel(t, nil)
	m.state.SetToken("hf_bad")
	m.state.BeginVerify()

	updated, _ := m.handleVerifyResult(verifyResultMsg{ok: false, err: errors.New("401")})
	got := updated.(Model)

	assert.True(t, got.statusErr)
	assert.Contains(t, got.renderStatus(), "Token rejected.")
}
