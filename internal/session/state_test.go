package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubchat/internal/blob"
	"hubchat/internal/hub"
)

func TestCatalogGrouping(t *testing.T) {
	c := NewCatalog(nil)
	c.Replace([]hub.Listing{
		{ID: "a", PipelineTag: "text-generation"},
		{ID: "b"},
		{ID: "c", PipelineTag: "text-generation"},
	})

	models := c.Models(TaskTextGeneration)
	require.Len(t, models, 2)
	assert.Equal(t, "a", models[0].ID)
	assert.Equal(t, "c", models[1].ID)

	// An entry without a pipeline tag appears nowhere.
	for _, task := range Tasks {
		for _, m := range c.Models(task) {
			assert.NotEqual(t, "b", m.ID)
		}
	}
}

func TestCatalogDisplayName(t *testing.T) {
	c := NewCatalog(nil)
	c.Replace([]hub.Listing{
		{ID: "x", PipelineTag: "summarization", ModelID: "org/x"},
		{ID: "y", PipelineTag: "summarization"},
	})

	models := c.Models(TaskSummarization)
	require.Len(t, models, 2)
	assert.Equal(t, "org/x", models[0].DisplayName)
	assert.Equal(t, "y", models[1].DisplayName)
}

func TestCatalogDefaultsUntilFetched(t *testing.T) {
	c := NewCatalog(map[string][]string{
		"text-generation": {"default/model"},
		"translation":     {"unsupported/model"},
	})

	assert.False(t, c.Fetched())
	models := c.Models(TaskTextGeneration)
	require.Len(t, models, 1)
	assert.Equal(t, "default/model", models[0].ID)

	// Unsupported default tags are dropped entirely.
	assert.Empty(t, c.Models(Task("translation")))

	c.Replace([]hub.Listing{{ID: "live", PipelineTag: "text-generation"}})
	assert.True(t, c.Fetched())
	assert.Equal(t, "live", c.Models(TaskTextGeneration)[0].ID)

	c.Clear()
	assert.False(t, c.Fetched())
	assert.Equal(t, "default/model", c.Models(TaskTextGeneration)[0].ID)
}

func TestSetTokenResetsVerificationSynchronously(t *testing.T) {
	s := NewState(nil)
	s.Restore("hf_old", true)
	s.Catalog.Replace([]hub.Listing{{ID: "m", PipelineTag: "text-generation"}})

	s.SetToken("hf_new")

	assert.False(t, s.Credential.Verified)
	assert.False(t, s.Catalog.Fetched())
	assert.Equal(t, "hf_new", s.Credential.Token)
}

func TestSetTokenSameValueIsNoop(t *testing.T) {
	s := NewState(nil)
	s.Restore("hf_tok", true)
	s.Catalog.Replace([]hub.Listing{{ID: "m", PipelineTag: "text-generation"}})

	s.SetToken("hf_tok")

	assert.True(t, s.Credential.Verified)
	assert.True(t, s.Catalog.Fetched())
}

func TestFinishVerifyFailureClearsCatalog(t *testing.T) {
	s := NewState(nil)
	s.SetToken("hf_tok")
	s.BeginVerify()
	assert.True(t, s.Credential.Checking)

	s.Catalog.Replace([]hub.Listing{{ID: "m", PipelineTag: "text-generation"}})
	s.FinishVerify(false)

	assert.False(t, s.Credential.Checking)
	assert.False(t, s.Credential.Verified)
	assert.False(t, s.Catalog.Fetched())
}

func TestTranscriptApplyReplacesByID(t *testing.T) {
	tr := &Transcript{}
	tr.Append(Entry{ID: 1, Role: RoleUser, Text: "hi"})
	tr.Append(Entry{ID: 2, Role: RoleAssistant, Text: "Working…"})

	tr.Apply(Entry{ID: 2, Role: RoleAssistant, Text: "done"})

	require.Equal(t, 2, tr.Len())
	e, ok := tr.Get(2)
	require.True(t, ok)
	assert.Equal(t, "done", e.Text)
}

func TestTranscriptApplyReportsSupersededRef(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	blobs, err := blob.NewStore()
	require.NoError(t, err)
	defer blobs.Close()

	first, err := blobs.Put(blob.KindImage, []byte("one"))
	require.NoError(t, err)
	second, err := blobs.Put(blob.KindImage, []byte("two"))
	require.NoError(t, err)

	tr := &Transcript{}
	tr.Append(Entry{ID: 1, Role: RoleAssistant, Image: first})

	superseded := tr.Apply(Entry{ID: 1, Role: RoleAssistant, Image: second})
	assert.Equal(t, first, superseded)

	// Same ref again supersedes nothing.
	superseded = tr.Apply(Entry{ID: 1, Role: RoleAssistant, Image: second})
	assert.True(t, superseded.IsZero())
}

func TestTranscriptAppendRejectsBadID(t *testing.T) {
	tr := &Transcript{}
	assert.Panics(t, func() {
		tr.Append(Entry{ID: 5, Role: RoleUser})
	})
}
