package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStripsFrontMatter(t *testing.T) {
	md := `---
license: apache-2.0
tags:
  - text-generation
---

# Some Model

This model does something genuinely interesting with text and deserves
a description longer than the fallback threshold.
`
	c := Extract(md)

	assert.NotContains(t, c.Description, "---")
	assert.NotContains(t, c.Description, "license:")
	assert.Contains(t, c.Description, "genuinely interesting")
}

func TestExtractSections(t *testing.T) {
	c := Extract("## Usage\nDo X.\n## Limitations\nY")

	assert.Equal(t, "Do X.", c.Usage)
	assert.Equal(t, "Y", c.Limitations)
	assert.Empty(t, c.TrainingData)
}

func TestExtractSectionAliases(t *testing.T) {
	md := `# Title

Intro paragraph that is long enough to stand on its own as a description.

## How to Use

Call the pipeline.

## Bias

Known skew toward English.

## Model Details

Trained on a web crawl.
`
	c := Extract(md)

	assert.Equal(t, "Call the pipeline.", c.Usage)
	assert.Equal(t, "Known skew toward English.", c.Limitations)
	assert.Equal(t, "Trained on a web crawl.", c.TrainingData)
}

func TestExtractNoSections(t *testing.T) {
	c := Extract("just a plain paragraph with no headings at all, nothing more")

	assert.Empty(t, c.Usage)
	assert.Empty(t, c.Limitations)
	assert.Empty(t, c.TrainingData)
}

func TestDescriptionSkipsBadges(t *testing.T) {
	md := `# Model

[![build](https://img.shields.io/badge/build-passing-green)](https://example.com)
<img src="logo.png">

A real description line that carries enough substance to clear the minimum
length cutoff for direct extraction.

## Usage

Stuff.
`
	c := Extract(md)

	require.NotEmpty(t, c.Description)
	assert.NotContains(t, c.Description, "shields.io")
	assert.NotContains(t, c.Description, "<img")
	assert.True(t, strings.HasPrefix(c.Description, "A real description"))
	assert.NotContains(t, c.Description, "Stuff.")
}

func TestShortDescriptionFallsBack(t *testing.T) {
	md := `# Model

Tiny.

## Usage

<div>block</div>
Use it like any other <b>model</b> in the hub, the usual way.
`
	c := Extract(md)

	// "Tiny." is under the cutoff, so the description comes from the
	// cleaned full text instead.
	require.NotEmpty(t, c.Description)
	assert.NotEqual(t, "Tiny.", c.Description)
	assert.NotContains(t, c.Description, "<div>")
	assert.NotContains(t, c.Description, "<b>")
	assert.LessOrEqual(t, len(c.Description), 1000)
}

func TestDescriptionLengthProperty(t *testing.T) {
	inputs := []string{
		"",
		"# Only a title",
		"word",
		"---\nfoo: bar\n---\nshort",
		strings.Repeat("lorem ipsum dolor sit amet ", 100),
	}
	for _, in := range inputs {
		c := Extract(in)
		if c.Description == "" {
			continue
		}
		if len(c.Description) < minDescriptionLen {
			assert.LessOrEqual(t, len(c.Description), maxFallbackLen)
		}
	}
}

func TestExtractNeverPanicsOnMalformed(t *testing.T) {
	inputs := []string{
		"---\nunterminated front matter",
		"## Usage",
		"<html><body>",
		"## Usage\n### nested\n#### deeper\ntext",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Extract(in) })
	}
}
