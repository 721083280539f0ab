package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBatch = time.UnixMilli(1767225600000)

func TestParseDrafts_ValidOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare array", `[{"title":"Install Go","description":"Download the toolchain"},{"title":"Hello world","description":"Write main.go"}]`},
		{"json fence", "```json\n[{\"title\":\"Install Go\",\"description\":\"Download the toolchain\"},{\"title\":\"Hello world\",\"description\":\"Write main.go\"}]\n```"},
		{"plain fence", "```\n[{\"title\":\"Install Go\",\"description\":\"Download the toolchain\"},{\"title\":\"Hello world\",\"description\":\"Write main.go\"}]\n```"},
		{"surrounding whitespace", "  \n[{\"title\":\"Install Go\",\"description\":\"Download the toolchain\"},{\"title\":\"Hello world\",\"description\":\"Write main.go\"}]\n\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := ParseDrafts(tt.raw, testBatch)
			require.NoError(t, err)
			require.Len(t, drafts, 2)
			assert.Equal(t, "Install Go", drafts[0].Title)
			assert.Equal(t, "Download the toolchain", drafts[0].Description)
			assert.Equal(t, "Hello world", drafts[1].Title)
			assert.Equal(t, "generated-1767225600000-0", drafts[0].ID)
			assert.Equal(t, "generated-1767225600000-1", drafts[1].ID)
		})
	}
}

func TestParseDrafts_MissingFields(t *testing.T) {
	raw := `[{"description":"no title"},{"title":"","description":"empty title"},{"title":"no description"},{"title":42},"just a string"]`

	drafts, err := ParseDrafts(raw, testBatch)
	require.NoError(t, err)
	require.Len(t, drafts, 5)

	assert.Equal(t, "Task 1", drafts[0].Title)
	assert.Equal(t, "no title", drafts[0].Description)
	assert.Equal(t, "Task 2", drafts[1].Title)
	assert.Equal(t, "no description", drafts[2].Title)
	assert.Equal(t, "", drafts[2].Description)
	assert.Equal(t, "Task 4", drafts[3].Title)
	assert.Equal(t, "Task 5", drafts[4].Title)

	ids := map[string]bool{}
	for _, d := range drafts {
		ids[d.ID] = true
	}
	assert.Len(t, ids, 5, "ids must be unique within a batch")
}

func TestParseDrafts_Failures(t *testing.T) {
	inputs := map[string]string{
		"empty string":   "",
		"prose":          "Sure! Here are some tasks you could try.",
		"object":         `{"title":"one","description":"not an array"}`,
		"empty array":    "[]",
		"null":           "null",
		"truncated json": `[{"title":"Install Go"`,
		"fenced object":  "```json\n{\"tasks\":[]}\n```",
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			drafts, err := ParseDrafts(raw, testBatch)
			assert.Error(t, err)
			assert.Nil(t, drafts)
		})
	}
}

func TestParseOrFallback_UsesFallbackOnFailure(t *testing.T) {
	want := []string{
		"Research X fundamentals",
		"Find learning resources",
		"Create a study plan",
		"Practice with examples",
		"Join a community",
	}
	for _, raw := range []string{"", "not json at all", `{"title":"x"}`, "[]"} {
		result := ParseOrFallback(raw, "X", testBatch)
		require.True(t, result.Fallback(), "raw=%q", raw)
		require.Len(t, result.Drafts, 5)

		titles := make([]string, len(result.Drafts))
		for i, d := range result.Drafts {
			titles[i] = d.Title
			assert.True(t, strings.HasPrefix(d.ID, "fallback-"), d.ID)
		}
		assert.Equal(t, want, titles, "raw=%q", raw)
	}
}

func TestParseOrFallback_ParsedOutput(t *testing.T) {
	result := ParseOrFallback(`[{"title":"A","description":"B"}]`, "X", testBatch)
	assert.False(t, result.Fallback())
	assert.NoError(t, result.ParseErr)
	require.Len(t, result.Drafts, 1)
	assert.Equal(t, "A", result.Drafts[0].Title)
}

func TestFallbackDrafts_Descriptions(t *testing.T) {
	drafts := FallbackDrafts("Rust", testBatch)
	require.Len(t, drafts, 5)
	assert.Equal(t, "Learn the basic concepts and principles of Rust", drafts[0].Description)
	assert.Equal(t, "Gather books, tutorials, and online courses about Rust", drafts[1].Description)
	assert.Equal(t, "Organize your learning schedule and set milestones for Rust", drafts[2].Description)
	assert.Equal(t, "Work through practical examples and exercises related to Rust", drafts[3].Description)
	assert.Equal(t, "Connect with others learning Rust for support and discussion", drafts[4].Description)
	assert.Equal(t, "fallback-1767225600000-0", drafts[0].ID)
	assert.Equal(t, "fallback-1767225600000-4", drafts[4].ID)
}

func TestFallbackDrafts_RespectLengthLimits(t *testing.T) {
	topics := []string{
		"X",
		strings.Repeat("distributed systems ", 20),
		strings.Repeat("日本語", 80),
		"  padded topic  ",
	}
	for _, topic := range topics {
		for _, d := range FallbackDrafts(topic, testBatch) {
			assert.LessOrEqual(t, utf8.RuneCountInString(d.Title), MaxTitleLen, d.Title)
			assert.LessOrEqual(t, utf8.RuneCountInString(d.Description), MaxDescriptionLen, d.Description)
			assert.NotEmpty(t, d.Title)
		}
	}

	assert.Equal(t, "Research padded topic fundamentals", FallbackDrafts("  padded topic  ", testBatch)[0].Title)
}
