package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel implements TextGenerator for testing.
type stubModel struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	prompts      []string
}

func (m *stubModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt)
	}
	return "", errors.New("not implemented")
}

func replyWith(text string) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return text, nil }
}

func TestBuildTaskPrompt(t *testing.T) {
	prompt := BuildTaskPrompt("Kubernetes")

	assert.Contains(t, prompt, `"Kubernetes"`)
	assert.Contains(t, prompt, "5 concise, actionable tasks")
	assert.Contains(t, prompt, "max 60 characters")
	assert.Contains(t, prompt, "max 150 characters")
	assert.Contains(t, prompt, `"title"`)
	assert.Contains(t, prompt, `"description"`)
	assert.Contains(t, prompt, "Only return the JSON array")
}

func TestTaskGenerator_RequestTasks(t *testing.T) {
	model := &stubModel{generateFunc: replyWith("raw output")}
	gen := NewTaskGenerator(model, nil)

	raw, err := gen.RequestTasks(context.Background(), "  Go  ")
	require.NoError(t, err)
	assert.Equal(t, "raw output", raw)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], `"Go"`)
}

func TestTaskGenerator_RequestTasksValidation(t *testing.T) {
	model := &stubModel{generateFunc: replyWith("[]")}
	gen := NewTaskGenerator(model, nil)

	_, err := gen.RequestTasks(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, model.prompts)
}

func TestTaskGenerator_UpstreamFailureIsNotRetried(t *testing.T) {
	model := &stubModel{generateFunc: func(context.Context, string) (string, error) {
		return "", context.DeadlineExceeded
	}}
	gen := NewTaskGenerator(model, nil)

	_, err := gen.Generate(context.Background(), "Go")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Len(t, model.prompts, 1)
}

func TestTaskGenerator_GenerateParsed(t *testing.T) {
	model := &stubModel{generateFunc: replyWith("```json\n[{\"title\":\"Install Go\",\"description\":\"Get the toolchain\"}]\n```")}
	gen := NewTaskGenerator(model, nil)
	gen.now = func() time.Time { return testBatch }

	result, err := gen.Generate(context.Background(), "Go")
	require.NoError(t, err)
	assert.False(t, result.Fallback())
	require.Len(t, result.Drafts, 1)
	assert.Equal(t, "generated-1767225600000-0", result.Drafts[0].ID)
	assert.Equal(t, "Install Go", result.Drafts[0].Title)
}

func TestTaskGenerator_GenerateFallbackIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	model := &stubModel{generateFunc: replyWith("I cannot help with that.")}
	gen := NewTaskGenerator(model, log)

	result, err := gen.Generate(context.Background(), "Go")
	require.NoError(t, err)
	assert.True(t, result.Fallback())
	require.Len(t, result.Drafts, 5)
	assert.Equal(t, "Research Go fundamentals", result.Drafts[0].Title)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Go", entry.Data["topic"])
}

func TestTaskGenerator_Check(t *testing.T) {
	gen := NewTaskGenerator(&stubModel{generateFunc: replyWith("Hi there")}, nil)
	assert.NoError(t, gen.Check(context.Background()))

	gen = NewTaskGenerator(&stubModel{generateFunc: replyWith("  ")}, nil)
	assert.ErrorIs(t, gen.Check(context.Background()), ErrUpstream)

	gen = NewTaskGenerator(&stubModel{}, nil)
	err := gen.Check(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.True(t, strings.Contains(err.Error(), "not implemented"))
}
