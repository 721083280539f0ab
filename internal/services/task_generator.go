package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const draftsPerTopic = 5

// TextGenerator is the external model: one prompt in, raw text out, no schema.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TaskGenerator turns a topic into task drafts using exactly one upstream call.
type TaskGenerator struct {
	model TextGenerator
	now   func() time.Time
	log   logrus.FieldLogger
}

func NewTaskGenerator(model TextGenerator, log logrus.FieldLogger) *TaskGenerator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TaskGenerator{model: model, now: time.Now, log: log}
}

func BuildTaskPrompt(topic string) string {
	return fmt.Sprintf(`Generate a list of %d concise, actionable tasks to learn about %q.
Return the response as a JSON array where each task has a "title" and "description" field.
The title should be a brief action item (max %d characters).
The description should provide more context (max %d characters).

Example format:
[
  {
    "title": "Set up development environment",
    "description": "Install Python, VS Code, and create your first Hello World program"
  }
]

Only return the JSON array, no additional text or formatting.`, draftsPerTopic, topic, MaxTitleLen, MaxDescriptionLen)
}

// RequestTasks performs the single upstream call for topic and returns its raw text.
func (g *TaskGenerator) RequestTasks(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("%w: topic is required", ErrValidation)
	}
	text, err := g.model.Generate(ctx, BuildTaskPrompt(topic))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return text, nil
}

// Generate requests drafts for topic. It only fails on validation or upstream errors;
// unparseable model output yields the fallback drafts.
func (g *TaskGenerator) Generate(ctx context.Context, topic string) (GenerationResult, error) {
	raw, err := g.RequestTasks(ctx, topic)
	if err != nil {
		return GenerationResult{}, err
	}
	result := ParseOrFallback(raw, topic, g.now())
	if result.Fallback() {
		g.log.WithFields(logrus.Fields{
			"topic": topic,
			"error": result.ParseErr,
		}).Warn("[generate] model output not parseable, serving fallback drafts")
	}
	return result, nil
}

// Check asks the model for a trivial completion; used by the health endpoint.
func (g *TaskGenerator) Check(ctx context.Context) error {
	text, err := g.model.Generate(ctx, "Hello")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty response", ErrUpstream)
	}
	return nil
}
