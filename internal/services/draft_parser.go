package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"taskpilot/internal/models"
)

const (
	MaxTitleLen       = 60
	MaxDescriptionLen = 150

	generatedPrefix = "generated"
	fallbackPrefix  = "fallback"
)

var (
	errEmptyDraftList = errors.New("response is not a non-empty array")

	codeFence = regexp.MustCompile("```json\\n?|\\n?```")
)

// GenerationResult is the outcome of one generation. When the model output could not be
// parsed, ParseErr holds the reason and Drafts are the synthesized fallback.
type GenerationResult struct {
	Drafts   []models.GeneratedTaskDraft
	ParseErr error
}

func (r GenerationResult) Fallback() bool {
	return r.ParseErr != nil
}

// ParseOrFallback never fails: unparseable output is replaced by FallbackDrafts.
func ParseOrFallback(raw, topic string, batch time.Time) GenerationResult {
	drafts, err := ParseDrafts(raw, batch)
	if err != nil {
		return GenerationResult{Drafts: FallbackDrafts(topic, batch), ParseErr: err}
	}
	return GenerationResult{Drafts: drafts}
}

// ParseDrafts decodes model output into drafts. Any error discards partial results.
func ParseDrafts(raw string, batch time.Time) ([]models.GeneratedTaskDraft, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &records); err != nil {
		return nil, fmt.Errorf("decode drafts: %w", err)
	}
	if len(records) == 0 {
		return nil, errEmptyDraftList
	}

	drafts := make([]models.GeneratedTaskDraft, len(records))
	for i, rec := range records {
		// non-object elements keep their slot with a placeholder title
		var fields map[string]any
		_ = json.Unmarshal(rec, &fields)

		title, _ := fields["title"].(string)
		if title == "" {
			title = fmt.Sprintf("Task %d", i+1)
		}
		description, _ := fields["description"].(string)

		drafts[i] = models.GeneratedTaskDraft{
			ID:          draftID(generatedPrefix, batch, i),
			Title:       title,
			Description: description,
		}
	}
	return drafts, nil
}

type fallbackTemplate struct {
	title       string // %s is the topic when present
	description string
}

var fallbackTemplates = []fallbackTemplate{
	{"Research %s fundamentals", "Learn the basic concepts and principles of %s"},
	{"Find learning resources", "Gather books, tutorials, and online courses about %s"},
	{"Create a study plan", "Organize your learning schedule and set milestones for %s"},
	{"Practice with examples", "Work through practical examples and exercises related to %s"},
	{"Join a community", "Connect with others learning %s for support and discussion"},
}

// FallbackDrafts returns the five fixed drafts for topic, clipped to the length limits.
func FallbackDrafts(topic string, batch time.Time) []models.GeneratedTaskDraft {
	topic = strings.TrimSpace(topic)
	drafts := make([]models.GeneratedTaskDraft, len(fallbackTemplates))
	for i, tpl := range fallbackTemplates {
		drafts[i] = models.GeneratedTaskDraft{
			ID:          draftID(fallbackPrefix, batch, i),
			Title:       fillTemplate(tpl.title, topic, MaxTitleLen),
			Description: fillTemplate(tpl.description, topic, MaxDescriptionLen),
		}
	}
	return drafts
}

// fillTemplate substitutes topic, shortening it so the result has at most limit runes.
func fillTemplate(tpl, topic string, limit int) string {
	if !strings.Contains(tpl, "%s") {
		return tpl
	}
	room := limit - (utf8.RuneCountInString(tpl) - 2)
	if utf8.RuneCountInString(topic) > room {
		topic = strings.TrimSpace(string([]rune(topic)[:max(room, 0)]))
	}
	return fmt.Sprintf(tpl, topic)
}

func draftID(prefix string, batch time.Time, index int) string {
	return fmt.Sprintf("%s-%d-%d", prefix, batch.UnixMilli(), index)
}
