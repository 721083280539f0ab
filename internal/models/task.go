// internal/models/task.go
package models

import "time"

const DefaultCategory = "General"

// Task is a persisted, owner-scoped task.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask is one record of a save request.
type NewTask struct {
	Title       string `json:"title" binding:"required,notblank"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// TaskPatch carries only the fields present in an update request.
type TaskPatch struct {
	Title       *string `json:"title" binding:"omitempty,notblank"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Completed   *bool   `json:"completed"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Completed == nil
}

// GeneratedTaskDraft is an unsaved task candidate produced by the generator.
type GeneratedTaskDraft struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CategoryStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// CategoryCount is one grouped row read from the store.
type CategoryCount struct {
	Category  string
	Total     int
	Completed int
}

type TaskStatistics struct {
	Total      int                      `json:"total"`
	Completed  int                      `json:"completed"`
	Pending    int                      `json:"pending"`
	Categories map[string]CategoryStats `json:"categories"`
}

type TaskChangeType string

const (
	TaskChangeCreated TaskChangeType = "created"
	TaskChangeUpdated TaskChangeType = "updated"
	TaskChangeDeleted TaskChangeType = "deleted"
)

// TaskChange is pushed to subscribers of the owner's change stream.
type TaskChange struct {
	Type    TaskChangeType `json:"type"`
	TaskIDs []string       `json:"taskIds"`
	At      time.Time      `json:"at"`
}
