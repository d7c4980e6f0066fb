package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskGenerating TaskStatus = "generating"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// IsTerminal reports whether the status no longer changes.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

type RunID string

// NewRunID generates a new unique RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// BackgroundTask tracks one generation run for a character.
type BackgroundTask struct {
	CharacterID   CharacterID
	CharacterName string
	RunID         RunID
	Status        TaskStatus
	StartTime     time.Time
	Error         string
}
