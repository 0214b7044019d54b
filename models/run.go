package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the state of one analysis request
type RunStatus string

const (
	RunStatusIdle    RunStatus = "idle"
	RunStatusRunning RunStatus = "running"
	RunStatusDone    RunStatus = "done"
	RunStatusError   RunStatus = "error"
)

// Run tracks a single upload from intake to verdict
type Run struct {
	ID           uuid.UUID  `json:"id"`
	Status       RunStatus  `json:"status"`
	Filename     string     `json:"filename,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
