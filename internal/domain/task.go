package domain

import (
	"time"
)

// Task is a single to-do entry.
type Task struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
