// Package domain contains core domain types for the todoplash application.
package domain

import (
	"time"
)

// User represents a registered chat user and the group they belong to.
type User struct {
	ID         int64     `json:"id"`
	TelegramID string    `json:"telegram_id"`
	Group      string    `json:"group"`
	CreatedAt  time.Time `json:"created_at"`
}
