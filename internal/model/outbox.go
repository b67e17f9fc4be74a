package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusRetry     OutboxStatus = "retry"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// OutboxEvent is a catalog change recorded in the same transaction as the
// write that caused it, published to the broker by the worker binary.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
