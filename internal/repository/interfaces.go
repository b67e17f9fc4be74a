package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medinfo/medinfo-api/internal/model"
)

// DrugRepository is the catalog accessor. ListAll returns records in
// insertion order; the resolution engine treats each call's result as a
// fresh snapshot and never caches it.
type DrugRepository interface {
	Insert(ctx context.Context, record *model.DrugRecord) error
	ListAll(ctx context.Context) ([]*model.DrugRecord, error)
	// FindExactByName returns the first record whose name equals name
	// exactly, or nil when there is none.
	FindExactByName(ctx context.Context, name string) (*model.DrugRecord, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// GetByUsername returns nil when no such user exists.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
