package session

import (
	"context"

	"codeberg.org/nording/hrvctl/internal/model"
)

// Collector persists periodic session snapshots.
type Collector interface {
	Record(ctx context.Context, snapshot *model.Snapshot) error
	Close() error
}

// Repository is the storage backend behind a Collector.
type Repository interface {
	Store(ctx context.Context, snapshot *model.Snapshot) error
	Close() error
}
