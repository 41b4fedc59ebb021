// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/faisalkp/mahaldesk/internal/model"
)

// MemberSource fetches the full member collection. The backend has no
// server-side pagination; every call returns everything.
type MemberSource interface {
	Members(ctx context.Context) ([]model.Member, error)
}

// CollectionSource fetches the full money-collection ledger.
type CollectionSource interface {
	Collections(ctx context.Context) ([]model.Collection, error)
}

// MemberMutator executes member mutations against the backend.
type MemberMutator interface {
	SetMayyathuStatus(ctx context.Context, id string, enabled bool) error
	DeleteMember(ctx context.Context, id string) error
}

// CollectionMutator executes ledger mutations against the backend.
type CollectionMutator interface {
	DeleteCollection(ctx context.Context, id string) error
}

// Backend is the complete client surface the screens consume.
type Backend interface {
	MemberSource
	CollectionSource
	MemberMutator
	CollectionMutator
}

// Snapshot is the persistence contract for offline exports. The list
// screens themselves never persist anything; only the export command
// touches this.
type Snapshot interface {
	Migrate(ctx context.Context) error
	SaveMembers(ctx context.Context, members []model.Member) error
	SaveCollections(ctx context.Context, collections []model.Collection) error
	CountMembers(ctx context.Context) (int, error)
	CountCollections(ctx context.Context) (int, error)
	Close() error
}

// RetryOptions configures retry behavior for idempotent reads.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
