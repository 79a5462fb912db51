package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// UserRepository manages persistence for user records. Users are a push
// target for sync but are not part of the pull feed, so only the write
// surface exists here.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

var userSyncColumns = []syncColumn{
	{"email", "email"},
	{"name", "full_name"},
	{"role", "role"},
	{"createdAt", "created_at"},
	{"isDeleted", "is_deleted"},
	{"deletedAt", "deleted_at"},
}

// SyncUpsert applies a client-pushed create/update. The whitelist keeps
// credential columns out of reach of the sync path.
func (r *UserRepository) SyncUpsert(ctx context.Context, id string, fields map[string]interface{}) error {
	return syncUpsert(ctx, r.db, "users", id, userSyncColumns, fields)
}

// SyncMarkDeleted tombstones a user pushed as deleted.
func (r *UserRepository) SyncMarkDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	return syncMarkDeleted(ctx, r.db, "users", id, deletedAt)
}
