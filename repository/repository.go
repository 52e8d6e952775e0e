// Package repository persists wardrobe, outfit, planner and feed state.
package repository

import (
	"context"
	"errors"
	"time"

	"layer-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository stores accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePlan(ctx context.Context, id string, plan models.Plan) error
	UpdateStyles(ctx context.Context, id string, styles []string) error
}

// ItemRepository stores wardrobe items. Lists come back in insertion order.
type ItemRepository interface {
	Create(ctx context.Context, item *models.ClothingItem) error
	GetByID(ctx context.Context, userID, id string) (*models.ClothingItem, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.ClothingItem, error)
	Delete(ctx context.Context, userID, id string) error
	RecordWear(ctx context.Context, userID, id string, at time.Time) (*models.ClothingItem, error)
}

// OutfitRepository stores saved outfits. Lists come back most recent first.
type OutfitRepository interface {
	Create(ctx context.Context, outfit *models.Outfit) error
	// CreateIfAbsent inserts unless the user already has an outfit with the same
	// description and item sequence, in which case it returns errs.ErrAlreadyExists.
	CreateIfAbsent(ctx context.Context, outfit *models.Outfit) error
	GetByID(ctx context.Context, userID, id string) (*models.Outfit, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Outfit, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleFavorite(ctx context.Context, userID, id string) (*models.Outfit, error)
	SetFolder(ctx context.Context, userID, id string, folderID *string) (*models.Outfit, error)
}

// FolderRepository stores outfit folders
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	ListByUserID(ctx context.Context, userID string) ([]*models.Folder, error)
	// Delete removes the folder and clears folderId on its outfits in one step.
	// It returns how many outfits were detached.
	Delete(ctx context.Context, userID, id string) (int64, error)
}

// PlannerRepository stores the seven planner slots per user
type PlannerRepository interface {
	// GetWeek always returns seven slots, Mon through Sun.
	GetWeek(ctx context.Context, userID string) ([]models.PlannedDay, error)
	SetDay(ctx context.Context, userID string, day models.PlannedDay) error
}

// CommunityRepository stores the shared feed. Lists come back newest first.
type CommunityRepository interface {
	List(ctx context.Context) ([]*models.CommunityPost, error)
	GetByID(ctx context.Context, id string) (*models.CommunityPost, error)
	Create(ctx context.Context, post *models.CommunityPost) error
}

// PgxPool is the subset of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Close()
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB wraps the connection pool shared by the Postgres repositories
type DB struct{ Pool PgxPool }

// NewDB connects to Postgres and verifies the connection
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

// Close closes the underlying pool
func (db *DB) Close() { db.Pool.Close() }

// isUniqueViolation reports whether the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
