package repository

import (
	"context"
	"errors"
	"fmt"

	"layer-backend/errs"
	"layer-backend/models"

	"github.com/jackc/pgx/v5"
)

const outfitColumns = `id, user_id, description, reasoning, item_ids, image_ref,
			is_favorite, folder_id, created_at`

// PgOutfitRepository handles database operations for saved outfits
type PgOutfitRepository struct {
	db *DB
}

// NewPgOutfitRepository creates a new outfit repository
func NewPgOutfitRepository(db *DB) *PgOutfitRepository {
	return &PgOutfitRepository{db: db}
}

// Create inserts an outfit without a duplicate check
func (r *PgOutfitRepository) Create(ctx context.Context, outfit *models.Outfit) error {
	return insertOutfit(ctx, r.db.Pool, outfit)
}

// CreateIfAbsent runs the duplicate check and insert under a per-user advisory
// lock so two concurrent saves of the same look cannot both succeed.
func (r *PgOutfitRepository) CreateIfAbsent(ctx context.Context, outfit *models.Outfit) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = fmt.Errorf("commit: %w", e)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, outfit.UserID); err != nil {
		return fmt.Errorf("lock outfits: %w", err)
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM outfits
			WHERE user_id = $1 AND description = $2 AND array_to_string(item_ids, ',') = $3
		)`

	var exists bool
	err = tx.QueryRow(ctx, query, outfit.UserID, outfit.Description, models.ItemKey(outfit.ItemIDs)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return errs.ErrAlreadyExists
	}

	return insertOutfit(ctx, tx, outfit)
}

func insertOutfit(ctx context.Context, q querier, outfit *models.Outfit) error {
	query := `
		INSERT INTO outfits (
			id, user_id, description, reasoning, item_ids, image_ref, is_favorite, folder_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	if outfit.ItemIDs == nil {
		outfit.ItemIDs = []string{}
	}

	err := q.QueryRow(ctx, query,
		outfit.ID,
		outfit.UserID,
		outfit.Description,
		outfit.Reasoning,
		outfit.ItemIDs,
		outfit.ImageRef,
		outfit.IsFavorite,
		outfit.FolderID,
	).Scan(&outfit.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert outfit: %w", err)
	}
	return nil
}

// GetByID retrieves one of the user's outfits
func (r *PgOutfitRepository) GetByID(ctx context.Context, userID, id string) (*models.Outfit, error) {
	query := `
		SELECT ` + outfitColumns + `
		FROM outfits
		WHERE user_id = $1 AND id = $2`

	return scanOutfitRow(r.db.Pool.QueryRow(ctx, query, userID, id))
}

// ListByUserID lists outfits, most recently saved first
func (r *PgOutfitRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Outfit, error) {
	query := `
		SELECT ` + outfitColumns + `
		FROM outfits
		WHERE user_id = $1
		ORDER BY seq DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	defer rows.Close()

	outfits := make([]*models.Outfit, 0)
	for rows.Next() {
		outfit, err := scanOutfit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outfit: %w", err)
		}
		outfits = append(outfits, outfit)
	}
	return outfits, rows.Err()
}

// Delete removes an outfit
func (r *PgOutfitRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM outfits WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete outfit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the updated outfit
func (r *PgOutfitRepository) ToggleFavorite(ctx context.Context, userID, id string) (*models.Outfit, error) {
	query := `
		UPDATE outfits
		SET is_favorite = NOT is_favorite
		WHERE user_id = $1 AND id = $2
		RETURNING ` + outfitColumns

	return scanOutfitRow(r.db.Pool.QueryRow(ctx, query, userID, id))
}

// SetFolder sets or clears the outfit's folder. The folder id is not checked.
func (r *PgOutfitRepository) SetFolder(ctx context.Context, userID, id string, folderID *string) (*models.Outfit, error) {
	query := `
		UPDATE outfits
		SET folder_id = $3
		WHERE user_id = $1 AND id = $2
		RETURNING ` + outfitColumns

	return scanOutfitRow(r.db.Pool.QueryRow(ctx, query, userID, id, folderID))
}

func scanOutfitRow(row pgx.Row) (*models.Outfit, error) {
	outfit, err := scanOutfit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return outfit, err
}

func scanOutfit(row pgx.Row) (*models.Outfit, error) {
	outfit := &models.Outfit{}
	err := row.Scan(
		&outfit.ID,
		&outfit.UserID,
		&outfit.Description,
		&outfit.Reasoning,
		&outfit.ItemIDs,
		&outfit.ImageRef,
		&outfit.IsFavorite,
		&outfit.FolderID,
		&outfit.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if outfit.ItemIDs == nil {
		outfit.ItemIDs = []string{}
	}
	return outfit, nil
}
