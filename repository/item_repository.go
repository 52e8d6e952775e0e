package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"layer-backend/errs"
	"layer-backend/models"

	"github.com/jackc/pgx/v5"
)

const itemColumns = `id, user_id, name, category, image_ref, wear_count, last_worn,
			resale_value, sustainability_score, created_at`

// PgItemRepository handles database operations for wardrobe items
type PgItemRepository struct {
	db *DB
}

// NewPgItemRepository creates a new item repository
func NewPgItemRepository(db *DB) *PgItemRepository {
	return &PgItemRepository{db: db}
}

// Create inserts a new item
func (r *PgItemRepository) Create(ctx context.Context, item *models.ClothingItem) error {
	query := `
		INSERT INTO clothing_items (
			id, user_id, name, category, image_ref, wear_count,
			last_worn, resale_value, sustainability_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		item.ID,
		item.UserID,
		item.Name,
		item.Category,
		item.ImageRef,
		item.WearCount,
		item.LastWorn,
		item.ResaleValue,
		item.SustainabilityScore,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves one of the user's items
func (r *PgItemRepository) GetByID(ctx context.Context, userID, id string) (*models.ClothingItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM clothing_items
		WHERE user_id = $1 AND id = $2`

	item, err := scanItem(r.db.Pool.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return item, err
}

// ListByUserID lists a user's wardrobe in the order items were added
func (r *PgItemRepository) ListByUserID(ctx context.Context, userID string) ([]*models.ClothingItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM clothing_items
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.ClothingItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes an item. Outfits referencing it are left untouched.
func (r *PgItemRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM clothing_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// RecordWear bumps the wear counter and stamps the last worn time
func (r *PgItemRepository) RecordWear(ctx context.Context, userID, id string, at time.Time) (*models.ClothingItem, error) {
	query := `
		UPDATE clothing_items
		SET wear_count = wear_count + 1, last_worn = $3
		WHERE user_id = $1 AND id = $2
		RETURNING ` + itemColumns

	item, err := scanItem(r.db.Pool.QueryRow(ctx, query, userID, id, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return item, err
}

func scanItem(row pgx.Row) (*models.ClothingItem, error) {
	item := &models.ClothingItem{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Category,
		&item.ImageRef,
		&item.WearCount,
		&item.LastWorn,
		&item.ResaleValue,
		&item.SustainabilityScore,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}
