package repository

import (
	"context"
	"fmt"

	"layer-backend/errs"
	"layer-backend/models"

	"github.com/jackc/pgx/v5"
)

// PgFolderRepository handles database operations for folders
type PgFolderRepository struct {
	db *DB
}

// NewPgFolderRepository creates a new folder repository
func NewPgFolderRepository(db *DB) *PgFolderRepository {
	return &PgFolderRepository{db: db}
}

// Create inserts a folder
func (r *PgFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.Pool.QueryRow(ctx, query, folder.ID, folder.UserID, folder.Name, folder.Color).Scan(&folder.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

// ListByUserID lists folders in creation order
func (r *PgFolderRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Folder, error) {
	query := `
		SELECT id, user_id, name, color, created_at
		FROM folders
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := make([]*models.Folder, 0)
	for rows.Next() {
		f := &models.Folder{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// Delete detaches member outfits and removes the folder in one transaction
func (r *PgFolderRepository) Delete(ctx context.Context, userID, id string) (detached int64, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			detached, err = 0, fmt.Errorf("commit: %w", e)
		}
	}()

	tag, err := tx.Exec(ctx, `UPDATE outfits SET folder_id = NULL WHERE user_id = $1 AND folder_id = $2`, userID, id)
	if err != nil {
		return 0, fmt.Errorf("detach outfits: %w", err)
	}
	detached = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `DELETE FROM folders WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return 0, fmt.Errorf("delete folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return detached, nil
}
