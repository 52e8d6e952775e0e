package repository

import (
	"context"
	"errors"
	"fmt"

	"layer-backend/errs"
	"layer-backend/models"

	"github.com/jackc/pgx/v5"
)

// PgUserRepository handles database operations for users
type PgUserRepository struct {
	db *DB
}

// NewPgUserRepository creates a new user repository
func NewPgUserRepository(db *DB) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// Create inserts a user. A taken email yields errs.ErrAlreadyExists.
func (r *PgUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, styles, plan)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if user.Styles == nil {
		user.Styles = []string{}
	}

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Styles,
		string(user.Plan),
	).Scan(&user.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PgUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, styles, plan, created_at
		FROM users
		WHERE id = $1`

	return scanUser(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, styles, plan, created_at
		FROM users
		WHERE email = $1`

	return scanUser(r.db.Pool.QueryRow(ctx, query, email))
}

// UpdatePlan changes a user's subscription tier
func (r *PgUserRepository) UpdatePlan(ctx context.Context, id string, plan models.Plan) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE users SET plan = $2 WHERE id = $1`, id, string(plan))
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateStyles replaces a user's preferred style tags
func (r *PgUserRepository) UpdateStyles(ctx context.Context, id string, styles []string) error {
	if styles == nil {
		styles = []string{}
	}
	tag, err := r.db.Pool.Exec(ctx, `UPDATE users SET styles = $2 WHERE id = $1`, id, styles)
	if err != nil {
		return fmt.Errorf("update styles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var plan string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Styles,
		&plan,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Plan = models.Plan(plan)
	return user, nil
}
