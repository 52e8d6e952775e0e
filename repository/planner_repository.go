package repository

import (
	"context"
	"fmt"

	"layer-backend/models"
)

// PgPlannerRepository handles database operations for the weekly planner
type PgPlannerRepository struct {
	db *DB
}

// NewPgPlannerRepository creates a new planner repository
func NewPgPlannerRepository(db *DB) *PgPlannerRepository {
	return &PgPlannerRepository{db: db}
}

// GetWeek overlays stored slots on the empty week
func (r *PgPlannerRepository) GetWeek(ctx context.Context, userID string) ([]models.PlannedDay, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT day, outfit_id, note FROM planned_days WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("get week: %w", err)
	}
	defer rows.Close()

	week := models.EmptyWeek()
	for rows.Next() {
		var day string
		var slot models.PlannedDay
		if err := rows.Scan(&day, &slot.OutfitID, &slot.Note); err != nil {
			return nil, fmt.Errorf("scan planned day: %w", err)
		}
		for i := range week {
			if string(week[i].Day) == day {
				week[i].OutfitID = slot.OutfitID
				week[i].Note = slot.Note
			}
		}
	}
	return week, rows.Err()
}

// SetDay writes one slot
func (r *PgPlannerRepository) SetDay(ctx context.Context, userID string, day models.PlannedDay) error {
	query := `
		INSERT INTO planned_days (user_id, day, outfit_id, note)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, day) DO UPDATE
		SET outfit_id = EXCLUDED.outfit_id, note = EXCLUDED.note`

	if _, err := r.db.Pool.Exec(ctx, query, userID, string(day.Day), day.OutfitID, day.Note); err != nil {
		return fmt.Errorf("set planned day: %w", err)
	}
	return nil
}
