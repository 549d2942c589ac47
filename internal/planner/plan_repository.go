package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"weekly-menu/internal/database"

	"github.com/google/uuid"
)

// PlanRepository is a database-backed repository for meal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// GetByOwnerAndWeek returns the owner's plan for weekStart, or nil, nil.
func (r *PlanRepository) GetByOwnerAndWeek(ctx context.Context, ownerID, weekStart string) (*MealPlan, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM meal_plans WHERE owner_id = ? AND week_start = ?`,
		ownerID, weekStart,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan for week %s: %w", weekStart, err)
	}

	var plan MealPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
	}
	return &plan, nil
}

// Save inserts or replaces the plan for (owner, week). The stored ID of an
// existing plan is kept.
func (r *PlanRepository) Save(ctx context.Context, plan *MealPlan) error {
	now := time.Now().UTC()
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM meal_plans WHERE owner_id = ? AND week_start = ?`,
		plan.OwnerID, plan.WeekStart,
	).Scan(&existingID)
	switch {
	case err == nil:
		plan.ID = existingID
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to look up meal plan: %w", err)
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meal_plans (id, owner_id, week_start, data, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, week_start) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		plan.ID, plan.OwnerID, plan.WeekStart, string(data), database.FormatTime(plan.UpdatedAt),
	); err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit meal plan: %w", err)
	}
	return nil
}

// ListRecent retrieves the N most recent meal plans for a given owner, newest week first.
func (r *PlanRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]MealPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM meal_plans WHERE owner_id = ? ORDER BY week_start DESC LIMIT ?`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var plans []MealPlan
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		var plan MealPlan
		if err := json.Unmarshal([]byte(data), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
