package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"weekly-menu/internal/database"
)

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// GetByOwnerAndWeek retrieves the owner's list for weekStart, or nil, nil.
func (r *Repository) GetByOwnerAndWeek(ctx context.Context, ownerID, weekStart string) (*ShoppingList, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM shopping_lists WHERE owner_id = ? AND week_start = ?`,
		ownerID, weekStart,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list by owner and week: %w", err)
	}
	return decodeList(data)
}

// Save inserts list, or overwrites the owner's list for the week when one
// is already stored. The stored row's ID and creation time are kept, so
// concurrent saves for the same week resolve to the last write.
func (r *Repository) Save(ctx context.Context, list *ShoppingList) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM shopping_lists WHERE owner_id = ? AND week_start = ?`,
		list.OwnerID, list.WeekStart,
	).Scan(&existing)
	switch {
	case err == nil:
		stored, err := decodeList(existing)
		if err != nil {
			return err
		}
		list.ID = stored.ID
		list.CreatedAt = stored.CreatedAt
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to look up shopping list: %w", err)
	}

	now := time.Now().UTC()
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}
	list.UpdatedAt = now

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO shopping_lists (id, owner_id, week_start, meal_plan_id, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, week_start) DO UPDATE SET
			id = excluded.id, meal_plan_id = excluded.meal_plan_id,
			data = excluded.data, updated_at = excluded.updated_at`,
		list.ID, list.OwnerID, list.WeekStart, list.MealPlanID, string(data), database.FormatTime(now),
	); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping list: %w", err)
	}
	return nil
}

// UpdateItems stores items as the list's items and refreshes its status,
// leaving every other field as stored.
func (r *Repository) UpdateItems(ctx context.Context, listID string, items []Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var data string
	if err := tx.QueryRowContext(ctx, `SELECT data FROM shopping_lists WHERE id = ?`, listID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrListNotFound, listID)
		}
		return fmt.Errorf("failed to load shopping list %s: %w", listID, err)
	}
	list, err := decodeList(data)
	if err != nil {
		return err
	}
	list.Items = items
	list.Status = statusOf(items)
	list.UpdatedAt = time.Now().UTC()

	encoded, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE shopping_lists SET data = ?, updated_at = ? WHERE id = ?`,
		string(encoded), database.FormatTime(list.UpdatedAt), listID,
	); err != nil {
		return fmt.Errorf("failed to update shopping list items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping list items: %w", err)
	}
	return nil
}

func decodeList(data string) (*ShoppingList, error) {
	var list ShoppingList
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list: %w", err)
	}
	return &list, nil
}
