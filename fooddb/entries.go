package fooddb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/nutrition"
)

// DateLayout is the format of FoodEntry.Date.
const DateLayout = "2006-01-02"

// FoodEntry is one logged portion. Amount is in grams and the embedded macros are the
// amounts eaten, not per 100 g.
type FoodEntry struct {
	ID     string  `json:"id"`
	UserID int64   `json:"-"`
	Date   string  `json:"date"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	nutrition.Macros
	CreatedAt time.Time `json:"createdAt"`
}

// CreateFoodEntry stores entry with a fresh id and returns the stored value.
func (c *Client) CreateFoodEntry(ctx context.Context, entry FoodEntry) (FoodEntry, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO food_entries (
			id, user_id, date, name, amount,
			calories, protein, fat, carbs, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Date, entry.Name, entry.Amount,
		entry.Calories, entry.Protein, entry.Fat, entry.Carbs, formatTimestamp(entry.CreatedAt),
	)
	if err != nil {
		return FoodEntry{}, fmt.Errorf("error inserting food entry: %w", err)
	}
	return entry, nil
}

// ListFoodEntries returns a user's entries for date in the order they were logged.
func (c *Client) ListFoodEntries(ctx context.Context, userID int64, date string) (entries []FoodEntry, err error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT id, user_id, date, name, amount, calories, protein, fat, carbs, created_at
		FROM food_entries
		WHERE user_id = ? AND date = ?
		ORDER BY created_at, rowid`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying food entries: %w", err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "close_food_entry_rows")

	entries = []FoodEntry{}
	for rows.Next() {
		var e FoodEntry
		var createdAt string
		err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Name, &e.Amount,
			&e.Calories, &e.Protein, &e.Fat, &e.Carbs, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("error reading food entry: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating food entries: %w", err)
	}

	return entries, nil
}

// DeleteFoodEntry removes an entry owned by userID. Entries of other users are reported
// as ErrNotFound.
func (c *Client) DeleteFoodEntry(ctx context.Context, userID int64, id string) error {
	res, err := c.DB.ExecContext(ctx, `DELETE FROM food_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting food entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting food entry: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
