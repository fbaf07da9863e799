package fooddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/nutrition"
)

type User struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Goals        nutrition.Goals `json:"goals"`
	CreatedAt    time.Time       `json:"createdAt"`
}

const userColumns = `id, username, email, password_hash,
		goal_calories, goal_protein, goal_fat, goal_carbs, created_at`

// CreateUser inserts a new account. Usernames and emails are unique regardless of
// case; a clash returns ErrUserExists.
func (c *Client) CreateUser(ctx context.Context, username, email, passwordHash string, goals nutrition.Goals) (User, error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "create_user")

	var taken int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE OR email = ? COLLATE NOCASE`,
		username, email,
	).Scan(&taken)
	if err != nil {
		return User{}, fmt.Errorf("error checking existing users: %w", err)
	}
	if taken > 0 {
		return User{}, ErrUserExists
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (
			username, email, password_hash,
			goal_calories, goal_protein, goal_fat, goal_carbs, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		username, email, passwordHash,
		goals.Calories, goals.Protein, goals.Fat, goals.Carbs, formatTimestamp(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("error inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("error reading user id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("error committing user: %w", err)
	}

	return User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Goals:        goals,
		CreatedAt:    now,
	}, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	row := c.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := c.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	return scanUser(row)
}

// UpdateGoals replaces the daily goals of a user.
func (c *Client) UpdateGoals(ctx context.Context, userID int64, goals nutrition.Goals) error {
	res, err := c.DB.ExecContext(ctx, `
		UPDATE users
		SET goal_calories = ?, goal_protein = ?, goal_fat = ?, goal_carbs = ?
		WHERE id = ?`,
		goals.Calories, goals.Protein, goals.Fat, goals.Carbs, userID,
	)
	if err != nil {
		return fmt.Errorf("error updating goals: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error updating goals: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var createdAt string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Goals.Calories, &u.Goals.Protein, &u.Goals.Fat, &u.Goals.Carbs, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("error reading user: %w", err)
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return u, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
