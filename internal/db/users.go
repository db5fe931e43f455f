package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sukalov/liveset/internal/logger"
)

// Users records the chats that talk to the bot
type Users struct {
	db *sql.DB
}

func NewUsers(database *sql.DB) *Users {
	return &Users{db: database}
}

// RegisterUser stores a chat on first contact and is a no-op afterwards
func (u *Users) RegisterUser(ctx context.Context, chatID int64, username, firstName, lastName string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	userName := sql.NullString{
		String: username,
		Valid:  username != "",
	}
	fullName := strings.TrimSpace(firstName + " " + lastName)
	tgName := sql.NullString{
		String: fullName,
		Valid:  fullName != "",
	}

	// Check if user already exists
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE chat_id = ?)`
	if err := u.db.QueryRowContext(ctx, checkQuery, chatID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking user existence: %w", err)
	}
	if exists {
		return nil
	}

	insertQuery := `
		INSERT INTO users (
			chat_id,
			username,
			tg_name,
			added_at,
			sets_viewed
		) VALUES (?, ?, ?, ?, ?)
	`
	if _, err := u.db.ExecContext(ctx, insertQuery, chatID, userName, tgName, time.Now(), 0); err != nil {
		return fmt.Errorf("failed to insert new user: %w", err)
	}

	logger.Info(fmt.Sprintf("new user registered: ID: %d, username: %s", chatID, userName.String))
	return nil
}

// IncrementSetsViewed bumps the number of sets a chat has opened
func (u *Users) IncrementSetsViewed(ctx context.Context, chatID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := u.db.ExecContext(ctx, `UPDATE users SET sets_viewed = sets_viewed + 1 WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to increment sets viewed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no user found with chat id: %d", chatID)
	}
	return nil
}

// Count returns the number of registered chats
func (u *Users) Count(ctx context.Context) (int, error) {
	var n int
	if err := u.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
