package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sukalov/cifrabot/internal/logger"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ChatID   int64
	Username sql.NullString
	TgName   sql.NullString
	AddedAt  time.Time
}

// RegisterUser inserts the user unless the chat is already known. It
// reports whether a new row was created.
func (d *DB) RegisterUser(ctx context.Context, chatID int64, username, firstName, lastName string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	userName := sql.NullString{
		String: username,
		Valid:  username != "",
	}
	tgName := sql.NullString{
		String: firstName + " " + lastName,
		Valid:  firstName+lastName != "",
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE chat_id = ?)`
	if err := d.conn.QueryRowContext(ctx, checkQuery, chatID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	if exists {
		return false, nil
	}

	insertQuery := `INSERT INTO users (chat_id, username, tg_name, added_at) VALUES (?, ?, ?, ?)`
	if _, err := d.conn.ExecContext(ctx, insertQuery, chatID, userName, tgName, d.now().Unix()); err != nil {
		return false, fmt.Errorf("failed to insert new user: %w", err)
	}

	logger.Info(fmt.Sprintf("new user registered: ID: %d, username: %s", chatID, userName.String))
	return true, nil
}

func (d *DB) GetUserByChatID(ctx context.Context, chatID int64) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user User
	var addedAt int64
	err := d.conn.QueryRowContext(ctx,
		`SELECT chat_id, username, tg_name, added_at FROM users WHERE chat_id = ?`, chatID,
	).Scan(&user.ChatID, &user.Username, &user.TgName, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	user.AddedAt = time.Unix(addedAt, 0).UTC()
	return user, nil
}
