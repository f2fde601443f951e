package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/store"
)

// GetUser retrieves a user by username.
func (b *Backend) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	var email sql.NullString
	var groupList string
	var disabled int

	err := b.db.QueryRowContext(ctx, `
		SELECT username, email, group_list, is_disabled FROM user WHERE username = ?
	`, username).Scan(&user.Username, &email, &groupList, &disabled)
	if err == sql.ErrNoRows {
		return nil, store.NewNotFoundError("user", username)
	}
	if err != nil {
		return nil, err
	}

	user.Email = email.String
	user.Groups = domain.ParseGroupSet(groupList)
	user.Disabled = disabled != 0

	return &user, nil
}

// CreateUser inserts a new user.
func (b *Backend) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO user (username, email, group_list, is_disabled)
		VALUES (?, ?, ?, ?)
	`, user.Username, nullable(user.Email), user.Groups.String(), boolInt(user.Disabled))
	if err != nil && isConstraint(err) {
		return fmt.Errorf("user %s: %w", user.Username, store.ErrAlreadyExists)
	}
	return err
}

// UpdateUser updates email, groups and the disabled flag.
func (b *Backend) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := b.db.ExecContext(ctx, `
		UPDATE user SET email = ?, group_list = ?, is_disabled = ? WHERE username = ?
	`, nullable(user.Email), user.Groups.String(), boolInt(user.Disabled), user.Username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NewNotFoundError("user", user.Username)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
