package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spigell/abang/internal/user"
)

const findUserQuery = `SELECT abang_user_id, nickname, email, user_type, phone_number, created_at, updated_at
FROM abang_user WHERE abang_user_id = $1`

type UserRepository struct {
	db queryExecutor
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, findUserQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func scanUser(row scanner) (*user.User, error) {
	var (
		u               user.User
		nickname, phone sql.NullString
	)
	if err := row.Scan(&u.ID, &nickname, &u.Email, &u.UserType, &phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Nickname = nickname.String
	u.PhoneNumber = phone.String
	return &u, nil
}
