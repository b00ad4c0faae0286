package db

import (
	"context"

	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
)

type UsersRepo struct {
	db *DB
}

func NewUsersRepo(db *DB) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (ur *UsersRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	q := `INSERT INTO users(
			role,
			first_name,
			last_name,
			email,
			phone_number,
			password_hash
		) VALUES ($1, $2, $3, $4, $5, $6) RETURNING user_id, created_at`

	err := ur.db.pool.QueryRow(ctx, q,
		string(user.Role),
		user.FirstName,
		user.LastName,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return model.User{}, translateError(err)
	}
	return user, nil
}

func (ur *UsersRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	q := `SELECT
			user_id, created_at, role, first_name, last_name, email, phone_number, password_hash
		FROM
			users
		WHERE
			lower(email) = lower($1)`

	var u model.User
	err := ur.db.pool.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.CreatedAt, &u.Role, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.PasswordHash,
	)
	if err != nil {
		return model.User{}, translateError(err)
	}
	return u, nil
}
