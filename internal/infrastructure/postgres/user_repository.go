package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Peglo98/SocialSport2/internal/domain/user"
)

// userRow はDBの行を表す構造体
type userRow struct {
	ID          string  `db:"id"`
	FirstName   *string `db:"first_name"`
	LastName    *string `db:"last_name"`
	Email       *string `db:"email"`
	PhoneNumber *string `db:"phone_number"`
	Age         *int    `db:"age"`
}

func (r *userRow) toProfile() *user.Profile {
	p := &user.Profile{ID: r.ID}
	if r.FirstName != nil {
		p.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		p.LastName = *r.LastName
	}
	if r.Email != nil {
		p.Email = *r.Email
	}
	if r.PhoneNumber != nil {
		p.PhoneNumber = *r.PhoneNumber
	}
	if r.Age != nil {
		p.Age = *r.Age
	}
	return p
}

// UserRepository はユーザープロフィールのPostgreSQL実装
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository はUserRepositoryを作成する
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID はIDからプロフィールを取得する
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.Profile, error) {
	query := `SELECT id, first_name, last_name, email, phone_number, age FROM users WHERE id = $1`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗しました: %w", err)
	}
	return row.toProfile(), nil
}

var _ user.Provider = (*UserRepository)(nil)
