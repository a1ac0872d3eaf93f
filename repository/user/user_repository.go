package user

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/kakilabs/kaki-backend/model"
)

type SQL struct {
	conn *sqlx.DB
}

type UserRepository interface {
	Create(ctx context.Context, req *model.UserEntity) (*model.UserEntity, error)
	Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error)
	UpdateName(ctx context.Context, id uint64, name string) error
	Deactivate(ctx context.Context, id uint64) error
}

func NewUserRepository(conn *sqlx.DB) UserRepository {
	return &SQL{conn: conn}
}

const (
	insertUserQuery     = `INSERT INTO users (name, phone_number, country_code, is_active, created_at, updated_at) VALUES (?, ?, ?, 1, NOW(), NOW())`
	getUserBase         = `SELECT id, name, phone_number, country_code, is_active, created_at, updated_at FROM users WHERE true`
	updateNameQuery     = `UPDATE users SET name = ?, updated_at = NOW() WHERE id = ?`
	deactivateUserQuery = `UPDATE users SET is_active = 0, updated_at = NOW() WHERE id = ?`
)

func (s *SQL) Create(ctx context.Context, data *model.UserEntity) (*model.UserEntity, error) {
	result, err := s.conn.ExecContext(ctx, insertUserQuery, data.Name, data.PhoneNumber, data.CountryCode)
	if err != nil {
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	data.ID = uint64(lastID)
	data.IsActive = true
	return data, nil
}

func (s *SQL) Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error) {
	query := getUserBase
	args := make([]any, 0, 2)

	if filter.ID != 0 {
		query += " AND id = ?"
		args = append(args, filter.ID)
	}
	if filter.PhoneNumber != "" {
		query += " AND phone_number = ?"
		args = append(args, filter.PhoneNumber)
	}
	if filter.ActiveOnly {
		query += " AND is_active = 1"
	}

	var entity model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, query, args...).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) UpdateName(ctx context.Context, id uint64, name string) error {
	_, err := s.conn.ExecContext(ctx, updateNameQuery, name, id)
	return err
}

func (s *SQL) Deactivate(ctx context.Context, id uint64) error {
	_, err := s.conn.ExecContext(ctx, deactivateUserQuery, id)
	return err
}
