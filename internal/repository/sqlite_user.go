package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planportal/internal/db"
	"github.com/alexanderramin/planportal/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

func (r *SQLiteUserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, role, created_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = nowUTC()
	}
	query := `INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Name, string(u.Role), formatTime(u.CreatedAt))
	if err != nil {
		return wrapStorageErr("upserting user", err)
	}
	return nil
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, role, created_at FROM users ORDER BY role DESC, name`)
	if err != nil {
		return nil, wrapStorageErr("listing users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("iterating users", err)
	}
	return users, nil
}

func scanUser(s rowScanner) (*domain.User, error) {
	var u domain.User
	var role, createdAt string
	if err := s.Scan(&u.ID, &u.Name, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, wrapStorageErr("scanning user", err)
	}
	u.Role = domain.Role(role)
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &u, nil
}
