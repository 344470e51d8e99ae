package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/planportal/internal/db"
	"github.com/alexanderramin/planportal/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `year, coordinator_id, content, status, feedback, submissions, created_at, updated_at`

func (r *SQLitePlanRepo) Get(ctx context.Context, key domain.PlanKey) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE year = ? AND coordinator_id = ?`
	row := r.db.QueryRowContext(ctx, query, key.Year, key.CoordinatorID)
	return r.scanPlan(row)
}

func (r *SQLitePlanRepo) Save(ctx context.Context, key domain.PlanKey, patch domain.PlanPatch) (*domain.Plan, error) {
	now := nowUTC()

	p, err := r.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		p = domain.NewPlan(key, now)
	} else if err != nil {
		return nil, err
	}
	p.Apply(patch, now)

	content, err := json.Marshal(p.Content)
	if err != nil {
		return nil, fmt.Errorf("encoding plan content: %w", err)
	}

	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, coordinator_id) DO UPDATE SET
			content = excluded.content,
			status = excluded.status,
			feedback = excluded.feedback,
			submissions = excluded.submissions,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		p.Year,
		p.CoordinatorID,
		string(content),
		string(p.Status),
		p.Feedback,
		p.Submissions,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return nil, wrapStorageErr("saving plan", err)
	}
	return p, nil
}

func (r *SQLitePlanRepo) ListByYear(ctx context.Context, year int) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE year = ? ORDER BY coordinator_id`
	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, wrapStorageErr("listing plans by year", err)
	}
	defer rows.Close()
	return r.scanPlans(rows)
}

func (r *SQLitePlanRepo) ListByStatus(ctx context.Context, status domain.PlanStatus) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE status = ? ORDER BY updated_at`
	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, wrapStorageErr("listing plans by status", err)
	}
	defer rows.Close()
	return r.scanPlans(rows)
}

func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.Plan, error) {
	p, err := r.scanInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) scanPlans(rows *sql.Rows) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	for rows.Next() {
		p, err := r.scanInto(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("iterating plans", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) scanInto(s rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var content, status, createdAt, updatedAt string

	err := s.Scan(&p.Year, &p.CoordinatorID, &content, &status, &p.Feedback, &p.Submissions, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, wrapStorageErr("scanning plan", err)
	}

	if err := json.Unmarshal([]byte(content), &p.Content); err != nil {
		return nil, fmt.Errorf("decoding plan content: %w", err)
	}
	p.Content.Normalize()
	p.Status = domain.PlanStatus(status)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
