package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gymform/internal/db"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/google/uuid"
)

// SQLiteSubmissionRepo implements SubmissionRepo on the submissions table.
type SQLiteSubmissionRepo struct {
	db db.DBTX
}

func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

// Create inserts s, assigning an ID when it has none.
func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, kind, target, status, email, plan, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, string(s.Kind), s.Target, string(s.Status), s.Email, string(s.Plan), s.Detail, formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

// List returns the newest submissions first. limit <= 0 means no limit.
func (r *SQLiteSubmissionRepo) List(ctx context.Context, limit int) ([]*domain.Submission, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, target, status, email, plan, detail, created_at
		FROM submissions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		var (
			s                          domain.Submission
			kind, status, plan, create string
		)
		if err := rows.Scan(&s.ID, &kind, &s.Target, &status, &s.Email, &plan, &s.Detail, &create); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		s.Kind = domain.SubmissionKind(kind)
		s.Status = domain.SubmissionStatus(status)
		s.Plan = domain.PlanType(plan)
		s.CreatedAt = parseTime(create)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SQLiteSubmissionRepo) CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM submissions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting submissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SubmissionStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning submission count: %w", err)
		}
		counts[domain.SubmissionStatus(status)] = n
	}
	return counts, rows.Err()
}
