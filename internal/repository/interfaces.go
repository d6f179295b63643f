package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/gymform/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// KVRepo is the local key-value store that stands in for browser storage.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// SubmissionRepo is the append-only log of remote call outcomes.
type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	List(ctx context.Context, limit int) ([]*domain.Submission, error)
	CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error)
}
