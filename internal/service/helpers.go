package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/payment"
	"github.com/alexanderramin/gymform/internal/remote"
	"github.com/alexanderramin/gymform/internal/repository"
)

func loggerOrDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}

// notConfigured reports whether err means the remote side has no
// credentials or endpoint.
func notConfigured(err error) bool {
	return errors.Is(err, remote.ErrNotConfigured) || errors.Is(err, payment.ErrNotConfigured)
}

// recorder appends submission rows. Recording is best effort: a failed
// insert is logged and never masks the remote outcome it describes.
type recorder struct {
	repo repository.SubmissionRepo
	log  *slog.Logger
	now  func() time.Time
}

func newRecorder(repo repository.SubmissionRepo, log *slog.Logger) recorder {
	return recorder{repo: repo, log: log, now: time.Now}
}

// record stores s with a status derived from callErr. An unconfigured
// collaborator counts as skipped rather than failed.
func (r recorder) record(ctx context.Context, s *domain.Submission, callErr error) {
	switch {
	case callErr == nil:
		s.Status = domain.SubmissionOK
	case notConfigured(callErr):
		s.Status = domain.SubmissionSkipped
		s.Detail = callErr.Error()
	default:
		s.Status = domain.SubmissionFailed
		s.Detail = detailFor(callErr)
	}
	r.save(ctx, s)
}

func (r recorder) skipped(ctx context.Context, s *domain.Submission, reason string) {
	s.Status = domain.SubmissionSkipped
	s.Detail = reason
	r.save(ctx, s)
}

func (r recorder) save(ctx context.Context, s *domain.Submission) {
	if r.repo == nil {
		return
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}
	// A timed-out remote call leaves ctx expired; the row should still land.
	if err := r.repo.Create(context.WithoutCancel(ctx), s); err != nil {
		r.log.WarnContext(ctx, "recording submission failed", "kind", s.Kind, "status", s.Status, "error", err)
	}
}

func detailFor(err error) string {
	if code := remote.ErrorCode(err); code != "" && code != "UNKNOWN" {
		return code + ": " + err.Error()
	}
	return err.Error()
}
