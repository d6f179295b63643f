package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/gymform/internal/db"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/repository"
)

// Storage keys. They match the names earlier clients wrote, so existing
// stores keep loading.
const (
	KeyFormData  = "gymFormData"
	KeyUserEmail = "userEmail"
)

type formStore struct {
	kv  repository.KVRepo
	uow db.UnitOfWork
	log *slog.Logger
}

func NewFormStore(kv repository.KVRepo, uow db.UnitOfWork, log *slog.Logger) FormStore {
	return &formStore{kv: kv, uow: uow, log: loggerOrDiscard(log)}
}

// Load returns the saved form, or defaults when nothing usable is stored.
func (s *formStore) Load(ctx context.Context) *domain.FormData {
	raw, err := s.kv.Get(ctx, KeyFormData)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WarnContext(ctx, "loading saved form failed", "error", err)
		}
		return domain.NewFormData()
	}

	fd := &domain.FormData{}
	if err := json.Unmarshal([]byte(raw), fd); err != nil {
		s.log.WarnContext(ctx, "saved form is corrupt, starting fresh", "error", err)
		return domain.NewFormData()
	}
	fd.Normalize()
	return fd
}

// Save writes the form and mirrors a non-empty email in one transaction.
// Failures are logged only.
func (s *formStore) Save(ctx context.Context, fd *domain.FormData) {
	if fd == nil {
		return
	}
	data, err := json.Marshal(fd)
	if err != nil {
		s.log.WarnContext(ctx, "encoding form failed", "error", err)
		return
	}
	email := strings.TrimSpace(fd.PersonalInfo.Email)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		kv := repository.NewSQLiteKVRepo(tx)
		if err := kv.Put(ctx, KeyFormData, string(data)); err != nil {
			return err
		}
		if email != "" {
			return kv.Put(ctx, KeyUserEmail, email)
		}
		return nil
	})
	if err != nil {
		s.log.WarnContext(ctx, "saving form failed", "error", err)
	}
}

// Email returns the last non-empty email entered, or "".
func (s *formStore) Email(ctx context.Context) string {
	email, err := s.kv.Get(ctx, KeyUserEmail)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WarnContext(ctx, "loading saved email failed", "error", err)
		}
		return ""
	}
	return email
}

// Reset forgets every stored answer.
func (s *formStore) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyFormData, KeyUserEmail); err != nil {
		return fmt.Errorf("resetting saved form: %w", err)
	}
	s.log.InfoContext(ctx, "saved form reset")
	return nil
}
