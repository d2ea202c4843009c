package audit

import (
	"context"

	"go.uber.org/zap"
)

// Service exposes audit recording and review. Recording failures are
// reported to the internal log only; callers treat audit as best-effort.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Record appends one entry and logs (but does not propagate) storage errors.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Error("audit entry dropped",
			zap.String("action", entry.Action),
			zap.String("account_id", entry.AccountID),
			zap.Error(err))
		return err
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.Recent(ctx, limit)
}
