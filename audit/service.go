// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	RecordLogin(ctx context.Context, record LoginRecord) error
	RecentLogins(ctx context.Context, userID, limit int) ([]LoginRecord, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordLogin(ctx context.Context, record LoginRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	return s.repo.RecordLogin(ctx, record)
}

func (s *service) RecentLogins(ctx context.Context, userID, limit int) ([]LoginRecord, error) {
	return s.repo.RecentLogins(ctx, userID, limit)
}
