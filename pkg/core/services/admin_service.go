package services

import (
	"context"

	"github.com/wadjakorntonsri/go-social/pkg/core/domain"
	"github.com/wadjakorntonsri/go-social/pkg/ports"
)

// AdminService exposes raw store views to operators. Nothing here filters
// soft-deleted rows.
type AdminService struct {
	repo ports.Store
}

func NewAdminService(repo ports.Store) *AdminService {
	return &AdminService{repo: repo}
}

func (s *AdminService) Dump(ctx context.Context) (*domain.Dump, error) {
	return s.repo.Dump(ctx)
}

func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.repo.Stats(ctx)
}
