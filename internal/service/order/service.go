package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront-admin/internal/domain"
	orderrepo "storefront-admin/internal/repository/order"
	"storefront-admin/internal/search"
	productsvc "storefront-admin/internal/service/product"
)

type Service struct {
	repo   orderrepo.Repository
	logger *log.Logger
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, q, status string, limit, offset int) (domain.Page[domain.Order], error) {
	if status != "" && !domain.IsOrderStatus(status) {
		return domain.Page[domain.Order]{}, fmt.Errorf("%w: status %q", domain.ErrInvalidField, status)
	}
	return s.repo.List(ctx, orderrepo.ListQuery{
		Filter: search.OrderFilter(q),
		Status: status,
		Limit:  productsvc.ClampLimit(limit),
		Offset: max(offset, 0),
	})
}

// Edit writes one string field (status, email or address.<field>) to the draft.
func (s *Service) Edit(ctx context.Context, id, field string, raw []byte) (*domain.Order, error) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", domain.ErrInvalidField, field)
	}
	if field == "status" && !domain.IsOrderStatus(value) {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidField, value)
	}
	if field == "email" {
		value = strings.TrimSpace(value)
	}
	if err := s.repo.Edit(ctx, id, field, value); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// UpdateStatus edits the status and publishes immediately.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.IsOrderStatus(status) {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidField, status)
	}
	if err := s.repo.Edit(ctx, id, "status", status); err != nil {
		return nil, err
	}
	if err := s.repo.Publish(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Printf("order service: status id=%s status=%s", domain.BaseID(id), status)
	return s.repo.Get(ctx, id)
}

func (s *Service) Publish(ctx context.Context, id string) (*domain.Order, error) {
	if err := s.repo.Publish(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Discard(ctx context.Context, id string) (*domain.Order, error) {
	if err := s.repo.Discard(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
