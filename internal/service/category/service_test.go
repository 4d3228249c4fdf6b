package category

import (
	"context"
	"errors"
	"testing"

	"storefront-admin/internal/domain"
)

type stubRepo struct {
	list []domain.Category
	err  error
}

func (s *stubRepo) List(context.Context) ([]domain.Category, error) {
	return s.list, s.err
}

func (s *stubRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	return &c, s.err
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc := New(&stubRepo{})
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestList_Error(t *testing.T) {
	svc := New(&stubRepo{err: errors.New("boom")})
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
