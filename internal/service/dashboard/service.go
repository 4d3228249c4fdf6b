// Package dashboard assembles the admin landing page counters and lists.
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
	"storefront-admin/internal/domain"
	orderrepo "storefront-admin/internal/repository/order"
	productrepo "storefront-admin/internal/repository/product"
)

const listSize = 5

type Summary struct {
	TotalProducts int              `json:"totalProducts"`
	TotalOrders   int              `json:"totalOrders"`
	LowStockCount int              `json:"lowStockCount"`
	LowStock      []domain.Product `json:"lowStock"`
	RecentOrders  []domain.Order   `json:"recentOrders"`
}

type Service struct {
	products productrepo.Repository
	orders   orderrepo.Repository
}

func New(products productrepo.Repository, orders orderrepo.Repository) *Service {
	return &Service{products: products, orders: orders}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.products.List(ctx, productrepo.ListQuery{Limit: 1})
		out.TotalProducts = page.Total
		return err
	})
	g.Go(func() error {
		page, err := s.products.List(ctx, productrepo.ListQuery{LowStock: true, Limit: listSize})
		out.LowStockCount = page.Total
		out.LowStock = page.Results
		return err
	})
	g.Go(func() error {
		page, err := s.orders.List(ctx, orderrepo.ListQuery{Limit: listSize})
		out.TotalOrders = page.Total
		out.RecentOrders = page.Results
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.LowStock == nil {
		out.LowStock = []domain.Product{}
	}
	if out.RecentOrders == nil {
		out.RecentOrders = []domain.Order{}
	}
	return &out, nil
}
