package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"storefront-admin/internal/domain"
	productrepo "storefront-admin/internal/repository/product"
	"storefront-admin/internal/search"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ImageStore persists uploaded image bytes and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Upload is one file received by the image uploader.
type Upload struct {
	Name string
	Body io.Reader
}

// ReferencedError reports the orders that prevent a product from being deleted.
type ReferencedError struct {
	OrderIDs []string
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("product is referenced by %d order(s)", len(e.OrderIDs))
}

func (e *ReferencedError) Unwrap() error {
	return domain.ErrReferenced
}

type Service struct {
	repo   productrepo.Repository
	images ImageStore
	logger *log.Logger
}

func New(repo productrepo.Repository, images ImageStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, images: images, logger: logger}
}

func (s *Service) Create(ctx context.Context) (*domain.Product, error) {
	id, err := s.repo.Create(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, q string, lowStock bool, limit, offset int) (domain.Page[domain.Product], error) {
	return s.repo.List(ctx, productrepo.ListQuery{
		Filter:   search.ProductFilter(q),
		LowStock: lowStock,
		Limit:    ClampLimit(limit),
		Offset:   max(offset, 0),
	})
}

// Edit coerces a raw form value for field and writes it to the draft.
func (s *Service) Edit(ctx context.Context, id, field string, raw []byte) (*domain.Product, error) {
	value, err := Coerce(field, raw)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Edit(ctx, id, field, value); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Publish(ctx context.Context, id string) (*domain.Product, error) {
	if err := s.repo.Publish(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Discard reverts the draft. Returns nil when the document no longer exists.
func (s *Service) Discard(ctx context.Context, id string) (*domain.Product, error) {
	if err := s.repo.Discard(ctx, id); err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// Delete removes a product no order references. A product that was never
// published only has its draft discarded.
func (s *Service) Delete(ctx context.Context, id string) error {
	refs, err := s.repo.ReferencingOrders(ctx, id)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		s.logger.Printf("product service: delete id=%s refused referencing_orders=%d", id, len(refs))
		return &ReferencedError{OrderIDs: refs}
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.State.HasPublished {
		return s.repo.Delete(ctx, id)
	}
	return s.repo.Discard(ctx, id)
}

// AddImages stores uploads and appends them to the draft image list.
func (s *Service) AddImages(ctx context.Context, id string, uploads []Upload) (*domain.Product, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no files", domain.ErrInvalidField)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	images := append([]domain.Image{}, p.Images...)
	for _, u := range uploads {
		url, err := s.images.Save(ctx, u.Name, u.Body)
		if err != nil {
			s.logger.Printf("product service: upload id=%s file=%s error=%v", p.ID, u.Name, err)
			return nil, err
		}
		images = append(images, domain.Image{Key: uuid.NewString(), URL: url})
	}
	if err := s.repo.Edit(ctx, id, "images", images); err != nil {
		return nil, err
	}
	s.logger.Printf("product service: uploaded id=%s files=%d", p.ID, len(uploads))
	return s.repo.Get(ctx, id)
}

// ClampLimit applies the default and maximum page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
