// Package importer loads furniture catalog CSV files into published documents.
package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"storefront-admin/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

type Kind string

const (
	KindProducts   Kind = "products"
	KindCategories Kind = "categories"
)

// DetectKind sniffs the header row: product files carry a price column.
func DetectKind(r io.Reader) (Kind, error) {
	headers, err := csv.NewReader(bufio.NewReader(r)).Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["price"]; ok {
		return KindProducts, nil
	}
	if _, ok := index["title"]; ok {
		return KindCategories, nil
	}
	return "", fmt.Errorf("unrecognised csv headers %v", headers)
}

// CSVImporter reads catalog CSV exports and upserts published products and
// their categories.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	logger     *log.Logger

	// categoryIDs caches slug -> id for categories already written.
	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		logger:      logger,
		categoryIDs: map[string]string{},
	}
}

type csvRow struct {
	ID               string
	Name             string
	Slug             string
	Description      string
	Price            string
	Stock            string
	Material         string
	Color            string
	Dimensions       string
	Featured         string
	AssemblyRequired string
	Category         string
	ImageURLs        []string
}

// Run parses product rows and upserts them. Rows with only an image URL
// continue the previous product.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Printf("importer: products imported=%d categories=%d", imported, len(i.categoryIDs))
	return imported, nil
}

// RunCategories upserts a slug,title[,id] category file.
func (i *CSVImporter) RunCategories(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		slug := pick(record, index, "slug")
		if slug == "" {
			continue
		}
		title := pick(record, index, "title")
		if title == "" {
			title = titleFromSlug(slug)
		}
		if _, err := i.upsertCategory(ctx, domain.Category{ID: pick(record, index, "id"), Slug: slug, Title: title}); err != nil {
			return imported, err
		}
		imported++
	}
	i.logger.Printf("importer: categories imported=%d", imported)
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	slug := row.Slug
	if slug == "" {
		slug = slugify(row.Name)
	}
	if slug == "" {
		return fmt.Errorf("invalid product row (missing slug) for %q", row.Name)
	}

	price, err := parsePrice(row.Price)
	if err != nil {
		return fmt.Errorf("invalid price for %q: %w", slug, err)
	}
	if row.Material != "" && !domain.IsMaterial(row.Material) {
		return fmt.Errorf("invalid material for %q: %s", slug, row.Material)
	}
	if row.Color != "" && !domain.IsColor(row.Color) {
		return fmt.Errorf("invalid color for %q: %s", slug, row.Color)
	}

	p := domain.Product{
		ID:               row.ID,
		Name:             row.Name,
		Slug:             slug,
		Description:      row.Description,
		PricePence:       price,
		Stock:            parseStock(row.Stock),
		Material:         row.Material,
		Color:            row.Color,
		Dimensions:       row.Dimensions,
		Featured:         parseBool(row.Featured),
		AssemblyRequired: parseBool(row.AssemblyRequired),
		Images:           make([]domain.Image, 0, len(row.ImageURLs)),
	}
	for n, url := range row.ImageURLs {
		p.Images = append(p.Images, domain.Image{Key: fmt.Sprintf("%s-%d", slug, n+1), URL: url})
	}

	if row.Category != "" {
		id, ok := i.categoryIDs[row.Category]
		if !ok {
			id, err = i.upsertCategory(ctx, domain.Category{Slug: row.Category, Title: titleFromSlug(row.Category)})
			if err != nil {
				return err
			}
		}
		p.CategoryID = id
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", slug, err)
	}
	return nil
}

func (i *CSVImporter) upsertCategory(ctx context.Context, c domain.Category) (string, error) {
	saved, err := i.categories.Upsert(ctx, c)
	if err != nil {
		return "", fmt.Errorf("upsert category %q: %w", c.Slug, err)
	}
	i.categoryIDs[saved.Slug] = saved.ID
	return saved.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		ID:               pick(record, index, "id"),
		Name:             pick(record, index, "name"),
		Slug:             pick(record, index, "slug"),
		Description:      pick(record, index, "description"),
		Price:            pick(record, index, "price"),
		Stock:            pick(record, index, "stock"),
		Material:         pick(record, index, "material"),
		Color:            pick(record, index, "color"),
		Dimensions:       pick(record, index, "dimensions"),
		Featured:         pick(record, index, "featured"),
		AssemblyRequired: pick(record, index, "assemblyRequired"),
		Category:         pick(record, index, "category"),
	}
	for _, url := range strings.Split(pick(record, index, "images"), ";") {
		if url = strings.TrimSpace(url); url != "" {
			row.ImageURLs = append(row.ImageURLs, url)
		}
	}
	if row.Name == "" && len(row.ImageURLs) == 0 {
		return nil
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

// parsePrice reads a pound amount such as "1299" or "49.99".
func parsePrice(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(raw, domain.CurrencySymbol))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %s", raw)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// parseStock returns nil for a blank cell so the stock stays unknown.
func parseStock(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		n = 0
	}
	return &n
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for n, w := range words {
		words[n] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
