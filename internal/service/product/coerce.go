package product

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"storefront-admin/internal/domain"
	productrepo "storefront-admin/internal/repository/product"
)

// Coerce converts a raw JSON form value into the typed value stored for field.
func Coerce(field string, raw []byte) (any, error) {
	if _, ok := productrepo.Fields[field]; !ok {
		return nil, fmt.Errorf("%w: product %s", domain.ErrInvalidField, field)
	}
	switch field {
	case "stock":
		return coerceStock(raw), nil
	case "price":
		return coercePrice(raw), nil
	case "material":
		return coerceEnum(field, raw, domain.IsMaterial)
	case "color":
		return coerceEnum(field, raw, domain.IsColor)
	case "featured", "assemblyRequired":
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidField, field)
		}
		return b, nil
	case "slug":
		return coerceSlug(raw)
	case "images":
		return coerceImages(raw)
	case "category":
		return coerceCategory(raw)
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %s must be a string", domain.ErrInvalidField, field)
		}
		return s, nil
	}
}

// coerceStock mirrors the stock input: null is unknown, unparsable is 0, negatives clamp to 0.
func coerceStock(raw []byte) *int {
	if isNull(raw) {
		return nil
	}
	n := 0
	if f, ok := number(raw); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		n = int(f)
	}
	if n < 0 {
		n = 0
	}
	return &n
}

// coercePrice takes pounds and returns pence; unparsable or negative input is 0.
func coercePrice(raw []byte) int64 {
	f, ok := number(raw)
	if !ok || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return domain.PenceFromPounds(f)
}

func number(raw []byte) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func coerceEnum(field string, raw []byte, valid func(string) bool) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s must be a string", domain.ErrInvalidField, field)
	}
	if !valid(s) {
		return "", fmt.Errorf("%w: %s %q is not allowed", domain.ErrInvalidField, field, s)
	}
	return s, nil
}

// coerceSlug accepts a plain string or a {"current": "..."} object.
func coerceSlug(raw []byte) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var obj struct {
		Current string `json:"current"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("%w: slug must be a string", domain.ErrInvalidField)
	}
	return strings.TrimSpace(obj.Current), nil
}

func coerceImages(raw []byte) ([]domain.Image, error) {
	images := []domain.Image{}
	if isNull(raw) {
		return images, nil
	}
	if err := json.Unmarshal(raw, &images); err != nil {
		return nil, fmt.Errorf("%w: images must be a list of {key, url}", domain.ErrInvalidField)
	}
	out := images[:0]
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		if img.Key == "" {
			img.Key = uuid.NewString()
		}
		out = append(out, img)
	}
	return out, nil
}

// coerceCategory returns nil to clear the reference.
func coerceCategory(raw []byte) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: category must be a category id", domain.ErrInvalidField)
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	return s, nil
}

func isNull(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
