package models

import (
	"strings"
	"time"
)

// trimOrNil trims an optional string and normalizes all-whitespace
// values to absent. An optional field is never stored as "".
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// NormalizeRequest trims the request's string fields in place so that
// validation and mapping both see the canonical values.
func NormalizeRequest(req *ProductRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = trimOrNil(req.Description)
	req.Category = trimOrNil(req.Category)
	req.Brand = trimOrNil(req.Brand)
	req.ImageURL = trimOrNil(req.ImageURL)
}

// NewProduct maps a creation request to an entity. The id is left for
// the store to assign, CreatedAt is stamped now (UTC) and UpdatedAt
// stays absent until the first mutation.
func NewProduct(req ProductRequest, now time.Time) Product {
	p := Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   trimOrNil(req.Description),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      trimOrNil(req.Category),
		Brand:         trimOrNil(req.Brand),
		ImageURL:      trimOrNil(req.ImageURL),
		IsActive:      true,
		CreatedAt:     now.UTC(),
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}

// UpdatedProduct maps an update request to an entity with UpdatedAt
// stamped now (UTC). The id and CreatedAt are never taken from the
// request; the caller overlays them from the existing record before
// persisting.
func UpdatedProduct(req ProductRequest, now time.Time) Product {
	p := NewProduct(req, now)
	p.CreatedAt = time.Time{}
	at := now.UTC()
	p.UpdatedAt = &at
	return p
}

// ToResponse maps a stored entity to its wire representation. Straight
// field copy, nothing withheld.
func ToResponse(p Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		Brand:         p.Brand,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToResponses maps a slice of entities, always yielding a non-nil
// slice so empty results serialize as [] rather than null.
func ToResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToResponse(p))
	}
	return out
}
