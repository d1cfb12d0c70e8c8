package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"catalog/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. It interprets the same query plans as the GORM
// implementation, so the service can run without a database.
type MockProductRepository struct {
	products map[int64]models.Product
	nextID   int64
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int64]models.Product),
		nextID:   1,
	}
}

// stringField resolves a text column to its value on the product.
// Absent optional fields resolve to nil and never match a filter.
func stringField(p *models.Product, col string) *string {
	switch col {
	case models.ColName:
		return &p.Name
	case models.ColDescription:
		return p.Description
	case models.ColCategory:
		return p.Category
	case models.ColBrand:
		return p.Brand
	}
	return nil
}

func matches(p *models.Product, c models.Condition) bool {
	switch c.Op {
	case models.OpEquals:
		if c.Fields[0] == models.ColIsActive {
			want, _ := c.Value.(bool)
			return p.IsActive == want
		}
		return false
	case models.OpContains:
		term := strings.ToLower(c.Value.(string))
		for _, field := range c.Fields {
			if s := stringField(p, field); s != nil && strings.Contains(strings.ToLower(*s), term) {
				return true
			}
		}
		return false
	case models.OpGTE:
		return p.Price >= c.Value.(float64)
	case models.OpLTE:
		return p.Price <= c.Value.(float64)
	}
	return false
}

func sortKey(p *models.Product, col string) (string, float64, bool) {
	switch col {
	case models.ColPrice:
		return "", p.Price, true
	case models.ColStockQuantity:
		return "", float64(p.StockQuantity), true
	case models.ColCreatedAt:
		return "", float64(p.CreatedAt.UnixMilli()), true
	case models.ColCategory:
		if p.Category != nil {
			return strings.ToLower(*p.Category), 0, false
		}
		return "", 0, false
	case models.ColBrand:
		if p.Brand != nil {
			return strings.ToLower(*p.Brand), 0, false
		}
		return "", 0, false
	default:
		return strings.ToLower(p.Name), 0, false
	}
}

// ListActive returns all active products, name ascending.
func (r *MockProductRepository) ListActive() ([]models.Product, error) {
	out, _, err := r.Query(models.QueryPlan{
		Conditions: []models.Condition{{Fields: []string{models.ColIsActive}, Op: models.OpEquals, Value: true}},
		SortField:  models.ColName,
	})
	return out, err
}

// Query filters, sorts and windows the in-memory set. The total is
// taken after filtering but before the window, matching the GORM
// implementation.
func (r *MockProductRepository) Query(plan models.QueryPlan) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		ok := true
		for _, c := range plan.Conditions {
			if !matches(&p, c) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, p)
		}
	}
	total := int64(len(matched))

	sort.Slice(matched, func(i, j int) bool {
		si, ni, numeric := sortKey(&matched[i], plan.SortField)
		sj, nj, _ := sortKey(&matched[j], plan.SortField)
		var less, equal bool
		if numeric {
			less, equal = ni < nj, ni == nj
		} else {
			less, equal = si < sj, si == sj
		}
		if equal {
			// stable id tie-break regardless of direction
			return matched[i].ID < matched[j].ID
		}
		if plan.SortDesc {
			return !less
		}
		return less
	})

	if plan.Limit > 0 {
		if plan.Offset >= len(matched) {
			return []models.Product{}, total, nil
		}
		matched = matched[plan.Offset:]
		if len(matched) > plan.Limit {
			matched = matched[:plan.Limit]
		}
	}
	return matched, total, nil
}

// GetByID returns a product by its id, inactive rows included.
func (r *MockProductRepository) GetByID(id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// Exists reports the presence of an id.
func (r *MockProductRepository) Exists(id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// Create adds a new product, assigning the next id.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update replaces an existing product. Returns false if the id is unknown.
func (r *MockProductRepository) Update(product *models.Product) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return false, nil
	}
	r.products[product.ID] = *product
	return true, nil
}

// SoftDelete flips a product inactive and stamps UpdatedAt.
func (r *MockProductRepository) SoftDelete(id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return false, nil
	}
	product.SetState(models.StateInactive)
	ts := at.UTC()
	product.UpdatedAt = &ts
	r.products[id] = product
	return true, nil
}

// CountActive counts the active products.
func (r *MockProductRepository) CountActive() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.IsActive {
			count++
		}
	}
	return count, nil
}
