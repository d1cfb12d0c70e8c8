package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// likeEscaper neutralizes LIKE metacharacters in filter terms so a
// term containing % or _ matches literally instead of as a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyConditions translates the backend-agnostic condition list into
// WHERE clauses. Field names only ever come from the composer's
// allow-listed column constants, never from request input.
func applyConditions(db *gorm.DB, conds []models.Condition) *gorm.DB {
	for _, c := range conds {
		switch c.Op {
		case models.OpEquals:
			db = db.Where(fmt.Sprintf("%s = ?", c.Fields[0]), c.Value)
		case models.OpContains:
			// LOWER(col) LIKE keeps substring matching case-insensitive
			// on both PostgreSQL and SQLite. NULL columns never match.
			pattern := "%" + likeEscaper.Replace(strings.ToLower(fmt.Sprintf("%v", c.Value))) + "%"
			clauses := make([]string, 0, len(c.Fields))
			args := make([]interface{}, 0, len(c.Fields))
			for _, field := range c.Fields {
				clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, field))
				args = append(args, pattern)
			}
			db = db.Where(strings.Join(clauses, " OR "), args...)
		case models.OpGTE:
			db = db.Where(fmt.Sprintf("%s >= ?", c.Fields[0]), c.Value)
		case models.OpLTE:
			db = db.Where(fmt.Sprintf("%s <= ?", c.Fields[0]), c.Value)
		}
	}
	return db
}

// ListActive retrieves all active products, name ascending.
func (r *GORMProductRepository) ListActive() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_active = ?", true).Order("name ASC, id ASC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return products, nil
}

// Query runs a composed plan. The total is counted before the page
// window is applied, so it reflects the filters only. An id-ascending
// tie-break keeps page boundaries deterministic under duplicate sort
// keys.
func (r *GORMProductRepository) Query(plan models.QueryPlan) ([]models.Product, int64, error) {
	var total int64
	counted := applyConditions(r.db.Model(&models.Product{}), plan.Conditions)
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	dir := "ASC"
	if plan.SortDesc {
		dir = "DESC"
	}
	q := applyConditions(r.db.Model(&models.Product{}), plan.Conditions).
		Order(fmt.Sprintf("%s %s, id ASC", plan.SortField, dir))
	if plan.Limit > 0 {
		q = q.Offset(plan.Offset).Limit(plan.Limit)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its id, inactive rows included.
func (r *GORMProductRepository) GetByID(id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %d: %w", id, err)
	}
	return &product, nil
}

// Exists reports whether a product row with the given id is present,
// without fetching the full record.
func (r *GORMProductRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check product %d existence: %w", id, err)
	}
	return count > 0, nil
}

// Create inserts a new product; the store assigns the id.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces all fields of an existing product. Returns false if
// no row was touched.
func (r *GORMProductRepository) Update(product *models.Product) (bool, error) {
	res := r.db.Save(product) // Save updates every field, including zero values
	if res.Error != nil {
		return false, fmt.Errorf("failed to update product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SoftDelete flips the product inactive and stamps UpdatedAt. Returns
// false if the id matched no row.
func (r *GORMProductRepository) SoftDelete(id int64, at time.Time) (bool, error) {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": at.UTC()})
	if res.Error != nil {
		return false, fmt.Errorf("failed to soft-delete product %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountActive counts the active products.
func (r *GORMProductRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}
	return count, nil
}
