package repositories

import (
	"errors"
	"time"

	"catalog/internal/models"
)

// ErrNotFound is returned when no product matches the requested id.
var ErrNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
// Write methods report a logical "did this change anything" boolean,
// not merely that the call succeeded.
type ProductRepository interface {
	// ListActive returns every active product, name ascending.
	ListActive() ([]models.Product, error)
	// Query executes a composed plan and returns the matching window
	// plus the total match count (computed before the window).
	Query(plan models.QueryPlan) ([]models.Product, int64, error)
	GetByID(id int64) (*models.Product, error)
	// Exists is a cheap presence check, independent of fetching the row.
	Exists(id int64) (bool, error)
	Create(product *models.Product) error
	Update(product *models.Product) (bool, error)
	// SoftDelete flips the product inactive and stamps UpdatedAt.
	SoftDelete(id int64, at time.Time) (bool, error)
	CountActive() (int64, error)
}
