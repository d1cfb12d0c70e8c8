package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// ProductEventPublisher publishes catalog change events. Implementations
// must tolerate being called from request goroutines; a nil publisher
// disables eventing entirely.
type ProductEventPublisher interface {
	PublishProductEvent(eventType string, payload map[string]interface{}) error
}

// Event types published on successful mutations.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

const genericFailureMessage = "An unexpected error occurred"

// ProductService handles business logic related to products. Every
// operation returns an envelope; internal faults never propagate to
// the caller as raw errors.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher ProductEventPublisher
	validate  *validator.Validate
	verbose   bool
}

// NewProductService creates a new ProductService. The publisher may be
// nil. verbose switches failure envelopes from generalized to detailed
// messages and is meant for development only.
func NewProductService(repo repositories.ProductRepository, publisher ProductEventPublisher, verbose bool) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
		verbose:   verbose,
	}
}

// internalFailure converts a repository fault into a generic failure
// envelope. Details are only surfaced in verbose mode.
func (s *ProductService) internalFailure(op string, err error) *models.Envelope {
	log.Printf("product service: %s failed: %v", op, err)
	if s.verbose {
		return models.Fail(models.KindInternal, genericFailureMessage, err.Error())
	}
	return models.Fail(models.KindInternal, genericFailureMessage)
}

// validateRequest runs tag validation on a normalized request and
// itemizes failures for the envelope's errors list.
func (s *ProductService) validateRequest(req models.ProductRequest) []string {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag()))
	}
	return msgs
}

// GetAllProducts returns every active product, name ascending.
func (s *ProductService) GetAllProducts() *models.Envelope {
	products, err := s.repo.ListActive()
	if err != nil {
		return s.internalFailure("list", err)
	}
	return models.OK("Products retrieved successfully", models.ToResponses(products))
}

// GetPagedProducts runs a filtered, sorted, paginated listing.
// Out-of-range pagination values clamp silently; they are never
// rejected.
func (s *ProductService) GetPagedProducts(query models.ProductQuery) *models.Envelope {
	plan := query.Plan()
	products, total, err := s.repo.Query(plan)
	if err != nil {
		return s.internalFailure("paged list", err)
	}
	page := models.ProductPage{
		Items:      models.ToResponses(products),
		TotalCount: total,
		PageNumber: plan.PageNumber,
		PageSize:   plan.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(plan.PageSize))),
	}
	return models.OK("Products retrieved successfully", page)
}

// GetProductByID returns a single product, inactive ones included.
func (s *ProductService) GetProductByID(id int64) *models.Envelope {
	if id <= 0 {
		return models.Fail(models.KindInvalidInput, "Invalid product id", "id must be a positive integer")
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Fail(models.KindNotFound, fmt.Sprintf("Product with id %d not found", id))
		}
		return s.internalFailure("get", err)
	}
	return models.OK("Product retrieved successfully", models.ToResponse(*product))
}

// CreateProduct validates and persists a new product and publishes a
// creation event.
func (s *ProductService) CreateProduct(req models.ProductRequest) *models.Envelope {
	models.NormalizeRequest(&req)
	if msgs := s.validateRequest(req); msgs != nil {
		return models.Fail(models.KindInvalidInput, "Validation failed", msgs...)
	}

	product := models.NewProduct(req, time.Now())
	if err := s.repo.Create(&product); err != nil {
		return s.internalFailure("create", err)
	}
	s.publishEvent(EventProductCreated, &product)
	return models.OK("Product created successfully", models.ToResponse(product))
}

// UpdateProduct replaces all mutable fields of an existing product.
// The stored id and CreatedAt are preserved regardless of the payload.
func (s *ProductService) UpdateProduct(id int64, req models.ProductRequest) *models.Envelope {
	if id <= 0 {
		return models.Fail(models.KindInvalidInput, "Invalid product id", "id must be a positive integer")
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Fail(models.KindNotFound, fmt.Sprintf("Product with id %d not found", id))
		}
		return s.internalFailure("update lookup", err)
	}

	models.NormalizeRequest(&req)
	if msgs := s.validateRequest(req); msgs != nil {
		return models.Fail(models.KindInvalidInput, "Validation failed", msgs...)
	}

	product := models.UpdatedProduct(req, time.Now())
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt

	changed, err := s.repo.Update(&product)
	if err != nil {
		return s.internalFailure("update", err)
	}
	if !changed {
		return s.internalFailure("update", fmt.Errorf("update of product %d had no effect", id))
	}
	s.publishEvent(EventProductUpdated, &product)
	return models.OK("Product updated successfully", models.ToResponse(product))
}

// DeleteProduct soft-deletes a product: the row stays retrievable by
// id but drops out of default listings. The record is fetched up front
// so the deletion event can carry its snapshot.
func (s *ProductService) DeleteProduct(id int64) *models.Envelope {
	if id <= 0 {
		return models.Fail(models.KindInvalidInput, "Invalid product id", "id must be a positive integer")
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Fail(models.KindNotFound, fmt.Sprintf("Product with id %d not found", id))
		}
		return s.internalFailure("delete lookup", err)
	}

	deleted, err := s.repo.SoftDelete(id, time.Now())
	if err != nil {
		return s.internalFailure("delete", err)
	}
	if !deleted {
		return s.internalFailure("delete", fmt.Errorf("soft delete of product %d had no effect", id))
	}
	existing.SetState(models.StateInactive)
	s.publishEvent(EventProductDeleted, existing)
	return models.OK("Product deleted successfully", nil)
}

// SearchProducts matches the term as a case-insensitive substring of
// name, description or brand, active products only.
func (s *ProductService) SearchProducts(term string) *models.Envelope {
	if strings.TrimSpace(term) == "" {
		return models.Fail(models.KindInvalidInput, "Search term cannot be empty")
	}
	return s.listFiltered("search", models.ProductQuery{SearchTerm: term})
}

// GetProductsByCategory filters by category substring, case-insensitive.
func (s *ProductService) GetProductsByCategory(category string) *models.Envelope {
	if strings.TrimSpace(category) == "" {
		return models.Fail(models.KindInvalidInput, "Category cannot be empty")
	}
	return s.listFiltered("category filter", models.ProductQuery{Category: category})
}

// GetProductsByBrand filters by brand substring, case-insensitive.
func (s *ProductService) GetProductsByBrand(brand string) *models.Envelope {
	if strings.TrimSpace(brand) == "" {
		return models.Fail(models.KindInvalidInput, "Brand cannot be empty")
	}
	return s.listFiltered("brand filter", models.ProductQuery{Brand: brand})
}

// CountProducts reports the number of active products.
func (s *ProductService) CountProducts() *models.Envelope {
	count, err := s.repo.CountActive()
	if err != nil {
		return s.internalFailure("count", err)
	}
	return models.OK("Product count retrieved successfully", count)
}

// listFiltered runs an unwindowed, name-ascending listing over active
// products with the given extra filters. An empty match set is a
// success with an empty list.
func (s *ProductService) listFiltered(op string, query models.ProductQuery) *models.Envelope {
	active := true
	query.IsActive = &active
	plan := models.QueryPlan{
		Conditions: query.Conditions(),
		SortField:  models.ColName,
	}
	products, _, err := s.repo.Query(plan)
	if err != nil {
		return s.internalFailure(op, err)
	}
	return models.OK("Products retrieved successfully", models.ToResponses(products))
}

// publishEvent emits a change event if a publisher is configured.
// Publishing is best effort; a broker failure never fails the request.
func (s *ProductService) publishEvent(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"id":   product.ID,
		"name": product.Name,
	}
	if err := s.publisher.PublishProductEvent(eventType, payload); err != nil {
		log.Printf("failed to publish %s event for product %d: %v", eventType, product.ID, err)
	}
}
