package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListActive() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Query(plan models.QueryPlan) ([]models.Product, int64, error) {
	args := m.Called(plan)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(id int64) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Exists(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) (bool, error) {
	args := m.Called(product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) SoftDelete(id int64, at time.Time) (bool, error) {
	args := m.Called(id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountActive() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher is a mock implementation of services.ProductEventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductEvent(eventType string, payload map[string]interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

func strptr(s string) *string { return &s }

func newService(repo repositories.ProductRepository) *services.ProductService {
	return services.NewProductService(repo, nil, false)
}

func TestGetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	expected := []models.Product{
		{ID: 1, Name: "Desk Lamp", Price: 29.99, StockQuantity: 12, IsActive: true},
		{ID: 2, Name: "Office Chair", Price: 199.00, StockQuantity: 7, IsActive: true},
	}
	mockRepo.On("ListActive").Return(expected, nil).Once()

	env := service.GetAllProducts()

	assert.True(t, env.Success)
	items := env.Data.([]models.ProductResponse)
	assert.Len(t, items, 2)
	assert.Equal(t, "Desk Lamp", items[0].Name)
	mockRepo.AssertExpectations(t)
}

func TestGetAllProductsStoreFailureIsGeneralized(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("ListActive").Return([]models.Product(nil), fmt.Errorf("dial tcp: connection refused")).Once()

	env := service.GetAllProducts()

	assert.False(t, env.Success)
	assert.Equal(t, models.KindInternal, env.Kind)
	assert.NotContains(t, env.Message, "connection refused", "internals never leak")
	assert.Empty(t, env.Errors)
	mockRepo.AssertExpectations(t)
}

func TestGetAllProductsVerboseModeSurfacesDetail(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, true)

	mockRepo.On("ListActive").Return([]models.Product(nil), fmt.Errorf("dial tcp: connection refused")).Once()

	env := service.GetAllProducts()

	assert.False(t, env.Success)
	assert.Contains(t, env.Errors[0], "connection refused")
	mockRepo.AssertExpectations(t)
}

func TestGetPagedProductsClampsBeforeQuerying(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("Query", mock.MatchedBy(func(plan models.QueryPlan) bool {
		return plan.PageNumber == 1 && plan.PageSize == 10 && plan.Offset == 0 && plan.Limit == 10
	})).Return([]models.Product{}, int64(0), nil).Once()

	env := service.GetPagedProducts(models.ProductQuery{PageNumber: -5, PageSize: 9999})

	assert.True(t, env.Success)
	page := env.Data.(models.ProductPage)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 10, page.PageSize)
	assert.EqualValues(t, 0, page.TotalCount)
	assert.Empty(t, page.Items)
	mockRepo.AssertExpectations(t)
}

func TestGetPagedProductsTotalPages(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("Query", mock.Anything).Return([]models.Product{{ID: 1, Name: "Desk Lamp"}}, int64(21), nil).Once()

	env := service.GetPagedProducts(models.ProductQuery{PageNumber: 1, PageSize: 10})

	page := env.Data.(models.ProductPage)
	assert.EqualValues(t, 21, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestGetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	// non-positive ids are a caller error, not a lookup
	env := service.GetProductByID(0)
	assert.False(t, env.Success)
	assert.Equal(t, models.KindInvalidInput, env.Kind)

	env = service.GetProductByID(-4)
	assert.Equal(t, models.KindInvalidInput, env.Kind)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything)

	// found
	mockRepo.On("GetByID", int64(1)).Return(&models.Product{ID: 1, Name: "Desk Lamp", IsActive: true}, nil).Once()
	env = service.GetProductByID(1)
	assert.True(t, env.Success)
	assert.Equal(t, "Desk Lamp", env.Data.(models.ProductResponse).Name)

	// missing
	mockRepo.On("GetByID", int64(99)).Return(nil, repositories.ErrNotFound).Once()
	env = service.GetProductByID(99)
	assert.False(t, env.Success)
	assert.Equal(t, models.KindNotFound, env.Kind)
	assert.Nil(t, env.Data)

	mockRepo.AssertExpectations(t)
}

func TestCreateProductMapsTrimsAndPublishes(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub, false)

	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 0 &&
			p.Name == "Lamp" &&
			p.Brand == nil &&
			p.IsActive &&
			!p.CreatedAt.IsZero() &&
			p.CreatedAt.Location() == time.UTC &&
			p.UpdatedAt == nil
	})).Return(nil).Once()
	mockPub.On("PublishProductEvent", services.EventProductCreated, mock.Anything).Return(nil).Once()

	env := service.CreateProduct(models.ProductRequest{
		Name:          "  Lamp  ",
		Brand:         strptr("   "),
		Price:         10.0,
		StockQuantity: 5,
	})

	assert.True(t, env.Success)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestCreateProductValidationFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	env := service.CreateProduct(models.ProductRequest{Name: "   ", Price: -1})

	assert.False(t, env.Success)
	assert.Equal(t, models.KindInvalidInput, env.Kind)
	assert.NotEmpty(t, env.Errors, "failures are itemized")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateProductStoreRejection(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("Create", mock.Anything).Return(fmt.Errorf("database error")).Once()

	env := service.CreateProduct(models.ProductRequest{Name: "Lamp", Price: 10})

	assert.False(t, env.Success)
	assert.Equal(t, models.KindInternal, env.Kind)
	mockRepo.AssertExpectations(t)
}

func TestUpdateProductPreservesIDAndCreatedAt(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.Product{ID: 7, Name: "Lamp", Price: 10, CreatedAt: created, IsActive: true}
	mockRepo.On("GetByID", int64(7)).Return(existing, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 7 &&
			p.CreatedAt.Equal(created) &&
			p.Name == "Lamp v2" &&
			p.UpdatedAt != nil
	})).Return(true, nil).Once()

	active := true
	env := service.UpdateProduct(7, models.ProductRequest{
		Name: "Lamp v2", Price: 12.0, StockQuantity: 5, IsActive: &active,
	})

	assert.True(t, env.Success)
	resp := env.Data.(models.ProductResponse)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, created, resp.CreatedAt)
	mockRepo.AssertExpectations(t)
}

func TestUpdateProductNotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("GetByID", int64(99)).Return(nil, repositories.ErrNotFound).Once()

	env := service.UpdateProduct(99, models.ProductRequest{Name: "Lamp", Price: 10})

	assert.False(t, env.Success)
	assert.Equal(t, models.KindNotFound, env.Kind)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestDeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub, false)

	env := service.DeleteProduct(0)
	assert.Equal(t, models.KindInvalidInput, env.Kind)

	mockRepo.On("GetByID", int64(99)).Return(nil, repositories.ErrNotFound).Once()
	env = service.DeleteProduct(99)
	assert.Equal(t, models.KindNotFound, env.Kind)

	mockRepo.On("GetByID", int64(1)).Return(&models.Product{ID: 1, Name: "Desk Lamp", IsActive: true}, nil).Once()
	mockRepo.On("SoftDelete", int64(1), mock.Anything).Return(true, nil).Once()
	// the deletion event carries the record's snapshot, not a bare id
	mockPub.On("PublishProductEvent", services.EventProductDeleted, mock.MatchedBy(func(payload map[string]interface{}) bool {
		return payload["id"] == int64(1) && payload["name"] == "Desk Lamp"
	})).Return(nil).Once()
	env = service.DeleteProduct(1)
	assert.True(t, env.Success)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestDeleteProductNoEffectIsInternal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("GetByID", int64(1)).Return(&models.Product{ID: 1, Name: "Desk Lamp", IsActive: true}, nil).Once()
	mockRepo.On("SoftDelete", int64(1), mock.Anything).Return(false, nil).Once()

	env := service.DeleteProduct(1)

	assert.False(t, env.Success)
	assert.Equal(t, models.KindInternal, env.Kind)
	mockRepo.AssertExpectations(t)
}

func TestSearchProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	env := service.SearchProducts("   ")
	assert.False(t, env.Success)
	assert.Equal(t, models.KindInvalidInput, env.Kind)
	mockRepo.AssertNotCalled(t, "Query", mock.Anything)

	mockRepo.On("Query", mock.MatchedBy(func(plan models.QueryPlan) bool {
		if plan.Limit != 0 || plan.SortField != models.ColName || len(plan.Conditions) != 2 {
			return false
		}
		search := plan.Conditions[1]
		return search.Op == models.OpContains &&
			len(search.Fields) == 3 &&
			search.Value == "lamp"
	})).Return([]models.Product{}, int64(0), nil).Once()

	env = service.SearchProducts("lamp")
	assert.True(t, env.Success, "no matches is a success with an empty list")
	assert.Empty(t, env.Data.([]models.ProductResponse))
	mockRepo.AssertExpectations(t)
}

func TestGetProductsByCategoryAndBrand(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	env := service.GetProductsByCategory("")
	assert.Equal(t, models.KindInvalidInput, env.Kind)
	env = service.GetProductsByBrand(" ")
	assert.Equal(t, models.KindInvalidInput, env.Kind)

	mockRepo.On("Query", mock.MatchedBy(func(plan models.QueryPlan) bool {
		return len(plan.Conditions) == 2 && plan.Conditions[1].Fields[0] == models.ColCategory
	})).Return([]models.Product{{ID: 1, Name: "Desk Lamp"}}, int64(1), nil).Once()
	env = service.GetProductsByCategory("Lighting")
	assert.True(t, env.Success)

	mockRepo.On("Query", mock.MatchedBy(func(plan models.QueryPlan) bool {
		return len(plan.Conditions) == 2 && plan.Conditions[1].Fields[0] == models.ColBrand
	})).Return([]models.Product{}, int64(0), nil).Once()
	env = service.GetProductsByBrand("Lumen")
	assert.True(t, env.Success)

	mockRepo.AssertExpectations(t)
}

func TestCountProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo)

	mockRepo.On("CountActive").Return(int64(4), nil).Once()

	env := service.CountProducts()

	assert.True(t, env.Success)
	assert.Equal(t, int64(4), env.Data)
	mockRepo.AssertExpectations(t)
}

func TestPublisherFailureDoesNotFailRequest(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub, false)

	mockRepo.On("Create", mock.Anything).Return(nil).Once()
	mockPub.On("PublishProductEvent", services.EventProductCreated, mock.Anything).
		Return(fmt.Errorf("broker gone")).Once()

	env := service.CreateProduct(models.ProductRequest{Name: "Lamp", Price: 10})

	assert.True(t, env.Success)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}
