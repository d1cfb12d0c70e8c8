package models

import "time"

// State is the lifecycle state of a product. Soft deletion moves a
// product from StateActive to StateInactive; rows are never removed.
type State string

const (
	StateActive   State = "active"
	StateInactive State = "inactive"
)

// Product represents a catalog product as stored.
type Product struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	Name          string     `gorm:"size:200;not null"`
	Description   *string    `gorm:"size:1000"`
	Price         float64    `gorm:"not null"`
	StockQuantity int        `gorm:"not null"`
	Category      *string    `gorm:"size:100"`
	Brand         *string    `gorm:"size:50"`
	ImageURL      *string    `gorm:"size:500;column:image_url"`
	IsActive      bool       `gorm:"not null;default:true"`
	CreatedAt     time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false"`
}

// State reports the lifecycle state derived from the stored flag.
func (p *Product) State() State {
	if p.IsActive {
		return StateActive
	}
	return StateInactive
}

// SetState transitions the product to the given lifecycle state.
func (p *Product) SetState(s State) {
	p.IsActive = s == StateActive
}

// ProductRequest is the wire payload for create and update requests.
// Updates are a full replace: every mutable field must be supplied.
type ProductRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=1000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	Category      *string `json:"category" validate:"omitempty,max=100"`
	Brand         *string `json:"brand" validate:"omitempty,max=50"`
	ImageURL      *string `json:"imageUrl" validate:"omitempty,url,max=500"`
	IsActive      *bool   `json:"isActive"`
}

// ProductResponse is the wire representation of a product.
type ProductResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stockQuantity"`
	Category      *string    `json:"category"`
	Brand         *string    `json:"brand"`
	ImageURL      *string    `json:"imageUrl"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

// ProductPage is one window of a filtered listing, with the total
// match count computed before the window was applied.
type ProductPage struct {
	Items      []ProductResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
	PageNumber int               `json:"pageNumber"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
