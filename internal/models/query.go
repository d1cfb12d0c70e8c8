package models

import "strings"

// Pagination bounds. Out-of-range values clamp to the defaults rather
// than being rejected.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// Op is a filter operator understood by the repository implementations.
type Op string

const (
	OpEquals   Op = "eq"       // exact match
	OpContains Op = "contains" // case-insensitive substring
	OpGTE      Op = "gte"      // inclusive lower bound
	OpLTE      Op = "lte"      // inclusive upper bound
)

// Condition is one backend-agnostic predicate. When several Fields are
// given the condition holds if any of them matches (used by the
// free-text search, which spans name, description and brand).
type Condition struct {
	Fields []string
	Op     Op
	Value  interface{}
}

// QueryPlan is a fully resolved, safely bounded read: conditions are
// ANDed, the sort field is already an allow-listed column name, and a
// Limit of 0 means the result is not windowed.
type QueryPlan struct {
	Conditions []Condition
	SortField  string
	SortDesc   bool
	Offset     int
	Limit      int
	PageNumber int
	PageSize   int
}

// ProductQuery carries the untrusted query parameters of a filtered
// listing request.
type ProductQuery struct {
	PageNumber int
	PageSize   int
	SearchTerm string
	Category   string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string
	SortDir    string
	IsActive   *bool
}

// Column names the composed conditions and sorts refer to.
const (
	ColName          = "name"
	ColDescription   = "description"
	ColPrice         = "price"
	ColStockQuantity = "stock_quantity"
	ColCategory      = "category"
	ColBrand         = "brand"
	ColIsActive      = "is_active"
	ColCreatedAt     = "created_at"
)

// sortColumns is the allow-list of sortable fields. Keys are lowercased
// with separators stripped, so "stockQuantity", "stock-quantity" and
// "STOCK_QUANTITY" all resolve to the same column.
var sortColumns = map[string]string{
	"name":          ColName,
	"price":         ColPrice,
	"stockquantity": ColStockQuantity,
	"category":      ColCategory,
	"brand":         ColBrand,
	"createdat":     ColCreatedAt,
}

// SortColumn resolves a requested sort field against the allow-list.
// Unrecognized or absent fields fall back to name.
func SortColumn(field string) string {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(field)))
	if col, ok := sortColumns[key]; ok {
		return col
	}
	return ColName
}

// Plan composes the query plan: clamps the page window, resolves the
// sort, and collects the supplied filters into conditions.
func (q ProductQuery) Plan() QueryPlan {
	page := q.PageNumber
	if page < 1 {
		page = DefaultPageNumber
	}
	size := q.PageSize
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}

	plan := QueryPlan{
		Conditions: q.Conditions(),
		SortField:  SortColumn(q.SortBy),
		SortDesc:   strings.EqualFold(strings.TrimSpace(q.SortDir), "desc"),
		Offset:     (page - 1) * size,
		Limit:      size,
		PageNumber: page,
		PageSize:   size,
	}
	return plan
}

// Conditions returns the ANDed filter conditions for the supplied
// parameters. Each filter is independently optional; blank text
// filters are treated as absent.
func (q ProductQuery) Conditions() []Condition {
	var conds []Condition
	if q.IsActive != nil {
		conds = append(conds, Condition{Fields: []string{ColIsActive}, Op: OpEquals, Value: *q.IsActive})
	}
	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		conds = append(conds, Condition{
			Fields: []string{ColName, ColDescription, ColBrand},
			Op:     OpContains,
			Value:  term,
		})
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		conds = append(conds, Condition{Fields: []string{ColCategory}, Op: OpContains, Value: cat})
	}
	if brand := strings.TrimSpace(q.Brand); brand != "" {
		conds = append(conds, Condition{Fields: []string{ColBrand}, Op: OpContains, Value: brand})
	}
	if q.MinPrice != nil {
		conds = append(conds, Condition{Fields: []string{ColPrice}, Op: OpGTE, Value: *q.MinPrice})
	}
	if q.MaxPrice != nil {
		conds = append(conds, Condition{Fields: []string{ColPrice}, Op: OpLTE, Value: *q.MaxPrice})
	}
	return conds
}
