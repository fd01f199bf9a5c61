// Package pagination translates page/limit request values into limit/offset
// windows and builds the listing envelope shared by every paginated endpoint.
package pagination

const (
	// DefaultLimit is used by listings when the client sends no usable limit.
	DefaultLimit = 20
	// DefaultSearchLimit is the default for content and user search.
	DefaultSearchLimit = 10
	// MaxLimit caps any client-supplied limit.
	MaxLimit = 100
)

// Params is a normalized page window.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// New clamps page and limit and derives the offset.
// page < 1 becomes 1, limit < 1 becomes defaultLimit and limit > MaxLimit becomes MaxLimit.
func New(page, limit, defaultLimit int) Params {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// HasMore infers that another page may exist because this one came back full.
// A full last page yields true and the next request returns an empty page.
func HasMore(returned, limit int) bool {
	return limit > 0 && returned == limit
}

// Meta is the pagination block of a listing response.
type Meta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// Page is the listing envelope {items, pagination}.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// NewPage wraps items returned for params.
func NewPage[T any](items []T, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Pagination: Meta{
			Page:    p.Page,
			Limit:   p.Limit,
			HasMore: HasMore(len(items), p.Limit),
		},
	}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
