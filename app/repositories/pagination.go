package repositories

// PageRef points at an adjacent page in a paginated listing.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes the adjacent pages of a listing. Next is present
// only when more rows exist past this page; Prev only past page one.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// NewPagination builds the descriptor for the given page, limit and total
// row count.
func NewPagination(page, limit int, total int64) Pagination {
	var p Pagination
	startIndex := (page - 1) * limit
	endIndex := page * limit
	if int64(endIndex) < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if startIndex > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// NormalizePage applies the default page and limit values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
