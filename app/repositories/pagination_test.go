package repositories_test

import (
	"testing"

	"github.com/fashionhub/storefront/app/repositories"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name  string
		page  int
		limit int
		total int64
		next  *repositories.PageRef
		prev  *repositories.PageRef
	}{
		{"first of many", 1, 10, 25, &repositories.PageRef{Page: 2, Limit: 10}, nil},
		{"middle", 2, 10, 25, &repositories.PageRef{Page: 3, Limit: 10}, &repositories.PageRef{Page: 1, Limit: 10}},
		{"last partial", 3, 10, 25, nil, &repositories.PageRef{Page: 2, Limit: 10}},
		{"exact fit has no next", 2, 10, 20, nil, &repositories.PageRef{Page: 1, Limit: 10}},
		{"single page", 1, 10, 7, nil, nil},
		{"empty listing", 1, 10, 0, nil, nil},
		{"page past the end keeps prev", 5, 10, 25, nil, &repositories.PageRef{Page: 4, Limit: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := repositories.NewPagination(tc.page, tc.limit, tc.total)
			assert.Equal(t, tc.next, p.Next)
			assert.Equal(t, tc.prev, p.Prev)
		})
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit := repositories.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = repositories.NormalizePage(-3, -1)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = repositories.NormalizePage(4, 25)
	assert.Equal(t, 4, page)
	assert.Equal(t, 25, limit)
}
