package services

import (
	"net/url"
	"strconv"
)

// ListParams carries the pagination and filter query parameters shared by
// the list endpoints. Zero values are omitted from the query string; the
// server applies its own defaults.
type ListParams struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// Values encodes the parameters as a URL query.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}
