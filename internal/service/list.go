package service

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPageLimit is the page size the admin list screens request.
	DefaultPageLimit = 10
	// MaxPageLimit caps the page size to keep responses bounded.
	MaxPageLimit = 100
)

// ListParams holds page-based navigation for the admin list endpoints.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// sanitize clamps invalid or excessive values to the defaults.
func (p ListParams) sanitize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		p.Limit = DefaultPageLimit
	}
	return p
}

// query renders the params as a URL query string, omitting an empty search.
func (p ListParams) query() string {
	p = p.sanitize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q.Encode()
}
