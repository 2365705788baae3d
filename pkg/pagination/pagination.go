package pagination

import (
	"net/http"
	"strconv"
)

// MaxPerPage caps the page size a client may request.
const MaxPerPage = 100

// MaxPage caps the page number so the offset always fits in an int.
const MaxPage = 100_000

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"size"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page with the given size.
func DefaultParams(perPage int) Params {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = 20
	}
	return Params{
		Page:    1,
		PerPage: perPage,
		Offset:  0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request. Pages are
// 1-based. The page size is read from "size", falling back to "per_page".
// Invalid values fall back to the defaults; pages past MaxPage are clamped.
func FromRequest(r *http.Request, defaultPerPage int) Params {
	p := DefaultParams(defaultPerPage)
	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = min(v, MaxPage)
		}
	}

	size := q.Get("size")
	if size == "" {
		size = q.Get("per_page")
	}
	if size != "" {
		if v, err := strconv.Atoi(size); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}
