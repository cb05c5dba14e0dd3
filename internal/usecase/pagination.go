// Package usecase declares the application services exposed to the delivery layer.
package usecase

// PageRequest is a 1-based page of a listing.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows skipped before the page.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}

	return (p.Page - 1) * p.PageSize
}

// Normalize clamps the request into [1, maxSize], using defaultSize when unset.
func (p PageRequest) Normalize(defaultSize, maxSize int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}

	return p
}

// Page is one page of a listing together with the total row count.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
