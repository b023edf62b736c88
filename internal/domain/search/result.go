package search

import (
	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
)

// Page is one page of hotels plus the pagination metadata the presentation
// layer renders, regardless of which strategy produced it.
type Page struct {
	Items       []hotel.Hotel `json:"items"`
	CurrentPage int           `json:"current_page"`
	LastPage    int           `json:"last_page"`
	Total       int64         `json:"total"`
	PerPage     int           `json:"per_page"`
	From        int           `json:"from"`
	To          int           `json:"to"`
}

// NewPage computes last_page and the 1-based from/to item indexes. From and To
// are zero for an empty page.
func NewPage(items []hotel.Hotel, total int64, page, perPage int) Page {
	p := Page{
		Items:       items,
		CurrentPage: page,
		LastPage:    1,
		Total:       total,
		PerPage:     perPage,
	}
	if perPage > 0 {
		p.LastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	if p.LastPage < 1 {
		p.LastPage = 1
	}
	if len(items) > 0 {
		p.From = (page-1)*perPage + 1
		p.To = p.From + len(items) - 1
	}
	return p
}

func EmptyPage(page, perPage int) Page {
	return NewPage(nil, 0, page, perPage)
}

type Method string

const (
	MethodSearchEngine     Method = "search_engine"
	MethodDatabase         Method = "database"
	MethodDatabaseFallback Method = "database_fallback"
	MethodNone             Method = "none"
)

// Result is the uniform envelope returned for every search invocation.
// Success=false implies Error is set and the page is empty; IsFallback=true
// implies Method=MethodDatabaseFallback.
type Result struct {
	Page       Page
	Criteria   Criteria
	Method     Method
	Success    bool
	IsFallback bool
	Error      string
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

type Metadata struct {
	SearchMethod Method `json:"search_method"`
	IsFallback   bool   `json:"is_fallback"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	HasResults   bool   `json:"has_results"`
}

func (r *Result) Pagination() Pagination {
	return Pagination{
		CurrentPage: r.Page.CurrentPage,
		LastPage:    r.Page.LastPage,
		Total:       r.Page.Total,
		PerPage:     r.Page.PerPage,
		From:        r.Page.From,
		To:          r.Page.To,
	}
}

func (r *Result) Metadata() Metadata {
	return Metadata{
		SearchMethod: r.Method,
		IsFallback:   r.IsFallback,
		Success:      r.Success,
		Error:        r.Error,
		HasResults:   r.Page.Total > 0,
	}
}
