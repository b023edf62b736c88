package search

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortPriceAsc  SortBy = "price_asc"
	SortPriceDesc SortBy = "price_desc"
	SortStars     SortBy = "stars"
	SortName      SortBy = "name"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 50

	maxQueryLength    = 255
	maxLocationLength = 100
)

// Criteria is the normalized, validated set of search parameters. Build it
// with CriteriaFromValues; a zero Query/City/Country or zero numeric field
// means the filter is absent.
type Criteria struct {
	Query    string  `json:"query,omitempty"`
	City     string  `json:"city,omitempty"`
	Country  string  `json:"country,omitempty"`
	MinStars int     `json:"stars,omitempty"`
	MinPrice float64 `json:"min_price,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
	SortBy   SortBy  `json:"sort_by"`
	PerPage  int     `json:"per_page"`
	Page     int     `json:"page"`
}

// ValidationError enumerates per-field violations found while constructing
// Criteria. No backend is contacted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return "invalid search criteria: " + strings.Join(names, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// CriteriaFromValues builds Criteria from raw request values. It validates
// every field and reports all violations at once; on success absent optional
// fields stay zero and sort_by/per_page/page carry their defaults.
func CriteriaFromValues(values url.Values) (Criteria, error) {
	criteria := Criteria{
		SortBy:  SortRelevance,
		PerPage: DefaultPerPage,
		Page:    1,
	}
	verr := &ValidationError{}

	criteria.Query = strings.TrimSpace(values.Get("query"))
	if len(criteria.Query) > maxQueryLength {
		verr.add("query", fmt.Sprintf("query must not exceed %d characters", maxQueryLength))
	}

	criteria.City = strings.TrimSpace(values.Get("city"))
	if len(criteria.City) > maxLocationLength {
		verr.add("city", fmt.Sprintf("city must not exceed %d characters", maxLocationLength))
	}

	criteria.Country = strings.TrimSpace(values.Get("country"))
	if len(criteria.Country) > maxLocationLength {
		verr.add("country", fmt.Sprintf("country must not exceed %d characters", maxLocationLength))
	}

	if raw := values.Get("stars"); raw != "" {
		stars, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.add("stars", "stars must be an integer")
		case stars < 1 || stars > 5:
			verr.add("stars", "stars must be between 1 and 5")
		default:
			criteria.MinStars = stars
		}
	}

	if raw := values.Get("min_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			verr.add("min_price", "min_price must be a number")
		case price < 0:
			verr.add("min_price", "min_price must not be negative")
		default:
			criteria.MinPrice = price
		}
	}

	if raw := values.Get("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			verr.add("max_price", "max_price must be a number")
		case price < 0:
			verr.add("max_price", "max_price must not be negative")
		default:
			criteria.MaxPrice = price
		}
	}

	if criteria.MinPrice > 0 && criteria.MaxPrice > 0 && criteria.MaxPrice <= criteria.MinPrice {
		verr.add("max_price", "max_price must be greater than min_price")
	}

	if raw := values.Get("sort_by"); raw != "" {
		sortBy := SortBy(raw)
		switch sortBy {
		case SortRelevance, SortPriceAsc, SortPriceDesc, SortStars, SortName:
			criteria.SortBy = sortBy
		default:
			verr.add("sort_by", "sort_by must be one of: relevance, price_asc, price_desc, stars, name")
		}
	}

	if raw := values.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.add("per_page", "per_page must be an integer")
		case perPage < 1 || perPage > MaxPerPage:
			verr.add("per_page", fmt.Sprintf("per_page must be between 1 and %d", MaxPerPage))
		default:
			criteria.PerPage = perPage
		}
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.add("page", "page must be an integer")
		case page < 1:
			verr.add("page", "page must be at least 1")
		default:
			criteria.Page = page
		}
	}

	if len(verr.Fields) > 0 {
		return Criteria{}, verr
	}
	return criteria, nil
}

// HasFilters reports whether at least one optional filter field is set.
func (c Criteria) HasFilters() bool {
	return c.Query != "" || c.City != "" || c.Country != "" ||
		c.MinStars > 0 || c.MinPrice > 0 || c.MaxPrice > 0
}

func (c Criteria) HasPriceFilter() bool {
	return c.MinPrice > 0 || c.MaxPrice > 0
}

// Offset is the 0-based row offset for the current page.
func (c Criteria) Offset() int {
	return (c.Page - 1) * c.PerPage
}
