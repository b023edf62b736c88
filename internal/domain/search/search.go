package search

import (
	"context"
	"time"

	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
)

// Strategy is one of the two interchangeable query paths: the full-text
// engine or the relational database. Implementations build and execute the
// backend query and return a page of hotels carrying their available-rooms
// counts; they raise on failure and never fall back themselves.
type Strategy interface {
	Name() Method
	Search(ctx context.Context, criteria Criteria) (Page, error)
}

// Engine is the full-text index collaborator. Search selects candidates;
// document maintenance is used by the sync path.
type Engine interface {
	Strategy
	IndexHotels(ctx context.Context, hotels []hotel.Hotel) error
	DeleteHotel(ctx context.Context, id int64) error
	HealthCheck(ctx context.Context) error
}

// PerformedEvent is the fire-and-forget analytics notification emitted once
// per successful search.
type PerformedEvent struct {
	ID           string    `json:"id"`
	Criteria     Criteria  `json:"criteria"`
	ResultsCount int64     `json:"results_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishSearchPerformed(ctx context.Context, event PerformedEvent) error
}
