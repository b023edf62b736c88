package usecase

import (
	"context"
	"log/slog"

	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
)

const listingPerPage = 10

// ListHotelsUseCase serves the plain hotel listing: newest first with
// available-rooms counts, no search criteria involved.
type ListHotelsUseCase struct {
	store  hotel.Store
	logger *slog.Logger
}

func NewListHotelsUseCase(store hotel.Store, logger *slog.Logger) *ListHotelsUseCase {
	return &ListHotelsUseCase{
		store:  store,
		logger: logger,
	}
}

func (uc *ListHotelsUseCase) Execute(ctx context.Context, page int) (search.Page, error) {
	if page < 1 {
		page = 1
	}

	hotels, total, err := uc.store.ListNewest(ctx, page, listingPerPage)
	if err != nil {
		uc.logger.Error("Failed to list hotels", "page", page, "error", err)
		return search.Page{}, err
	}

	return search.NewPage(hotels, total, page, listingPerPage), nil
}
