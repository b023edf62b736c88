package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
)

// availableRoomsCacheTTL bounds how stale a detail view's room count may be.
// The search path never reads this cache; it aggregates counts per query.
const availableRoomsCacheTTL = 5 * time.Minute

type GetHotelByIDUseCase struct {
	store  hotel.Store
	cache  hotel.CacheRepository
	logger *slog.Logger
}

func NewGetHotelByIDUseCase(store hotel.Store, cache hotel.CacheRepository, logger *slog.Logger) *GetHotelByIDUseCase {
	return &GetHotelByIDUseCase{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Execute loads a hotel with its available rooms for the detail view.
// Returns nil when the hotel does not exist.
func (uc *GetHotelByIDUseCase) Execute(ctx context.Context, id int64) (*hotel.Hotel, error) {
	found, err := uc.store.FindWithAvailableRooms(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load hotel %d: %w", id, err)
	}
	if found == nil {
		return nil, nil
	}

	found.AvailableRoomsCount = uc.availableRoomsCount(ctx, id, len(found.Rooms))
	return found, nil
}

// availableRoomsCount serves the count through the short-lived cache,
// falling back to the freshly loaded value when both cache and store
// disagree with us.
func (uc *GetHotelByIDUseCase) availableRoomsCount(ctx context.Context, id int64, loaded int) int {
	cacheKey := fmt.Sprintf("hotel:%d:available_rooms", id)

	if cached, err := uc.cache.Get(ctx, cacheKey); err == nil {
		if count, err := strconv.Atoi(string(cached)); err == nil {
			return count
		}
		uc.logger.Warn("Discarding malformed cached rooms count", "hotel_id", id)
	}

	count, err := uc.store.CountAvailableRooms(ctx, id)
	if err != nil {
		uc.logger.Warn("Failed to count available rooms, using loaded rooms", "hotel_id", id, "error", err)
		return loaded
	}

	if err := uc.cache.Set(ctx, cacheKey, []byte(strconv.Itoa(count)), availableRoomsCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache rooms count", "hotel_id", id, "error", err)
	}
	return count
}
