package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
	"github.com/hotel-booking/hotel-booking-system/internal/infrastructure/entity"
	"gorm.io/gorm"
)

// availableRoomsCountSelect pulls the aggregate into the row select so listing
// pages never issue a count query per hotel.
const availableRoomsCountSelect = "hotels.*, " +
	"(SELECT COUNT(*) FROM rooms WHERE rooms.hotel_id = hotels.id AND rooms.is_available) AS rooms_count"

// PostgresHotelRepository is the relational side of the system: the database
// search strategy, the candidate-set join for the engine strategy, and the
// detail/listing/sync reads.
type PostgresHotelRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPostgresHotelRepository(db *gorm.DB, logger *slog.Logger) *PostgresHotelRepository {
	return &PostgresHotelRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresHotelRepository) Name() search.Method { return search.MethodDatabase }

type hotelRow struct {
	entity.HotelRecord
	RoomsCount int `gorm:"column:rooms_count"`
}

// Search translates the criteria into filters and ordering against the hotels
// table and returns one page. Empty results are a valid page, not an error.
func (r *PostgresHotelRepository) Search(ctx context.Context, criteria search.Criteria) (search.Page, error) {
	base := applyHotelFilters(r.db.WithContext(ctx).Model(&entity.HotelRecord{}), criteria)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.logger.Error("Failed to count hotels", "error", err)
		return search.Page{}, &search.QueryError{Op: "count hotels", Err: err}
	}

	var rows []hotelRow
	query := base.Session(&gorm.Session{}).Select(availableRoomsCountSelect)
	query = applySorting(query, criteria.SortBy)
	err := query.Offset(criteria.Offset()).Limit(criteria.PerPage).Scan(&rows).Error
	if err != nil {
		r.logger.Error("Failed to search hotels", "error", err)
		return search.Page{}, &search.QueryError{Op: "search hotels", Err: err}
	}

	hotels := make([]hotel.Hotel, len(rows))
	for i, row := range rows {
		hotels[i] = rowToDomain(row)
	}

	return search.NewPage(hotels, total, criteria.Page, criteria.PerPage), nil
}

// LoadCandidates joins a page of engine candidate ids back to full rows,
// applying the room price filter and the available-rooms aggregate. For
// relevance sorting the engine's hit order is preserved; every other sort
// reuses the relational ordering table.
func (r *PostgresHotelRepository) LoadCandidates(ctx context.Context, ids []int64, criteria search.Criteria) ([]hotel.Hotel, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Model(&entity.HotelRecord{}).
		Where("hotels.id IN ?", ids).
		Select(availableRoomsCountSelect)
	query = applyRoomPriceFilter(query, criteria)
	if criteria.SortBy != search.SortRelevance {
		query = applySorting(query, criteria.SortBy)
	}

	var rows []hotelRow
	if err := query.Scan(&rows).Error; err != nil {
		r.logger.Error("Failed to load candidate hotels", "count", len(ids), "error", err)
		return nil, &search.QueryError{Op: "load candidates", Err: err}
	}

	hotels := make([]hotel.Hotel, len(rows))
	for i, row := range rows {
		hotels[i] = rowToDomain(row)
	}

	if criteria.SortBy == search.SortRelevance {
		hotels = reorderByIDs(hotels, ids)
	}
	return hotels, nil
}

// FindWithAvailableRooms loads a hotel with its available rooms for the
// detail view. Returns nil without error when the hotel does not exist.
func (r *PostgresHotelRepository) FindWithAvailableRooms(ctx context.Context, id int64) (*hotel.Hotel, error) {
	var record entity.HotelRecord
	err := r.db.WithContext(ctx).
		Preload("Rooms", "is_available = ?", true).
		First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to find hotel", "hotel_id", id, "error", err)
		return nil, fmt.Errorf("failed to find hotel %d: %w", id, err)
	}

	h := recordToDomain(record)
	h.AvailableRoomsCount = len(h.Rooms)
	return &h, nil
}

func (r *PostgresHotelRepository) CountAvailableRooms(ctx context.Context, id int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.RoomRecord{}).
		Where("hotel_id = ? AND is_available", id).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Failed to count available rooms", "hotel_id", id, "error", err)
		return 0, fmt.Errorf("failed to count available rooms for hotel %d: %w", id, err)
	}
	return int(count), nil
}

// ListNewest returns the listing page: newest hotels first with their
// available-rooms counts.
func (r *PostgresHotelRepository) ListNewest(ctx context.Context, page, perPage int) ([]hotel.Hotel, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.HotelRecord{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count hotels: %w", err)
	}

	var rows []hotelRow
	err := r.db.WithContext(ctx).
		Model(&entity.HotelRecord{}).
		Select(availableRoomsCountSelect).
		Order("hotels.created_at DESC, hotels.id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("Failed to list hotels", "error", err)
		return nil, 0, fmt.Errorf("failed to list hotels: %w", err)
	}

	hotels := make([]hotel.Hotel, len(rows))
	for i, row := range rows {
		hotels[i] = rowToDomain(row)
	}
	return hotels, total, nil
}

// FindAllForIndexing loads a batch of hotels with all their rooms so document
// builders can derive price_min/price_max/available_rooms.
func (r *PostgresHotelRepository) FindAllForIndexing(ctx context.Context, batchSize, offset int) ([]hotel.Hotel, error) {
	return r.findForIndexing(r.db.WithContext(ctx), batchSize, offset)
}

func (r *PostgresHotelRepository) FindUpdatedAfter(ctx context.Context, since time.Time, batchSize, offset int) ([]hotel.Hotel, error) {
	query := r.db.WithContext(ctx).Where("hotels.updated_at > ?", since)
	return r.findForIndexing(query, batchSize, offset)
}

func (r *PostgresHotelRepository) findForIndexing(query *gorm.DB, batchSize, offset int) ([]hotel.Hotel, error) {
	var records []entity.HotelRecord
	err := query.
		Preload("Rooms").
		Order("hotels.id ASC").
		Offset(offset).
		Limit(batchSize).
		Find(&records).Error
	if err != nil {
		r.logger.Error("Failed to load hotels for indexing", "error", err)
		return nil, fmt.Errorf("failed to load hotels for indexing: %w", err)
	}

	hotels := make([]hotel.Hotel, len(records))
	for i, record := range records {
		h := recordToDomain(record)
		for _, room := range h.Rooms {
			if room.IsAvailable {
				h.AvailableRoomsCount++
			}
		}
		hotels[i] = h
	}
	return hotels, nil
}

func applyHotelFilters(query *gorm.DB, criteria search.Criteria) *gorm.DB {
	if criteria.Query != "" {
		pattern := likePattern(criteria.Query)
		query = query.Where(
			"(hotels.name ILIKE ? OR hotels.description ILIKE ? OR hotels.address ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if criteria.City != "" {
		query = query.Where("hotels.city ILIKE ?", likePattern(criteria.City))
	}
	if criteria.Country != "" {
		query = query.Where("hotels.country ILIKE ?", likePattern(criteria.Country))
	}
	if criteria.MinStars > 0 {
		query = query.Where("hotels.stars >= ?", criteria.MinStars)
	}
	return applyRoomPriceFilter(query, criteria)
}

// applyRoomPriceFilter keeps hotels with at least one room inside the given
// bounds. The predicate is existential on rooms, not a hotel-level field.
func applyRoomPriceFilter(query *gorm.DB, criteria search.Criteria) *gorm.DB {
	switch {
	case criteria.MinPrice > 0 && criteria.MaxPrice > 0:
		return query.Where(
			"EXISTS (SELECT 1 FROM rooms WHERE rooms.hotel_id = hotels.id AND rooms.price >= ? AND rooms.price <= ?)",
			criteria.MinPrice, criteria.MaxPrice,
		)
	case criteria.MinPrice > 0:
		return query.Where(
			"EXISTS (SELECT 1 FROM rooms WHERE rooms.hotel_id = hotels.id AND rooms.price >= ?)",
			criteria.MinPrice,
		)
	case criteria.MaxPrice > 0:
		return query.Where(
			"EXISTS (SELECT 1 FROM rooms WHERE rooms.hotel_id = hotels.id AND rooms.price <= ?)",
			criteria.MaxPrice,
		)
	}
	return query
}

// applySorting appends hotels.id as a tie-break so identical invocations page
// identically. Price orders group over a left join, keeping room-less hotels
// in the result after all priced ones.
func applySorting(query *gorm.DB, sortBy search.SortBy) *gorm.DB {
	switch sortBy {
	case search.SortPriceAsc:
		return query.
			Joins("LEFT JOIN rooms ON rooms.hotel_id = hotels.id").
			Group("hotels.id").
			Order("MIN(rooms.price) ASC NULLS LAST").
			Order("hotels.id ASC")
	case search.SortPriceDesc:
		return query.
			Joins("LEFT JOIN rooms ON rooms.hotel_id = hotels.id").
			Group("hotels.id").
			Order("MIN(rooms.price) DESC NULLS LAST").
			Order("hotels.id ASC")
	case search.SortStars:
		return query.Order("hotels.stars DESC, hotels.id ASC")
	case search.SortName:
		return query.Order("hotels.name ASC, hotels.id ASC")
	default:
		// No relevance score in this backend; newest first stands in.
		return query.Order("hotels.created_at DESC, hotels.id ASC")
	}
}

// likePattern wraps a term for unanchored matching, escaping LIKE wildcards
// in user input.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}

// reorderByIDs restores the candidate order the engine returned. Hotels
// filtered out of the join are simply absent.
func reorderByIDs(hotels []hotel.Hotel, ids []int64) []hotel.Hotel {
	byID := make(map[int64]hotel.Hotel, len(hotels))
	for _, h := range hotels {
		byID[h.ID] = h
	}

	ordered := make([]hotel.Hotel, 0, len(hotels))
	for _, id := range ids {
		if h, ok := byID[id]; ok {
			ordered = append(ordered, h)
		}
	}
	return ordered
}

func rowToDomain(row hotelRow) hotel.Hotel {
	h := recordToDomain(row.HotelRecord)
	h.AvailableRoomsCount = row.RoomsCount
	return h
}

func recordToDomain(record entity.HotelRecord) hotel.Hotel {
	h := hotel.Hotel{
		ID:          record.ID,
		Name:        record.Name,
		Address:     record.Address,
		City:        record.City,
		Country:     record.Country,
		Stars:       record.Stars,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	for _, room := range record.Rooms {
		h.Rooms = append(h.Rooms, hotel.Room{
			ID:          room.ID,
			HotelID:     room.HotelID,
			Name:        room.Name,
			Description: room.Description,
			Price:       room.Price,
			Type:        room.Type,
			IsAvailable: room.IsAvailable,
			Capacity:    room.Capacity,
			CreatedAt:   room.CreatedAt,
			UpdatedAt:   room.UpdatedAt,
		})
	}
	return h
}
