package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/hotel-booking/hotel-booking-system/internal/application/usecase"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
)

type searchExecutor interface {
	Execute(ctx context.Context, criteria search.Criteria) *search.Result
}

type hotelGetter interface {
	Execute(ctx context.Context, id int64) (*hotel.Hotel, error)
}

type hotelLister interface {
	Execute(ctx context.Context, page int) (search.Page, error)
}

type syncTrigger interface {
	Execute(ctx context.Context, options usecase.SyncOptions) (*usecase.SyncResult, error)
}

type HotelHandler struct {
	searchHotels searchExecutor
	getHotel     hotelGetter
	listHotels   hotelLister
	syncHotels   syncTrigger
	logger       *slog.Logger
}

func NewHotelHandler(
	searchHotels searchExecutor,
	getHotel hotelGetter,
	listHotels hotelLister,
	syncHotels syncTrigger,
	logger *slog.Logger,
) *HotelHandler {
	return &HotelHandler{
		searchHotels: searchHotels,
		getHotel:     getHotel,
		listHotels:   listHotels,
		syncHotels:   syncHotels,
		logger:       logger,
	}
}

type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Meta    interface{}       `json:"meta,omitempty"`
}

// HotelResource is the presentation view-model. price_range and rooms are
// only present when the rooms relation was loaded (detail views).
type HotelResource struct {
	ID                  int64             `json:"id"`
	Name                string            `json:"name"`
	Address             string            `json:"address"`
	City                string            `json:"city"`
	Country             string            `json:"country"`
	Stars               int               `json:"stars"`
	Description         string            `json:"description"`
	Location            string            `json:"location"`
	AvailableRoomsCount int               `json:"available_rooms_count"`
	PriceRange          *hotel.PriceRange `json:"price_range,omitempty"`
	Rooms               []RoomResource    `json:"rooms,omitempty"`
}

type RoomResource struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	Capacity    int     `json:"capacity"`
	IsAvailable bool    `json:"is_available"`
}

func toHotelResource(h *hotel.Hotel) HotelResource {
	resource := HotelResource{
		ID:                  h.ID,
		Name:                h.Name,
		Address:             h.Address,
		City:                h.City,
		Country:             h.Country,
		Stars:               h.Stars,
		Description:         h.Description,
		Location:            h.Location(),
		AvailableRoomsCount: h.AvailableRoomsCount,
		PriceRange:          h.PriceRange(),
	}
	for _, room := range h.Rooms {
		resource.Rooms = append(resource.Rooms, RoomResource{
			ID:          room.ID,
			Name:        room.Name,
			Description: room.Description,
			Price:       room.Price,
			Type:        room.Type,
			Capacity:    room.Capacity,
			IsAvailable: room.IsAvailable,
		})
	}
	return resource
}

func toHotelResources(hotels []hotel.Hotel) []HotelResource {
	resources := make([]HotelResource, len(hotels))
	for i := range hotels {
		resources[i] = toHotelResource(&hotels[i])
	}
	return resources
}

// SearchHotels searches hotels by text, location, stars and price range
// @Summary Search hotels
// @Description Search hotels with full-text, location, star and price filters; falls back to the database when the engine is unavailable
// @Tags search
// @Accept json
// @Produce json
// @Param query query string false "Free-text search over name, description and address"
// @Param city query string false "City substring or fuzzy match"
// @Param country query string false "Country substring or fuzzy match"
// @Param stars query integer false "Minimum star rating (1-5)"
// @Param min_price query number false "Minimum room price"
// @Param max_price query number false "Maximum room price, must exceed min_price"
// @Param sort_by query string false "Sort order (relevance, price_asc, price_desc, stars, name)"
// @Param per_page query integer false "Results per page (1-50, default 15)"
// @Param page query integer false "Page number (default 1)"
// @Success 200 {object} APIResponse "Search results with pagination and search metadata"
// @Failure 422 {object} APIResponse "Validation error with per-field messages"
// @Router /api/v1/search/hotels [get]
func (h *HotelHandler) SearchHotels(w http.ResponseWriter, r *http.Request) {
	criteria, err := search.CriteriaFromValues(r.URL.Query())
	if err != nil {
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			h.writeValidationError(w, verr)
			return
		}
		h.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.searchHotels.Execute(r.Context(), criteria)

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: result.Success,
		Data:    toHotelResources(result.Page.Items),
		Error:   result.Error,
		Meta: map[string]interface{}{
			"filters":    result.Criteria,
			"pagination": result.Pagination(),
			"search":     result.Metadata(),
		},
	})
}

// GetHotelByID returns one hotel with its available rooms
// @Summary Get hotel by ID
// @Description Get a hotel with its available rooms, rooms count and price range
// @Tags hotels
// @Accept json
// @Produce json
// @Param id path integer true "Hotel ID"
// @Success 200 {object} APIResponse "Hotel details"
// @Failure 400 {object} APIResponse "Invalid hotel ID"
// @Failure 404 {object} APIResponse "Hotel not found"
// @Router /api/v1/hotels/{id} [get]
func (h *HotelHandler) GetHotelByID(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.writeErrorResponse(w, "hotel ID must be an integer", http.StatusBadRequest)
		return
	}

	found, err := h.getHotel.Execute(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get hotel", "hotel_id", id, "error", err)
		h.writeErrorResponse(w, "failed to load hotel", http.StatusInternalServerError)
		return
	}
	if found == nil {
		h.writeErrorResponse(w, "hotel not found", http.StatusNotFound)
		return
	}

	resource := toHotelResource(found)
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resource})
}

// ListHotels returns the newest hotels
// @Summary List hotels
// @Description List hotels newest first with available-rooms counts
// @Tags hotels
// @Accept json
// @Produce json
// @Param page query integer false "Page number (default 1)"
// @Success 200 {object} APIResponse "Hotel listing with pagination"
// @Router /api/v1/hotels [get]
func (h *HotelHandler) ListHotels(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	listing, err := h.listHotels.Execute(r.Context(), page)
	if err != nil {
		h.writeErrorResponse(w, "failed to list hotels", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    toHotelResources(listing.Items),
		Meta: map[string]interface{}{
			"pagination": search.Pagination{
				CurrentPage: listing.CurrentPage,
				LastPage:    listing.LastPage,
				Total:       listing.Total,
				PerPage:     listing.PerPage,
				From:        listing.From,
				To:          listing.To,
			},
		},
	})
}

type syncRequest struct {
	FullSync  bool   `json:"full_sync"`
	Since     string `json:"since"`
	BatchSize int    `json:"batch_size"`
}

// TriggerSync re-indexes hotels into the search engine
// @Summary Trigger index sync
// @Description Push hotel documents into the search index, fully or incrementally
// @Tags admin
// @Accept json
// @Produce json
// @Param request body syncRequest false "Sync options"
// @Success 200 {object} APIResponse "Sync statistics"
// @Failure 500 {object} APIResponse "Sync failed"
// @Router /api/v1/admin/sync [post]
func (h *HotelHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var request syncRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&request)
	}

	options := usecase.SyncOptions{
		FullSync:  request.FullSync,
		BatchSize: request.BatchSize,
	}
	if request.Since != "" {
		since, err := time.Parse(time.RFC3339, request.Since)
		if err != nil {
			h.writeErrorResponse(w, "since must be an RFC3339 timestamp", http.StatusBadRequest)
			return
		}
		options.Since = since
	}

	result, err := h.syncHotels.Execute(r.Context(), options)
	if err != nil {
		h.logger.Error("Index sync failed", "error", err)
		h.writeErrorResponse(w, "index sync failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total_hotels":   result.TotalHotels,
			"indexed_hotels": result.IndexedHotels,
			"duration":       result.Duration.String(),
		},
	})
}

// HealthCheck reports service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health [get]
func (h *HotelHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *HotelHandler) writeValidationError(w http.ResponseWriter, verr *search.ValidationError) {
	h.writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
		Success: false,
		Error:   "invalid search criteria",
		Errors:  verr.Fields,
	})
}

func (h *HotelHandler) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, APIResponse{Success: false, Error: message})
}

func (h *HotelHandler) writeJSON(w http.ResponseWriter, statusCode int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
