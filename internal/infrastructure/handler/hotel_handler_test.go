package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hotel-booking/hotel-booking-system/internal/application/usecase"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	result      *search.Result
	sawCriteria search.Criteria
}

func (f *fakeSearch) Execute(_ context.Context, criteria search.Criteria) *search.Result {
	f.sawCriteria = criteria
	return f.result
}

type fakeGetter struct {
	hotel *hotel.Hotel
	err   error
}

func (f *fakeGetter) Execute(_ context.Context, _ int64) (*hotel.Hotel, error) {
	return f.hotel, f.err
}

type fakeLister struct {
	page search.Page
	err  error
}

func (f *fakeLister) Execute(_ context.Context, _ int) (search.Page, error) {
	return f.page, f.err
}

type fakeSyncer struct {
	result     *usecase.SyncResult
	err        error
	sawOptions usecase.SyncOptions
}

func (f *fakeSyncer) Execute(_ context.Context, options usecase.SyncOptions) (*usecase.SyncResult, error) {
	f.sawOptions = options
	return f.result, f.err
}

func newTestHandler(searcher searchExecutor, getter hotelGetter, lister hotelLister, syncer syncTrigger) *HotelHandler {
	return NewHotelHandler(searcher, getter, lister, syncer, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newRouter(h *HotelHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/hotels", h.ListHotels).Methods("GET")
	router.HandleFunc("/api/v1/hotels/{id}", h.GetHotelByID).Methods("GET")
	router.HandleFunc("/api/v1/search/hotels", h.SearchHotels).Methods("GET")
	router.HandleFunc("/api/v1/admin/sync", h.TriggerSync).Methods("POST")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	return router
}

func doRequest(router *mux.Router, method, target string, body io.Reader) (*httptest.ResponseRecorder, APIResponse) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, body))

	var response APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &response)
	return rec, response
}

func TestSearchHotels_Success(t *testing.T) {
	items := []hotel.Hotel{{ID: 1, Name: "Grand Plaza", City: "Lisbon", Country: "Portugal"}}
	searcher := &fakeSearch{result: &search.Result{
		Page:     search.NewPage(items, 1, 1, 15),
		Criteria: search.Criteria{Query: "plaza", SortBy: search.SortRelevance, PerPage: 15, Page: 1},
		Method:   search.MethodSearchEngine,
		Success:  true,
	}}

	router := newRouter(newTestHandler(searcher, nil, nil, nil))
	rec, response := doRequest(router, http.MethodGet, "/api/v1/search/hotels?query=plaza", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, response.Success)
	assert.Equal(t, "plaza", searcher.sawCriteria.Query)

	meta := response.Meta.(map[string]interface{})
	searchMeta := meta["search"].(map[string]interface{})
	assert.Equal(t, "search_engine", searchMeta["search_method"])
	assert.Equal(t, true, searchMeta["has_results"])

	pagination := meta["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
}

func TestSearchHotels_ValidationErrorReturns422FieldMap(t *testing.T) {
	router := newRouter(newTestHandler(&fakeSearch{}, nil, nil, nil))

	rec, response := doRequest(router, http.MethodGet,
		"/api/v1/search/hotels?stars=9&min_price=100&max_price=50", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, response.Success)
	assert.Equal(t, "invalid search criteria", response.Error)
	assert.Equal(t, "stars must be between 1 and 5", response.Errors["stars"])
	assert.Equal(t, "max_price must be greater than min_price", response.Errors["max_price"])
}

func TestSearchHotels_DegradedStillReturns200(t *testing.T) {
	searcher := &fakeSearch{result: &search.Result{
		Page:    search.EmptyPage(1, 15),
		Method:  search.MethodNone,
		Success: false,
		Error:   "search service is currently unavailable",
	}}

	router := newRouter(newTestHandler(searcher, nil, nil, nil))
	rec, response := doRequest(router, http.MethodGet, "/api/v1/search/hotels?query=beach", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, response.Success)
	assert.Equal(t, "search service is currently unavailable", response.Error)

	meta := response.Meta.(map[string]interface{})
	searchMeta := meta["search"].(map[string]interface{})
	assert.Equal(t, "none", searchMeta["search_method"])
}

func TestGetHotelByID_Found(t *testing.T) {
	getter := &fakeGetter{hotel: &hotel.Hotel{
		ID:                  7,
		Name:                "Grand Plaza",
		City:                "Lisbon",
		Country:             "Portugal",
		AvailableRoomsCount: 3,
		Rooms:               []hotel.Room{{ID: 1, Price: 80, IsAvailable: true}},
	}}

	router := newRouter(newTestHandler(nil, getter, nil, nil))
	rec, response := doRequest(router, http.MethodGet, "/api/v1/hotels/7", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, response.Success)

	data := response.Data.(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, "Lisbon, Portugal", data["location"])
	assert.Equal(t, float64(3), data["available_rooms_count"])
	require.Contains(t, data, "price_range")
	require.Contains(t, data, "rooms")
}

func TestGetHotelByID_NotFound(t *testing.T) {
	router := newRouter(newTestHandler(nil, &fakeGetter{}, nil, nil))

	rec, response := doRequest(router, http.MethodGet, "/api/v1/hotels/99", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "hotel not found", response.Error)
}

func TestGetHotelByID_InvalidID(t *testing.T) {
	router := newRouter(newTestHandler(nil, &fakeGetter{}, nil, nil))

	rec, _ := doRequest(router, http.MethodGet, "/api/v1/hotels/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHotelByID_StoreError(t *testing.T) {
	router := newRouter(newTestHandler(nil, &fakeGetter{err: errors.New("boom")}, nil, nil))

	rec, _ := doRequest(router, http.MethodGet, "/api/v1/hotels/7", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListHotels(t *testing.T) {
	lister := &fakeLister{page: search.NewPage([]hotel.Hotel{{ID: 1}, {ID: 2}}, 12, 1, 10)}

	router := newRouter(newTestHandler(nil, nil, lister, nil))
	rec, response := doRequest(router, http.MethodGet, "/api/v1/hotels", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, response.Success)

	meta := response.Meta.(map[string]interface{})
	pagination := meta["pagination"].(map[string]interface{})
	assert.Equal(t, float64(12), pagination["total"])
	assert.Equal(t, float64(2), pagination["last_page"])
}

func TestTriggerSync(t *testing.T) {
	syncer := &fakeSyncer{result: &usecase.SyncResult{TotalHotels: 40, IndexedHotels: 40}}

	router := newRouter(newTestHandler(nil, nil, nil, syncer))
	rec, response := doRequest(router, http.MethodPost, "/api/v1/admin/sync",
		bytes.NewBufferString(`{"full_sync": true, "batch_size": 20}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, response.Success)
	assert.True(t, syncer.sawOptions.FullSync)
	assert.Equal(t, 20, syncer.sawOptions.BatchSize)

	data := response.Data.(map[string]interface{})
	assert.Equal(t, float64(40), data["indexed_hotels"])
}

func TestTriggerSync_BadSince(t *testing.T) {
	router := newRouter(newTestHandler(nil, nil, nil, &fakeSyncer{}))

	rec, _ := doRequest(router, http.MethodPost, "/api/v1/admin/sync",
		bytes.NewBufferString(`{"since": "yesterday"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newRouter(newTestHandler(nil, nil, nil, nil))

	rec, response := doRequest(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, response.Success)
}
