package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
)

// CandidateLoader joins engine candidate ids back to full hotel rows,
// applying the room price filter and non-relevance ordering.
type CandidateLoader interface {
	LoadCandidates(ctx context.Context, ids []int64, criteria search.Criteria) ([]hotel.Hotel, error)
}

// ElasticsearchAdapter is the search-engine strategy: it builds the bool
// query for the index, pages through candidates, and loads the final rows
// through the relational store. It also maintains the index documents for
// the sync path.
type ElasticsearchAdapter struct {
	client     *elasticsearch.Client
	index      string
	candidates CandidateLoader
	logger     *slog.Logger
}

func NewElasticsearchAdapter(client *elasticsearch.Client, index string, candidates CandidateLoader, logger *slog.Logger) *ElasticsearchAdapter {
	return &ElasticsearchAdapter{
		client:     client,
		index:      index,
		candidates: candidates,
		logger:     logger,
	}
}

func (a *ElasticsearchAdapter) Name() search.Method { return search.MethodSearchEngine }

// hotelDocument is the indexed shape of a hotel. Price and room aggregates
// are present only when rooms were loaded at index time.
type hotelDocument struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	Country        string   `json:"country"`
	Stars          int      `json:"stars"`
	Description    string   `json:"description"`
	PriceMin       *float64 `json:"price_min,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	AvailableRooms *int     `json:"available_rooms,omitempty"`
	CreatedAt      int64    `json:"created_at"`
}

const indexMapping = `{
	"mappings": {
		"properties": {
			"id":              {"type": "long"},
			"name":            {"type": "text"},
			"address":         {"type": "text"},
			"city":            {"type": "text"},
			"country":         {"type": "text"},
			"stars":           {"type": "integer"},
			"description":     {"type": "text"},
			"price_min":       {"type": "float"},
			"price_max":       {"type": "float"},
			"available_rooms": {"type": "integer"},
			"created_at":      {"type": "date", "format": "epoch_second"}
		}
	}
}`

// EnsureIndex creates the hotel index when it does not exist yet.
func (a *ElasticsearchAdapter) EnsureIndex(ctx context.Context) error {
	res, err := a.client.Indices.Exists(
		[]string{a.index},
		a.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", a.index, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == 200 {
		return nil
	}

	createRes, err := a.client.Indices.Create(
		a.index,
		a.client.Indices.Create.WithContext(ctx),
		a.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", a.index, err)
	}
	defer func() { _ = createRes.Body.Close() }()
	if createRes.IsError() {
		return fmt.Errorf("failed to create index %s: %s", a.index, createRes.String())
	}

	a.logger.Info("Search index created", "index", a.index)
	return nil
}

// Search runs the bool query against the index and joins the candidate page
// back through the relational store. Any engine failure surfaces as a
// BackendError; falling back is the orchestrator's job, not this adapter's.
func (a *ElasticsearchAdapter) Search(ctx context.Context, criteria search.Criteria) (search.Page, error) {
	body := map[string]any{
		"query":   buildSearchBody(criteria),
		"from":    criteria.Offset(),
		"size":    criteria.PerPage,
		"_source": false,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return search.Page{}, &search.BackendError{Op: "build query", Err: err}
	}

	a.logger.Debug("Executing engine search",
		"index", a.index,
		"query_string", buildQueryString(criteria),
		"page", criteria.Page)

	res, err := a.client.Search(
		a.client.Search.WithContext(ctx),
		a.client.Search.WithIndex(a.index),
		a.client.Search.WithBody(bytes.NewReader(payload)),
		a.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		a.logger.Error("Engine search failed", "error", err)
		return search.Page{}, &search.BackendError{Op: "search", Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		a.logger.Error("Engine search returned error", "status", res.Status(), "body", string(raw))
		return search.Page{}, &search.BackendError{
			Op:  "search",
			Err: fmt.Errorf("engine responded %s", res.Status()),
		}
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return search.Page{}, &search.BackendError{Op: "decode response", Err: err}
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			a.logger.Warn("Skipping hit with non-numeric id", "id", hit.ID)
			continue
		}
		ids = append(ids, id)
	}

	hotels, err := a.candidates.LoadCandidates(ctx, ids, criteria)
	if err != nil {
		return search.Page{}, err
	}

	return search.NewPage(hotels, parsed.Hits.Total.Value, criteria.Page, criteria.PerPage), nil
}

type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// buildSearchBody translates criteria into the engine's bool query:
//   - free text becomes a boosted fuzzy multi_match should clause,
//   - city/country become mandatory fuzzy match clauses,
//   - min stars becomes a range filter so it never skews scoring,
//   - minimum_should_match=1 applies only when a should clause exists,
//   - no clause at all degrades to match_all.
//
// The room price range is deliberately absent: price lives on rooms, not in
// the index, and is applied on the candidate set by the relational join.
func buildSearchBody(criteria search.Criteria) map[string]any {
	var must, should, filter []map[string]any

	if criteria.Query != "" {
		should = append(should, map[string]any{
			"multi_match": map[string]any{
				"query":     criteria.Query,
				"fields":    []string{"name^3", "description^2", "city^2", "address"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		})
	}

	if criteria.City != "" {
		must = append(must, fuzzyMatchClause("city", criteria.City))
	}
	if criteria.Country != "" {
		must = append(must, fuzzyMatchClause("country", criteria.Country))
	}

	if criteria.MinStars > 0 {
		filter = append(filter, map[string]any{
			"range": map[string]any{
				"stars": map[string]any{"gte": criteria.MinStars},
			},
		})
	}

	if len(must) == 0 && len(should) == 0 && len(filter) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(should) > 0 {
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]any{"bool": boolQuery}
}

func fuzzyMatchClause(field, value string) map[string]any {
	return map[string]any{
		"match": map[string]any{
			field: map[string]any{
				"query":     value,
				"fuzziness": "AUTO",
			},
		},
	}
}

// buildQueryString renders the criteria as the textual form accepted by
// engines that take both a query string and a DSL body. Used for logging and
// for backends without a structured endpoint.
func buildQueryString(criteria search.Criteria) string {
	var terms []string

	if criteria.Query != "" {
		terms = append(terms, criteria.Query)
	}
	if criteria.City != "" {
		terms = append(terms, "city:"+criteria.City)
	}
	if criteria.Country != "" {
		terms = append(terms, "country:"+criteria.Country)
	}
	if criteria.MinStars > 0 {
		terms = append(terms, fmt.Sprintf("stars:%d", criteria.MinStars))
	}

	if len(terms) == 0 {
		return "*"
	}
	return strings.Join(terms, " ")
}

// IndexHotels upserts one document per hotel. Hotels arriving with loaded
// rooms also carry the derived price and availability aggregates.
func (a *ElasticsearchAdapter) IndexHotels(ctx context.Context, hotels []hotel.Hotel) error {
	if len(hotels) == 0 {
		return nil
	}

	for i := range hotels {
		doc := buildHotelDocument(&hotels[i])
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document for hotel %d: %w", doc.ID, err)
		}

		res, err := a.client.Index(
			a.index,
			bytes.NewReader(payload),
			a.client.Index.WithContext(ctx),
			a.client.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
		)
		if err != nil {
			a.logger.Error("Failed to index hotel", "hotel_id", doc.ID, "error", err)
			return fmt.Errorf("failed to index hotel %d: %w", doc.ID, err)
		}
		if res.IsError() {
			status := res.Status()
			_ = res.Body.Close()
			return fmt.Errorf("failed to index hotel %d: engine responded %s", doc.ID, status)
		}
		_ = res.Body.Close()
	}

	a.logger.Debug("Hotels indexed", "count", len(hotels))
	return nil
}

func buildHotelDocument(h *hotel.Hotel) hotelDocument {
	doc := hotelDocument{
		ID:          h.ID,
		Name:        h.Name,
		Address:     h.Address,
		City:        h.City,
		Country:     h.Country,
		Stars:       h.Stars,
		Description: h.Description,
		CreatedAt:   h.CreatedAt.UTC().Unix(),
	}

	if pr := h.PriceRange(); pr != nil {
		doc.PriceMin = &pr.Min
		doc.PriceMax = &pr.Max
		available := 0
		for _, room := range h.Rooms {
			if room.IsAvailable {
				available++
			}
		}
		doc.AvailableRooms = &available
	}
	return doc
}

func (a *ElasticsearchAdapter) DeleteHotel(ctx context.Context, id int64) error {
	res, err := a.client.Delete(
		a.index,
		strconv.FormatInt(id, 10),
		a.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete hotel %d from index: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to delete hotel %d from index: engine responded %s", id, res.Status())
	}

	a.logger.Debug("Hotel removed from index", "hotel_id", id)
	return nil
}

func (a *ElasticsearchAdapter) HealthCheck(ctx context.Context) error {
	res, err := a.client.Ping(a.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("engine health check failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("engine health check failed: %s", res.Status())
	}
	return nil
}
