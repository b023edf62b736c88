package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	name   search.Method
	page   search.Page
	err    error
	called int
}

func (s *stubStrategy) Name() search.Method { return s.name }

func (s *stubStrategy) Search(_ context.Context, _ search.Criteria) (search.Page, error) {
	s.called++
	if s.err != nil {
		return search.Page{}, s.err
	}
	return s.page, nil
}

type recordingPublisher struct {
	events chan search.PerformedEvent
	err    error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan search.PerformedEvent, 1)}
}

func (p *recordingPublisher) PublishSearchPerformed(_ context.Context, event search.PerformedEvent) error {
	p.events <- event
	return p.err
}

func (p *recordingPublisher) waitForEvent(t *testing.T) search.PerformedEvent {
	t.Helper()
	select {
	case event := <-p.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("expected a search event to be published")
		return search.PerformedEvent{}
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pageOf(total int64, ids ...int64) search.Page {
	items := make([]hotel.Hotel, len(ids))
	for i, id := range ids {
		items[i] = hotel.Hotel{ID: id}
	}
	return search.NewPage(items, total, 1, search.DefaultPerPage)
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name             string
		engineConfigured bool
		criteria         search.Criteria
		want             search.Method
	}{
		{"engine with free text", true, search.Criteria{Query: "beach"}, search.MethodSearchEngine},
		{"engine without free text", true, search.Criteria{City: "Lisbon"}, search.MethodDatabase},
		{"no engine with free text", false, search.Criteria{Query: "beach"}, search.MethodDatabase},
		{"no engine no filters", false, search.Criteria{}, search.MethodDatabase},
		{"engine with structured filters only", true, search.Criteria{MinStars: 4, MinPrice: 50}, search.MethodDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectStrategy(tt.engineConfigured, tt.criteria))
		})
	}
}

func TestSearchHotels_EngineSuccess(t *testing.T) {
	engine := &stubStrategy{name: search.MethodSearchEngine, page: pageOf(2, 10, 20)}
	database := &stubStrategy{name: search.MethodDatabase}
	publisher := newRecordingPublisher()

	uc := NewSearchHotelsUseCase(engine, database, publisher, testLogger())
	result := uc.Execute(context.Background(), search.Criteria{Query: "beach", Page: 1, PerPage: search.DefaultPerPage})

	require.True(t, result.Success)
	assert.Equal(t, search.MethodSearchEngine, result.Method)
	assert.False(t, result.IsFallback)
	assert.Empty(t, result.Error)
	assert.Equal(t, int64(2), result.Page.Total)
	assert.Zero(t, database.called)

	event := publisher.waitForEvent(t)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "beach", event.Criteria.Query)
	assert.Equal(t, int64(2), event.ResultsCount)
}

func TestSearchHotels_EngineFailureFallsBackToDatabase(t *testing.T) {
	engine := &stubStrategy{name: search.MethodSearchEngine, err: errors.New("connection refused")}
	database := &stubStrategy{name: search.MethodDatabase, page: pageOf(1, 7)}
	publisher := newRecordingPublisher()

	uc := NewSearchHotelsUseCase(engine, database, publisher, testLogger())
	result := uc.Execute(context.Background(), search.Criteria{Query: "beach", Page: 1, PerPage: search.DefaultPerPage})

	require.True(t, result.Success)
	assert.Equal(t, search.MethodDatabaseFallback, result.Method)
	assert.True(t, result.IsFallback)
	assert.Equal(t, 1, engine.called)
	assert.Equal(t, 1, database.called)
	assert.Equal(t, int64(1), result.Page.Total)

	event := publisher.waitForEvent(t)
	assert.Equal(t, int64(1), event.ResultsCount)
}

func TestSearchHotels_BothBackendsFail(t *testing.T) {
	engine := &stubStrategy{name: search.MethodSearchEngine, err: errors.New("engine down")}
	database := &stubStrategy{name: search.MethodDatabase, err: errors.New("db down")}

	uc := NewSearchHotelsUseCase(engine, database, newRecordingPublisher(), testLogger())
	criteria := search.Criteria{Query: "beach", Page: 2, PerPage: 10}
	result := uc.Execute(context.Background(), criteria)

	require.False(t, result.Success)
	assert.Equal(t, search.MethodNone, result.Method)
	assert.False(t, result.IsFallback)
	assert.Equal(t, "search service is currently unavailable", result.Error)
	assert.Empty(t, result.Page.Items)
	assert.Equal(t, int64(0), result.Page.Total)
	assert.Equal(t, 2, result.Page.CurrentPage)
	assert.Equal(t, 10, result.Page.PerPage)
	assert.Equal(t, criteria, result.Criteria)
}

func TestSearchHotels_DatabaseFirstFailureDoesNotRetry(t *testing.T) {
	engine := &stubStrategy{name: search.MethodSearchEngine}
	database := &stubStrategy{name: search.MethodDatabase, err: errors.New("db down")}

	uc := NewSearchHotelsUseCase(engine, database, newRecordingPublisher(), testLogger())
	result := uc.Execute(context.Background(), search.Criteria{City: "Lisbon", Page: 1, PerPage: search.DefaultPerPage})

	require.False(t, result.Success)
	assert.Equal(t, search.MethodNone, result.Method)
	assert.Zero(t, engine.called)
	assert.Equal(t, 1, database.called)
}

func TestSearchHotels_NoEngineConfigured(t *testing.T) {
	database := &stubStrategy{name: search.MethodDatabase, page: pageOf(3, 1, 2, 3)}
	publisher := newRecordingPublisher()

	uc := NewSearchHotelsUseCase(nil, database, publisher, testLogger())
	result := uc.Execute(context.Background(), search.Criteria{Query: "beach", Page: 1, PerPage: search.DefaultPerPage})

	require.True(t, result.Success)
	assert.Equal(t, search.MethodDatabase, result.Method)
	assert.False(t, result.IsFallback)
	publisher.waitForEvent(t)
}

func TestSearchHotels_PublisherFailureDoesNotAffectResult(t *testing.T) {
	database := &stubStrategy{name: search.MethodDatabase, page: pageOf(1, 1)}
	publisher := newRecordingPublisher()
	publisher.err = errors.New("broker unreachable")

	uc := NewSearchHotelsUseCase(nil, database, publisher, testLogger())
	result := uc.Execute(context.Background(), search.Criteria{Page: 1, PerPage: search.DefaultPerPage})

	require.True(t, result.Success)
	publisher.waitForEvent(t)
}
