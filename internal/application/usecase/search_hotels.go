package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
	"github.com/hotel-booking/hotel-booking-system/pkg/logger"
)

const eventPublishTimeout = 5 * time.Second

// SearchHotelsUseCase orchestrates hotel search: it picks a strategy, runs
// it, falls back from the engine to the database on failure, and always
// returns a result envelope. Strategy errors never escape this boundary.
type SearchHotelsUseCase struct {
	engine   search.Strategy
	database search.Strategy
	events   search.EventPublisher
	logger   *slog.Logger
}

// NewSearchHotelsUseCase wires the orchestrator. engine may be nil when no
// search backend is configured; the database strategy is mandatory.
func NewSearchHotelsUseCase(
	engine search.Strategy,
	database search.Strategy,
	events search.EventPublisher,
	logger *slog.Logger,
) *SearchHotelsUseCase {
	return &SearchHotelsUseCase{
		engine:   engine,
		database: database,
		events:   events,
		logger:   logger,
	}
}

// SelectStrategy decides which backend serves a request: the engine only
// when it is configured and there is free text to rank; structured-only
// filtering is served by the relational path.
func SelectStrategy(engineConfigured bool, criteria search.Criteria) search.Method {
	if engineConfigured && criteria.Query != "" {
		return search.MethodSearchEngine
	}
	return search.MethodDatabase
}

// Execute runs the search and always returns an envelope, degraded when
// every backend failed.
func (uc *SearchHotelsUseCase) Execute(ctx context.Context, criteria search.Criteria) *search.Result {
	method := SelectStrategy(uc.engine != nil, criteria)

	if method == search.MethodSearchEngine {
		page, err := uc.engine.Search(ctx, criteria)
		if err == nil {
			return uc.succeeded(criteria, page, search.MethodSearchEngine, false)
		}

		uc.logger.Error("Engine search failed, falling back to database",
			"error", err,
			"query", criteria.Query)

		fallbackPage, fallbackErr := uc.database.Search(ctx, criteria)
		if fallbackErr == nil {
			return uc.succeeded(criteria, fallbackPage, search.MethodDatabaseFallback, true)
		}

		uc.logger.Log(ctx, logger.LevelCritical, "Both search backends failed",
			"engine_error", err,
			"database_error", fallbackErr)
		return uc.failed(criteria)
	}

	page, err := uc.database.Search(ctx, criteria)
	if err != nil {
		uc.logger.Log(ctx, logger.LevelCritical, "Database search failed with no backend left",
			"error", err)
		return uc.failed(criteria)
	}
	return uc.succeeded(criteria, page, search.MethodDatabase, false)
}

func (uc *SearchHotelsUseCase) succeeded(criteria search.Criteria, page search.Page, method search.Method, fallback bool) *search.Result {
	uc.notifySearchPerformed(criteria, page.Total)

	return &search.Result{
		Page:       page,
		Criteria:   criteria,
		Method:     method,
		Success:    true,
		IsFallback: fallback,
	}
}

func (uc *SearchHotelsUseCase) failed(criteria search.Criteria) *search.Result {
	return &search.Result{
		Page:     search.EmptyPage(criteria.Page, criteria.PerPage),
		Criteria: criteria,
		Method:   search.MethodNone,
		Success:  false,
		Error:    search.ErrUnavailable.Error(),
	}
}

// notifySearchPerformed fires the analytics event off the request path. A
// publisher failure is logged and never reaches the caller.
func (uc *SearchHotelsUseCase) notifySearchPerformed(criteria search.Criteria, total int64) {
	event := search.PerformedEvent{
		ID:           uuid.NewString(),
		Criteria:     criteria,
		ResultsCount: total,
		OccurredAt:   time.Now().UTC(),
	}

	go func() {
		publishCtx, cancel := context.WithTimeout(context.Background(), eventPublishTimeout)
		defer cancel()

		if err := uc.events.PublishSearchPerformed(publishCtx, event); err != nil {
			uc.logger.Warn("Failed to publish search event", "event_id", event.ID, "error", err)
		}
	}()
}
