package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hotel-booking/hotel-booking-system/internal/domain/hotel"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSyncBatchSize = 100
	syncWorkers          = 4
)

type SyncOptions struct {
	FullSync  bool
	Since     time.Time
	BatchSize int
}

type SyncResult struct {
	TotalHotels   int
	IndexedHotels int
	Duration      time.Duration
}

// SyncHotelsUseCase pushes hotel documents into the search index so the
// engine strategy has candidates to select from. Full sync walks the whole
// table; incremental sync only re-indexes hotels updated since a timestamp.
type SyncHotelsUseCase struct {
	store  hotel.Store
	engine search.Engine
	logger *slog.Logger
}

func NewSyncHotelsUseCase(store hotel.Store, engine search.Engine, logger *slog.Logger) *SyncHotelsUseCase {
	return &SyncHotelsUseCase{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

func (uc *SyncHotelsUseCase) Execute(ctx context.Context, options SyncOptions) (*SyncResult, error) {
	if uc.engine == nil {
		return nil, fmt.Errorf("no search engine configured, nothing to sync")
	}

	start := time.Now()

	batchSize := options.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSyncBatchSize
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(syncWorkers)

	var total, indexed atomic.Int64
	for offset := 0; ; offset += batchSize {
		batch, err := uc.loadBatch(ctx, options, batchSize, offset)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		total.Add(int64(len(batch)))

		group.Go(func() error {
			if err := uc.engine.IndexHotels(groupCtx, batch); err != nil {
				return err
			}
			indexed.Add(int64(len(batch)))
			return nil
		})

		if len(batch) < batchSize {
			break
		}
	}

	err := group.Wait()

	result := &SyncResult{
		TotalHotels:   int(total.Load()),
		IndexedHotels: int(indexed.Load()),
		Duration:      time.Since(start),
	}
	if err != nil {
		uc.logger.Error("Index sync finished with errors",
			"total", result.TotalHotels,
			"indexed", result.IndexedHotels,
			"error", err)
		return result, fmt.Errorf("index sync failed: %w", err)
	}

	uc.logger.Info("Index sync completed",
		"total", result.TotalHotels,
		"indexed", result.IndexedHotels,
		"duration", result.Duration)
	return result, nil
}

func (uc *SyncHotelsUseCase) loadBatch(ctx context.Context, options SyncOptions, batchSize, offset int) ([]hotel.Hotel, error) {
	if options.FullSync || options.Since.IsZero() {
		return uc.store.FindAllForIndexing(ctx, batchSize, offset)
	}
	return uc.store.FindUpdatedAfter(ctx, options.Since, batchSize, offset)
}
