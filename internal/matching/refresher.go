package matching

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/briefmatch/briefmatch/internal/ai"
	"github.com/briefmatch/briefmatch/internal/roster"
)

const (
	// DefaultEmbeddingWindow is how long a cached embedding stays usable.
	DefaultEmbeddingWindow = 30 * 24 * time.Hour
	// DefaultRefreshConcurrency bounds parallel embedding calls per batch.
	DefaultRefreshConcurrency = 8
)

// Saver persists a creator's refreshed embedding fields.
type Saver interface {
	Save(creator *roster.Creator) error
}

// EmbeddingCache keeps creator embeddings reasonably fresh. Vectors are
// computed from the canonical profile text, stamped and written back through
// the store one record at a time. Staleness is purely time-based.
type EmbeddingCache struct {
	client      ai.Client
	store       Saver
	window      time.Duration
	concurrency int
	logger      *zap.Logger

	now func() time.Time
}

// NewEmbeddingCache builds the cache refresher. Zero window and concurrency
// fall back to the defaults.
func NewEmbeddingCache(client ai.Client, store Saver, window time.Duration, concurrency int, log *zap.Logger) *EmbeddingCache {
	if window <= 0 {
		window = DefaultEmbeddingWindow
	}
	if concurrency <= 0 {
		concurrency = DefaultRefreshConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &EmbeddingCache{
		client:      client,
		store:       store,
		window:      window,
		concurrency: concurrency,
		logger:      log,
		now:         time.Now,
	}
}

// RefreshBatch recomputes embeddings for every creator whose vector is absent
// or older than the freshness window. Creators refresh concurrently and each
// failure is isolated: it is logged and the rest of the batch continues. The
// returned error is only the context's, so callers can tell cancellation from
// per-creator trouble.
func (e *EmbeddingCache) RefreshBatch(ctx context.Context, creators []*roster.Creator) error {
	stale := make([]*roster.Creator, 0, len(creators))
	for _, creator := range creators {
		if !creator.EmbeddingFresh(e.window) {
			stale = append(stale, creator)
		}
	}

	if len(stale) == 0 {
		return ctx.Err()
	}

	e.logger.Debug("refreshing embeddings", zap.Int("stale", len(stale)), zap.Int("pool", len(creators)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, creator := range stale {
		g.Go(func() error {
			e.refreshOne(gctx, creator)
			return nil
		})
	}
	g.Wait()

	return ctx.Err()
}

// Lookup returns the cached vector and whether it is fresh.
func (e *EmbeddingCache) Lookup(creator *roster.Creator) ([]float32, bool) {
	if creator == nil || !creator.EmbeddingFresh(e.window) {
		return nil, false
	}
	return creator.Embedding, true
}

func (e *EmbeddingCache) refreshOne(ctx context.Context, creator *roster.Creator) {
	// Runs on a group goroutine: a provider panic here must stay isolated to
	// this one candidate.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("embedding refresh panicked",
				zap.String("creator_id", creator.ID),
				zap.Any("panic", r),
			)
		}
	}()

	vector := e.client.Embed(ctx, creator.ProfileText())
	if len(vector) != e.client.Dimensions() {
		e.logger.Warn("skipping embedding of unexpected length",
			zap.String("creator_id", creator.ID),
			zap.Int("length", len(vector)),
		)
		return
	}

	creator.SetEmbedding(vector, e.now())

	if e.store == nil {
		return
	}
	if err := e.store.Save(creator); err != nil {
		e.logger.Warn("persisting refreshed embedding failed",
			zap.String("creator_id", creator.ID),
			zap.Error(err),
		)
	}
}
