package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/briefmatch/briefmatch/internal/ai"
	"github.com/briefmatch/briefmatch/internal/roster"
)

// Tier labels the pipeline that actually produced a shortlist.
type Tier string

const (
	// TierSemantic is the full pipeline: rules, embeddings, explanations.
	TierSemantic Tier = "semantic"
	// TierRules is the deterministic pipeline over the pre-filtered pool.
	TierRules Tier = "rules"
	// TierLegacy is the last-resort ranker over the full pool.
	TierLegacy Tier = "legacy"
)

// Config tunes the engine. The zero value is replaced by the defaults below.
type Config struct {
	// Limit is the shortlist length of the semantic and rules tiers.
	Limit int `mapstructure:"limit"`
	// MinRuleScore and TopK parametrize the pre-filter.
	MinRuleScore int `mapstructure:"min-rule-score"`
	TopK         int `mapstructure:"top-k"`
	// CandidateTimeout bounds the semantic work for one candidate.
	CandidateTimeout time.Duration `mapstructure:"candidate-timeout"`
	// GlobalTimeout bounds the whole semantic stage.
	GlobalTimeout time.Duration `mapstructure:"global-timeout"`
	// EmbeddingWindow is the freshness window for cached embeddings.
	EmbeddingWindow time.Duration `mapstructure:"embedding-window"`
}

const (
	DefaultLimit            = 10
	DefaultCandidateTimeout = 15 * time.Second
	DefaultGlobalTimeout    = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.MinRuleScore <= 0 {
		c.MinRuleScore = DefaultMinRuleScore
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.CandidateTimeout <= 0 {
		c.CandidateTimeout = DefaultCandidateTimeout
	}
	if c.GlobalTimeout <= 0 {
		c.GlobalTimeout = DefaultGlobalTimeout
	}
	if c.EmbeddingWindow <= 0 {
		c.EmbeddingWindow = DefaultEmbeddingWindow
	}
	return c
}

// Engine ranks creators against a brief. It degrades through three tiers:
// the semantic pipeline when a provider is configured and healthy, the
// rule-only pipeline when the provider is absent or misbehaving, and the
// legacy ranker when the semantic stage blows its global deadline or panics.
type Engine struct {
	client ai.Client
	cache  *EmbeddingCache
	cfg    Config
	logger *zap.Logger
}

// NewEngine wires the engine. A nil client is treated as disabled; cache may
// be nil when no embedding persistence is wanted.
func NewEngine(client ai.Client, cache *EmbeddingCache, cfg Config, log *zap.Logger) *Engine {
	if client == nil {
		client = ai.NewDisabled()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		client: client,
		cache:  cache,
		cfg:    cfg.withDefaults(),
		logger: log,
	}
}

// TopMatches computes the shortlist for the brief and reports which tier
// produced it. It never returns an error: every failure mode inside the
// pipeline maps onto a lower tier.
func (e *Engine) TopMatches(ctx context.Context, creators *roster.Creators, brief *roster.Brief) (results *Results, tier Tier) {
	pool := creators.Items

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("match pipeline panicked, using legacy ranker", zap.Any("panic", r))
			results = &Results{Items: LegacyRank(pool, brief)}
			tier = TierLegacy
		}
	}()

	filtered := PreFilter(pool, brief, e.cfg.MinRuleScore, e.cfg.TopK)
	e.logger.Debug("pre-filter applied",
		zap.Int("initial", len(pool)),
		zap.Int("dropped", len(pool)-len(filtered)),
		zap.Int("left", len(filtered)),
	)

	if !e.client.Enabled() {
		e.logger.Debug("semantic provider disabled, ranking by rules only")
		return e.ruleOnly(filtered, brief), TierRules
	}

	enhanced, err := e.enhance(ctx, filtered, brief)
	switch {
	case err == nil:
		return enhanced, TierSemantic
	case errors.Is(err, errPipelinePanic):
		e.logger.Error("match pipeline panicked, using legacy ranker", zap.Error(err))
		return &Results{Items: LegacyRank(pool, brief)}, TierLegacy
	case context.Cause(ctx) != nil || errIsDeadline(err):
		e.logger.Warn("semantic stage exceeded its deadline, using legacy ranker", zap.Error(err))
		return &Results{Items: LegacyRank(pool, brief)}, TierLegacy
	default:
		e.logger.Warn("semantic stage failed, ranking by rules only", zap.Error(err))
		return e.ruleOnly(filtered, brief), TierRules
	}
}

// ruleOnly builds results from the rule scorer alone. Explanations come from
// the score template; nothing is attributed to a provider.
func (e *Engine) ruleOnly(filtered []*roster.Creator, brief *roster.Brief) *Results {
	items := make([]*Result, 0, len(filtered))
	for _, creator := range filtered {
		score, reasons := ScoreRules(creator, brief)
		res := &Result{
			Creator:   creator,
			Score:     float64(score),
			RuleScore: score,
			Reasons:   reasons,
		}
		res.Explanation = defaultExplanation(res)
		items = append(items, res)
	}
	return e.finish(items)
}

// errPipelinePanic marks a recovered panic from candidate scoring. It is the
// one non-timeout error that sends the request to the legacy tier.
var errPipelinePanic = errors.New("match pipeline panicked")

// enhance runs the semantic pipeline over the filtered pool under the global
// deadline. Per-candidate failures degrade that candidate to its rule score;
// only a blown global deadline or a recovered panic aborts the stage.
func (e *Engine) enhance(ctx context.Context, filtered []*roster.Creator, brief *roster.Brief) (*Results, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.GlobalTimeout)
	defer cancel()

	if e.cache != nil {
		if err := e.cache.RefreshBatch(ctx, filtered); err != nil {
			return nil, err
		}
	}

	briefText := brief.SemanticText()

	// With a cache in play the brief is embedded once and scored against the
	// cached candidate vectors instead of re-embedding every candidate.
	var briefVec []float32
	if e.cache != nil {
		briefVec = e.client.Embed(ctx, briefText)
	}

	items := make([]*Result, len(filtered))

	g, gctx := errgroup.WithContext(ctx)
	for i, creator := range filtered {
		g.Go(func() (err error) {
			// A panic must not escape the group's goroutine: errgroup does
			// not route it through Wait, it would kill the process.
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("scoring candidate %s: %w: %v", creator.ID, errPipelinePanic, r)
				}
			}()

			items[i] = e.enhanceOne(gctx, creator, brief, briefText, briefVec)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return e.finish(items), nil
}

// enhanceOne scores a single candidate under its own timeout. The semantic
// score and explanation both fail soft, so the worst case is a rule-only
// result for this candidate.
func (e *Engine) enhanceOne(ctx context.Context, creator *roster.Creator, brief *roster.Brief, briefText string, briefVec []float32) *Result {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.CandidateTimeout)
	defer cancel()

	ruleScore, reasons := ScoreRules(creator, brief)
	semantic := e.semanticScore(ctx, briefText, briefVec, creator)

	res := &Result{
		Creator:       creator,
		Score:         float64(ruleScore) + semantic,
		RuleScore:     ruleScore,
		SemanticScore: semantic,
		Reasons:       reasons,
		AIEnhanced:    semantic > 0,
	}

	res.AIExplanation = e.client.Explain(ctx, ai.ExplainRequest{
		BriefText:     briefText,
		CreatorName:   creator.Name,
		CreatorBio:    creator.Bio,
		CreatorSkills: creator.Skills,
		RuleScore:     ruleScore,
		SemanticScore: semantic,
	})

	res.Explanation = res.AIExplanation
	if res.Explanation == "" {
		res.Explanation = defaultExplanation(res)
	}
	return res
}

// semanticScore prefers the cached candidate vector over re-embedding the
// candidate text. Candidates without a fresh vector fall back to the client's
// own two-text scoring.
func (e *Engine) semanticScore(ctx context.Context, briefText string, briefVec []float32, creator *roster.Creator) float64 {
	if e.cache != nil && len(briefVec) > 0 {
		if vector, ok := e.cache.Lookup(creator); ok {
			score := math.Max(0, ai.Cosine(briefVec, vector)*ai.MaxSemanticScore)
			return math.Min(score, ai.MaxSemanticScore)
		}
	}
	return e.client.SemanticScore(ctx, briefText, creator.SemanticText())
}

// finish sorts descending by total score and truncates to the limit. The sort
// is stable so equal totals keep their pre-filter order.
func (e *Engine) finish(items []*Result) *Results {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > e.cfg.Limit {
		items = items[:e.cfg.Limit]
	}
	return &Results{Items: items}
}

func errIsDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
