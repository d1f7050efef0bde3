package ai

import (
	"context"
	"fmt"
	"math"
)

// EmbeddingDimensions is the fixed length of every embedding vector the
// engine handles. Vectors of any other length are treated as malformed.
const EmbeddingDimensions = 768

// MaxSemanticScore bounds the rescaled similarity score.
const MaxSemanticScore = 10.0

// ExplainRequest carries everything needed to produce a match rationale.
type ExplainRequest struct {
	BriefText     string
	CreatorName   string
	CreatorBio    string
	CreatorSkills []string
	RuleScore     int
	SemanticScore float64
}

// Client is the semantic capability consumed by the matching engine. Every
// operation fails soft: a disabled or erroring provider yields a degraded but
// usable value, never an error. Callers bound calls with the context.
type Client interface {
	// Enabled reports whether a real provider backs this client.
	Enabled() bool
	// Dimensions returns the embedding vector length.
	Dimensions() int
	// Embed returns the embedding for the text, or a zero vector on any
	// failure.
	Embed(ctx context.Context, text string) []float32
	// SemanticScore embeds both texts and rescales their cosine similarity
	// into [0, MaxSemanticScore]. Returns 0 on any failure.
	SemanticScore(ctx context.Context, briefText, creatorText string) float64
	// Explain produces a short rationale for the match. Degenerate provider
	// output is replaced with a locally synthesized sentence.
	Explain(ctx context.Context, req ExplainRequest) string
}

// Cosine computes cosine similarity in [-1, 1]. Mismatched lengths and zero
// norms yield 0 so callers never divide by zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// NewDisabled returns a client for the no-credential configuration. It never
// performs remote calls and behaves exactly like a provider that fails on
// every request.
func NewDisabled() Client {
	return disabledClient{}
}

type disabledClient struct{}

func (disabledClient) Enabled() bool   { return false }
func (disabledClient) Dimensions() int { return EmbeddingDimensions }

func (disabledClient) Embed(context.Context, string) []float32 {
	return make([]float32, EmbeddingDimensions)
}

func (disabledClient) SemanticScore(context.Context, string, string) float64 {
	return 0
}

func (disabledClient) Explain(_ context.Context, req ExplainRequest) string {
	return fmt.Sprintf(
		"%s is a good match with a compatibility score of %d. This creator's skills and experience align well with the project requirements.",
		req.CreatorName, req.RuleScore,
	)
}
