package gemini

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/briefmatch/briefmatch/internal/ai"
	"github.com/briefmatch/briefmatch/internal/logger"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	// minExplanationRunes rejects answers too short to say anything useful.
	minExplanationRunes = 40
)

// genericPhrases mark boilerplate the model occasionally emits instead of a
// real rationale. Such output is replaced with a synthesized sentence.
var genericPhrases = []string{
	"is a good match with a compatibility score",
	"relevant skills and experience for your requirements",
	"as an ai",
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	EmbedContent(ctx context.Context, text string) ([]float32, error)
}

// Client implements ai.Client on top of the Gemini generator. Every method
// degrades to a defined fallback value instead of returning an error, so a
// flaky provider never breaks a match request.
type Client struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewClient wraps the generator into the engine-facing semantic client.
func NewClient(generator contentGenerator, log *zap.Logger, maxLogLength int) *Client {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (c *Client) Enabled() bool   { return true }
func (c *Client) Dimensions() int { return ai.EmbeddingDimensions }

// Embed returns the embedding for the text, or a zero vector of the fixed
// dimension when the call fails or returns a malformed vector.
func (c *Client) Embed(ctx context.Context, text string) []float32 {
	vector, err := c.generator.EmbedContent(ctx, text)
	if err != nil {
		c.logger.Warn("embedding failed, falling back to zero vector",
			zap.String("text_preview", logger.TruncateForLog(text, c.maxLogLen)),
			zap.Error(err),
		)
		return make([]float32, ai.EmbeddingDimensions)
	}

	if len(vector) != ai.EmbeddingDimensions {
		c.logger.Warn("embedding has wrong dimensionality, falling back to zero vector",
			zap.Int("got", len(vector)),
			zap.Int("want", ai.EmbeddingDimensions),
		)
		return make([]float32, ai.EmbeddingDimensions)
	}

	return vector
}

// SemanticScore embeds both texts concurrently, computes cosine similarity
// and rescales it into [0, 10]. Degenerate inputs score 0.
func (c *Client) SemanticScore(ctx context.Context, briefText, creatorText string) float64 {
	var briefVec, creatorVec []float32

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		briefVec = c.Embed(gctx, briefText)
		return nil
	})
	g.Go(func() error {
		creatorVec = c.Embed(gctx, creatorText)
		return nil
	})
	g.Wait()

	similarity := ai.Cosine(briefVec, creatorVec)
	score := math.Max(0, similarity*ai.MaxSemanticScore)
	return math.Min(score, ai.MaxSemanticScore)
}

// Explain asks the model for a short rationale and validates the answer.
// Too-short or boilerplate output, and any generation failure, is replaced
// with a locally synthesized explanation.
func (c *Client) Explain(ctx context.Context, req ai.ExplainRequest) string {
	prompt := buildExplainPrompt(req)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		c.logger.Warn("explanation generation failed, synthesizing locally",
			zap.String("creator", req.CreatorName),
			zap.Error(err),
		)
		return synthesizeExplanation(req)
	}

	text := strings.TrimSpace(raw)
	if degenerateExplanation(text) {
		c.logger.Debug("rejecting degenerate explanation",
			zap.String("creator", req.CreatorName),
			zap.String("response_preview", logger.TruncateForLog(text, c.maxLogLen)),
		)
		return synthesizeExplanation(req)
	}

	return text
}

func buildExplainPrompt(req ai.ExplainRequest) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{BRIEF}}", req.BriefText)
	prompt = strings.ReplaceAll(prompt, "{{NAME}}", req.CreatorName)
	prompt = strings.ReplaceAll(prompt, "{{BIO}}", req.CreatorBio)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", strings.Join(req.CreatorSkills, ", "))
	prompt = strings.ReplaceAll(prompt, "{{RULE_SCORE}}", fmt.Sprintf("%d", req.RuleScore))
	prompt = strings.ReplaceAll(prompt, "{{SEMANTIC_SCORE}}", fmt.Sprintf("%.1f", req.SemanticScore))
	return prompt
}

func degenerateExplanation(text string) bool {
	if utf8.RuneCountInString(text) < minExplanationRunes {
		return true
	}

	lower := strings.ToLower(text)
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// synthesizeExplanation builds a rationale without the model: it names up to
// two creator skills that literally appear in the brief text and closes with
// a qualifier keyed on which score dominates.
func synthesizeExplanation(req ai.ExplainRequest) string {
	matched := matchingSkills(req.CreatorSkills, req.BriefText, 2)

	var builder strings.Builder
	switch len(matched) {
	case 0:
		builder.WriteString(fmt.Sprintf("%s brings adjacent experience to this brief.", req.CreatorName))
	case 1:
		builder.WriteString(fmt.Sprintf("%s's %s experience lines up directly with this brief.", req.CreatorName, matched[0]))
	default:
		builder.WriteString(fmt.Sprintf("%s's %s and %s experience lines up directly with this brief.", req.CreatorName, matched[0], matched[1]))
	}

	builder.WriteString(" ")
	if req.SemanticScore/ai.MaxSemanticScore >= float64(req.RuleScore)/23.0 {
		builder.WriteString("The overall profile reads as a strong thematic fit for the project.")
	} else {
		builder.WriteString("Concrete attribute matches drive this recommendation.")
	}

	return builder.String()
}

// matchingSkills returns skills whose tokens appear in the brief text,
// preserving skill order, up to the limit. Short connective tokens are
// ignored.
func matchingSkills(skills []string, briefText string, limit int) []string {
	text := strings.ToLower(briefText)
	matched := make([]string, 0, limit)

	for _, skill := range skills {
		if len(matched) == limit {
			break
		}
		for _, token := range strings.Fields(strings.ToLower(skill)) {
			if len(token) < 3 {
				continue
			}
			if strings.Contains(text, token) {
				matched = append(matched, skill)
				break
			}
		}
	}

	return matched
}
