package roster

import (
	"fmt"
	"strings"
	"time"
)

// Location is a city/country pair shared by creators and briefs.
type Location struct {
	City    string `json:"city" mapstructure:"city"`
	Country string `json:"country" mapstructure:"country"`
}

// BudgetRange is the fee band a creator works within.
type BudgetRange struct {
	Min int `json:"min" mapstructure:"min"`
	Max int `json:"max" mapstructure:"max"`
}

// PortfolioItem is a single published work with its style tags.
type PortfolioItem struct {
	URL  string   `json:"url,omitempty" mapstructure:"url"`
	Tags []string `json:"tags" mapstructure:"tags"`
}

// Creator is a service-provider profile. The embedding fields are the only
// part the matching engine mutates: they cache the vector computed from
// ProfileText and are refreshed lazily.
type Creator struct {
	ID              string          `json:"id" mapstructure:"id"`
	Name            string          `json:"name" mapstructure:"name"`
	Location        Location        `json:"location" mapstructure:"location"`
	Categories      []string        `json:"categories" mapstructure:"categories"`
	Skills          []string        `json:"skills" mapstructure:"skills"`
	ExperienceYears int             `json:"experience_years" mapstructure:"experience_years"`
	BudgetRange     BudgetRange     `json:"budget_range" mapstructure:"budget_range"`
	Portfolio       []PortfolioItem `json:"portfolio,omitempty" mapstructure:"portfolio"`
	Rating          float64         `json:"rating" mapstructure:"rating"`
	Bio             string          `json:"bio" mapstructure:"bio"`
	Avatar          string          `json:"avatar,omitempty" mapstructure:"avatar"`

	Embedding           []float32 `json:"embedding,omitempty" mapstructure:"embedding"`
	LastEmbeddingUpdate time.Time `json:"last_embedding_update,omitempty" mapstructure:"last_embedding_update"`
}

// ProfileText builds the canonical text the cached embedding is computed
// from. Seeding and refreshing must use the same field order, otherwise
// freshly embedded profiles diverge from previously cached ones.
func (c *Creator) ProfileText() string {
	return fmt.Sprintf("%s Skills: %s Categories: %s",
		c.Bio,
		strings.Join(c.Skills, ", "),
		strings.Join(c.Categories, ", "),
	)
}

// SemanticText is the creator side of the semantic similarity comparison.
func (c *Creator) SemanticText() string {
	return fmt.Sprintf("%s Skills: %s", c.Bio, strings.Join(c.Skills, ", "))
}

// EmbeddingFresh reports whether the cached embedding exists and was computed
// within the given window. Staleness is time-based only: a bio or skills edit
// does not invalidate the cache early.
func (c *Creator) EmbeddingFresh(window time.Duration) bool {
	if len(c.Embedding) == 0 || c.LastEmbeddingUpdate.IsZero() {
		return false
	}
	return time.Since(c.LastEmbeddingUpdate) < window
}

// SetEmbedding stores a freshly computed vector and stamps the update time.
func (c *Creator) SetEmbedding(vector []float32, at time.Time) {
	c.Embedding = vector
	c.LastEmbeddingUpdate = at
}

// Creators is the roster loaded from the store.
type Creators struct {
	Items []*Creator `json:"items"`
}

func (c *Creators) Len() int {
	return len(c.Items)
}

func (c *Creators) FindByID(id string) *Creator {
	for _, creator := range c.Items {
		if creator.ID == id {
			return creator
		}
	}
	return nil
}

// Cities returns the distinct cities present in the roster.
func (c *Creators) Cities() []string {
	seen := make(map[string]struct{})
	cities := make([]string, 0)
	for _, creator := range c.Items {
		if _, ok := seen[creator.Location.City]; ok {
			continue
		}
		seen[creator.Location.City] = struct{}{}
		cities = append(cities, creator.Location.City)
	}
	return cities
}
