package roster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Brief is the structured request a client submits. It is immutable input to
// a match computation; only Matches is written back after ranking.
type Brief struct {
	ID              string    `json:"id" mapstructure:"id"`
	Title           string    `json:"title" mapstructure:"title"`
	Description     string    `json:"description" mapstructure:"description"`
	Location        Location  `json:"location" mapstructure:"location"`
	Category        string    `json:"category" mapstructure:"category"`
	PreferredStyles []string  `json:"preferred_styles" mapstructure:"preferred-styles"`
	BudgetMax       int       `json:"budget_max" mapstructure:"budget-max"`
	StartDate       time.Time `json:"start_date" mapstructure:"start-date"`
	EndDate         time.Time `json:"end_date" mapstructure:"end-date"`
	ClientName      string    `json:"client_name" mapstructure:"client-name"`
	ClientEmail     string    `json:"client_email" mapstructure:"client-email"`

	Matches []BriefMatch `json:"matches,omitempty" mapstructure:"matches"`
}

// BriefMatch is the terminal form of a ranked match stored on the brief.
type BriefMatch struct {
	CreatorID   string  `json:"creator_id" mapstructure:"creator_id"`
	Score       float64 `json:"score" mapstructure:"score"`
	Explanation string  `json:"explanation" mapstructure:"explanation"`
}

// SemanticText is the canonical text the semantic stage embeds for a brief.
func (b *Brief) SemanticText() string {
	text := fmt.Sprintf("%s. %s", b.Title, b.Description)
	if len(b.PreferredStyles) > 0 {
		text = fmt.Sprintf("%s Styles: %s", text, strings.Join(b.PreferredStyles, ", "))
	}
	return text
}

// Validate checks the fields the engine depends on. Validation failures are
// user-visible errors raised before the engine runs.
func (b *Brief) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("brief title is required")
	}
	if strings.TrimSpace(b.Description) == "" {
		return errors.New("brief description is required")
	}
	if strings.TrimSpace(b.Location.City) == "" && strings.TrimSpace(b.Location.Country) == "" {
		return errors.New("brief location is required")
	}
	if strings.TrimSpace(b.Category) == "" {
		return errors.New("brief category is required")
	}
	if b.BudgetMax <= 0 {
		return errors.New("brief budget must be positive")
	}
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return errors.New("brief end date must not be before start date")
	}
	return nil
}

// BriefFromFile reads a brief document (yaml or json) and decodes it into a
// Brief. Dates may be given as RFC3339 strings.
func BriefFromFile(path string) (*Brief, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading brief file: %w", err)
	}

	var brief Brief
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:     &brief,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding brief file: %w", err)
	}

	return &brief, nil
}
