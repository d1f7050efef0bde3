package cmd

import (
	"context"
	"log"
	"time"

	"github.com/briefmatch/briefmatch/internal/logger"
	"github.com/briefmatch/briefmatch/internal/roster"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the creator store with a sample roster",
	Run: func(cmd *cobra.Command, _ []string) {
		seed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Bool("with-embeddings", false, "precompute embeddings for the seeded creators")
}

func seed(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store := roster.Open(config.Store.CreatorsFile, config.Store.BriefsFile, config.Store.FeedbackFile)
	creators := sampleCreators()

	if cmd.Flag("with-embeddings").Value.String() == "true" {
		client, err := newAIClient(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building the semantic client", zap.Error(err))
		}
		if !client.Enabled() {
			logger.Fatal("embeddings requested but the semantic provider is disabled",
				zap.String("hint", "enable ai in the config and set GEMINI_API_KEY_FILE"),
			)
		}

		for _, creator := range creators.Items {
			creator.SetEmbedding(client.Embed(ctx, creator.ProfileText()), time.Now())
		}
		logger.Info("precomputed embeddings", zap.Int("count", creators.Len()))
	}

	if err := store.Replace(creators); err != nil {
		logger.Fatal("writing the creator store", zap.Error(err))
	}

	logger.Info("seeded creators", zap.Int("count", creators.Len()), zap.String("file", config.Store.CreatorsFile))
}

func sampleCreators() *roster.Creators {
	return &roster.Creators{Items: []*roster.Creator{
		{
			ID:              uuid.NewString(),
			Name:            "Priya Sharma",
			Location:        roster.Location{City: "Goa", Country: "India"},
			Categories:      []string{"Photography"},
			Skills:          []string{"Wedding Photography", "Candid", "Drone Shots"},
			ExperienceYears: 7,
			BudgetRange:     roster.BudgetRange{Min: 40000, Max: 120000},
			Portfolio: []roster.PortfolioItem{
				{Tags: []string{"wedding", "beach", "candid"}},
				{Tags: []string{"drone", "destination"}},
			},
			Rating: 4.8,
			Bio:    "Destination wedding photographer based in Goa, known for candid beachside storytelling and cinematic drone coverage.",
		},
		{
			ID:              uuid.NewString(),
			Name:            "Arjun Mehta",
			Location:        roster.Location{City: "Mumbai", Country: "India"},
			Categories:      []string{"Videography"},
			Skills:          []string{"Music Videos", "Color Grading", "Editing"},
			ExperienceYears: 4,
			BudgetRange:     roster.BudgetRange{Min: 60000, Max: 200000},
			Portfolio: []roster.PortfolioItem{
				{Tags: []string{"music", "urban"}},
			},
			Rating: 4.4,
			Bio:    "Mumbai videographer cutting fast-paced music videos and brand films with a strong grading pipeline.",
		},
		{
			ID:              uuid.NewString(),
			Name:            "Sofia Almeida",
			Location:        roster.Location{City: "Goa", Country: "India"},
			Categories:      []string{"Photography", "Videography"},
			Skills:          []string{"Beach Weddings", "Drone Shots", "Reels"},
			ExperienceYears: 3,
			BudgetRange:     roster.BudgetRange{Min: 30000, Max: 90000},
			Portfolio: []roster.PortfolioItem{
				{Tags: []string{"beach", "drone"}},
				{Tags: []string{"reels", "wedding"}},
			},
			Rating: 4.6,
			Bio:    "Goa-based hybrid shooter covering beach weddings with drones and short-form social edits.",
		},
		{
			ID:              uuid.NewString(),
			Name:            "Rahul Verma",
			Location:        roster.Location{City: "Delhi", Country: "India"},
			Categories:      []string{"Design"},
			Skills:          []string{"Brand Identity", "Illustration", "Packaging"},
			ExperienceYears: 9,
			BudgetRange:     roster.BudgetRange{Min: 50000, Max: 150000},
			Portfolio: []roster.PortfolioItem{
				{Tags: []string{"branding", "packaging"}},
			},
			Rating: 4.9,
			Bio:    "Senior brand designer building identities and packaging systems for consumer startups.",
		},
		{
			ID:              uuid.NewString(),
			Name:            "Elena Petrova",
			Location:        roster.Location{City: "Bangalore", Country: "India"},
			Categories:      []string{"Photography"},
			Skills:          []string{"Product Photography", "Studio Lighting"},
			ExperienceYears: 2,
			BudgetRange:     roster.BudgetRange{Min: 20000, Max: 60000},
			Portfolio: []roster.PortfolioItem{
				{Tags: []string{"product", "studio"}},
			},
			Rating: 4.2,
			Bio:    "Studio product photographer focused on e-commerce catalogues and tabletop lighting.",
		},
	}}
}
