package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/briefmatch/briefmatch/internal/ai"
	"github.com/briefmatch/briefmatch/internal/ai/gemini"
	"github.com/briefmatch/briefmatch/internal/logger"
	"github.com/briefmatch/briefmatch/internal/matching"
	"github.com/briefmatch/briefmatch/internal/roster"
	"github.com/briefmatch/briefmatch/internal/secrets"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptSave          = "Save matches to the brief"
	PromptNo            = "No"
	PromptBack          = "back"
	PromptReportByCity  = "Report by city"
	PromptMatchesToFile = "Dump matches to file"
	PromptFeedback      = "Leave feedback on a match"
)

var errExit = errors.New("exit requested")

var matchPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptSave, PromptNo, PromptReportByCity, PromptMatchesToFile, PromptFeedback},
}

var matchCmd = &cobra.Command{
	Use:   "match <brief-file>",
	Short: "Rank creators against a brief file and work with the shortlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("auto-approve", "y", false, "save matches without asking for confirmation")
}

// match is the main command for the cli.
func match(cmd *cobra.Command, briefFile string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the briefmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	brief, err := roster.BriefFromFile(briefFile)
	if err != nil {
		logger.Fatal("reading the brief", zap.Error(err))
	}

	if err := brief.Validate(); err != nil {
		logger.Fatal("invalid brief", zap.Error(err))
	}

	if brief.ID == "" {
		brief.ID = uuid.NewString()
	}

	store := roster.Open(config.Store.CreatorsFile, config.Store.BriefsFile, config.Store.FeedbackFile)

	creators, err := store.FindAll()
	if err != nil {
		logger.Fatal("loading creators", zap.Error(err))
	}

	logger.Info("loading creators", zap.Int("count", creators.Len()), zap.Strings("cities", creators.Cities()))

	if creators.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no creators in the store, run 'briefmatch seed' first"))
		return
	}

	client, err := newAIClient(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("continuing without the semantic stage", zap.Error(err))
		client = ai.NewDisabled()
	}

	cache := matching.NewEmbeddingCache(client, store, matchingConfig(config).EmbeddingWindow, 0, logger)
	engine := matching.NewEngine(client, cache, matchingConfig(config), logger)

	logger.Info("starting the match", zap.String("brief", brief.Title))

	results, tier := engine.TopMatches(ctx, creators, brief)

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no creators matched the brief"))
		return
	}

	logger.Info("match finished", zap.String("tier", string(tier)), zap.Int("count", results.Len()))
	printShortlist(results)

	// The traditional single-stage ranking is printed next to the main
	// shortlist so the two schemes can be compared per brief.
	if tier != matching.TierLegacy {
		printLegacy(matching.LegacyRank(creators.Items, brief))
	}

	action := PromptSave
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = matchPrompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(action, store, logger, brief, creators, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if cmd.Flag("auto-approve").Value.String() == "true" {
			return
		}
	}
}

func handleAction(action string, store *roster.Store, logger *zap.Logger, brief *roster.Brief, creators *roster.Creators, results *matching.Results) error {
	switch action {
	case PromptSave:
		brief.Matches = results.ToBriefMatches()
		if err := store.SaveBrief(brief); err != nil {
			return fmt.Errorf("saving the brief: %w", err)
		}
		logger.Info("saved matches to the brief", zap.Int("count", results.Len()))
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByCity:
		pretty, _ := json.MarshalIndent(results.ReportByCity(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", results.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptFeedback:
		return leaveFeedback(store, logger, brief, results)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func leaveFeedback(store *roster.Store, logger *zap.Logger, brief *roster.Brief, results *matching.Results) error {
	items := make([]string, 0, results.Len()+1)
	for _, res := range results.Items {
		items = append(items, fmt.Sprintf("%s %s / %.1f", res.Creator.ID, res.Creator.Name, res.Score))
	}

	creatorPrompt := promptui.Select{
		Label: "Choose a match and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := creatorPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	creatorID := strings.Split(selected, " ")[0]

	ratingPrompt := promptui.Prompt{
		Label: "Rating (1-5)",
		Validate: func(input string) error {
			rating, err := strconv.Atoi(input)
			if err != nil || rating < 1 || rating > 5 {
				return errors.New("rating must be an integer between 1 and 5")
			}
			return nil
		},
	}

	ratingRaw, err := ratingPrompt.Run()
	if err != nil {
		return err
	}
	rating, _ := strconv.Atoi(ratingRaw)

	commentPrompt := promptui.Prompt{Label: "Comment (optional)"}
	comment, err := commentPrompt.Run()
	if err != nil {
		return err
	}

	feedback := &roster.Feedback{
		ID:        uuid.NewString(),
		BriefID:   brief.ID,
		CreatorID: creatorID,
		Rating:    rating,
		Helpful:   rating >= 4,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if err := store.SaveFeedback(feedback); err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}

	logger.Info("feedback saved", zap.String("creator_id", creatorID), zap.Int("rating", rating))
	return nil
}

func printShortlist(results *matching.Results) {
	fmt.Println()
	for i, res := range results.Items {
		fmt.Printf("%2d. %s (%s) - %.1f\n", i+1, res.Creator.Name, res.Creator.Location.City, res.Score)
		fmt.Printf("    %s\n", res.Explanation)
		if len(res.Reasons) > 0 {
			fmt.Printf("    %s\n", strings.Join(res.Reasons, ", "))
		}
	}
	fmt.Println()
}

func printLegacy(items []*matching.Result) {
	fmt.Println("Legacy ranking:")
	for i, res := range items {
		fmt.Printf("%2d. %s - %.0f (%s)\n", i+1, res.Creator.Name, res.Score, strings.Join(res.Reasons, ", "))
	}
	fmt.Println()
}

func matchingConfig(config *Config) matching.Config {
	m := config.Matching
	return matching.Config{
		Limit:            m.Limit,
		MinRuleScore:     m.MinRuleScore,
		TopK:             m.TopK,
		CandidateTimeout: m.CandidateTimeout,
		GlobalTimeout:    m.GlobalTimeout,
		EmbeddingWindow:  m.EmbeddingWindow,
	}
}

func newAIClient(ctx context.Context, config *AIConfig, logger *zap.Logger) (ai.Client, error) {
	if config == nil || !config.Enabled {
		return ai.NewDisabled(), nil
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}

	apiKeyFile := config.Gemini.APIKeyFile
	if apiKeyFile == "" {
		apiKeyFile = viper.GetString("ai.gemini.api-key-file")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: apiKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.Gemini.Model),
		zap.Int("ai_retry_attempts", config.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.EmbedModel, config.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewClient(generator, genLogger, config.Gemini.MaxLogLength), nil
}
