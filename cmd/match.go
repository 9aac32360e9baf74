package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teamfit/teamfit/internal/ai/gemini"
	"github.com/teamfit/teamfit/internal/enrich"
	"github.com/teamfit/teamfit/internal/ingest"
	"github.com/teamfit/teamfit/internal/logger"
	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/ranking"
	"github.com/teamfit/teamfit/internal/secrets"
	"github.com/teamfit/teamfit/internal/team"
)

const (
	PromptShowBreakdown    = "Show score breakdown"
	PromptReportByCategory = "Report by category"
	PromptMatchesToFile    = "Dump matches to file"
	PromptQuit             = "Quit"

	defaultNarrativeTop = 5
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowBreakdown, PromptReportByCategory, PromptMatchesToFile, PromptQuit},
}

var matchCmd = &cobra.Command{
	Use:   "match [spreadsheet]",
	Short: "Rank problem statements from a spreadsheet by fit for the configured team",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the ranked list and exit without the interactive prompt")
	matchCmd.Flags().Int("limit", 0, "maximum number of matches to return (default 10)")
	matchCmd.Flags().Float64("min-score", 0, "drop matches scoring strictly below this value (0-1 scale)")

	viper.BindPFlag("limit", matchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("min-score", matchCmd.Flags().Lookup("min-score"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting teamfit", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	input := config.Input
	if len(args) > 0 {
		input = args[0]
	}
	if strings.TrimSpace(input) == "" {
		logger.Fatal("a spreadsheet is required: pass it as an argument or set the input key in the configuration")
	}

	profile, err := config.Team.Profile()
	if err != nil {
		logger.Fatal("building team profile", zap.Error(err))
	}

	weights, err := resolveWeights(config)
	if err != nil {
		logger.Fatal("resolving weights", zap.Error(err))
	}

	ranker, err := ranking.NewRanker(weights, logger)
	if err != nil {
		logger.Fatal("building ranker", zap.Error(err))
	}

	logger.Info("configured scoring dimensions", zap.Strings("dimensions", weights.Dimensions()))

	problems, err := loadProblems(input, logger)
	if err != nil {
		logger.Fatal("loading problem statements", zap.Error(err))
	}

	logger.Info("loaded problem statements",
		zap.String("file", input),
		zap.Int("count", problems.Len()),
	)

	enricher := prepareEnricher(ctx, config.AI, logger)

	opts := ranking.Options{
		Limit:    viper.GetInt("limit"),
		MinScore: viper.GetFloat64("min-score"),
	}

	if enricher != nil && config.AI.Embeddings {
		scores, err := enricher.TextRelevance(ctx, problems, profile)
		if err != nil {
			logger.Warn("embedding relevance unavailable, falling back to tf-idf", zap.Error(err))
		} else {
			opts.TextRelevance = scores
		}
	}

	matches, err := ranker.Rank(ctx, problems, profile, opts)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if matches.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matches above the score threshold"))
		return
	}

	if enricher != nil {
		annotateTop(ctx, enricher, matches, profile, config.AI)
	}

	renderMatches(matches)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, matches *ranking.Matches) error {
	switch action {
	case PromptShowBreakdown:
		renderBreakdown(matches)
		return nil
	case PromptReportByCategory:
		pretty, _ := json.MarshalIndent(matches.ReportByCategory(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", matches.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadProblems(path string, log *zap.Logger) (*problem.Problems, error) {
	table, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ingest.NewNormalizer(log).Extract(table, path)
}

// prepareEnricher builds the semantic enrichment layer when AI is enabled.
// A nil result means matching runs purely on the deterministic scorers.
func prepareEnricher(ctx context.Context, config *AIConfig, log *zap.Logger) *enrich.Enricher {
	if config == nil || !config.Enabled {
		return nil
	}

	generator, err := newAssistant(ctx, config, log)
	if err != nil {
		log.Warn("skipping semantic enrichment", zap.Error(err))
		return nil
	}

	maxLogLength := 0
	if config.Gemini != nil {
		maxLogLength = config.Gemini.MaxLogLength
	}

	enrichLogger := logger.WithAIFields(log, config.Provider, generator.Model())

	return enrich.New(generator, generator, enrichLogger, enrich.Config{
		Concurrency:  config.Concurrency,
		CallTimeout:  config.Timeout,
		MaxLogLength: maxLogLength,
	})
}

func newAssistant(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithAIFields(log, "gemini", cfg.Gemini.Model)

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel, cfg.Gemini.MaxRetries, genLogger)
}

// annotateTop generates narratives for the leading matches only; the rest
// of the list stays as-is.
func annotateTop(ctx context.Context, enricher *enrich.Enricher, matches *ranking.Matches, profile *team.Profile, config *AIConfig) {
	top := config.NarrativeTop
	if top <= 0 {
		top = defaultNarrativeTop
	}
	if top > matches.Len() {
		top = matches.Len()
	}

	enricher.Annotate(ctx, &ranking.Matches{Items: matches.Items[:top]}, profile)
}

func renderMatches(matches *ranking.Matches) {
	fmt.Printf("\nTop %d matching problem statements:\n\n", matches.Len())
	for i, match := range matches.Items {
		category := match.Problem.Category
		if category == "" {
			category = "uncategorized"
		}
		fmt.Printf("%2d. %6.2f  %s [%s]\n", i+1, match.Score*100, match.Problem.Title, category)
		if match.Recommendation != "" {
			fmt.Printf("    why: %s\n", match.Recommendation)
		}
		if match.SkillGap != "" {
			fmt.Printf("    gaps: %s\n", match.SkillGap)
		}
	}
	fmt.Println()
}

func renderBreakdown(matches *ranking.Matches) {
	for i, match := range matches.Items {
		fmt.Printf("%2d. %s\n", i+1, match.Problem.Title)

		dimensions := make([]string, 0, len(match.Breakdown))
		for dimension := range match.Breakdown {
			dimensions = append(dimensions, dimension)
		}
		sort.Strings(dimensions)

		for _, dimension := range dimensions {
			score := match.Breakdown[dimension]
			fmt.Printf("    %-18s raw=%.3f weight=%.2f contribution=%.3f\n",
				dimension, score.Raw, score.Weight, score.Weighted)
		}
		fmt.Printf("    %-18s %.3f\n", "total", match.Score)
	}
	fmt.Println()
}
