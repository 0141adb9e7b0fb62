package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Qwertymart/cdek/internal/ai"
	"github.com/Qwertymart/cdek/internal/ai/gemini"
	"github.com/Qwertymart/cdek/internal/logger"
	"github.com/Qwertymart/cdek/internal/secrets"
	"github.com/Qwertymart/cdek/internal/store"
	"github.com/Qwertymart/cdek/internal/titles"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var overwritePrompt = promptui.Select{
	Label: "Mapping file already exists, rebuild and merge into it?",
	Items: []string{PromptYes, PromptNo},
}

var synonymsCmd = &cobra.Command{
	Use:   "synonyms",
	Short: "Build the canonical title mapping with the clustering oracle",
	Run: func(cmd *cobra.Command, _ []string) {
		synonyms(cmd)
	},
}

func init() {
	rootCmd.AddCommand(synonymsCmd)

	synonymsCmd.Flags().StringP("titles-file", "t", "", "JSON file with raw titles to cluster")
	synonymsCmd.Flags().Bool("from-db", false, "cluster the distinct titles already stored in the database")
	synonymsCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before overwriting the mapping file")

	viper.BindPFlag("synonyms.titles-file", synonymsCmd.Flags().Lookup("titles-file"))
}

// synonyms rebuilds the mapping file. Rebuilds are additive: the
// existing file seeds the result, so earlier clusters survive.
func synonyms(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the synonym builder", zap.String("version", version))

	raw, err := collectTitles(ctx, cmd, config, logger)
	if err != nil {
		logger.Fatal("collecting titles", zap.Error(err))
	}

	if len(raw) == 0 {
		logger.Info("exiting", zap.String("reason", "no titles to cluster"))
		return
	}

	seed := loadSeed(cmd, config.Synonyms.File, logger)
	if seed == nil && fileExists(config.Synonyms.File) {
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	clusterer, err := newClusterer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building clusterer", zap.Error(err))
	}

	result, buildErr := titles.NewBuilder(clusterer, logger).Build(ctx, raw, seed)

	// Partial results are still worth keeping on cancellation.
	if err := titles.WriteMappings(config.Synonyms.File, result.Mappings); err != nil {
		logger.Fatal("writing mappings", zap.Error(err))
	}

	if len(result.Failed) > 0 {
		if err := titles.WriteFailed(config.Synonyms.FailedFile, result.Failed); err != nil {
			logger.Fatal("writing failed buckets", zap.Error(err))
		}
	}

	logger.Info("synonym build finished",
		zap.Int("canonical_titles", len(result.Mappings)),
		zap.Int("failed_buckets", len(result.Failed)),
		zap.String("mappings_file", config.Synonyms.File),
	)

	if buildErr != nil {
		logger.Fatal("build interrupted", zap.Error(buildErr))
	}
}

// collectTitles reads the clustering input either from the titles file
// or from the vacancies already stored in the database.
func collectTitles(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) ([]string, error) {
	if cmd.Flag("from-db").Value.String() == "true" {
		if config.Database == nil || config.Database.URL == "" {
			return nil, errors.New("database url is required with --from-db")
		}

		pool, err := store.NewPool(ctx, config.Database.URL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		stored, err := store.DistinctTitles(ctx, pool)
		if err != nil {
			return nil, err
		}

		logger.Info("collected stored titles", zap.Int("count", len(stored)))
		return stored, nil
	}

	path := config.Synonyms.TitlesFile
	if path == "" {
		return nil, errors.New("titles file is required (set 'synonyms.titles-file' or use --from-db)")
	}

	loaded, err := titles.LoadTitles(path)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded titles", zap.String("file", path), zap.Int("count", len(loaded)))
	return loaded, nil
}

// loadSeed returns the existing mapping to merge into, asking for
// confirmation first unless --yes is set. A nil seed with an existing
// file means the operator declined.
func loadSeed(cmd *cobra.Command, path string, logger *zap.Logger) map[string][]string {
	if !fileExists(path) {
		return map[string][]string{}
	}

	if cmd.Flag("yes").Value.String() == "false" {
		_, answer, err := overwritePrompt.Run()
		if err != nil || answer != PromptYes {
			return nil
		}
	}

	seed, err := titles.LoadMappings(path)
	if err != nil {
		logger.Warn("existing mapping file is unreadable, starting from scratch",
			zap.String("file", path),
			zap.Error(err),
		)
		return map[string][]string{}
	}

	logger.Info("seeding from existing mappings", zap.Int("canonical_titles", len(seed)))
	return seed
}

func newClusterer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Clusterer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	clustererLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewClusterer(generator, cfg.Gemini.MaxAttempts, cfg.Gemini.PollInterval, clustererLogger), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
