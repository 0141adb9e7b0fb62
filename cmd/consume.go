package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Qwertymart/cdek/internal/ingest"
	"github.com/Qwertymart/cdek/internal/logger"
	"github.com/Qwertymart/cdek/internal/queue"
	"github.com/Qwertymart/cdek/internal/store"
	"github.com/Qwertymart/cdek/internal/titles"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume vacancy messages from the queue and reconcile them into the database",
	Run: func(cmd *cobra.Command, _ []string) {
		consume(cmd)
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)

	consumeCmd.Flags().StringP("synonyms-file", "s", "", "canonical->synonyms mapping file for title resolution")

	viper.BindPFlag("synonyms.file", consumeCmd.Flags().Lookup("synonyms-file"))
}

// consume is the long-running worker side of the pipeline.
func consume(_ *cobra.Command) {
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

	logger.Info("starting the consumer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Database == nil || config.Database.URL == "" {
		logger.Fatal("database url is required",
			zap.String("hint", "set DATABASE_URL environment variable or the 'database.url' key in the configuration file"),
		)
	}

	resolver := loadResolver(config.Synonyms.File, logger)

	pool, err := store.NewPool(ctx, config.Database.URL)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrating schema", zap.Error(err))
	}

	q, err := queue.Connect(config.Queue.URL, config.Queue.Name, logger)
	if err != nil {
		logger.Fatal("connecting to queue", zap.Error(err))
	}
	defer q.Close()

	deliveries, err := q.Consume()
	if err != nil {
		logger.Fatal("starting consumption", zap.Error(err))
	}

	coordinator := ingest.New(resolver, store.NewReconciler(pool, logger), logger)

	logger.Info("waiting for messages", zap.String("queue", config.Queue.Name))

	runErr := coordinator.Run(ctx, deliveries)

	stats := coordinator.Stats()
	logger.Info("consumer stopped",
		zap.Int("processed", stats.Processed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)

	if runErr != nil && ctx.Err() == nil {
		logger.Fatal("consumer failed", zap.Error(runErr))
	}
}

// loadResolver builds the title resolver from the mapping file. A missing
// file is not fatal: titles then pass through unresolved.
func loadResolver(path string, logger *zap.Logger) *titles.Resolver {
	resolver, err := titles.LoadResolver(path)
	if err != nil {
		logger.Warn("synonym mapping file not loaded, titles pass through as-is",
			zap.String("file", path),
			zap.Error(err),
		)
		return titles.NewResolver(nil)
	}

	logger.Info("loaded synonym mappings", zap.Int("synonyms", resolver.Len()))
	return resolver
}
