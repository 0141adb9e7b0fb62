package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Qwertymart/cdek/internal/headhunter"
	"github.com/Qwertymart/cdek/internal/logger"
	"github.com/Qwertymart/cdek/internal/normalize"
	"github.com/Qwertymart/cdek/internal/queue"
	"github.com/Qwertymart/cdek/internal/titles"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Search hh.ru for vacancies, normalize them and publish to the queue",
	Run: func(cmd *cobra.Command, _ []string) {
		fetch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("titles-file", "t", "", "JSON file with the search titles list")
	fetchCmd.Flags().Int("chunk-size", 0, "how many records to batch per queue message")

	viper.BindPFlag("fetch.titles-file", fetchCmd.Flags().Lookup("titles-file"))
	viper.BindPFlag("fetch.chunk-size", fetchCmd.Flags().Lookup("chunk-size"))
}

// fetch is the producer side of the pipeline: search, detail fetch,
// normalize, publish.
func fetch(_ *cobra.Command) {
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

	logger.Info("starting the fetcher", zap.String("version", version))

	if config == nil || config.Fetch == nil || config.Fetch.TitlesFile == "" {
		logger.Fatal("titles file is required",
			zap.String("hint", "set the 'fetch.titles-file' key or the --titles-file flag"),
		)
	}

	searches, err := titles.LoadTitles(config.Fetch.TitlesFile)
	if err != nil {
		logger.Fatal("loading search titles", zap.Error(err))
	}

	logger.Info("loaded search titles", zap.Int("count", len(searches)))

	hh := headhunter.New(ctx, logger)

	if config.UserAgent != "" {
		hh.UserAgent = config.UserAgent
	}

	q, err := queue.Connect(config.Queue.URL, config.Queue.Name, logger)
	if err != nil {
		logger.Fatal("connecting to queue", zap.Error(err))
	}
	defer q.Close()

	published, skipped, failed := 0, 0, 0
	chunk := make([]*normalize.Record, 0, config.Fetch.ChunkSize)

	for _, text := range searches {
		if ctx.Err() != nil {
			break
		}

		found, err := hh.Search(&headhunter.SearchParams{
			Text:    text,
			Areas:   config.Fetch.Areas,
			PerPage: config.Fetch.PerPage,
			Period:  config.Fetch.Period,
		})
		if err != nil {
			logger.Warn("search failed", zap.String("text", text), zap.Error(err))
			failed++
			continue
		}

		logger.Info("search done", zap.String("text", text), zap.Int("found", found.Len()))

		for _, item := range found.Items {
			if ctx.Err() != nil {
				break
			}

			// The search listing has no description, fetch full details.
			vacancy, err := hh.GetVacancy(item.ID)
			if err != nil {
				logger.Warn("vacancy details failed", zap.String("vacancy_id", item.ID), zap.Error(err))
				failed++
				continue
			}

			record, err := normalize.FromHH(vacancy, time.Now())
			if err != nil {
				if errors.Is(err, normalize.ErrSkip) {
					skipped++
					logger.Debug("vacancy skipped",
						zap.String("vacancy_id", item.ID),
						zap.String("reason", err.Error()),
					)
					continue
				}
				logger.Warn("normalizing failed", zap.String("vacancy_id", item.ID), zap.Error(err))
				failed++
				continue
			}

			chunk = append(chunk, record)
			if len(chunk) >= config.Fetch.ChunkSize {
				if err := publishChunk(ctx, q, chunk); err != nil {
					logger.Fatal("publishing chunk", zap.Error(err))
				}
				published += len(chunk)
				chunk = chunk[:0]
			}
		}
	}

	if len(chunk) > 0 {
		if err := publishChunk(ctx, q, chunk); err != nil {
			logger.Fatal("publishing final chunk", zap.Error(err))
		}
		published += len(chunk)
	}

	logger.Info("fetch finished",
		zap.Int("published", published),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
}

func publishChunk(ctx context.Context, q *queue.Queue, records []*normalize.Record) error {
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal chunk: %w", err)
	}
	return q.Publish(ctx, body)
}
