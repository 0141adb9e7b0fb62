// Package ingest drains the queue and drives each message through the
// normalize -> resolve -> reconcile pipeline, one message at a time.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Qwertymart/cdek/internal/normalize"
	"github.com/Qwertymart/cdek/internal/titles"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Reconciler persists a batch of records as one atomic unit.
type Reconciler interface {
	Reconcile(ctx context.Context, records []*normalize.Record) error
}

// Stats are cumulative counters over the coordinator's lifetime.
// Skips count records dropped by the skip rules, not failures.
type Stats struct {
	Processed int
	Skipped   int
	Errors    int
}

// Coordinator processes queue messages synchronously: decode, resolve
// titles, derive experience years, reconcile, then ack. Application
// failures nack without requeue since the payload is presumed
// permanently malformed.
type Coordinator struct {
	resolver *titles.Resolver
	store    Reconciler
	logger   *zap.Logger
	stats    Stats
}

func New(resolver *titles.Resolver, store Reconciler, logger *zap.Logger) *Coordinator {
	return &Coordinator{resolver: resolver, store: store, logger: logger}
}

// Run consumes deliveries until the channel closes or the context is
// cancelled. An in-flight message interrupted by cancellation is left
// unacknowledged so the broker redelivers it; reconciliation is
// idempotent, which makes redelivery safe.
func (c *Coordinator) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}

			if err := c.Handle(ctx, delivery.Body); err != nil {
				// Cancellation is not an application failure: the
				// delivery stays unacked so the broker redelivers it.
				if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				c.stats.Errors++
				c.logger.Error("message rejected", zap.Error(err))
				if nerr := delivery.Nack(false, false); nerr != nil {
					return fmt.Errorf("nack: %w", nerr)
				}
				continue
			}

			c.stats.Processed++
			if aerr := delivery.Ack(false); aerr != nil {
				return fmt.Errorf("ack: %w", aerr)
			}
		}
	}
}

// Handle processes one message body. All sub-records of a message share
// one transaction: a malformed record anywhere in the batch means zero
// rows are written for the whole message.
func (c *Coordinator) Handle(ctx context.Context, body []byte) error {
	records, err := DecodeMessage(body)
	if err != nil {
		return err
	}

	batch := make([]*normalize.Record, 0, len(records))
	skipped := 0

	for _, rec := range records {
		if serr := normalize.CheckSkip(rec); serr != nil {
			if !errors.Is(serr, normalize.ErrSkip) {
				return serr
			}
			skipped++
			c.logger.Debug("record skipped",
				zap.String("external_id", rec.Vacancy.ExternalID),
				zap.String("reason", serr.Error()),
			)
			continue
		}

		if verr := normalize.Validate(rec); verr != nil {
			return fmt.Errorf("malformed record: %w", verr)
		}

		rec.Vacancy.Title = c.resolver.Resolve(rec.Vacancy.Title)
		rec.Vacancy.ExperienceYears = normalize.ExperienceYears(rec.Vacancy.ExperienceRequired)
		batch = append(batch, rec)
	}

	c.stats.Skipped += skipped

	// A fully skipped message is still acknowledged: skipping is not an error.
	if len(batch) == 0 {
		c.logger.Debug("message contained no persistable records", zap.Int("skipped", skipped))
		return nil
	}

	if err := c.store.Reconcile(ctx, batch); err != nil {
		return err
	}

	c.logger.Info("message reconciled",
		zap.Int("records", len(batch)),
		zap.Int("skipped", skipped),
		zap.Int("total_processed", c.stats.Processed+1),
	)

	return nil
}

// Stats returns the cumulative counters.
func (c *Coordinator) Stats() Stats {
	return c.stats
}
