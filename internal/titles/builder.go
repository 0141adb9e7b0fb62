package titles

import (
	"context"
	"strings"

	"github.com/Qwertymart/cdek/internal/ai"

	"go.uber.org/zap"
)

// bucketKeyCutset strips surrounding punctuation from the grouping token.
const bucketKeyCutset = "!@#$%^&*()_+-=[]{}|;:,.<>? "

// Bucket is one group of raw titles submitted to the oracle together.
type Bucket []string

// Builder constructs the synonym map by clustering buckets of related
// titles through an external oracle. Buckets are independent: a failed
// bucket is recorded for later reprocessing and never affects others.
type Builder struct {
	clusterer ai.Clusterer
	logger    *zap.Logger
}

// BuildResult holds the merged mappings plus the buckets that exhausted
// their oracle retries.
type BuildResult struct {
	Mappings map[string][]string
	Failed   []Bucket
}

func NewBuilder(clusterer ai.Clusterer, logger *zap.Logger) *Builder {
	return &Builder{clusterer: clusterer, logger: logger}
}

// Build clusters the given titles bucket by bucket, merging results into
// seed (which may be nil or an earlier mapping file: rebuilding only
// adds or extends mappings). Cancellation keeps everything merged so far
// and marks the unprocessed buckets as failed; the returned error is the
// context error in that case.
func (b *Builder) Build(ctx context.Context, titles []string, seed map[string][]string) (*BuildResult, error) {
	result := &BuildResult{Mappings: make(map[string][]string)}
	MergeMappings(result.Mappings, seed)

	buckets := GroupTitles(titles)
	b.logger.Info("grouped titles into buckets",
		zap.Int("titles", len(titles)),
		zap.Int("buckets", len(buckets)),
	)

	for i, bucket := range buckets {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, buckets[i:]...)
			return result, err
		}

		mapping, err := b.clusterer.Cluster(ctx, bucket)
		if err != nil {
			b.logger.Warn("bucket clustering failed",
				zap.Int("size", len(bucket)),
				zap.String("key", bucketKey(bucket[0])),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, bucket)
			continue
		}

		MergeMappings(result.Mappings, mapping)
		b.logger.Info("bucket clustered",
			zap.Int("size", len(bucket)),
			zap.Int("clusters", len(mapping)),
		)
	}

	return result, nil
}

// GroupTitles partitions titles into buckets keyed by the lower-cased
// first token, so each oracle call sees only plausibly related names.
// Bucket order follows first appearance to keep builds deterministic.
func GroupTitles(titles []string) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)

	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		key := bucketKey(title)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{})
		}
		buckets[i] = append(buckets[i], title)
	}

	return buckets
}

func bucketKey(title string) string {
	first := strings.Fields(title)[0]
	return strings.Trim(strings.ToLower(first), bucketKeyCutset)
}

// MergeMappings unions src into dst. When a canonical key already
// exists, only variants not yet present are appended.
func MergeMappings(dst map[string][]string, src map[string][]string) {
	for key, variants := range src {
		existing, ok := dst[key]
		if !ok {
			dst[key] = append([]string(nil), variants...)
			continue
		}

		seen := make(map[string]struct{}, len(existing))
		for _, v := range existing {
			seen[v] = struct{}{}
		}
		for _, v := range variants {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			existing = append(existing, v)
		}
		dst[key] = existing
	}
}
