package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/Qwertymart/cdek/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Clusterer asks Gemini to group synonymous job titles. The oracle is
// unreliable: responses may be empty, delayed or malformed, so every
// call retries up to maxAttempts with a fixed delay before the bucket is
// declared failed.
type Clusterer struct {
	generator    contentGenerator
	maxAttempts  int
	pollInterval time.Duration
	logger       *zap.Logger
	maxLogLen    int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxAttempts  = 10
	defaultPollInterval = 3 * time.Second
	defaultMaxLogLength = 200
)

func NewClusterer(generator contentGenerator, maxAttempts int, pollInterval time.Duration, logger *zap.Logger) *Clusterer {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if pollInterval < 0 {
		pollInterval = defaultPollInterval
	}

	return &Clusterer{
		generator:    generator,
		maxAttempts:  maxAttempts,
		pollInterval: pollInterval,
		logger:       logger,
		maxLogLen:    defaultMaxLogLength,
	}
}

// Cluster submits the titles and polls for a usable mapping, bounded by
// maxAttempts. Malformed or empty responses count as failed attempts.
func (c *Clusterer) Cluster(ctx context.Context, titles []string) (map[string][]string, error) {
	if len(titles) == 0 {
		return nil, errors.New("titles list is empty")
	}

	prompt, err := buildPrompt(titles)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	c.logger.Debug("gemini clustering request",
		zap.Int("titles", len(titles)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		raw, err := c.generator.GenerateContent(ctx, prompt)
		if err == nil {
			mapping, perr := parseMapping(raw)
			if perr == nil {
				c.logger.Debug("gemini clustering response",
					zap.Int("attempt", attempt),
					zap.Int("clusters", len(mapping)),
					zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
				)
				return mapping, nil
			}
			err = perr
		}

		lastErr = err
		c.logger.Debug("clustering attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Error(err),
		)

		if attempt < c.maxAttempts {
			if werr := utils.WaitFor(ctx, c.pollInterval); werr != nil {
				return nil, werr
			}
		}
	}

	return nil, fmt.Errorf("clustering failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func buildPrompt(titles []string) (string, error) {
	payload, err := json.Marshal(titles)
	if err != nil {
		return "", err
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Group these job titles into synonym clusters and answer with a JSON object mapping the canonical title to its variants: {{TITLES_JSON}}"
	}

	return strings.ReplaceAll(template, "{{TITLES_JSON}}", string(payload)), nil
}

// parseMapping extracts the canonical->variants object from a raw model
// response, tolerating markdown code fences.
func parseMapping(raw string) (map[string][]string, error) {
	cleaned := extractJSON(raw)

	var mapping map[string][]string
	if err := json.Unmarshal([]byte(cleaned), &mapping); err != nil {
		return nil, fmt.Errorf("parse clustering response: %w", err)
	}

	result := make(map[string][]string, len(mapping))
	for key, variants := range mapping {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		kept := make([]string, 0, len(variants))
		for _, v := range variants {
			if strings.TrimSpace(v) == "" {
				continue
			}
			kept = append(kept, v)
		}
		if len(kept) == 0 {
			continue
		}
		result[key] = kept
	}

	if len(result) == 0 {
		return nil, errors.New("clustering response contains no clusters")
	}

	return result, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
