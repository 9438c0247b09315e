package embedder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/rulerag/internal/document"
)

const maxRetries = 3

// EmbedChunks embeds a chunk sequence with bounded concurrency. Results are
// returned in input order regardless of completion order. Any chunk that
// still fails after retries fails the whole batch; a partially embedded set
// must never reach the index.
func EmbedChunks(ctx context.Context, e TextEmbedder, chunks []document.Chunk, concurrency int, log *slog.Logger) ([]document.EmbeddedChunk, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	type result struct {
		idx int
		vec []float32
		err error
	}
	results := make(chan result, len(chunks))
	sem := make(chan struct{}, concurrency)

	for i, chunk := range chunks {
		sem <- struct{}{}
		go func(i int, text string) {
			defer func() { <-sem }()
			vec, err := embedWithRetry(ctx, e, text, TaskDocument, log)
			results <- result{idx: i, vec: vec, err: err}
		}(i, chunk.Text)
	}

	vectors := make([][]float32, len(chunks))
	done := 0
	var firstErr error
	for range chunks {
		r := <-results
		done++
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("embed chunk %s: %w", chunks[r.idx].ChunkID, r.err)
		}
		vectors[r.idx] = r.vec
		if done%50 == 0 {
			log.Info("embedding progress", "done", done, "total", len(chunks))
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	embedded := make([]document.EmbeddedChunk, len(chunks))
	for i, chunk := range chunks {
		embedded[i] = document.EmbeddedChunk{
			ChunkID:        chunk.ChunkID,
			Text:           chunk.Text,
			Embedding:      vectors[i],
			Metadata:       chunk.Metadata,
			EmbeddingModel: e.Model(),
		}
	}
	return embedded, nil
}

// embedWithRetry retries transient service failures with jittered backoff.
func embedWithRetry(ctx context.Context, e TextEmbedder, text, taskType string, log *slog.Logger) ([]float32, error) {
	var lastErr error
	for attempt := range maxRetries {
		vec, err := e.EmbedText(ctx, text, taskType)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
		log.Warn("retryable embedding error", "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
