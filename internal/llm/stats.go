package llm

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"

	"github.com/redis/go-redis/v9"
)

// statsKeyVersion is baked into every redis key so a change to what is
// recorded invalidates old hashes instead of mixing schemas.
const statsKeyVersion = "v1"

// ModelStats is a snapshot of the recorded metrics for one model.
type ModelStats struct {
	ModelID           string `json:"model_id"`
	AvgLatencyMS      int64  `json:"avg_latency_ms"`
	TotalSuccesses    int64  `json:"total_successes"`
	TotalFailures     int64  `json:"total_failures"`
	TotalInputTokens  int64  `json:"total_input_tokens"`
	TotalOutputTokens int64  `json:"total_output_tokens"`
}

// Stats records model-call outcomes in redis. Recording is best-effort:
// failures are logged and never propagate into the chat path.
type Stats struct {
	rdb *redis.Client
}

func NewStats(rdb *redis.Client) *Stats {
	return &Stats{rdb: rdb}
}

func statsKey(modelID string) string {
	return fmt.Sprintf("llmstats:%s:%s", statsKeyVersion, modelID)
}

// RecordSuccess updates counters and folds the observed latency into an
// exponential moving average.
func (s *Stats) RecordSuccess(ctx context.Context, modelID string, latency time.Duration, usage api.Usage) {
	key := statsKey(modelID)
	const alpha = 0.1

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		currentStr, err := tx.HGet(ctx, key, "avg_latency_ms").Result()
		if err != nil && err != redis.Nil {
			return err
		}
		current, _ := strconv.ParseInt(currentStr, 10, 64)
		next := int64(alpha*float64(latency.Milliseconds()) + (1.0-alpha)*float64(current))
		if current == 0 {
			next = latency.Milliseconds()
		}
		_, err = tx.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "avg_latency_ms", next)
			pipe.HIncrBy(ctx, key, "total_successes", 1)
			pipe.HIncrBy(ctx, key, "total_input_tokens", int64(usage.PromptTokens))
			pipe.HIncrBy(ctx, key, "total_output_tokens", int64(usage.CompletionTokens))
			return nil
		})
		return err
	}, key)
	if err != nil {
		log.Printf("Error recording model success for %s: %v", modelID, err)
	}
}

// RecordFailure bumps the failure counter.
func (s *Stats) RecordFailure(ctx context.Context, modelID string) {
	if err := s.rdb.HIncrBy(ctx, statsKey(modelID), "total_failures", 1).Err(); err != nil {
		log.Printf("Error recording model failure for %s: %v", modelID, err)
	}
}

// Snapshot reads back the recorded metrics for a model.
func (s *Stats) Snapshot(ctx context.Context, modelID string) (*ModelStats, error) {
	data, err := s.rdb.HGetAll(ctx, statsKey(modelID)).Result()
	if err != nil {
		return nil, err
	}

	stats := &ModelStats{ModelID: modelID}
	stats.AvgLatencyMS, _ = strconv.ParseInt(data["avg_latency_ms"], 10, 64)
	stats.TotalSuccesses, _ = strconv.ParseInt(data["total_successes"], 10, 64)
	stats.TotalFailures, _ = strconv.ParseInt(data["total_failures"], 10, 64)
	stats.TotalInputTokens, _ = strconv.ParseInt(data["total_input_tokens"], 10, 64)
	stats.TotalOutputTokens, _ = strconv.ParseInt(data["total_output_tokens"], 10, 64)
	return stats, nil
}
