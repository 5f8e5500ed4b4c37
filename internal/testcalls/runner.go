package testcalls

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

const healthPollInterval = 500 * time.Millisecond

// Run generates calls, submits them concurrently, then fetches the
// leaderboard and prints a summary.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Named("testcalls")
	stats := &Stats{StartTime: time.Now()}

	client := &http.Client{Timeout: cfg.Timeout}
	if err := waitForService(ctx, client, cfg.BaseURL); err != nil {
		return err
	}

	calls := GenerateCalls(cfg)
	stats.CallsGenerated = len(calls)
	log.Info(ctx, "generated calls",
		logger.Int("calls", len(calls)),
		logger.Int("agents", cfg.NumAgents),
	)

	if err := submitCalls(ctx, client, cfg, calls, stats); err != nil {
		return err
	}

	entries, err := fetchLeaderboard(ctx, client, cfg)
	if err != nil {
		return err
	}
	stats.LeaderboardEntries = len(entries)
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "load test complete",
		logger.Int("submitted", stats.CallsSubmitted),
		logger.Int("successful", stats.CallsSuccessful),
		logger.Int("duplicate", stats.CallsDuplicate),
		logger.Int("failed", stats.CallsFailed),
		logger.Int("leaderboard_entries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
	)
	if cfg.Verbose {
		for _, e := range entries {
			log.Info(ctx, "leaderboard entry",
				logger.Int("rank", e.Rank),
				logger.String("agent_id", e.AgentID),
				logger.Float64("average_score", e.AverageScore),
				logger.Int("call_count", e.CallCount),
				logger.String("grade", e.Grade),
				logger.String("trend", e.Trend),
			)
		}
	}
	return nil
}

func waitForService(ctx context.Context, client *http.Client, baseURL string) error {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
		if err != nil {
			return fmt.Errorf("build health request: %w", err)
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("service not healthy: %w", ctx.Err())
		case <-time.After(healthPollInterval):
		}
	}
}

func submitCalls(ctx context.Context, client *http.Client, cfg *Config, calls []Call, stats *Stats) error {
	var submitted, successful, duplicate, failed atomic.Int64

	jobs := make(chan Call)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for call := range jobs {
				submitted.Add(1)
				switch submitSingleCall(ctx, client, cfg.BaseURL, call) {
				case "accepted":
					successful.Add(1)
				case "duplicate":
					duplicate.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}

	for _, call := range calls {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return fmt.Errorf("submission cancelled: %w", ctx.Err())
		case jobs <- call:
		}
	}
	close(jobs)
	wg.Wait()

	stats.CallsSubmitted = int(submitted.Load())
	stats.CallsSuccessful = int(successful.Load())
	stats.CallsDuplicate = int(duplicate.Load())
	stats.CallsFailed = int(failed.Load())
	return nil
}

func submitSingleCall(ctx context.Context, client *http.Client, baseURL string, call Call) string {
	body, err := json.Marshal(call)
	if err != nil {
		return "failed"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/calls", bytes.NewReader(body))
	if err != nil {
		return "failed"
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "failed"
	}
	defer resp.Body.Close()

	var ack AckResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "failed"
	}
	switch {
	case resp.StatusCode == http.StatusAccepted:
		return "accepted"
	case ack.Duplicate:
		return "duplicate"
	default:
		return "failed"
	}
}

func fetchLeaderboard(ctx context.Context, client *http.Client, cfg *Config) ([]Entry, error) {
	url := fmt.Sprintf("%s/leaderboard?limit=%d", cfg.BaseURL, cfg.TopN)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("leaderboard returned %d: %s", resp.StatusCode, body)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}
