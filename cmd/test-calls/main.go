package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/oakmontrealty/voicrm-coaching/internal/testcalls"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

const (
	defaultNumCalls  = 1000
	defaultNumAgents = 20
	defaultTopN      = 20
	defaultTimeout   = 30 * time.Second
	defaultRunLimit  = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numCalls  = flag.Int("calls", defaultNumCalls, "Number of calls to generate and submit")
		numAgents = flag.Int("agents", defaultNumAgents, "Number of distinct agents")
		topN      = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch")
		workers   = flag.Int("workers", runtime.NumCPU()*2, "Number of concurrent submitters")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Print the final leaderboard")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	cfg := &testcalls.Config{
		BaseURL:   *baseURL,
		NumCalls:  *numCalls,
		NumAgents: *numAgents,
		TopN:      *topN,
		Workers:   *workers,
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if err := testcalls.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("load test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
