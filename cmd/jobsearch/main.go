package main

// Search for internship listings from the command line:
//   go run ./cmd/jobsearch -q "Backend Internships" -limit 5

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"internship-ats/internal/bootstrap"
	"internship-ats/internal/jobs"
	"internship-ats/internal/shared/config"
)

func main() {
	cfg := config.Load()

	query := flag.String("q", jobs.DefaultQuery, "Search query")
	limit := flag.Int("limit", cfg.SearchResultLimit, "Maximum number of listings")
	provider := flag.String("provider", cfg.SearchProvider, "Search provider (google or duckduckgo)")
	flag.Parse()

	cfg.SearchProvider = strings.ToLower(strings.TrimSpace(*provider))
	searcher, rdb, err := bootstrap.BuildSearcher(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listings, err := searcher.Search(ctx, *query, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(listings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
