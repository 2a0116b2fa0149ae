package main

import (
	"flag"
	"log"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/config"
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/refresh"
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/server"
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/validation"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/brapi"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/directory"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/history"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/movers"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/quotes"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/transport"
)

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "API server port")
	token := flag.String("token", cfg.BrapiToken, "brapi API token (optional)")
	baseURL := flag.String("base-url", cfg.BrapiBaseURL, "brapi base URL")
	flag.Parse()

	tr := transport.New(cfg.HTTPTimeout).WithRetryPolicy(cfg.RetryAttempts, cfg.RetryBackoff)
	client := brapi.NewClient(tr, *baseURL, *token)

	v := validation.New()
	dir := directory.NewCache(client, v, cfg.DirectoryTTL)
	resolver := quotes.NewResolver(client, dir, v)
	fetcher := history.NewFetcher(client)
	ranker := movers.NewRanker(dir)

	if cfg.RefreshSchedule != "" {
		warmer := refresh.NewWarmer(dir, cfg.RefreshSchedule)
		if err := warmer.Start(); err != nil {
			log.Printf("warning: directory warmer disabled: %v", err)
		} else {
			defer warmer.Stop()
		}
	}

	api := server.New(*port, cfg.CORSAllowOrigin, resolver, dir, fetcher, ranker)
	if err := api.Start(); err != nil {
		log.Fatalf("error running API: %v", err)
	}
}
