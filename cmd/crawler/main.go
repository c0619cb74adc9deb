package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imotstat/go-estate-crawler/internal/config"
	"github.com/imotstat/go-estate-crawler/internal/domain"
	"github.com/imotstat/go-estate-crawler/internal/fetch"
	"github.com/imotstat/go-estate-crawler/internal/indexer"
	"github.com/imotstat/go-estate-crawler/internal/logging"
	"github.com/imotstat/go-estate-crawler/internal/queue"
	"github.com/imotstat/go-estate-crawler/internal/sites"
)

func main() {
	cfg := config.Load()
	log := logging.Setup(cfg.LogLevel)
	log.Info("starting listing crawler")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis connection failed", "err", err)
		os.Exit(1)
	}
	log.Info("redis connected", "addr", cfg.Redis.Addr)

	publisher := queue.NewPublisher(rdb, cfg.Redis.ListingQueue)

	fetcher := fetch.New(fetch.Config{
		RequestDelay: cfg.Crawler.RequestDelay,
		MaxRetries:   cfg.Crawler.MaxRetries,
		ProxyURL:     cfg.Crawler.ProxyURL,
	}, log)

	sources := []sites.Source{
		sites.NewImotBg(fetcher, cfg.Crawler.ImotBgURLs),
		sites.NewImotiNet(fetcher, cfg.Crawler.ImotiNetURLs),
		sites.NewHomesBg(fetcher, cfg.Crawler.HomesBgURLs, cfg.Crawler.MaxPages),
	}

	// First run at startup, then hourly.
	runAll(ctx, cfg, sources, publisher, log)

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case <-ticker.C:
			runAll(ctx, cfg, sources, publisher, log)
		}
	}
}

func runAll(ctx context.Context, cfg *config.Config, sources []sites.Source, publisher *queue.Publisher, log *slog.Logger) {
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := runSource(ctx, cfg, src, publisher, log); err != nil {
			log.Warn("crawl failed", "site", src.Name(), "err", err)
		}
	}
}

// runSource crawls one site, queueing every page of raw listings and
// mirroring them into the per-run raw CSV.
func runSource(ctx context.Context, cfg *config.Config, src sites.Source, publisher *queue.Publisher, log *slog.Logger) error {
	log.Info("crawling site", "site", src.Name())

	csvPath := filepath.Join(cfg.Output.RawDir,
		fmt.Sprintf("%s_%s.csv", src.Name(), time.Now().UTC().Format("2006-01-02_15-04")))
	rawCSV, err := indexer.NewRawCSVWriter(csvPath)
	if err != nil {
		return err
	}
	defer rawCSV.Close()

	crawler := sites.NewCrawler(src, cfg.Crawler.MaxPages, cfg.Crawler.RequestDelay, log)

	total := 0
	err = crawler.CrawlWithCallback(ctx, func(listings []*domain.RawListing) error {
		if err := publisher.PublishBatch(ctx, listings); err != nil {
			return err
		}
		if err := rawCSV.Write(listings); err != nil {
			log.Warn("raw csv write failed", "site", src.Name(), "err", err)
		}
		total += len(listings)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("site crawled", "site", src.Name(), "listings", total, "raw_csv", csvPath)
	return nil
}
