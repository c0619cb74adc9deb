package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imotstat/go-estate-crawler/internal/cleaner"
	"github.com/imotstat/go-estate-crawler/internal/config"
	"github.com/imotstat/go-estate-crawler/internal/dedup"
	"github.com/imotstat/go-estate-crawler/internal/indexer"
	"github.com/imotstat/go-estate-crawler/internal/logging"
	"github.com/imotstat/go-estate-crawler/internal/normalize"
	"github.com/imotstat/go-estate-crawler/internal/queue"
	"github.com/imotstat/go-estate-crawler/internal/transform"
	"github.com/imotstat/go-estate-crawler/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logging.Setup(cfg.LogLevel)
	log.Info("starting listing worker")

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

	pgIndexer, err := indexer.NewPostgresIndexer(cfg.Postgres.ConnectionString, cfg.Postgres.TableName, log)
	if err != nil {
		log.Error("postgres connection failed", "err", err)
		os.Exit(1)
	}
	defer pgIndexer.Close()
	log.Info("postgres connected")

	indexers := []indexer.Indexer{pgIndexer}

	esIndexer, err := indexer.NewElasticsearchIndexer(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index, log)
	if err != nil {
		// Postgres remains the primary store; search indexing is optional.
		log.Warn("elasticsearch unavailable, continuing without it", "err", err)
	} else {
		if err := esIndexer.EnsureIndex(ctx); err != nil {
			log.Warn("ensure index failed", "err", err)
		}
		indexers = append(indexers, esIndexer)
		log.Info("elasticsearch connected")
	}

	tracker := normalize.NewTracker()
	transformer := transform.New(tracker, log, transform.Config{BGNRate: cfg.Crawler.BGNRate})
	consumer := queue.NewConsumer(rdb, cfg.Redis.ListingQueue, 5*time.Second)
	deduplicator := dedup.New(rdb, cfg.Redis.DedupPrefix, cfg.Redis.DedupTTL)

	w := worker.New(consumer, transformer, cleaner.New(), deduplicator, indexers, log, worker.Config{
		Concurrency: cfg.Worker.Concurrency,
		BatchSize:   cfg.Worker.BatchSize,
	})

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker error", "err", err)
	}

	tracker.LogSummary(log)
	log.Info("worker stopped")
}
