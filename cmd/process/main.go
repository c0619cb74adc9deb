// Command process reruns the normalization pipeline over previously crawled
// raw CSV files. Useful after alias table or extractor changes: no network
// traffic, only transformation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imotstat/go-estate-crawler/internal/cleaner"
	"github.com/imotstat/go-estate-crawler/internal/config"
	"github.com/imotstat/go-estate-crawler/internal/indexer"
	"github.com/imotstat/go-estate-crawler/internal/logging"
	"github.com/imotstat/go-estate-crawler/internal/normalize"
	"github.com/imotstat/go-estate-crawler/internal/transform"
)

func main() {
	cfg := config.Load()

	rawDir := flag.String("raw-dir", cfg.Output.RawDir, "directory with raw CSV files")
	outDir := flag.String("out-dir", cfg.Output.ProcessedDir, "directory for processed CSV files")
	flag.Parse()

	log := logging.Setup(cfg.LogLevel)

	// Positional args name specific files; otherwise the whole raw dir runs.
	files := flag.Args()
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join(*rawDir, "*.csv"))
		if err != nil || len(files) == 0 {
			log.Error("no raw CSV files found", "dir", *rawDir)
			os.Exit(1)
		}
	}

	tracker := normalize.NewTracker()
	transformer := transform.New(tracker, log, transform.Config{BGNRate: cfg.Crawler.BGNRate})
	clean := cleaner.New()

	failures := 0
	for _, file := range files {
		// Unknown-value reports stay per file.
		tracker.Clear()

		outPath, count, err := processFile(file, *outDir, clean, transformer)
		if err != nil {
			log.Error("process failed", "file", file, "err", err)
			failures++
			continue
		}

		log.Info("file processed", "file", file, "out", outPath, "listings", count)
		tracker.LogSummary(log)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func processFile(path, outDir string, clean *cleaner.Cleaner, transformer *transform.Transformer) (string, int, error) {
	raws, err := indexer.ReadRawCSV(path)
	if err != nil {
		return "", 0, err
	}

	for _, raw := range raws {
		clean.Listing(raw)
	}
	listings := transformer.TransformBatch(raws)

	outPath := filepath.Join(outDir, processedName(path))
	writer, err := indexer.NewCSVWriter(outPath)
	if err != nil {
		return "", 0, err
	}
	defer writer.Close()

	if err := writer.BulkIndex(context.Background(), listings); err != nil {
		return "", 0, fmt.Errorf("write processed csv: %w", err)
	}

	return outPath, len(listings), nil
}

func processedName(rawPath string) string {
	base := filepath.Base(rawPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name + "_processed.csv"
}
