package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/novacat/internal/adapters/fetch"
	"github.com/okian/novacat/internal/adapters/mq/queue"
	"github.com/okian/novacat/internal/domain/model"
	"github.com/okian/novacat/internal/testrecords"
	"github.com/okian/novacat/pkg/logger"
)

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Ingest NDJSON record files into the catalog",
	Long: `Import reads newline-delimited JSON raw records from the given files
("-" for stdin) and from --url downloads, applies them through the single
ingest worker, writes a checkpoint, and optionally deduplicates first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		generate, _ := cmd.Flags().GetInt("generate")
		dedupe, _ := cmd.Flags().GetBool("dedupe")
		urls, _ := cmd.Flags().GetStringSlice("url")
		offline, _ := cmd.Flags().GetBool("offline")

		if len(args) == 0 && len(urls) == 0 && generate <= 0 {
			return fmt.Errorf("nothing to import: pass record files, --url, or --generate")
		}

		svc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.Start(ctx); err != nil {
			return err
		}
		log := logger.Named("import")

		fail := func(err error) error {
			svc.CloseIntake()
			_ = svc.Wait()
			return err
		}

		for _, path := range args {
			if err := feedFile(cmd, path, svc.Submit); err != nil {
				return fail(err)
			}
		}
		if len(urls) > 0 {
			if err := feedURLs(cmd, urls, offline, svc.Submit); err != nil {
				return fail(err)
			}
		}
		if generate > 0 {
			g := testrecords.NewGenerator(testrecords.Config{Entities: generate})
			sent, err := testrecords.Feed(ctx, g.Generate(), svc.Submit)
			if err != nil {
				return fail(err)
			}
			log.Info(ctx, "synthetic records submitted", logger.Int("count", sent))
		}

		svc.CloseIntake()
		if err := svc.Wait(); err != nil {
			return err
		}

		if dedupe {
			merges, err := svc.Dedupe(ctx)
			if err != nil {
				return err
			}
			log.Info(ctx, "deduplication finished", logger.Int("merges", merges))
		}
		if err := svc.Checkpoint(ctx); err != nil {
			return err
		}

		snap := svc.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d records (%d dropped), %d entities\n",
			snap.Processed, snap.Dropped, snap.Entities)
		return svc.Stop(ctx)
	},
}

func init() {
	importCmd.Flags().Int("generate", 0, "also ingest N synthetic entities")
	importCmd.Flags().Bool("dedupe", false, "deduplicate after ingesting")
	importCmd.Flags().StringSlice("url", nil, "NDJSON record URLs to download and ingest")
	importCmd.Flags().Bool("offline", false, "serve --url downloads from cache only")
}

// feedFile streams one NDJSON file into the intake queue.
func feedFile(cmd *cobra.Command, path string, submit testrecords.Submit) error {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return feedReader(cmd, path, f, submit)
}

// feedURLs downloads record files through the cache and ingests them.
// Downloads run concurrently, bounded by the fetch_workers setting.
func feedURLs(cmd *cobra.Command, urls []string, offline bool, submit testrecords.Submit) error {
	ctx := cmd.Context()
	client, err := fetch.New(cfg.CacheDir,
		fetch.WithTimeout(time.Duration(cfg.FetchTimeoutSec)*time.Second),
		fetch.WithOffline(offline),
	)
	if err != nil {
		return err
	}

	workers := cfg.FetchWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := client.Get(ctx, url)
			if err == nil {
				err = feedReader(cmd, url, bytes.NewReader(data), submit)
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(url)
	}
	wg.Wait()
	return firstErr
}

// feedReader parses NDJSON records and submits them, backing off while the
// queue is full.
func feedReader(cmd *cobra.Command, name string, r io.Reader, submit testrecords.Submit) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec model.RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("%s:%d: %w", name, line, err)
		}
		for {
			err := submit(ctx, rec)
			if err == nil {
				break
			}
			if !errors.Is(err, queue.ErrQueueFull) {
				return fmt.Errorf("%s:%d: %w", name, line, err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Millisecond):
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
