// One-shot tool: download Binance auto-invest and convert transaction
// history into a local SQLite database, then report per-asset average cost
// and unrealized profit/loss against the live average price.
//
// Usage:
//
//	go run cmd/bintrack/main.go [-date 01/06/2023] [-interval 30] [-config config/bintrack.yaml]
//
// Without -date no history is fetched; the report is computed from the
// records already persisted. Credentials come from the API_KEY and
// API_SECRET environment variables (or the config file).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"bintrack/internal/binance"
	"bintrack/internal/config"
	"bintrack/internal/service"
	"bintrack/internal/store"
	"bintrack/internal/util"
)

func main() {
	date := flag.String("date", "", "start date of the lookback window (DD/MM/YYYY); no fetch when absent")
	interval := flag.Int("interval", 0, "pagination window size in days (1-30, default 30)")
	cfgFlag := flag.String("config", "", "path to config file")
	flag.Parse()

	cfgPath := *cfgFlag
	if cfgPath == "" {
		cfgPath = "config/bintrack.yaml"
		if p := os.Getenv("BINTRACK_CONFIG"); p != "" {
			cfgPath = p
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	periodDays, intervalDays, err := resolveLookback(*date, *interval, time.Now())
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	client := binance.NewClient(cfg.Binance.BaseURL, cfg.Binance.APIKey, cfg.Binance.APISecret, logger)
	ctx := context.Background()

	if *date != "" {
		var archive *store.ParquetArchive
		if cfg.Storage.DataDir != "" {
			archive = store.NewParquetArchive(cfg.Storage.DataDir)
		}

		ing := service.NewIngestor(client, st, archive, logger)
		if err := ing.Run(ctx, periodDays, intervalDays); err != nil {
			log.Fatalf("ingest error: %v", err)
		}
	} else {
		logger.Info("no start date given, skipping fetch")
	}

	calc := service.NewCalculator(st, service.NewPriceService(client), logger)
	report, err := calc.Report(ctx)
	if err != nil {
		log.Fatalf("report error: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("encoding report: %v", err)
	}
	fmt.Println(string(out))
}

// resolveLookback turns the CLI flags into a (period, interval) pair in
// days. An empty date yields a zero period, which fetches nothing. A
// malformed date or an out-of-range interval is a startup error, caught
// before any network activity.
func resolveLookback(date string, interval int, now time.Time) (int, int, error) {
	if interval < 0 || interval > 30 {
		return 0, 0, fmt.Errorf("interval %d out of range, must be 1-30", interval)
	}

	if date == "" {
		return 0, 0, nil
	}

	start, err := util.ParseStartDate(date)
	if err != nil {
		return 0, 0, err
	}

	period := util.DaysBetween(start, now)
	if period < 0 {
		return 0, 0, fmt.Errorf("start date %s is in the future", date)
	}

	return period, util.ResolveInterval(interval, period), nil
}
