// Package service drives the ingestion pipeline (paginated history fetch,
// deduplication, persistence) and the cost-basis report built on top of the
// persisted set.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bintrack/internal/binance"
	"bintrack/internal/domain"
	"bintrack/internal/store"
	"bintrack/internal/util"
)

// HistoryAPI is the slice of the exchange client the Ingestor consumes.
type HistoryAPI interface {
	AutoInvestHistory(ctx context.Context, w util.TimeWindow) ([]binance.AutoInvestItem, error)
	ConvertTradeFlow(ctx context.Context, w util.TimeWindow) ([]binance.ConvertItem, error)
}

// Ingestor downloads auto-invest and convert history over a fixed lookback
// period and persists the deduplicated records.
type Ingestor struct {
	client  HistoryAPI
	store   store.TransactionStore
	archive *store.ParquetArchive // nil disables archiving

	// One limiter per exchange-side rate-limit domain. Auto-invest
	// history consumes per-IP SAPI weight; convert trade flow consumes
	// per-UID SAPI weight. The budgets are independent, so the counters
	// must be too.
	sapiIP  *binance.Limiter[[]binance.AutoInvestItem]
	sapiUID *binance.Limiter[[]binance.ConvertItem]

	log *slog.Logger
}

// NewIngestor creates an Ingestor. archive may be nil to skip the Parquet
// mirror.
func NewIngestor(client HistoryAPI, st store.TransactionStore, archive *store.ParquetArchive, log *slog.Logger) *Ingestor {
	return &Ingestor{
		client:  client,
		store:   st,
		archive: archive,
		sapiIP:  binance.NewLimiter[[]binance.AutoInvestItem](binance.SAPIIPRateLimit, binance.RateWindow),
		sapiUID: binance.NewLimiter[[]binance.ConvertItem](binance.SAPIUIDRateLimit, binance.RateWindow),
		log:     log.With("component", "ingest"),
	}
}

// Run fetches both transaction categories over periodDays split into
// intervalDays pagination windows, filters records already known, and
// persists the remainder. Dropped windows contribute zero records; a
// storage failure aborts the run.
func (ing *Ingestor) Run(ctx context.Context, periodDays, intervalDays int) error {
	existing, err := ing.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted transactions: %w", err)
	}
	seen := NewDedupSet()
	seen.Seed(existing)

	windows := util.PlanWindows(time.Now(), periodDays, intervalDays)
	if len(windows) == 0 {
		ing.log.Info("nothing to fetch", "period_days", periodDays)
		return nil
	}

	ing.log.Info("fetching transaction history",
		"period_days", periodDays,
		"interval_days", intervalDays,
		"windows", len(windows),
		"known_records", seen.Len(),
	)

	txs := ing.fetchAutoInvest(ctx, windows)
	txs = append(txs, ing.fetchConvert(ctx, windows)...)

	fresh := make([]domain.Transaction, 0, len(txs))
	for i := range txs {
		if seen.Seen(&txs[i]) {
			continue
		}
		seen.Add(&txs[i])
		fresh = append(fresh, txs[i])
	}

	if len(fresh) > 0 {
		if err := ing.store.InsertTransactions(ctx, fresh); err != nil {
			return fmt.Errorf("persisting transactions: %w", err)
		}
	}

	ing.log.Info("ingest complete",
		"fetched", len(txs),
		"new", len(fresh),
		"duplicates", len(txs)-len(fresh),
	)

	if ing.archive != nil {
		all, err := ing.store.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("reading transactions for archive: %w", err)
		}
		if err := ing.archive.Write(all); err != nil {
			// The SQLite table is the source of truth; a stale archive is
			// not worth failing the run over.
			ing.log.Warn("updating parquet archive failed", "error", err)
		}
	}

	return nil
}

// fetchAutoInvest submits one request per window through the SAPI-IP
// limiter, flushes, and normalizes the settled purchases. Window-level
// faults have already been reduced to empty results by the client; batch
// errors are logged and the surviving results used.
func (ing *Ingestor) fetchAutoInvest(ctx context.Context, windows []util.TimeWindow) []domain.Transaction {
	for _, w := range windows {
		err := ing.sapiIP.Submit(ctx, binance.AutoInvestHistoryWeightIP,
			func(ctx context.Context) ([]binance.AutoInvestItem, error) {
				return ing.client.AutoInvestHistory(ctx, w)
			})
		if err != nil {
			ing.log.Warn("auto-invest batch reported errors", "error", err)
		}
	}
	if err := ing.sapiIP.Flush(ctx); err != nil {
		ing.log.Warn("auto-invest batch reported errors", "error", err)
	}

	var txs []domain.Transaction
	for _, items := range ing.sapiIP.Drain() {
		for i := range items {
			if !items[i].Settled() {
				continue
			}
			txs = append(txs, items[i].Transaction())
		}
	}
	return txs
}

// fetchConvert is the convert-trade counterpart of fetchAutoInvest, running
// on the SAPI-UID limiter.
func (ing *Ingestor) fetchConvert(ctx context.Context, windows []util.TimeWindow) []domain.Transaction {
	for _, w := range windows {
		err := ing.sapiUID.Submit(ctx, binance.ConvertTradeFlowWeightUID,
			func(ctx context.Context) ([]binance.ConvertItem, error) {
				return ing.client.ConvertTradeFlow(ctx, w)
			})
		if err != nil {
			ing.log.Warn("convert batch reported errors", "error", err)
		}
	}
	if err := ing.sapiUID.Flush(ctx); err != nil {
		ing.log.Warn("convert batch reported errors", "error", err)
	}

	var txs []domain.Transaction
	for _, items := range ing.sapiUID.Drain() {
		for i := range items {
			txs = append(txs, items[i].Transaction())
		}
	}
	return txs
}
