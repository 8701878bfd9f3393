// Package analysis orchestrates one analysis request: compute metrics, obtain
// advisory commentary, persist the period record, and bundle the result.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/profitlens/profitlens/internal/app/domain/ledger"
	"github.com/profitlens/profitlens/internal/app/metrics"
	"github.com/profitlens/profitlens/internal/app/services/advisory"
	"github.com/profitlens/profitlens/internal/app/storage"
	"github.com/profitlens/profitlens/pkg/logger"
)

// DefaultCurrency is assumed when a submission names none.
const DefaultCurrency = "UZS"

// Input is one submitted period. Nil figures are treated as zero: missing
// input is deliberately accepted rather than rejected. The period label is
// stored verbatim.
type Input struct {
	Period   string
	Revenue  *float64
	COGS     *float64
	Expenses *float64
	Taxes    *float64
	Currency string
}

// Result bundles everything an analysis call returns.
type Result struct {
	KPIs   ledger.KPISet `json:"kpis"`
	Advice string        `json:"advice"`
	Record ledger.Record `json:"record"`
}

// Advisor produces commentary for a period; a failed generation is reported
// through the boolean, never an error.
type Advisor interface {
	Advise(ctx context.Context, rec ledger.Record, kpis ledger.KPISet) (string, bool)
}

// Service composes the metric computation, the advisory gateway, and the
// record store for one authenticated owner at a time.
type Service struct {
	records storage.RecordStore
	advisor Advisor
	log     *logger.Logger
}

// New constructs an analysis service.
func New(records storage.RecordStore, advisor Advisor, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("analysis")
	}
	return &Service{
		records: records,
		advisor: advisor,
		log:     log,
	}
}

// Analyze runs the full chain for one submission. Steps are strictly
// sequential: compute, then advise, then persist. Advisory failure degrades
// to fallback text; a store failure fails the whole request.
func (s *Service) Analyze(ctx context.Context, ownerID string, in Input) (Result, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Result{}, fmt.Errorf("owner id is required")
	}

	rec := ledger.Record{
		OwnerID:  ownerID,
		Period:   in.Period,
		Revenue:  deref(in.Revenue),
		COGS:     deref(in.COGS),
		Expenses: deref(in.Expenses),
		Taxes:    deref(in.Taxes),
		Currency: in.Currency,
	}
	if rec.Currency == "" {
		rec.Currency = DefaultCurrency
	}

	kpis := rec.KPIs()

	advice := advisory.FallbackText
	generated := false
	if s.advisor != nil {
		advice, generated = s.advisor.Advise(ctx, rec, kpis)
	}
	metrics.RecordAnalysis(generated)

	saved, err := s.records.CreateRecord(ctx, rec)
	if err != nil {
		return Result{}, fmt.Errorf("persist record: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"owner_id":  ownerID,
		"period":    saved.Period,
		"record_id": saved.ID,
		"generated": generated,
	}).Info("analysis completed")

	return Result{KPIs: kpis, Advice: advice, Record: saved}, nil
}

// ListRecords returns the owner's ledger newest-first. An empty ledger is a
// valid, non-error result.
func (s *Service) ListRecords(ctx context.Context, ownerID string) ([]ledger.Record, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	recs, err := s.records.ListRecords(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if recs == nil {
		recs = []ledger.Record{}
	}
	return recs, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
