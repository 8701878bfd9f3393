// Package advisory turns computed metrics into natural-language commentary by
// delegating to an external text-generation service.
package advisory

import (
	"context"
	"fmt"
	"time"

	"github.com/profitlens/profitlens/internal/app/domain/ledger"
	"github.com/profitlens/profitlens/internal/app/metrics"
	"github.com/profitlens/profitlens/pkg/logger"
)

// FallbackText is returned when the external generator fails for any reason.
const FallbackText = "no response from advisory service"

const persona = "You are a concise financial analyst."

// Service builds prompts and recovers from generator failure. Advise never
// returns an error: a failed generation degrades to FallbackText so the
// caller's persistence path is unaffected.
type Service struct {
	generator Generator
	maxTokens int
	timeout   time.Duration
	log       *logger.Logger
}

// New constructs an advisory service around the given generator.
func New(generator Generator, maxTokens int, timeout time.Duration, log *logger.Logger) *Service {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NewDefault("advisory")
	}
	return &Service{
		generator: generator,
		maxTokens: maxTokens,
		timeout:   timeout,
		log:       log,
	}
}

// Advise produces commentary for one period. The second return value reports
// whether the text came from the generator or is the fallback.
func (s *Service) Advise(ctx context.Context, rec ledger.Record, kpis ledger.KPISet) (string, bool) {
	if s.generator == nil {
		return FallbackText, false
	}

	messages := []Message{
		{Role: "system", Content: persona},
		{Role: "user", Content: buildPrompt(rec, kpis)},
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(callCtx, messages, s.maxTokens)
	metrics.RecordAdvisoryCall(err == nil, time.Since(start))
	if err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{"period": rec.Period}).Warn("advisory generation failed; using fallback")
		return FallbackText, false
	}
	return text, true
}

// buildPrompt embeds the period, currency, raw figures, and derived metrics
// into a single analysis request. Margins are pre-formatted to two decimals.
func buildPrompt(rec ledger.Record, kpis ledger.KPISet) string {
	return fmt.Sprintf(
		"You are reviewing financial results. Period: %s, currency: %s.\n"+
			"Revenue: %g, cost of goods sold: %g, operating expenses: %g, taxes: %g.\n"+
			"Derived metrics: gross profit=%g, operating profit=%g, net profit=%g, "+
			"gross margin=%.2f%%, net margin=%.2f%%.\n"+
			"Give a brief, practical analysis in business terms: what to improve and what to watch.",
		rec.Period, rec.Currency,
		rec.Revenue, rec.COGS, rec.Expenses, rec.Taxes,
		kpis.GrossProfit, kpis.OperatingProfit, kpis.NetProfit,
		kpis.GrossMargin, kpis.NetMargin,
	)
}
