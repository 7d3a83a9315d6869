package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/klartext/core"
)

// Strategy selects the retrieval path. It is resolved once at startup from
// configuration, not re-read per call.
type Strategy int

const (
	// StrategyKeywordOnly uses only the in-memory keyword index.
	StrategyKeywordOnly Strategy = iota + 1
	// StrategyFullText prefers the FTS engine, falling back to keyword.
	StrategyFullText
	// StrategyHybrid prefers hybrid fusion, then FTS, then keyword.
	StrategyHybrid
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyKeywordOnly:
		return "keyword"
	case StrategyFullText:
		return "fulltext"
	case StrategyHybrid:
		return "hybrid"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy converts a configuration name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "keyword":
		return StrategyKeywordOnly, nil
	case "fulltext":
		return StrategyFullText, nil
	case "hybrid":
		return StrategyHybrid, nil
	}
	return 0, fmt.Errorf("unknown strategy: %q", name)
}

// Dispatcher is the single retrieval entry point. It expands the query, then
// attempts strategies in fixed priority order, each guarded independently: a
// strategy's failure is caught and logged, falling through to the next. The
// keyword index is the unconditional last resort, so the only failure mode
// is "all strategies yield empty", a valid non-error result.
//
// The optional engines are injected capabilities: a nil hybrid or fulltext
// engine is a normal, typed state, not an exception path.
type Dispatcher struct {
	expander *Expander
	keyword  *KeywordIndex
	hybrid   *HybridSearcher  // optional
	fulltext *FullTextEngine  // optional
	strategy Strategy
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHybrid enables the hybrid strategy.
func WithHybrid(h *HybridSearcher) DispatcherOption {
	return func(d *Dispatcher) {
		d.hybrid = h
	}
}

// WithFullText enables the full-text strategy.
func WithFullText(e *FullTextEngine) DispatcherOption {
	return func(d *Dispatcher) {
		d.fulltext = e
	}
}

// WithStrategy selects the preferred strategy. Default is StrategyHybrid
// (which still degrades through the chain when dependencies are absent).
func WithStrategy(s Strategy) DispatcherOption {
	return func(d *Dispatcher) {
		d.strategy = s
	}
}

// WithDispatcherLogger sets a custom logger. Default is slog.Default().
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher over the mandatory keyword index and the
// given expander.
func NewDispatcher(keyword *KeywordIndex, expander *Expander, opts ...DispatcherOption) (*Dispatcher, error) {
	if keyword == nil {
		return nil, ErrKeywordIndexRequired
	}
	if expander == nil {
		return nil, ErrExpanderRequired
	}
	d := &Dispatcher{
		expander: expander,
		keyword:  keyword,
		strategy: StrategyHybrid,
		logger:   slog.Default().With("component", "dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// IsSemanticSearchReady reports whether the hybrid path's embedding table is
// loaded and valid.
func (d *Dispatcher) IsSemanticSearchReady() bool {
	return d.hybrid != nil && d.hybrid.semantic.IsReady()
}

// SearchKnowledge retrieves up to topK results for the query. It never
// returns an error: every strategy failure degrades to the next tier, ending
// at the keyword index.
func (d *Dispatcher) SearchKnowledge(ctx context.Context, query string, topK int) []*core.SearchResult {
	return d.SearchKnowledgeWithMonitor(ctx, query, topK, nil)
}

// SearchKnowledgeWithMonitor is SearchKnowledge with observer hooks at each
// stage of the dispatch.
func (d *Dispatcher) SearchKnowledgeWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) []*core.SearchResult {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	expanded := d.expander.Expand(query)
	monitor.AfterExpansion(expanded)

	if d.strategy >= StrategyHybrid && d.hybrid != nil {
		monitor.StrategyAttempted(StrategyHybrid)
		results, err := attempt(func() ([]*core.SearchResult, error) {
			fused := d.hybrid.Search(ctx, expanded, topK)
			collapsed := make([]*core.SearchResult, len(fused))
			for i, r := range fused {
				collapsed[i] = r.Collapse()
			}
			return collapsed, nil
		})
		if err == nil {
			monitor.Finish(results)
			return results
		}
		d.logger.Warn("hybrid search failed, falling through", "err", err)
		monitor.StrategyFailed(StrategyHybrid, err)
	}

	if d.strategy >= StrategyFullText && d.fulltext != nil {
		monitor.StrategyAttempted(StrategyFullText)
		results, err := attempt(func() ([]*core.SearchResult, error) {
			return d.fulltext.SearchFTS(ctx, expanded, topK)
		})
		if err == nil {
			monitor.Finish(results)
			return results
		}
		d.logger.Warn("fulltext search failed, falling back to keyword", "err", err)
		monitor.StrategyFailed(StrategyFullText, err)
	}

	monitor.StrategyAttempted(StrategyKeywordOnly)
	results := d.keyword.Search(expanded, topK)
	monitor.Finish(results)
	return results
}

// attempt guards one strategy tier: a panic inside the strategy (a
// misbehaving injected engine, for example) is converted into an error so the
// dispatcher can fall through instead of crashing the query.
func attempt(fn func() ([]*core.SearchResult, error)) (results []*core.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search strategy panic: %v", r)
		}
	}()
	return fn()
}
