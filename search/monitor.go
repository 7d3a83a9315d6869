package search

import (
	"github.com/poiesic/klartext/core"
)

// SearchMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during dispatch.
type SearchMonitor interface {
	Start(query string)
	AfterExpansion(expanded string)
	StrategyAttempted(strategy Strategy)
	StrategyFailed(strategy Strategy, err error)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterExpansion(_ string)            {}
func (n *noopMonitor) StrategyAttempted(_ Strategy)       {}
func (n *noopMonitor) StrategyFailed(_ Strategy, _ error) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)      {}
