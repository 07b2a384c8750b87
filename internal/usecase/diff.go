package usecase

import (
	"sort"

	"github.com/samber/lo"
	"github.com/vitos/hyper_position_bot/internal/domain"
)

// DiffResult is the outcome of comparing two snapshots of one account.
type DiffResult struct {
	Opened  []domain.PositionEvent
	Closed  []domain.PositionEvent
	Summary bool
}

// DiffSnapshots computes open/close transitions between the previous
// and current snapshot of an account. Pure function, deterministic
// event order (sorted by symbol).
//
// Opened events carry the current record; closed events carry the last
// known record from the previous snapshot, since the position no longer
// exists in the current one. A symbol present on both sides never
// yields an event, even when its size, leverage or PnL changed: the
// engine tracks open/close transitions only.
//
// On the first run for an address no events are emitted at all;
// instead Summary is set so the caller sends a one-time full listing
// (including the "no open positions" case).
func DiffSnapshots(prev, curr *domain.AccountSnapshot, firstRun bool) DiffResult {
	if firstRun {
		return DiffResult{Summary: true}
	}

	var prevPositions map[string]domain.PositionRecord
	if prev != nil {
		prevPositions = prev.Positions
	}

	var result DiffResult

	currSymbols := lo.Keys(curr.Positions)
	sort.Strings(currSymbols)
	for _, symbol := range currSymbols {
		if _, ok := prevPositions[symbol]; !ok {
			result.Opened = append(result.Opened, domain.PositionEvent{
				Kind:   domain.EventOpened,
				Symbol: symbol,
				Record: curr.Positions[symbol],
			})
		}
	}

	prevSymbols := lo.Keys(prevPositions)
	sort.Strings(prevSymbols)
	for _, symbol := range prevSymbols {
		if _, ok := curr.Positions[symbol]; !ok {
			result.Closed = append(result.Closed, domain.PositionEvent{
				Kind:   domain.EventClosed,
				Symbol: symbol,
				Record: prevPositions[symbol],
			})
		}
	}

	return result
}
