package domain

import (
	"math"
	"time"
)

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// PositionRecord is one open position of an account at one poll cycle.
// Records are built once at the fetch boundary and never mutated.
type PositionRecord struct {
	Symbol             string
	Size               float64
	Direction          Direction
	Leverage           float64
	EntryPrice         float64
	PositionValue      float64
	UnrealizedPnl      float64
	MarginUsed         float64
	LiquidationPrice   float64
	MaxLeverage        float64
	EstimatedEntrySize float64
	UpdatedAt          time.Time
}

// DirectionFromSize derives the position direction from the signed size.
func DirectionFromSize(size float64) Direction {
	if size > 0 {
		return DirectionLong
	}
	return DirectionShort
}

// EstimateEntrySize is |size| / leverage * entryPrice rounded to cents.
// A zero leverage yields zero rather than dividing by it.
func EstimateEntrySize(size, leverage, entryPrice float64) float64 {
	if leverage == 0 {
		return 0
	}
	return math.Round(math.Abs(size)/leverage*entryPrice*100) / 100
}

// AccountSnapshot is the complete position state of one address at one
// poll cycle, plus the account-level aggregates. A new snapshot replaces
// the previous one; snapshots are never updated in place.
type AccountSnapshot struct {
	Address         Address
	AccountValue    float64
	TotalNotional   float64
	TotalRawUsd     float64
	TotalMarginUsed float64
	Withdrawable    float64
	Positions       map[string]PositionRecord
	FetchedAt       time.Time
}

type EventKind string

const (
	EventOpened EventKind = "opened"
	EventClosed EventKind = "closed"
)

// PositionEvent is an open/close transition detected between two
// snapshots. For closes the Record is the last known (pre-closure) one.
type PositionEvent struct {
	Kind   EventKind
	Symbol string
	Record PositionRecord
}

// InboundMessage is one Telegram update relevant to command processing.
type InboundMessage struct {
	UpdateID int64
	ChatID   int64
	Text     string
}
