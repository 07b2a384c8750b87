package domain

import "context"

// AccountStateProvider fetches account state from the Hyperliquid info
// API. One attempt per call; retries are the caller's decision.
type AccountStateProvider interface {
	FetchAccountState(ctx context.Context, address Address) (*AccountSnapshot, error)
	FetchMarkPrice(ctx context.Context, symbol string) (float64, error)
}

// PriceSource resolves a mark price for a symbol. Implementations may
// serve from a live cache or hit the REST API.
type PriceSource interface {
	MarkPrice(ctx context.Context, symbol string) (float64, error)
}

// Messenger is the Telegram Bot API surface the bot needs.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	FetchUpdates(ctx context.Context, offset int64) ([]InboundMessage, error)
}

// AddressStore persists the monitored address list. Save rewrites the
// full list on every call.
type AddressStore interface {
	Load(ctx context.Context) ([]Address, error)
	Save(ctx context.Context, addresses []Address) error
}
