package usecase

import (
	"context"
	"time"

	"github.com/vitos/hyper_position_bot/internal/domain"
)

// mockStore records every Save call and can be told to fail.
type mockStore struct {
	initial []domain.Address
	loadErr error
	saveErr error
	saved   [][]domain.Address
}

func (m *mockStore) Load(_ context.Context) ([]domain.Address, error) {
	return m.initial, m.loadErr
}

func (m *mockStore) Save(_ context.Context, addresses []domain.Address) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := make([]domain.Address, len(addresses))
	copy(cp, addresses)
	m.saved = append(m.saved, cp)
	return nil
}

func (m *mockStore) lastSaved() []domain.Address {
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

type sentMessage struct {
	chatID int64
	text   string
}

// mockMessenger captures outbound messages and replays scripted update
// batches.
type mockMessenger struct {
	sent    []sentMessage
	sendErr error

	batches   [][]domain.InboundMessage
	fetchErrs []error
	fetchCall int
}

func (m *mockMessenger) SendMessage(_ context.Context, chatID int64, text string) error {
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return m.sendErr
}

func (m *mockMessenger) FetchUpdates(_ context.Context, _ int64) ([]domain.InboundMessage, error) {
	i := m.fetchCall
	m.fetchCall++
	if i < len(m.fetchErrs) && m.fetchErrs[i] != nil {
		return nil, m.fetchErrs[i]
	}
	if i < len(m.batches) {
		return m.batches[i], nil
	}
	return nil, nil
}

// mockProvider serves scripted snapshots (or errors) per address.
type mockProvider struct {
	fetch func(address domain.Address) (*domain.AccountSnapshot, error)
	price float64
}

func (m *mockProvider) FetchAccountState(_ context.Context, address domain.Address) (*domain.AccountSnapshot, error) {
	return m.fetch(address)
}

func (m *mockProvider) FetchMarkPrice(_ context.Context, _ string) (float64, error) {
	return m.price, nil
}

type mockPrices struct {
	price float64
	err   error
}

func (m *mockPrices) MarkPrice(_ context.Context, _ string) (float64, error) {
	return m.price, m.err
}

// snapshot builds an AccountSnapshot with one long position per symbol.
func snapshot(address domain.Address, symbols ...string) *domain.AccountSnapshot {
	positions := make(map[string]domain.PositionRecord, len(symbols))
	for _, s := range symbols {
		positions[s] = record(s, 1.5, 10, 100)
	}
	return &domain.AccountSnapshot{
		Address:   address,
		Positions: positions,
		FetchedAt: time.Now(),
	}
}

func record(symbol string, size, leverage, entry float64) domain.PositionRecord {
	return domain.PositionRecord{
		Symbol:             symbol,
		Size:               size,
		Direction:          domain.DirectionFromSize(size),
		Leverage:           leverage,
		EntryPrice:         entry,
		PositionValue:      size * entry,
		UnrealizedPnl:      12.5,
		EstimatedEntrySize: domain.EstimateEntrySize(size, leverage, entry),
		UpdatedAt:          time.Now(),
	}
}
