package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/hyper_position_bot/internal/domain"
	"go.uber.org/zap"
)

func TestNotifyClosedIncludesMarkPrice(t *testing.T) {
	messenger := &mockMessenger{}
	notifier := NewNotifier(messenger, &mockPrices{price: 64123.5}, broadcastChat, zap.NewNop())

	event := domain.PositionEvent{Kind: domain.EventClosed, Symbol: "BTC", Record: record("BTC", 2, 10, 60000)}
	notifier.NotifyClosed(context.Background(), testAddress, event)

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0].text, "64123.5 USDT")
}

func TestNotifyClosedFallsBackWhenPriceUnavailable(t *testing.T) {
	messenger := &mockMessenger{}
	notifier := NewNotifier(messenger, &mockPrices{err: domain.ErrPriceUnavailable}, broadcastChat, zap.NewNop())

	event := domain.PositionEvent{Kind: domain.EventClosed, Symbol: "BTC", Record: record("BTC", 2, 10, 60000)}
	notifier.NotifyClosed(context.Background(), testAddress, event)

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0].text, "n/a USDT")
}

func TestNotifyOpenedLinksFullAddressShowsShortOne(t *testing.T) {
	messenger := &mockMessenger{}
	notifier := NewNotifier(messenger, &mockPrices{}, broadcastChat, zap.NewNop())

	event := domain.PositionEvent{Kind: domain.EventOpened, Symbol: "ETH", Record: record("ETH", -4, 25, 2500)}
	notifier.NotifyOpened(context.Background(), testAddress, event)

	require.Len(t, messenger.sent, 1)
	text := messenger.sent[0].text
	assert.Contains(t, text, "[<b>"+testAddress.Short()+"</b>]")
	assert.Contains(t, text, "https://hyperdash.info/trader/"+string(testAddress))
	assert.Contains(t, text, "ETH SHORT 25X")
}

func TestNotifySendFailureIsSwallowed(t *testing.T) {
	messenger := &mockMessenger{sendErr: assert.AnError}
	notifier := NewNotifier(messenger, &mockPrices{}, broadcastChat, zap.NewNop())

	notifier.NotifySnapshot(context.Background(), testAddress, snapshot(testAddress))

	assert.Len(t, messenger.sent, 1)
}
