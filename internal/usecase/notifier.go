package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vitos/hyper_position_bot/internal/domain"
	"go.uber.org/zap"
)

const profileURLTemplate = "https://hyperdash.info/trader/%s"

// Notification timestamps are rendered in UTC+7.
var notifyZone = time.FixedZone("UTC+7", 7*60*60)

// Notifier formats position events into HTML messages and sends them to
// the broadcast chat. Delivery is best effort: a failed send is logged
// and swallowed so it can never stall a monitoring cycle.
type Notifier struct {
	messenger domain.Messenger
	prices    domain.PriceSource
	chatID    int64
	logger    *zap.Logger
}

func NewNotifier(messenger domain.Messenger, prices domain.PriceSource, chatID int64, logger *zap.Logger) *Notifier {
	return &Notifier{
		messenger: messenger,
		prices:    prices,
		chatID:    chatID,
		logger:    logger,
	}
}

func (n *Notifier) send(ctx context.Context, text string) {
	if err := n.messenger.SendMessage(ctx, n.chatID, text); err != nil {
		n.logger.Error("send notification failed", zap.Error(err))
	}
}

func (n *Notifier) NotifyOpened(ctx context.Context, address domain.Address, event domain.PositionEvent) {
	r := event.Record
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ [<b>%s</b>]\n", address.Short())
	b.WriteString("❇️ <b>New position opened</b>\n\n")
	fmt.Fprintf(&b, "<b>Position:</b> %s %s %sX\n\n", event.Symbol, r.Direction, formatNum(r.Leverage))
	b.WriteString("💵 Base currency - USDT\n")
	b.WriteString("------------------------------\n")
	fmt.Fprintf(&b, "🎯 <b>Entry Price:</b> %s\n", formatNum(r.EntryPrice))
	fmt.Fprintf(&b, "💰 <b>Est. Entry Size:</b> %s\n", formatNum(r.EstimatedEntrySize))
	fmt.Fprintf(&b, "%s <b>PnL:</b> %s\n\n", pnlEmoji(r.UnrealizedPnl), formatNum(r.UnrealizedPnl))
	fmt.Fprintf(&b, "<b>Last Update:</b>\n%s (UTC+7)\n", r.UpdatedAt.In(notifyZone).Format("2006-01-02 15:04:05"))
	b.WriteString(profileLink(address))
	n.send(ctx, b.String())
}

func (n *Notifier) NotifyClosed(ctx context.Context, address domain.Address, event domain.PositionEvent) {
	r := event.Record
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ [<b>%s</b>]\n", address.Short())
	b.WriteString("⛔️ <b>Position closed</b>\n\n")
	fmt.Fprintf(&b, "<b>Position:</b> %s %s %sX\n", event.Symbol, r.Direction, formatNum(r.Leverage))
	fmt.Fprintf(&b, "💵 <b>Current Price:</b> %s USDT\n\n", n.markPriceText(ctx, event.Symbol))
	fmt.Fprintf(&b, "<b>Last Update:</b>\n%s (UTC+7)\n", time.Now().In(notifyZone).Format("2006-01-02 15:04:05"))
	b.WriteString(profileLink(address))
	n.send(ctx, b.String())
}

// NotifySnapshot sends the one-time full listing emitted the first time
// an address is observed.
func (n *Notifier) NotifySnapshot(ctx context.Context, address domain.Address, snapshot *domain.AccountSnapshot) {
	if len(snapshot.Positions) == 0 {
		n.send(ctx, fmt.Sprintf("⚠️ [<b>%s</b>]\n💎 <b>No positions found</b>", address.Short()))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ [<b>%s</b>]\n💎 <b>Current positions:</b>\n", address.Short())
	fmt.Fprintf(&b, "💰 Account Value: %s USDT\n\n", formatNum(snapshot.AccountValue))

	symbols := lo.Keys(snapshot.Positions)
	sort.Strings(symbols)
	for _, symbol := range symbols {
		r := snapshot.Positions[symbol]
		fmt.Fprintf(&b, "<b>%s</b> %s %sX\n", symbol, r.Direction, formatNum(r.Leverage))
		fmt.Fprintf(&b, "🎯 Entry: %s | 💰 Size: %s\n", formatNum(r.EntryPrice), formatNum(r.EstimatedEntrySize))
		fmt.Fprintf(&b, "%s PnL: %s\n", pnlEmoji(r.UnrealizedPnl), formatNum(r.UnrealizedPnl))
		b.WriteString("------------------------------\n")
	}
	fmt.Fprintf(&b, "<b>Last Update:</b> %s (UTC+7)\n", snapshot.FetchedAt.In(notifyZone).Format("2006-01-02 15:04:05"))
	b.WriteString(profileLink(address))
	n.send(ctx, b.String())
}

// NotifyError reports a per-address fetch failure to the admins.
func (n *Notifier) NotifyError(ctx context.Context, address domain.Address, err error) {
	n.send(ctx, fmt.Sprintf("Error for address <b>%s</b>:\n%v", address, err))
}

// NotifyCycleError reports a cycle-wide failure before the monitor
// backs off for one interval.
func (n *Notifier) NotifyCycleError(ctx context.Context, err error, retryIn time.Duration) {
	n.send(ctx, fmt.Sprintf("Global error occurred:\n%v\n\nRetrying after %s", err, retryIn))
}

func (n *Notifier) markPriceText(ctx context.Context, symbol string) string {
	price, err := n.prices.MarkPrice(ctx, symbol)
	if err != nil {
		n.logger.Warn("mark price lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return "n/a"
	}
	return formatNum(price)
}

func profileLink(address domain.Address) string {
	url := fmt.Sprintf(profileURLTemplate, address)
	return fmt.Sprintf("<a href='%s'><b>VIEW PROFILE ON HYPERDASH</b></a>", url)
}

func pnlEmoji(pnl float64) string {
	if pnl >= 0 {
		return "🟢"
	}
	return "🔴"
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
