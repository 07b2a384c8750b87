package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vitos/hyper_position_bot/internal/domain"
	"go.uber.org/zap"
)

const (
	replyNotPermitted = "You are not permitted to use this command."
	replyUsageAdd     = "Wrong format. Usage: /add <address>"
	replyUsageRemove  = "Wrong format. Usage: /remove <index>"
	replyEmptyList    = "The address list is empty."
	replyUsageHint    = "Commands:\n/add <address> - monitor an address\n/list - list monitored addresses\n/remove <index> - stop monitoring"
)

// CommandProcessor handles admin commands arriving over Telegram and
// mutates the address registry. Unauthorized senders always get a
// refusal; authorized senders always get an explanatory reply, including
// for unrecognized commands.
type CommandProcessor struct {
	registry  *AddressRegistry
	messenger domain.Messenger
	admins    map[int64]struct{}
	logger    *zap.Logger
}

func NewCommandProcessor(registry *AddressRegistry, messenger domain.Messenger, adminIDs []int64, logger *zap.Logger) *CommandProcessor {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &CommandProcessor{
		registry:  registry,
		messenger: messenger,
		admins:    admins,
		logger:    logger,
	}
}

// Handle processes one inbound message. It never returns an error: every
// failure path ends in a reply to the sender, and the caller advances
// the poll cursor regardless of the outcome.
func (p *CommandProcessor) Handle(ctx context.Context, msg domain.InboundMessage) {
	text := strings.TrimSpace(msg.Text)
	if text == "" || !strings.HasPrefix(text, "/") {
		return
	}

	if _, ok := p.admins[msg.ChatID]; !ok {
		p.logger.Warn("unauthorized command", zap.Int64("chat_id", msg.ChatID), zap.String("text", text))
		p.reply(ctx, msg.ChatID, replyNotPermitted)
		return
	}

	fields := strings.Fields(text)
	switch fields[0] {
	case "/add":
		p.handleAdd(ctx, msg.ChatID, fields)
	case "/list":
		p.handleList(ctx, msg.ChatID)
	case "/remove":
		p.handleRemove(ctx, msg.ChatID, fields)
	default:
		p.reply(ctx, msg.ChatID, replyUsageHint)
	}
}

func (p *CommandProcessor) handleAdd(ctx context.Context, chatID int64, fields []string) {
	if len(fields) < 2 {
		p.reply(ctx, chatID, replyUsageAdd)
		return
	}
	raw := fields[1]

	address, err := p.registry.Add(ctx, raw)
	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		p.reply(ctx, chatID, fmt.Sprintf("Failed to add %s: the address must start with 0x and be 42 characters long.", raw))
	case errors.Is(err, domain.ErrDuplicateAddress):
		p.reply(ctx, chatID, fmt.Sprintf("Failed to add %s: already monitored.", raw))
	case err != nil:
		p.logger.Error("add address failed", zap.String("address", raw), zap.Error(err))
		p.reply(ctx, chatID, fmt.Sprintf("Failed to add %s: could not persist the address list.", raw))
	default:
		p.logger.Info("address added", zap.String("address", address.String()))
		p.reply(ctx, chatID, fmt.Sprintf("Now monitoring %s", address))
	}
}

func (p *CommandProcessor) handleList(ctx context.Context, chatID int64) {
	addresses := p.registry.List()
	if len(addresses) == 0 {
		p.reply(ctx, chatID, replyEmptyList)
		return
	}

	var b strings.Builder
	b.WriteString("Monitored addresses:\n")
	for i, address := range addresses {
		fmt.Fprintf(&b, "%d. %s\n", i, address)
	}
	p.reply(ctx, chatID, b.String())
}

func (p *CommandProcessor) handleRemove(ctx context.Context, chatID int64, fields []string) {
	if len(fields) < 2 {
		p.reply(ctx, chatID, replyUsageRemove)
		return
	}

	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 0 {
		p.reply(ctx, chatID, replyUsageRemove)
		return
	}

	removed, err := p.registry.RemoveAt(ctx, index)
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange):
		p.reply(ctx, chatID, fmt.Sprintf("Failed to remove: index %d is not in the list.", index))
	case err != nil:
		p.logger.Error("remove address failed", zap.Int("index", index), zap.Error(err))
		p.reply(ctx, chatID, "Failed to remove: could not persist the address list.")
	default:
		p.logger.Info("address removed", zap.String("address", removed.String()))
		p.reply(ctx, chatID, fmt.Sprintf("Removed %s", removed))
	}
}

func (p *CommandProcessor) reply(ctx context.Context, chatID int64, text string) {
	if err := p.messenger.SendMessage(ctx, chatID, text); err != nil {
		p.logger.Error("send reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
