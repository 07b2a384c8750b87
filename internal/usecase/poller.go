package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/vitos/hyper_position_bot/internal/domain"
	"go.uber.org/zap"
)

// CommandPoller long-polls Telegram for inbound commands and feeds them
// to the processor. The cursor advances past every delivered update
// exactly once, before its outcome is known, so a command that fails is
// never re-delivered and never skipped.
type CommandPoller struct {
	messenger domain.Messenger
	processor *CommandProcessor
	logger    *zap.Logger
	idle      time.Duration
}

func NewCommandPoller(messenger domain.Messenger, processor *CommandProcessor, idle time.Duration, logger *zap.Logger) *CommandPoller {
	return &CommandPoller{
		messenger: messenger,
		processor: processor,
		logger:    logger,
		idle:      idle,
	}
}

// Run polls until ctx is cancelled. Fetch errors (including long-poll
// timeouts) are transient: log, back off, retry. The loop never
// terminates on its own.
func (p *CommandPoller) Run(ctx context.Context) {
	p.logger.Info("command poller started")

	var offset int64
	bo := backoff.NewExponentialBackOff()

	for {
		if ctx.Err() != nil {
			p.logger.Info("command poller stopped")
			return
		}

		next, err := p.pollOnce(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("command poller stopped")
				return
			}
			wait := bo.NextBackOff()
			p.logger.Error("fetch updates failed", zap.Error(err), zap.Duration("retry_in", wait))
			sleepCtx(ctx, wait)
			continue
		}
		bo.Reset()
		offset = next

		sleepCtx(ctx, p.idle)
	}
}

// pollOnce fetches one batch and processes it, returning the new cursor:
// the highest delivered update id plus one, regardless of how many
// messages produced errors. A panic escaping a handler is converted to
// an error and the cursor keeps everything delivered so far, the
// panicking update included, so it is never re-delivered.
func (p *CommandPoller) pollOnce(ctx context.Context, offset int64) (next int64, err error) {
	next = offset
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command poll: %v", r)
		}
	}()

	updates, err := p.messenger.FetchUpdates(ctx, offset)
	if err != nil {
		return next, err
	}

	for _, msg := range updates {
		next = msg.UpdateID + 1
		p.processor.Handle(ctx, msg)
	}
	return next, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
