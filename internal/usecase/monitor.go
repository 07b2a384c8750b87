package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/vitos/hyper_position_bot/internal/domain"
	"go.uber.org/zap"
)

// monitorState is the per-address memory of the monitor loop. It is
// owned exclusively by that loop; nothing else reads or writes it.
type monitorState struct {
	previous *domain.AccountSnapshot
	firstRun bool
}

// MonitorService runs the polling cycle: for every monitored address,
// fetch the account state, diff it against the last good snapshot and
// dispatch notifications. Addresses are processed strictly one at a
// time; the sleep interval starts when a cycle ends, so a slow cycle
// delays the next one instead of compressing it.
type MonitorService struct {
	registry *AddressRegistry
	provider domain.AccountStateProvider
	notifier *Notifier
	logger   *zap.Logger
	interval time.Duration

	states map[domain.Address]*monitorState
}

func NewMonitorService(registry *AddressRegistry, provider domain.AccountStateProvider, notifier *Notifier, interval time.Duration, logger *zap.Logger) *MonitorService {
	return &MonitorService{
		registry: registry,
		provider: provider,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		states:   make(map[domain.Address]*monitorState),
	}
}

// Run executes cycles until ctx is cancelled. It never returns early:
// a panic escaping a cycle is reported once and the loop resumes after
// the usual interval.
func (s *MonitorService) Run(ctx context.Context) {
	s.logger.Info("monitor started", zap.Duration("interval", s.interval))
	for {
		s.safeCycle(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("monitor stopped")
			return
		case <-time.After(s.interval):
		}
	}
}

func (s *MonitorService) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("monitor cycle: %v", r)
			s.logger.Error("cycle failed", zap.Error(err))
			s.notifier.NotifyCycleError(ctx, err, s.interval)
		}
	}()
	s.runCycle(ctx)
}

func (s *MonitorService) runCycle(ctx context.Context) {
	start := time.Now()

	// A fresh registry snapshot every cycle; additions and removals from
	// the command loop become visible here at the latest.
	addresses := s.registry.List()
	s.syncStates(addresses)

	for _, address := range addresses {
		s.pollAddress(ctx, address)
	}

	s.logger.Info("bot is still running",
		zap.Int("addresses", len(addresses)),
		zap.Duration("ping", time.Since(start)))
}

// syncStates creates first-run state for newly observed addresses and
// drops state for removed ones.
func (s *MonitorService) syncStates(addresses []domain.Address) {
	current := make(map[domain.Address]struct{}, len(addresses))
	for _, address := range addresses {
		current[address] = struct{}{}
		if _, ok := s.states[address]; !ok {
			s.states[address] = &monitorState{firstRun: true}
		}
	}
	for address := range s.states {
		if _, ok := current[address]; !ok {
			delete(s.states, address)
		}
	}
}

func (s *MonitorService) pollAddress(ctx context.Context, address domain.Address) {
	state := s.states[address]

	snapshot, err := s.provider.FetchAccountState(ctx, address)
	if err != nil {
		// The previous snapshot stays untouched so the next successful
		// cycle diffs against the last good state.
		s.logger.Error("fetch account state failed", zap.String("address", address.String()), zap.Error(err))
		s.notifier.NotifyError(ctx, address, err)
		return
	}

	result := DiffSnapshots(state.previous, snapshot, state.firstRun)

	if result.Summary {
		s.notifier.NotifySnapshot(ctx, address, snapshot)
	}
	for _, event := range result.Opened {
		s.notifier.NotifyOpened(ctx, address, event)
	}
	for _, event := range result.Closed {
		s.notifier.NotifyClosed(ctx, address, event)
	}

	state.previous = snapshot
	state.firstRun = false
}
