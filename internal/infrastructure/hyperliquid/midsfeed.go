package hyperliquid

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vitos/hyper_position_bot/internal/domain"
	"go.uber.org/zap"
)

// MidsFeed keeps a cache of mark prices fed by the Hyperliquid allMids
// websocket channel. It reconnects on its own; a missing quote is not
// an error condition, callers fall back to REST.
type MidsFeed struct {
	wsURL  string
	logger *zap.Logger

	mu   sync.RWMutex
	mids map[string]float64
}

func NewMidsFeed(wsURL string, logger *zap.Logger) *MidsFeed {
	if wsURL == "" {
		wsURL = DefaultWSURL
	}
	return &MidsFeed{
		wsURL:  wsURL,
		logger: logger,
		mids:   make(map[string]float64),
	}
}

// Start runs the connect/read loop until ctx is cancelled. It should be
// called in a goroutine.
func (f *MidsFeed) Start(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := f.connectAndRead(ctx); err != nil {
			f.logger.Warn("mids feed disconnected", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (f *MidsFeed) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := map[string]interface{}{
		"method": "subscribe",
		"subscription": map[string]string{
			"type": "allMids",
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}

	f.logger.Info("mids feed connected", zap.String("url", f.wsURL))

	// The watcher must die with the connection, not with ctx, or every
	// reconnect leaks a goroutine holding the old conn.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		f.handleMessage(message)
	}
}

func (f *MidsFeed) handleMessage(message []byte) {
	var frame struct {
		Channel string `json:"channel"`
		Data    struct {
			Mids map[string]string `json:"mids"`
		} `json:"data"`
	}
	if err := json.Unmarshal(message, &frame); err != nil {
		f.logger.Debug("mids feed: undecodable frame", zap.Error(err))
		return
	}
	if frame.Channel != "allMids" || len(frame.Data.Mids) == 0 {
		return
	}

	f.mu.Lock()
	for symbol, raw := range frame.Data.Mids {
		if v := parseNum(raw); v > 0 {
			f.mids[symbol] = v
		}
	}
	f.mu.Unlock()
}

// MarkPrice implements domain.PriceSource from the cache.
func (f *MidsFeed) MarkPrice(_ context.Context, symbol string) (float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if v, ok := f.mids[symbol]; ok {
		return v, nil
	}
	return 0, domain.ErrPriceUnavailable
}

// FallbackPriceSource queries sources in order and returns the first
// quote found. Used to prefer the websocket cache over a REST call.
type FallbackPriceSource struct {
	sources []domain.PriceSource
}

func NewFallbackPriceSource(sources ...domain.PriceSource) *FallbackPriceSource {
	return &FallbackPriceSource{sources: sources}
}

func (p *FallbackPriceSource) MarkPrice(ctx context.Context, symbol string) (float64, error) {
	var lastErr error = domain.ErrPriceUnavailable
	for _, s := range p.sources {
		v, err := s.MarkPrice(ctx, symbol)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return 0, lastErr
}
