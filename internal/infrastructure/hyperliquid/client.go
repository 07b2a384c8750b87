package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vitos/hyper_position_bot/internal/domain"
)

const (
	DefaultBaseURL = "https://api.hyperliquid.xyz"
	DefaultWSURL   = "wss://api.hyperliquid.xyz/ws"

	infoPath = "/info"
)

// Client talks to the Hyperliquid info API. It performs exactly one
// attempt per call; failure handling belongs to the caller.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) postInfo(ctx context.Context, payload infoRequest) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+infoPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	setBrowserHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// The public info endpoint sits behind the same edge as the hyperdash
// frontend, so requests carry the headers a browser would send.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", "https://hyperdash.info")
	req.Header.Set("Referer", "https://hyperdash.info/")
}

// FetchAccountState fetches the clearinghouse state for an address and
// builds an immutable snapshot from it.
func (c *Client) FetchAccountState(ctx context.Context, address domain.Address) (*domain.AccountSnapshot, error) {
	resp, err := c.postInfo(ctx, infoRequest{Type: "clearinghouseState", User: address.String()})
	if err != nil {
		return nil, &domain.FetchError{Op: "clearinghouseState", Err: err}
	}

	var state clearinghouseState
	if err := json.Unmarshal(resp, &state); err != nil {
		return nil, &domain.FetchError{Op: "clearinghouseState", Err: fmt.Errorf("decode: %w", err)}
	}
	if state.MarginSummary == nil {
		return nil, &domain.FetchError{Op: "clearinghouseState", Err: fmt.Errorf("malformed payload: missing marginSummary")}
	}

	now := time.Now()
	snapshot := &domain.AccountSnapshot{
		Address:         address,
		AccountValue:    parseNum(state.MarginSummary.AccountValue),
		TotalNotional:   parseNum(state.MarginSummary.TotalNtlPos),
		TotalRawUsd:     parseNum(state.MarginSummary.TotalRawUsd),
		TotalMarginUsed: parseNum(state.MarginSummary.TotalMarginUsed),
		Withdrawable:    parseNum(state.Withdrawable),
		Positions:       make(map[string]domain.PositionRecord, len(state.AssetPositions)),
		FetchedAt:       now,
	}

	for _, ap := range state.AssetPositions {
		pos := ap.Position
		if pos.Coin == "" {
			continue
		}
		size := parseNum(pos.Szi)
		entry := parseNum(pos.EntryPx)
		snapshot.Positions[pos.Coin] = domain.PositionRecord{
			Symbol:             pos.Coin,
			Size:               size,
			Direction:          domain.DirectionFromSize(size),
			Leverage:           pos.Leverage.Value,
			EntryPrice:         entry,
			PositionValue:      parseNum(pos.PositionValue),
			UnrealizedPnl:      parseNum(pos.UnrealizedPnl),
			MarginUsed:         parseNum(pos.MarginUsed),
			LiquidationPrice:   parseNum(pos.LiquidationPx),
			MaxLeverage:        pos.MaxLeverage,
			EstimatedEntrySize: domain.EstimateEntrySize(size, pos.Leverage.Value, entry),
			UpdatedAt:          now,
		}
	}

	return snapshot, nil
}

// FetchMarkPrice resolves the venue mark price for a symbol from the
// metaAndAssetCtxs payload: a two-element array whose second element
// lists the per-asset contexts.
func (c *Client) FetchMarkPrice(ctx context.Context, symbol string) (float64, error) {
	resp, err := c.postInfo(ctx, infoRequest{Type: "metaAndAssetCtxs"})
	if err != nil {
		return 0, &domain.FetchError{Op: "metaAndAssetCtxs", Err: err}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(resp, &elems); err != nil {
		return 0, &domain.FetchError{Op: "metaAndAssetCtxs", Err: fmt.Errorf("decode: %w", err)}
	}
	if len(elems) < 2 {
		return 0, &domain.FetchError{Op: "metaAndAssetCtxs", Err: fmt.Errorf("malformed payload: %d elements", len(elems))}
	}

	var ctxs []assetCtx
	if err := json.Unmarshal(elems[1], &ctxs); err != nil {
		return 0, &domain.FetchError{Op: "metaAndAssetCtxs", Err: fmt.Errorf("decode asset ctxs: %w", err)}
	}

	for _, ac := range ctxs {
		if ac.Name == symbol {
			return parseNum(ac.MarkPx), nil
		}
	}
	return 0, domain.ErrPriceUnavailable
}

// MarkPrice implements domain.PriceSource over the REST API.
func (c *Client) MarkPrice(ctx context.Context, symbol string) (float64, error) {
	return c.FetchMarkPrice(ctx, symbol)
}

// parseNum coerces a wire numeric string to float64. Missing, null or
// garbage values become 0 so one corrupt field cannot poison a snapshot.
func parseNum(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
