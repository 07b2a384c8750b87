package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vitos/hyper_position_bot/internal/domain"
)

const defaultAPIBase = "https://api.telegram.org"

// longPollSeconds is the server-side wait passed to getUpdates. The
// HTTP client ceiling must exceed it or every empty poll times out.
const longPollSeconds = 60

// Client implements domain.Messenger over the Telegram Bot API.
type Client struct {
	apiBase    string
	token      string
	sendClient *http.Client
	pollClient *http.Client
}

func NewClient(token string) *Client {
	return NewClientWithBase(defaultAPIBase, token)
}

// NewClientWithBase exists for tests pointing at a local server.
func NewClientWithBase(apiBase, token string) *Client {
	return &Client{
		apiBase:    apiBase,
		token:      token,
		sendClient: &http.Client{Timeout: 10 * time.Second},
		pollClient: &http.Client{Timeout: (longPollSeconds + 10) * time.Second},
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
}

// SendMessage posts one HTML-formatted message to a chat. Best effort,
// single attempt.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "html",
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.sendClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

type updateResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
	ErrorCode   int    `json:"error_code"`
	Result      []struct {
		UpdateID int64 `json:"update_id"`
		Message  struct {
			Text string `json:"text"`
			Chat struct {
				ID int64 `json:"id"`
			} `json:"chat"`
		} `json:"message"`
	} `json:"result"`
}

// FetchUpdates long-polls getUpdates starting at offset. Updates that
// carry no message (edits, callbacks) still occupy an update_id, so they
// are returned with empty text and advance the cursor like any other.
func (c *Client) FetchUpdates(ctx context.Context, offset int64) ([]domain.InboundMessage, error) {
	params := url.Values{}
	params.Set("timeout", strconv.Itoa(longPollSeconds))
	if offset > 0 {
		params.Set("offset", strconv.FormatInt(offset, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL("getUpdates")+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.FetchError{Op: "getUpdates", Err: err}
	}

	resp, err := c.pollClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Op: "getUpdates", Err: err}
	}
	defer resp.Body.Close()

	var decoded updateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.FetchError{Op: "getUpdates", Err: fmt.Errorf("decode: %w", err)}
	}
	if !decoded.Ok {
		return nil, &domain.FetchError{Op: "getUpdates", Err: fmt.Errorf("api error %d: %s", decoded.ErrorCode, decoded.Description)}
	}

	messages := make([]domain.InboundMessage, 0, len(decoded.Result))
	for _, u := range decoded.Result {
		messages = append(messages, domain.InboundMessage{
			UpdateID: u.UpdateID,
			ChatID:   u.Message.Chat.ID,
			Text:     u.Message.Text,
		})
	}
	return messages, nil
}
