package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "12345:TESTTOKEN"

func TestSendMessage(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot"+testToken+"/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, testToken)
	err := client.SendMessage(context.Background(), -100123, "<b>hello</b>")
	require.NoError(t, err)

	assert.Equal(t, float64(-100123), got["chat_id"])
	assert.Equal(t, "<b>hello</b>", got["text"])
	assert.Equal(t, "html", got["parse_mode"])
	assert.Equal(t, true, got["disable_web_page_preview"])
}

func TestSendMessageNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, testToken)
	err := client.SendMessage(context.Background(), 1, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestFetchUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot"+testToken+"/getUpdates", r.URL.Path)
		assert.Equal(t, "60", r.URL.Query().Get("timeout"))
		assert.Equal(t, "7", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"ok":true,"result":[
  {"update_id":7,"message":{"text":"/list","chat":{"id":100}}},
  {"update_id":8,"message":{"text":"/add 0xabc","chat":{"id":200}}},
  {"update_id":9,"edited_message":{"text":"edited","chat":{"id":100}}}
]}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, testToken)
	updates, err := client.FetchUpdates(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, updates, 3)
	assert.Equal(t, int64(7), updates[0].UpdateID)
	assert.Equal(t, int64(100), updates[0].ChatID)
	assert.Equal(t, "/list", updates[0].Text)
	assert.Equal(t, int64(200), updates[1].ChatID)
	// Updates without a message still come back so the cursor can pass
	// them.
	assert.Equal(t, int64(9), updates[2].UpdateID)
	assert.Empty(t, updates[2].Text)
}

func TestFetchUpdatesOmitsZeroOffset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("offset"))
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, testToken)
	updates, err := client.FetchUpdates(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestFetchUpdatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, testToken)
	_, err := client.FetchUpdates(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}
