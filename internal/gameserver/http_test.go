package gameserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
	"github.com/Neon681/bmt-idle-sub000/internal/gameserver"
)

func newServer(t *testing.T) (*httptest.Server, *gameserver.Game, *gameserver.Hub, func(time.Duration)) {
	t.Helper()
	g, _, clk := freshGame(t)
	logger := zaptest.NewLogger(t)
	hub := gameserver.NewHub(logger)
	g.Subscribe(hub)
	srv := httptest.NewServer(gameserver.NewHTTPHandler(g, hub, logger))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, g, hub, clk.Advance
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeSnapshot(t *testing.T, resp *http.Response) gameserver.Snapshot {
	t.Helper()
	var snap gameserver.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func TestHTTP_StartActivityReturnsSnapshot(t *testing.T) {
	srv, _, _, _ := newServer(t)

	resp := post(t, srv, "/activity", map[string]string{"activity": "chop_tree"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	require.NotNil(t, snap.State.Session)
	assert.Equal(t, training.KindGathering, snap.State.Session.Kind())

	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "woodcutting", training.Skill(decodeSnapshot(t, resp).State.Session))
}

func TestHTTP_ErrorStatuses(t *testing.T) {
	srv, _, _, _ := newServer(t)

	tests := []struct {
		path string
		body map[string]any
		want int
	}{
		{"/activity", map[string]any{"activity": "juggle"}, http.StatusNotFound},
		{"/combat", map[string]any{"monster": "dragon"}, http.StatusNotFound},
		{"/eat", map[string]any{"item": "moon_cheese"}, http.StatusNotFound},
		{"/quest", map[string]any{"quest": "nope"}, http.StatusNotFound},
		{"/activity", map[string]any{"activity": "chop_oak"}, http.StatusConflict},
		{"/activity", map[string]any{"activity": "cook_shrimp"}, http.StatusConflict},
		{"/sell", map[string]any{"item": "logs", "quantity": 1}, http.StatusConflict},
		{"/sell", map[string]any{"item": "logs", "quantity": 0}, http.StatusBadRequest},
		{"/unequip", map[string]any{"slot": "weapon"}, http.StatusConflict},
		{"/eat", map[string]any{"item": "logs"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := post(t, srv, tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHTTP_RejectsMalformedBody(t *testing.T) {
	srv, _, _, _ := newServer(t)
	resp, err := http.Post(srv.URL+"/activity", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_CancelWithEmptyBody(t *testing.T) {
	srv, _, _, _ := newServer(t)
	resp, err := http.Post(srv.URL+"/cancel", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_HistoryWithoutJournal(t *testing.T) {
	srv, _, _, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/history?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/history?limit=-1")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestHub_StreamsEvents(t *testing.T) {
	srv, g, hub, advance := newServer(t)
	ctx := context.Background()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	_, err = g.StartActivity(ctx, "chop_tree")
	require.NoError(t, err)
	advance(4 * time.Second)
	_, err = g.Tick(ctx)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg struct {
		Type string `json:"type"`
		Data struct {
			ItemID   string `json:"item_id"`
			Quantity int    `json:"quantity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "items_produced", msg.Type)
	assert.Equal(t, "logs", msg.Data.ItemID)
	assert.Equal(t, 1, msg.Data.Quantity)
}

func TestHub_DropsClosedSubscribers(t *testing.T) {
	srv, _, hub, _ := newServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}
