package realtime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/realtime"
)

func newServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := uuid.MustParse(r.URL.Query().Get("tenant"))
		hub.Serve(w, r, tenantID, domain.FirmScope(r.URL.Query().Get("firm")))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, tenantID uuid.UUID, firm string) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?tenant=" + tenantID.String() + "&firm=" + firm
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *ws.Conn) (domain.Event, error) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return domain.Event{}, err
	}
	var evt domain.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	return evt, nil
}

func TestHub_PublishFiltersByTenantAndFirm(t *testing.T) {
	hub := realtime.NewHub(nil, zap.NewNop())
	srv := newServer(t, hub)

	tenantA, tenantB := uuid.New(), uuid.New()
	all := dial(t, srv, tenantA, "all")
	acme := dial(t, srv, tenantA, "acme")
	other := dial(t, srv, tenantA, "Globex")
	foreign := dial(t, srv, tenantB, "all")
	require.Eventually(t, func() bool { return hub.ClientCount() == 4 }, time.Second, 10*time.Millisecond)

	hub.Publish(tenantA, domain.Event{
		Type: domain.EntityIndent, ID: uuid.New(), Number: "SI-0001",
		Action: "indent.created", FirmName: "ACME",
	})

	evt, err := readEvent(t, all)
	require.NoError(t, err)
	assert.Equal(t, "SI-0001", evt.Number)

	evt, err = readEvent(t, acme)
	require.NoError(t, err)
	assert.Equal(t, domain.EntityIndent, evt.Type)

	_, err = readEvent(t, other)
	assert.Error(t, err)
	_, err = readEvent(t, foreign)
	assert.Error(t, err)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := realtime.NewHub([]string{"*"}, zap.NewNop())
	srv := newServer(t, hub)

	conn := dial(t, srv, uuid.New(), "all")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := realtime.NewHub([]string{"https://app.example.com"}, zap.NewNop())
	srv := newServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?tenant=" + uuid.NewString() + "&firm=all"
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := ws.DefaultDialer.Dial(url, header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
