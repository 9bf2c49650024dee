package inspect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/quotely/signal/pkg/instrument"
	"github.com/quotely/signal/pkg/reactive"
)

type profile struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type fixture struct {
	registry *reactive.Registry
	profile  *reactive.Signal[profile]
	count    *reactive.Signal[int]
	server   *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics := instrument.Prometheus(instrument.WithRegistry(reg))

	f := &fixture{
		registry: reactive.NewRegistry(),
		profile:  reactive.New(profile{Name: "ada"}, reactive.WithName("profile"), reactive.WithObserver(metrics)),
		count:    reactive.New(0, reactive.WithName("count"), reactive.WithObserver(metrics)),
	}
	require.NoError(t, reactive.Register(f.registry, f.profile))
	require.NoError(t, reactive.Register(f.registry, f.count))

	srv := New(Config{
		Registry:    f.registry,
		Gatherer:    reg,
		Logger:      slog.New(slog.DiscardHandler),
		CheckOrigin: func(*http.Request) bool { return true },
	})
	f.server = httptest.NewServer(srv.Handler())
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestListSignals(t *testing.T) {
	f := newFixture(t)
	f.count.Watch(func(int) {})

	status, body := f.do(t, http.MethodGet, "/signals", "")
	require.Equal(t, http.StatusOK, status)

	var got []SignalInfo
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, []SignalInfo{
		{Name: "count", Subscribers: 1},
		{Name: "profile", Subscribers: 0},
	}, got)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/signals/profile", "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"name":"ada","score":0}`, string(body))

	status, body = f.do(t, http.MethodGet, "/signals/missing", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Contains(t, string(body), `"code":"S001"`)
}

func TestAssignValue(t *testing.T) {
	f := newFixture(t)

	var seen []profile
	f.profile.Watch(func(p profile) { seen = append(seen, p) })

	status, body := f.do(t, http.MethodPut, "/signals/profile/value", `{"name":"grace","score":3}`)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"name":"grace","score":3}`, string(body))
	require.Equal(t, profile{Name: "grace", Score: 3}, f.profile.Get())
	require.Len(t, seen, 1)

	status, body = f.do(t, http.MethodPut, "/signals/profile/value", `"not a profile"`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, string(body), `"code":"S002"`)
	require.Equal(t, "grace", f.profile.Get().Name)

	status, _ = f.do(t, http.MethodPut, "/signals/nope/value", `1`)
	require.Equal(t, http.StatusNotFound, status)
}

func TestPropertyRead(t *testing.T) {
	f := newFixture(t)
	f.count.SetValue(7)

	tests := []struct {
		key    string
		status int
		check  func(t *testing.T, body []byte)
	}{
		{key: "value", status: http.StatusOK, check: func(t *testing.T, body []byte) {
			require.Equal(t, "7", strings.TrimSpace(string(body)))
		}},
		{key: "signalName", status: http.StatusOK, check: func(t *testing.T, body []byte) {
			require.JSONEq(t, `"count"`, string(body))
		}},
		{key: "subscribe", status: http.StatusOK, check: func(t *testing.T, body []byte) {
			var info PropertyInfo
			require.NoError(t, json.Unmarshal(body, &info))
			require.Equal(t, "method", info.Kind)
			require.Equal(t, "subscribe", info.Key)
		}},
		{key: "then", status: http.StatusNotFound},
		{key: "toJSON", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			status, body := f.do(t, http.MethodGet, "/signals/count/"+tt.key, "")
			require.Equal(t, tt.status, status)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	f.count.SetValue(1)

	status, body := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"status":"ok"}`, string(body))

	status, body = f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), `signal_writes_total{path="assign",signal="count"} 1`)
}

func dialStream(t *testing.T, f *fixture, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?signal=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStream(t *testing.T) {
	f := newFixture(t)
	conn := dialStream(t, f, "count")

	first := readMessage(t, conn)
	require.Equal(t, "count", first.Signal)
	require.JSONEq(t, `0`, string(first.Value))

	require.Eventually(t, func() bool { return f.count.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)

	f.count.SetValue(1)
	f.count.SetValue(2)
	require.JSONEq(t, `1`, string(readMessage(t, conn).Value))
	require.JSONEq(t, `2`, string(readMessage(t, conn).Value))
}

func TestStreamReleasesSubscriptionOnClose(t *testing.T) {
	f := newFixture(t)
	conn := dialStream(t, f, "profile")
	readMessage(t, conn)
	require.Eventually(t, func() bool { return f.profile.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return f.profile.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestStreamUnknownSignal(t *testing.T) {
	f := newFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?signal=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := New(Config{
		Registry:        reactive.NewRegistry(),
		Gatherer:        prometheus.NewRegistry(),
		Logger:          slog.New(slog.DiscardHandler),
		ShutdownTimeout: time.Second,
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNewRequiresRegistry(t *testing.T) {
	require.Panics(t, func() { New(Config{}) })
}
