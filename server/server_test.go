package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsh/config"
	"jsh/logging"
	"jsh/monitoring"
	"jsh/vfs"
	ws "jsh/websocket"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	tree, err := vfs.LoadSnapshot(strings.NewReader(`
Users:
  jack:
    a.txt: "hello"
`))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Logging.Development = true
	srv := NewServer(cfg, tree, monitoring.NewMetrics(nil), logging.NewNop())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

type client struct {
	t    *testing.T
	conn *gws.Conn
}

func dial(t *testing.T, ts *httptest.Server, query string) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/shell/local" + query
	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return &client{t: t, conn: conn}
}

func (c *client) call(service, id, action string, data any) *ws.ServiceMessage {
	c.t.Helper()
	msg := ws.ServiceMessage{Service: service, Id: id, Action: action}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(c.t, err)
		msg.Data = raw
	}
	require.NoError(c.t, c.conn.WriteJSON(msg))

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply ws.ServiceMessage
	require.NoError(c.t, c.conn.ReadJSON(&reply))
	return &reply
}

func names(t *testing.T, msg *ws.ServiceMessage) []string {
	t.Helper()
	require.Empty(t, msg.Error)
	var d struct {
		Entries []struct {
			Name string `json:"name"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &d))
	out := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		out = append(out, e.Name)
	}
	return out
}

func TestServer_Terminal(t *testing.T) {
	_, ts := newTestServer(t)
	c := dial(t, ts, "")

	start := c.call("shell", "t1", "start", nil)
	require.Empty(t, start.Error)
	assert.Contains(t, string(start.Data), "Last login:")

	cmd := c.call("shell", "t1", "command", "touch b.txt")
	assert.Equal(t, "command", cmd.Action)
	assert.Empty(t, cmd.Error)

	// services of one connection share its tree
	assert.Equal(t, []string{"a.txt", "b.txt"}, names(t, c.call("fs", "~", "list", nil)))

	beat := c.call("heartbeat", "1", "ping", nil)
	assert.Equal(t, "heartbeat", beat.Service)
	assert.Equal(t, "1", beat.Id)

	// every connection starts from the snapshot
	other := dial(t, ts, "")
	assert.Equal(t, []string{"a.txt"}, names(t, other.call("fs", "~", "list", nil)))
}

func TestServer_Profile(t *testing.T) {
	_, ts := newTestServer(t)

	c := dial(t, ts, "?profile=jill")
	start := c.call("shell", "t1", "start", nil)
	require.Empty(t, start.Error)

	var f struct {
		Directory string `json:"directory"`
		Prompt    string `json:"prompt"`
	}
	require.NoError(t, json.Unmarshal(start.Data, &f))
	assert.Equal(t, "/Users/jill", f.Directory)
	assert.Equal(t, "~", f.Prompt)

	_, resp, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/shell/local?profile=..", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Routes(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"cat"`)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `jsh_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestServer_Download(t *testing.T) {
	srv, _ := newTestServer(t)
	get := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shell/download"+query, nil))
		return w
	}

	w := get("?path=~/A.TXT")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
	assert.Equal(t, `attachment; filename="a.txt"`, w.Header().Get("Content-Disposition"))

	w = get("?path=/Users")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	var entries []string
	for _, f := range zr.File {
		entries = append(entries, f.Name)
	}
	assert.Equal(t, []string{"jack/", "jack/a.txt"}, entries)

	assert.Equal(t, http.StatusNotFound, get("?path=~/nope").Code)
	assert.Equal(t, http.StatusBadRequest, get("").Code)
}

func TestServer_Serve(t *testing.T) {
	srv, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/healthz")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
