package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	config := DefaultServerConfig()
	config.Timeout = 2 * time.Second
	server := NewServer(config, newTestHandler(t, &fakeModel{label: 1, confidence: 0.8}, nil), nil)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServerMiddleware(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers")
	}

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/predict", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Fatal("expected CORS header")
	}
}

func TestServerRejectsLargeBody(t *testing.T) {
	ts := newTestServer(t)
	body := `{"gender":"` + strings.Repeat("x", 128<<10) + `"}`
	resp, err := http.Post(ts.URL+"/api/predict", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestFormSocket(t *testing.T) {
	ts := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/form"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	send := func(msg string) formReply {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var reply formReply
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		return reply
	}

	reply := send(`{"type":"preview","input":` + sampleJSON + `}`)
	if reply.Type != "preview" || reply.Preview == nil {
		t.Fatalf("expected preview, got %+v", reply)
	}
	if reply.Preview.Decoded.Workclass != "Private" {
		t.Fatalf("unexpected decoded workclass %q", reply.Preview.Decoded.Workclass)
	}

	reply = send(`{"type":"predict","input":` + sampleJSON + `}`)
	if reply.Type != "result" || reply.Result == nil || reply.Result.Outcome != ">50K" {
		t.Fatalf("expected >50K result, got %+v", reply)
	}

	bad := strings.Replace(sampleJSON, "Private Sector", "Private", 1)
	reply = send(`{"type":"preview","input":` + bad + `}`)
	if reply.Type != "error" || !strings.Contains(reply.Error, "unknown display label") {
		t.Fatalf("expected error reply, got %+v", reply)
	}

	reply = send(`{"type":"dance"}`)
	if reply.Type != "error" {
		t.Fatalf("expected error for unknown type, got %+v", reply)
	}
}
