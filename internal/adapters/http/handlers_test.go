package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akarpov/roulette/internal/app"
	"github.com/akarpov/roulette/internal/config"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Service) {
	t.Helper()
	cfg := &config.Config{
		Mode:       "release",
		StaticPath: t.TempDir(),
		KeepAlive:  50 * time.Millisecond,
		ICEServers: []config.ICEServer{{URLs: []string{"stun:stun.example.com:3478"}}},
	}
	svc := app.NewService()
	ts := httptest.NewServer(SetupRouter(cfg, svc))
	t.Cleanup(ts.Close)
	return ts, svc
}

func post(t *testing.T, ts *httptest.Server, path string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return resp.StatusCode, out
}

func registerClient(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	code, body := post(t, ts, "/api/register", nil)
	if code != http.StatusOK {
		t.Fatalf("register status=%d, want 200", code)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("register body=%v, want an id", body)
	}
	return id
}

func TestAPI_FindFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	a := registerClient(t, ts)
	b := registerClient(t, ts)

	code, body := post(t, ts, "/api/find", map[string]string{"id": a})
	if code != http.StatusOK || body["status"] != "waiting" {
		t.Fatalf("find(a) = %d %v, want 200 waiting", code, body)
	}

	code, body = post(t, ts, "/api/find", map[string]string{"id": b})
	if code != http.StatusOK || body["status"] != "matched" {
		t.Fatalf("find(b) = %d %v, want 200 matched", code, body)
	}
	if room, _ := body["room"].(string); room == "" {
		t.Fatalf("find(b) body=%v, want a room id", body)
	}
}

func TestAPI_ErrorMapping(t *testing.T) {
	ts, _ := newTestServer(t)
	a := registerClient(t, ts)

	code, _ := post(t, ts, "/api/find", map[string]string{})
	if code != http.StatusBadRequest {
		t.Fatalf("find without id status=%d, want 400", code)
	}

	code, _ = post(t, ts, "/api/find", map[string]string{"id": "nobody"})
	if code != http.StatusNotFound {
		t.Fatalf("find unknown status=%d, want 404", code)
	}

	code, _ = post(t, ts, "/api/signal", map[string]any{"id": a, "to": "nobody", "type": "offer", "payload": map[string]string{}})
	if code != http.StatusNotFound {
		t.Fatalf("signal to unknown status=%d, want 404", code)
	}

	code, _ = post(t, ts, "/api/signal", map[string]any{"id": a})
	if code != http.StatusBadRequest {
		t.Fatalf("signal with missing fields status=%d, want 400", code)
	}

	code, _ = post(t, ts, "/api/leave", map[string]string{"id": "nobody"})
	if code != http.StatusNotFound {
		t.Fatalf("leave unknown status=%d, want 404", code)
	}
}

func TestAPI_LeaveIsIdempotent(t *testing.T) {
	ts, _ := newTestServer(t)
	a := registerClient(t, ts)
	b := registerClient(t, ts)
	post(t, ts, "/api/find", map[string]string{"id": a})
	post(t, ts, "/api/find", map[string]string{"id": b})

	for i := 0; i < 2; i++ {
		code, body := post(t, ts, "/api/leave", map[string]string{"id": a})
		if code != http.StatusOK || body["ok"] != true {
			t.Fatalf("leave #%d = %d %v, want 200 ok", i+1, code, body)
		}
	}
}

func TestAPI_ClientConfig(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/config")
	if err != nil {
		t.Fatalf("GET /api/config: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		ICEServers []config.ICEServer `json:"iceServers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.ICEServers) != 1 || body.ICEServers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Fatalf("iceServers=%v, want the configured stun server", body.ICEServers)
	}
}

// readSSEEvent parses the next named event off the stream, skipping
// keep-alive comments.
func readSSEEvent(t *testing.T, br *bufio.Reader) (string, []byte) {
	t.Helper()
	var name string
	var data []byte
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = []byte(strings.TrimPrefix(line, "data: "))
		case line == "":
			if name != "" {
				return name, data
			}
		}
	}
}

func TestAPI_EndToEndScenario(t *testing.T) {
	ts, _ := newTestServer(t)
	a := registerClient(t, ts)
	b := registerClient(t, ts)

	resp, err := http.Get(ts.URL + "/api/events?id=" + b)
	if err != nil {
		t.Fatalf("open event stream: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Content-Type=%q, want text/event-stream", ct)
	}
	br := bufio.NewReader(resp.Body)

	if name, _ := readSSEEvent(t, br); name != "status" {
		t.Fatalf("first stream event=%q, want status hello", name)
	}

	post(t, ts, "/api/find", map[string]string{"id": a})
	post(t, ts, "/api/find", map[string]string{"id": b})

	name, data := readSSEEvent(t, br)
	if name != "matched" {
		t.Fatalf("event=%q, want matched", name)
	}
	var matched struct {
		Room string `json:"room"`
		Role string `json:"role"`
		Peer string `json:"peer"`
	}
	if err := json.Unmarshal(data, &matched); err != nil {
		t.Fatalf("matched payload: %v", err)
	}
	if matched.Role != "callee" || matched.Peer != a || matched.Room == "" {
		t.Fatalf("matched=%+v, want callee of %s", matched, a)
	}

	code, _ := post(t, ts, "/api/signal", map[string]any{"id": a, "to": b, "type": "offer", "payload": map[string]string{"sdp": "x"}})
	if code != http.StatusOK {
		t.Fatalf("signal status=%d, want 200", code)
	}
	name, data = readSSEEvent(t, br)
	if name != "signal" {
		t.Fatalf("event=%q, want signal", name)
	}
	var sig struct {
		From    string          `json:"from"`
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &sig); err != nil {
		t.Fatalf("signal payload: %v", err)
	}
	if sig.From != a || sig.Type != "offer" || !bytes.Contains(sig.Payload, []byte(`"sdp":"x"`)) {
		t.Fatalf("signal=%+v, want offer from %s with sdp x", sig, a)
	}

	post(t, ts, "/api/leave", map[string]string{"id": a})
	if name, _ = readSSEEvent(t, br); name != "peer-left" {
		t.Fatalf("event=%q, want peer-left", name)
	}

	// a's channel survived its leave, so b can still reach it.
	code, _ = post(t, ts, "/api/signal", map[string]any{"id": b, "to": a, "type": "candidate", "payload": map[string]string{}})
	if code != http.StatusOK {
		t.Fatalf("signal to leaver status=%d, want 200", code)
	}
}

func TestAPI_StreamEmitsKeepAliveWhenIdle(t *testing.T) {
	ts, _ := newTestServer(t)
	a := registerClient(t, ts)

	resp, err := http.Get(ts.URL + "/api/events?id=" + a)
	if err != nil {
		t.Fatalf("open event stream: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	br := bufio.NewReader(resp.Body)

	if name, _ := readSSEEvent(t, br); name != "status" {
		t.Fatal("missing hello event")
	}

	// KeepAlive is 50ms in the test config; an idle stream must produce a
	// comment line instead of an event.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("no keep-alive comment within 2s")
		}
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, ":") {
			return
		}
	}
}

func TestAPI_EventStreamRejectsUnknownID(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events?id=nobody")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("GET events without id: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}
