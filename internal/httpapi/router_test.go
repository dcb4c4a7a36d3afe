package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"voicechat/internal/chat"
	"voicechat/internal/db"
	"voicechat/internal/httpapi"
	"voicechat/internal/status"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, statusStore *status.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Connect("sqlite", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	svc := chat.NewService(chat.NewRepo(gdb), nil)
	return httpapi.NewRouter(svc, statusStore, nil)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: bad envelope %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	code, env := doJSON(t, r, http.MethodPost, "/chat/sessions",
		`{"websocket_url":"wss://x","api_token":"t"}`)
	if code != http.StatusOK {
		t.Fatalf("create session: status %d message %q", code, env.Message)
	}

	var sess chat.Session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.ConnectionStatus != chat.StatusConnecting {
		t.Fatalf("expected default connecting, got %q", sess.ConnectionStatus)
	}
	if sess.APIToken != "t" || sess.WebsocketURL != "wss://x" {
		t.Fatalf("credentials not stored verbatim: %+v", sess)
	}

	code, env = doJSON(t, r, http.MethodGet, "/chat/sessions/"+sess.ID, "")
	if code != http.StatusOK {
		t.Fatalf("get session: status %d", code)
	}
	var got chat.Session
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("expected id %q, got %q", sess.ID, got.ID)
	}

	code, env = doJSON(t, r, http.MethodPatch, "/chat/sessions/"+sess.ID,
		`{"connection_status":"connected"}`)
	if code != http.StatusOK {
		t.Fatalf("update session: status %d message %q", code, env.Message)
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if got.ConnectionStatus != chat.StatusConnected {
		t.Fatalf("expected connected, got %q", got.ConnectionStatus)
	}
	if got.LastActivity.UnixMilli() != sess.LastActivity.UnixMilli() {
		t.Fatalf("last_activity changed by status-only update")
	}

	code, env = doJSON(t, r, http.MethodDelete, "/chat/sessions/"+sess.ID, "")
	if code != http.StatusOK {
		t.Fatalf("delete session: status %d", code)
	}
	var del struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(env.Data, &del); err != nil {
		t.Fatalf("decode delete result: %v", err)
	}
	if !del.Success {
		t.Fatal("expected success=true for known session")
	}

	// Absence after delete is a 200 with null data, not an error.
	code, env = doJSON(t, r, http.MethodGet, "/chat/sessions/"+sess.ID, "")
	if code != http.StatusOK {
		t.Fatalf("get deleted session: status %d", code)
	}
	if string(env.Data) != "null" {
		t.Fatalf("expected null data, got %s", env.Data)
	}

	code, env = doJSON(t, r, http.MethodDelete, "/chat/sessions/"+sess.ID, "")
	if code != http.StatusOK {
		t.Fatalf("delete absent session: status %d", code)
	}
	if err := json.Unmarshal(env.Data, &del); err != nil {
		t.Fatalf("decode delete result: %v", err)
	}
	if del.Success {
		t.Fatal("expected success=false for unknown session")
	}
}

func TestUpdateUnknownSessionIs404(t *testing.T) {
	r := newTestRouter(t, nil)

	code, _ := doJSON(t, r, http.MethodPatch, "/chat/sessions/session_0_missing00",
		`{"connection_status":"connected"}`)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestValidationRejectedBeforeStorage(t *testing.T) {
	r := newTestRouter(t, nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"malformed url", http.MethodPost, "/chat/sessions", `{"websocket_url":"not a url","api_token":"t"}`},
		{"empty token", http.MethodPost, "/chat/sessions", `{"websocket_url":"wss://x","api_token":""}`},
		{"unknown session status", http.MethodPost, "/chat/sessions", `{"websocket_url":"wss://x","api_token":"t","connection_status":"offline"}`},
		{"unknown message type", http.MethodPost, "/chat/messages", `{"session_id":"s","message_type":"system_text","content":"x"}`},
		{"non-positive duration", http.MethodPost, "/chat/messages", `{"session_id":"s","message_type":"user_audio","content":"/a.wav","audio_duration":-1}`},
		{"zero sample rate", http.MethodPost, "/chat/recordings", `{"session_id":"s","file_path":"/a.wav","duration":1.5,"sample_rate":0,"channels":2,"format":"wav","file_size":10}`},
		{"unknown update status", http.MethodPatch, "/chat/sessions/session_0_whatever0", `{"connection_status":"offline"}`},
	}

	for _, tc := range cases {
		code, _ := doJSON(t, r, tc.method, tc.path, tc.body)
		if code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, code)
		}
	}
}

func TestMessageAndRecordingFlow(t *testing.T) {
	r := newTestRouter(t, nil)

	code, env := doJSON(t, r, http.MethodPost, "/chat/sessions",
		`{"websocket_url":"wss://x","api_token":"t"}`)
	if code != http.StatusOK {
		t.Fatalf("create session: status %d", code)
	}
	var sess chat.Session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	code, env = doJSON(t, r, http.MethodPost, "/chat/messages",
		`{"session_id":"`+sess.ID+`","message_type":"user_text","content":"hi","transcription":null,"audio_duration":null}`)
	if code != http.StatusOK {
		t.Fatalf("create message: status %d message %q", code, env.Message)
	}
	var msg chat.Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.AudioDuration != nil {
		t.Fatalf("expected null audio_duration, got %v", *msg.AudioDuration)
	}

	code, env = doJSON(t, r, http.MethodPost, "/chat/recordings",
		`{"session_id":"`+sess.ID+`","file_path":"/a.wav","duration":45.67,"sample_rate":44100,"channels":2,"format":"wav","file_size":1024000}`)
	if code != http.StatusOK {
		t.Fatalf("create recording: status %d message %q", code, env.Message)
	}

	code, env = doJSON(t, r, http.MethodGet, "/chat/sessions/"+sess.ID+"/recordings", "")
	if code != http.StatusOK {
		t.Fatalf("list recordings: status %d", code)
	}
	var recs []struct {
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("decode recordings: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recording, got %d", len(recs))
	}
	if recs[0].Duration != 45.67 {
		t.Fatalf("duration across the wire: got %v", recs[0].Duration)
	}

	// Unknown session lists are empty arrays, never errors.
	code, env = doJSON(t, r, http.MethodGet, "/chat/sessions/session_0_emptyness/messages", "")
	if code != http.StatusOK {
		t.Fatalf("list messages for unknown session: status %d", code)
	}
	if string(env.Data) != "[]" {
		t.Fatalf("expected [], got %s", env.Data)
	}
}

func TestAudioStatusEndpoints(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newTestRouter(t, status.NewStore(rdb, 30*time.Second))

	code, env := doJSON(t, r, http.MethodPut, "/chat/sessions/session_1_statusapi/status",
		`{"is_recording":true,"is_playing":false,"volume_level":0.8,"connection_status":"connected"}`)
	if code != http.StatusOK {
		t.Fatalf("put status: status %d message %q", code, env.Message)
	}

	code, env = doJSON(t, r, http.MethodGet, "/chat/sessions/session_1_statusapi/status", "")
	if code != http.StatusOK {
		t.Fatalf("get status: status %d", code)
	}
	var st status.AudioStatus
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !st.IsRecording || st.VolumeLevel != 0.8 || st.ConnectionStatus != chat.StatusConnected {
		t.Fatalf("unexpected status: %+v", st)
	}

	// Out-of-range volume is a schema failure.
	code, _ = doJSON(t, r, http.MethodPut, "/chat/sessions/session_1_statusapi/status",
		`{"volume_level":1.5,"connection_status":"connected"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for volume 1.5, got %d", code)
	}
}

func TestStatusUnconfigured(t *testing.T) {
	r := newTestRouter(t, nil)

	code, _ := doJSON(t, r, http.MethodGet, "/chat/sessions/session_1_nostore00/status", "")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without redis, got %d", code)
	}
}
