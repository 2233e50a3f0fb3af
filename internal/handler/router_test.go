package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"chatsync/internal/app/conn"
	"chatsync/internal/app/protocol"
	"chatsync/internal/app/session"
	"chatsync/internal/app/user"
	"chatsync/internal/configs"
	"chatsync/internal/pkg/errs"
	"chatsync/internal/pkg/limiter"
)

type fakeSession struct {
	mu        sync.Mutex
	roster    []user.Profile
	feed      []session.FeedEntry
	submitted []string
	submitErr error
}

func (f *fakeSession) Username() string       { return "alice" }
func (f *fakeSession) State() session.State   { return session.StateRegistered }
func (f *fakeSession) Roster() []user.Profile { return f.roster }

func (f *fakeSession) FeedView() []session.FeedEntry { return f.feed }

func (f *fakeSession) Submit(input string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	if strings.TrimSpace(input) == "" {
		return nil
	}
	f.submitted = append(f.submitted, strings.TrimSpace(input))
	return nil
}

type fakeConn struct{ state conn.State }

func (f fakeConn) State() conn.State { return f.state }
func (f fakeConn) URL() string       { return "ws://chat.test/ws" }

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, s *fakeSession, l *limiter.KeyedLimiter) http.Handler {
	t.Helper()
	cfg := &configs.AppConfig{
		Environment:   "development",
		MaxFrameBytes: 32,
		PostRate:      100,
		PostBurst:     100,
	}
	return Router(&AppDeps{
		Session:     s,
		Conn:        fakeConn{state: conn.StateConnected},
		Config:      cfg,
		PostLimiter: l,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: body %q is not a JSON envelope: %v", method, target, rec.Body.String(), err)
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, &fakeSession{}, nil)

	rec, env := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("status = %d code = %d", rec.Code, env.Code)
	}

	var got healthResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "ok" || got.Connection != "connected" {
		t.Fatalf("health = %+v", got)
	}
}

func TestGetSession(t *testing.T) {
	h := newTestRouter(t, &fakeSession{}, nil)

	_, env := do(t, h, http.MethodGet, "/api/session", "")
	var got sessionResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	want := sessionResponse{Username: "alice", State: "registered", Connection: "connected", ServerURL: "ws://chat.test/ws"}
	if got != want {
		t.Fatalf("session = %+v, want %+v", got, want)
	}
}

func TestGetRosterAndFeed(t *testing.T) {
	s := &fakeSession{
		roster: []user.Profile{user.NewProfile("alice"), user.NewProfile("bob")},
		feed: []session.FeedEntry{
			{ChatMessage: protocol.ChatMessage{Sender: "bob", Body: "hi"}, Avatar: user.AvatarURL("bob"), Known: true},
			{ChatMessage: protocol.ChatMessage{Sender: "ghost", Body: "boo"}},
		},
	}
	h := newTestRouter(t, s, nil)

	_, env := do(t, h, http.MethodGet, "/api/roster", "")
	var roster []user.Profile
	if err := json.Unmarshal(env.Data, &roster); err != nil {
		t.Fatal(err)
	}
	if len(roster) != 2 || roster[0].Name != "alice" || roster[1].Name != "bob" {
		t.Fatalf("roster = %+v", roster)
	}

	_, env = do(t, h, http.MethodGet, "/api/feed", "")
	var feed []session.FeedEntry
	if err := json.Unmarshal(env.Data, &feed); err != nil {
		t.Fatal(err)
	}
	if len(feed) != 2 {
		t.Fatalf("feed = %+v", feed)
	}
	if !feed[0].Known || feed[0].Avatar != user.AvatarURL("bob") {
		t.Errorf("feed[0] = %+v", feed[0])
	}
	if feed[1].Known || feed[1].Avatar != "" {
		t.Errorf("feed[1] = %+v", feed[1])
	}
}

func TestGetRosterEmptyIsArray(t *testing.T) {
	h := newTestRouter(t, &fakeSession{}, nil)

	_, env := do(t, h, http.MethodGet, "/api/roster", "")
	if string(env.Data) != "[]" {
		t.Fatalf("data = %s, want []", env.Data)
	}
}

func TestPostMessage(t *testing.T) {
	s := &fakeSession{}
	h := newTestRouter(t, s, nil)

	rec, env := do(t, h, http.MethodPost, "/api/messages", `{"text":"  hello  "}`)
	if rec.Code != http.StatusAccepted || env.Code != 0 {
		t.Fatalf("status = %d code = %d", rec.Code, env.Code)
	}
	if len(s.submitted) != 1 || s.submitted[0] != "hello" {
		t.Fatalf("submitted = %q", s.submitted)
	}

	rec, _ = do(t, h, http.MethodPost, "/api/messages", `{"text":"   "}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("blank status = %d", rec.Code)
	}
	if len(s.submitted) != 1 {
		t.Fatalf("blank text was sent: %q", s.submitted)
	}
}

func TestPostMessageErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
		wantCode   int
	}{
		{"malformed", `{"text":`, nil, http.StatusBadRequest, errs.ErrInvalidJSONFormat},
		{"missing text", `{}`, nil, http.StatusBadRequest, errs.ErrInvalidParams},
		{"null text", `{"text":null}`, nil, http.StatusBadRequest, errs.ErrInvalidParams},
		{"unknown field", `{"text":"a","extra":1}`, nil, http.StatusBadRequest, errs.ErrInvalidJSONFormat},
		{"trailing data", `{"text":"a"} {}`, nil, http.StatusBadRequest, errs.ErrExtraContentInBody},
		{"too long", `{"text":"` + strings.Repeat("x", 33) + `"}`, nil, http.StatusRequestEntityTooLarge, errs.ErrMessageTooLong},
		{"closed", `{"text":"a"}`, errs.NewSendError(errs.ErrConnectionClosed, nil), http.StatusServiceUnavailable, errs.ErrConnectionClosed},
		{"queue full", `{"text":"a"}`, errs.NewSendError(errs.ErrSendQueueFull, nil), http.StatusServiceUnavailable, errs.ErrSendQueueFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &fakeSession{submitErr: tt.submitErr}, nil)

			rec, env := do(t, h, http.MethodPost, "/api/messages", tt.body)
			if rec.Code != tt.wantStatus || env.Code != tt.wantCode {
				t.Fatalf("status = %d code = %d, want %d %d", rec.Code, env.Code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestPostMessageLimitAppliesToTrimmedText(t *testing.T) {
	s := &fakeSession{}
	h := newTestRouter(t, s, nil)

	// 32 bytes fit the limit once the surrounding spaces are gone.
	text := strings.Repeat("x", 32)
	rec, env := do(t, h, http.MethodPost, "/api/messages", `{"text":"    `+text+`    "}`)
	if rec.Code != http.StatusAccepted || env.Code != 0 {
		t.Fatalf("status = %d code = %d", rec.Code, env.Code)
	}
	if len(s.submitted) != 1 || s.submitted[0] != text {
		t.Fatalf("submitted = %q", s.submitted)
	}
}

func TestPostMessageRequiresJSON(t *testing.T) {
	h := newTestRouter(t, &fakeSession{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader("text=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPostMessageRateLimited(t *testing.T) {
	s := &fakeSession{}
	h := newTestRouter(t, s, limiter.New(0, 1))

	rec, _ := do(t, h, http.MethodPost, "/api/messages", `{"text":"one"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first status = %d", rec.Code)
	}

	rec, env := do(t, h, http.MethodPost, "/api/messages", `{"text":"two"}`)
	if rec.Code != http.StatusTooManyRequests || env.Code != errs.ErrRateLimitExceeded {
		t.Fatalf("second status = %d code = %d", rec.Code, env.Code)
	}
	if len(s.submitted) != 1 {
		t.Fatalf("submitted = %q", s.submitted)
	}

	// Reads are not limited.
	rec, _ = do(t, h, http.MethodGet, "/api/feed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rec.Code)
	}
}
