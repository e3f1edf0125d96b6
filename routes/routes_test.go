package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PumpPal/middleware"
	"PumpPal/pkg/database/dbtest"
	"PumpPal/pkg/services"
	tokenstore "PumpPal/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cannedGateway struct{ reply services.Completion }

func (g cannedGateway) Complete(context.Context, string) services.Completion { return g.reply }

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T, reply services.Completion) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)
	issuer := tokenstore.NewIssuer("test-secret", time.Hour, tokenstore.NewMemoryStore())
	svc := services.New(db, issuer, cannedGateway{reply: reply}, nil)

	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()), middleware.RequestLogger(zap.NewNop()))
	RegisterRoutes(r, svc, zap.NewNop())
	return &api{t: t, r: r}
}

func (a *api) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			a.t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func (a *api) register(name, role string) (string, float64) {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/api/register", "", map[string]any{
		"name":                  name,
		"email":                 strings.ToLower(name) + "@example.com",
		"password":              "harvest2024",
		"password_confirmation": "harvest2024",
		"role":                  role,
	})
	if code != http.StatusCreated {
		a.t.Fatalf("register %s: status %d body %v", name, code, body)
	}
	return body["token"].(string), body["id"].(float64)
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object under data, got %v", body)
	}
	return d
}

func TestDietPlanScenario(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "Roughly 1.6 g per kg of body weight."})
	token, _ := a.register("Alice", "regular")

	code, body := a.do(http.MethodPost, "/api/chats", token, map[string]string{"title": "Diet Plan"})
	if code != http.StatusCreated {
		t.Fatalf("create chat: %d %v", code, body)
	}
	chat := data(t, body)
	chatID := int(chat["id"].(float64))
	if chat["title"] != "Diet Plan" {
		t.Fatalf("unexpected chat %v", chat)
	}

	code, body = a.do(http.MethodPost, fmt.Sprintf("/api/chats/%d/messages", chatID), token,
		map[string]string{"content": "How much protein should I eat?"})
	if code != http.StatusCreated {
		t.Fatalf("send message: %d %v", code, body)
	}
	msg := data(t, body)
	if msg["content"] != "How much protein should I eat?" {
		t.Fatalf("unexpected message %v", msg)
	}
	resp, ok := msg["response"].(map[string]any)
	if !ok || resp["content"] == "" {
		t.Fatalf("expected non-empty response, got %v", msg["response"])
	}
	if _, err := time.Parse("2006-01-02 15:04:05", msg["created_at"].(string)); err != nil {
		t.Fatalf("created_at format: %v", err)
	}

	code, body = a.do(http.MethodGet, fmt.Sprintf("/api/chats/%d", chatID), token, nil)
	if code != http.StatusOK {
		t.Fatalf("get chat: %d %v", code, body)
	}
	pairs := data(t, body)["pairs"].([]any)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	pair := pairs[0].(map[string]any)
	if pair["message"].(map[string]any)["content"] != "How much protein should I eat?" || pair["response"] == nil {
		t.Fatalf("unexpected pair %v", pair)
	}

	msgID := int(msg["id"].(float64))
	code, body = a.do(http.MethodGet, fmt.Sprintf("/api/messages/%d/response", msgID), token, nil)
	if code != http.StatusOK || data(t, body)["content"] != "Roughly 1.6 g per kg of body weight." {
		t.Fatalf("get response: %d %v", code, body)
	}
}

func TestGatewayOutageStillAnswers(t *testing.T) {
	a := newAPI(t, services.Completion{Text: services.UnavailableText, Degraded: true, Reason: services.ReasonUnavailable})
	token, _ := a.register("Alice", "regular")
	_, body := a.do(http.MethodPost, "/api/chats", token, map[string]string{"title": "Offline"})
	chatID := int(data(t, body)["id"].(float64))

	code, body := a.do(http.MethodPost, fmt.Sprintf("/api/chats/%d/messages", chatID), token,
		map[string]string{"content": "hello?"})
	if code != http.StatusCreated {
		t.Fatalf("send: %d %v", code, body)
	}
	if got := data(t, body)["response"].(map[string]any)["content"]; got != services.UnavailableText {
		t.Fatalf("unexpected response content %v", got)
	}
}

func TestOtherUsersChat(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "ok"})
	alice, _ := a.register("Alice", "regular")
	bob, _ := a.register("Bob", "regular")
	_, body := a.do(http.MethodPost, "/api/chats", alice, map[string]string{"title": "Private"})
	chatID := int(data(t, body)["id"].(float64))

	if code, _ := a.do(http.MethodGet, fmt.Sprintf("/api/chats/%d", chatID), bob, nil); code != http.StatusNotFound {
		t.Fatalf("bob reading alice's chat: want 404, got %d", code)
	}
	if code, _ := a.do(http.MethodDelete, fmt.Sprintf("/api/chats/%d", chatID), bob, nil); code != http.StatusNotFound {
		t.Fatalf("bob deleting alice's chat: want 404, got %d", code)
	}
	code, body := a.do(http.MethodPost, fmt.Sprintf("/api/chats/%d/messages", chatID), bob, map[string]string{"content": "hi"})
	if code != http.StatusForbidden || body["message"] != "Forbidden. You do not own this chat." {
		t.Fatalf("bob posting to alice's chat: %d %v", code, body)
	}

	code, body = a.do(http.MethodGet, "/api/chats", bob, nil)
	if code != http.StatusOK || len(body["data"].([]any)) != 0 {
		t.Fatalf("bob should see no chats: %d %v", code, body)
	}
}

func TestStatisticsRequiresAdministrator(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "ok"})
	alice, _ := a.register("Alice", "regular")
	admin, _ := a.register("Root", "administrator")

	code, body := a.do(http.MethodGet, "/api/users/statistics", alice, nil)
	if code != http.StatusForbidden {
		t.Fatalf("regular user: want 403, got %d %v", code, body)
	}

	code, body = a.do(http.MethodGet, "/api/users/statistics", admin, nil)
	if code != http.StatusOK {
		t.Fatalf("admin: %d %v", code, body)
	}
	totals := data(t, body)["totals"].(map[string]any)
	if totals["users"] != float64(2) || totals["administrators"] != float64(1) {
		t.Fatalf("unexpected totals %v", totals)
	}
	if _, ok := data(t, body)["top_users_by_chats"].([]any); !ok {
		t.Fatalf("top_users_by_chats must be a list")
	}

	// administrators cannot use chats
	if code, _ := a.do(http.MethodGet, "/api/chats", admin, nil); code != http.StatusForbidden {
		t.Fatalf("admin listing chats: want 403, got %d", code)
	}
}

func TestAdminUpdatesUser(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "ok"})
	_, aliceID := a.register("Alice", "regular")
	admin, _ := a.register("Root", "administrator")
	path := fmt.Sprintf("/api/users/%d", int(aliceID))

	code, body := a.do(http.MethodPatch, path, admin, `{"name":"Alice Farmer","image_url":"https://example.com/a.png"}`)
	if code != http.StatusOK {
		t.Fatalf("patch: %d %v", code, body)
	}
	u := data(t, body)
	if u["name"] != "Alice Farmer" || u["imageUrl"] != "https://example.com/a.png" || u["role"] != "regular" {
		t.Fatalf("unexpected user %v", u)
	}

	code, body = a.do(http.MethodPut, path, admin, `{"image_url":null}`)
	if code != http.StatusOK || data(t, body)["imageUrl"] != nil {
		t.Fatalf("clearing image: %d %v", code, body)
	}

	code, body = a.do(http.MethodPut, path, admin, `{"email":"root@example.com"}`)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate email: want 422, got %d", code)
	}
	if errs := body["errors"].(map[string]any); errs["email"] != "The email has already been taken." {
		t.Fatalf("unexpected errors %v", errs)
	}

	if code, _ := a.do(http.MethodGet, "/api/users/9999", admin, nil); code != http.StatusNotFound {
		t.Fatalf("missing user: want 404, got %d", code)
	}
}

func TestLogoutRevokesAllTokens(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "ok"})
	first, _ := a.register("Alice", "regular")
	code, body := a.do(http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "harvest2024"})
	if code != http.StatusOK {
		t.Fatalf("login: %d %v", code, body)
	}
	second := body["token"].(string)

	if code, body := a.do(http.MethodGet, "/api/profile", first, nil); code != http.StatusOK || data(t, body)["email"] != "alice@example.com" {
		t.Fatalf("profile before logout: %d %v", code, body)
	}

	code, body = a.do(http.MethodPost, "/api/logout", second, nil)
	if code != http.StatusOK || body["message"] != "You have been logged out. See you soon! 👋" {
		t.Fatalf("logout: %d %v", code, body)
	}
	for _, tok := range []string{first, second} {
		if code, _ := a.do(http.MethodGet, "/api/profile", tok, nil); code != http.StatusUnauthorized {
			t.Fatalf("revoked token: want 401, got %d", code)
		}
	}
}

func TestRequestErrors(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "ok"})
	token, _ := a.register("Alice", "regular")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"no token", http.MethodGet, "/api/chats", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/chats", "garbage", nil, http.StatusUnauthorized},
		{"malformed json", http.MethodPost, "/api/chats", token, `{"title":`, http.StatusBadRequest},
		{"missing title", http.MethodPost, "/api/chats", token, `{}`, http.StatusUnprocessableEntity},
		{"bad login", http.MethodPost, "/api/login", "", `{"email":"alice@example.com","password":"nope1234"}`, http.StatusUnauthorized},
		{"non-numeric chat id", http.MethodGet, "/api/chats/abc", token, nil, http.StatusNotFound},
		{"missing message", http.MethodGet, "/api/messages/404", token, nil, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nope", token, nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := a.do(tc.method, tc.path, tc.token, tc.body)
			if code != tc.want {
				t.Fatalf("want %d, got %d %v", tc.want, code, body)
			}
			if body["message"] == nil {
				t.Fatalf("error responses carry a message, got %v", body)
			}
		})
	}
}

func TestRoleAndOwnershipComeBeforeParsing(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "ok"})
	alice, _ := a.register("Alice", "regular")
	bob, _ := a.register("Bob", "regular")
	admin, _ := a.register("Root", "administrator")
	_, body := a.do(http.MethodPost, "/api/chats", alice, map[string]string{"title": "Private"})
	chatPath := fmt.Sprintf("/api/chats/%d", int(data(t, body)["id"].(float64)))

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
		msg    string
	}{
		{"admin non-numeric chat id", http.MethodGet, "/api/chats/abc", admin, nil, http.StatusForbidden, "Forbidden. Only regular users can view chats."},
		{"admin malformed rename", http.MethodPut, chatPath, admin, `{"title":`, http.StatusForbidden, "Forbidden. Only regular users can update chats."},
		{"admin malformed send", http.MethodPost, chatPath + "/messages", admin, `{"content":`, http.StatusForbidden, "Forbidden. Only regular users can create messages."},
		{"non-owner malformed send", http.MethodPost, chatPath + "/messages", bob, `{"content":`, http.StatusForbidden, "Forbidden. You do not own this chat."},
		{"non-owner malformed rename", http.MethodPatch, chatPath, bob, `{"title":`, http.StatusNotFound, "Chat not found."},
		{"regular non-numeric user id", http.MethodGet, "/api/users/abc", alice, nil, http.StatusForbidden, "Forbidden. Only administrators can view user details."},
		{"owner malformed send", http.MethodPost, chatPath + "/messages", alice, `{"content":`, http.StatusBadRequest, "Malformed JSON request body."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := a.do(tc.method, tc.path, tc.token, tc.body)
			if code != tc.want || body["message"] != tc.msg {
				t.Fatalf("want %d %q, got %d %v", tc.want, tc.msg, code, body)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t, services.Completion{Text: "ok"})
	if code, _ := a.do(http.MethodGet, "/", "", nil); code != http.StatusOK {
		t.Fatalf("health: %d", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "pumppal_http_requests_total") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
