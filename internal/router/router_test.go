package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/career-hub/backend/internal/router"
	"github.com/anonto42/career-hub/backend/pkg/config"
	"github.com/anonto42/career-hub/backend/pkg/validators"
)

type testServer struct {
	t   *testing.T
	e   *echo.Echo
	app *router.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		JWTSecret:      "router-test-secret",
		JWTTTL:         time.Hour,
		PostStore:      config.PostStorePostgres,
		UnreadCacheTTL: time.Minute,
	}
	e := echo.New()
	e.Validator = validators.NewValidator()
	app, err := router.SetupRoutes(e, cfg, &config.DB{Postgres: db}, nil)
	require.NoError(t, err)
	return &testServer{t: t, e: e, app: app}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec.Code, env
}

type session struct {
	Token string
	ID    uint
}

func (s *testServer) signup(first, email string) session {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"firstName": first,
		"lastName":  "Test",
		"email":     email,
		"password":  "password123",
	})
	require.Equal(s.t, http.StatusCreated, code)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return session{Token: data.Token, ID: data.User.ID}
}

func (s *testServer) createJob(owner session, title string) uint {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/posts", owner.Token, map[string]interface{}{
		"content":    "we are hiring",
		"postType":   "Job",
		"title":      title,
		"location":   "Rabat",
		"expiryDate": time.Now().Add(720 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(s.t, http.StatusCreated, code)
	var post struct {
		ID uint `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &post))
	return post.ID
}

func TestHealthAndAuthGate(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/v1/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/api/v1/notifications", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLikeEndpointStatusCodes(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("Owner", "owner@example.com")
	fan := s.signup("Fan", "fan@example.com")
	postID := s.createJob(owner, "Backend Engineer")

	code, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/like", postID), fan.Token, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/like", postID), fan.Token, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = s.do(http.MethodPost, "/api/v1/posts/9999/like", fan.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPost, "/api/v1/posts/abc/like", fan.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestApplyEndpointStatusCodes(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("Owner", "owner@example.com")
	applicant := s.signup("Applicant", "applicant@example.com")
	postID := s.createJob(owner, "Backend Engineer")

	code, _ := s.do(http.MethodPost, "/api/v1/applications", applicant.Token, map[string]interface{}{"postId": postID})
	assert.Equal(t, http.StatusCreated, code)

	code, _ = s.do(http.MethodPost, "/api/v1/applications", applicant.Token, map[string]interface{}{"postId": postID})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/api/v1/applications", applicant.Token, map[string]interface{}{"postId": 9999})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPost, "/api/v1/applications", applicant.Token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := s.do(http.MethodGet, "/api/v1/notifications/unread-count", owner.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	code, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/applications", postID), applicant.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestConnectionEndpointStatusCodes(t *testing.T) {
	s := newTestServer(t)
	a := s.signup("Amine", "amine@example.com")
	b := s.signup("Badr", "badr@example.com")

	code, env := s.do(http.MethodPost, "/api/v1/connections", a.Token, map[string]interface{}{"receiverId": b.ID})
	require.Equal(t, http.StatusCreated, code)
	var conn struct {
		ID uint `json:"connectionId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &conn))

	code, _ = s.do(http.MethodPost, "/api/v1/connections", b.Token, map[string]interface{}{"receiverId": a.ID})
	assert.Equal(t, http.StatusBadRequest, code, "an existing pair is a 400")

	path := fmt.Sprintf("/api/v1/connections/%d", conn.ID)
	code, _ = s.do(http.MethodPut, path, a.Token, map[string]interface{}{"accept": true})
	assert.Equal(t, http.StatusUnauthorized, code, "only the receiver may respond")

	code, _ = s.do(http.MethodPut, path, b.Token, map[string]interface{}{"accept": true})
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = s.do(http.MethodPut, path, b.Token, map[string]interface{}{"accept": false})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/v1/connections/accepted", b.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var users []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, a.ID, users[0].ID)
}

func TestNotificationPushOverWebsocket(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("Owner", "owner@example.com")
	applicant := s.signup("Applicant", "applicant@example.com")
	postID := s.createJob(owner, "Backend Engineer")

	srv := httptest.NewServer(s.e)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?access_token=" + owner.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return s.app.NotificationRegistry.Online(owner.ID) }, 2*time.Second, 10*time.Millisecond)

	code, _ := s.do(http.MethodPost, "/api/v1/applications", applicant.Token, map[string]interface{}{"postId": postID})
	require.Equal(t, http.StatusCreated, code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env struct {
		Event string                 `json:"event"`
		Data  map[string]interface{} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, "ReceiveNotification", env.Event)
	assert.Equal(t, "NewApplication", env.Data["type"])
	assert.Equal(t, "applied to your job: Backend Engineer", env.Data["message"])
	assert.Equal(t, "Applicant Test", env.Data["senderName"])
	assert.Equal(t, "Job", env.Data["postType"])

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/notifications", nil)
	assert.Error(t, err, "upgrade without a token is refused")
}

func TestChatOverWebsocket(t *testing.T) {
	s := newTestServer(t)
	a := s.signup("Amine", "amine@example.com")
	b := s.signup("Badr", "badr@example.com")

	srv := httptest.NewServer(s.e)
	t.Cleanup(srv.Close)
	dial := func(token string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat?access_token=" + token
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
	read := func(conn *websocket.Conn) (string, json.RawMessage) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&env))
		return env.Event, env.Data
	}

	aConn := dial(a.Token)
	bConn := dial(b.Token)
	require.Eventually(t, func() bool {
		return s.app.ChatRegistry.Online(a.ID) && s.app.ChatRegistry.Online(b.ID)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, aConn.WriteJSON(map[string]interface{}{
		"event": "SendMessage",
		"data":  map[string]interface{}{"receiverId": b.ID, "content": "salam"},
	}))

	event, data := read(bConn)
	require.Equal(t, "ReceiveMessage", event)
	var msg struct {
		ID      uint   `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "salam", msg.Content)

	event, _ = read(aConn)
	assert.Equal(t, "ReceiveMessage", event, "the sender's other sessions see the message too")

	code, env := s.do(http.MethodGet, fmt.Sprintf("/api/v1/chat/history/%d", a.ID), b.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "salam")

	event, data = read(aConn)
	assert.Equal(t, "MessagesRead", event)
	assert.JSONEq(t, fmt.Sprintf("[%d]", msg.ID), string(data))

	require.NoError(t, bConn.WriteJSON(map[string]interface{}{
		"event": "SendMessage",
		"data":  map[string]interface{}{"receiverId": a.ID, "content": "   "},
	}))
	event, _ = read(bConn)
	assert.Equal(t, "Error", event)
}
