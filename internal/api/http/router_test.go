package http_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "github.com/codemindhq/codemind/internal/api/http"
	"github.com/codemindhq/codemind/internal/realtime"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerSecret = "router-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemoryCollaborationRepository()
	collaboration := service.NewCollaborationService(repo, slog.Default())
	hub := realtime.NewHub(slog.Default())

	return httpapi.SetupRouter(httpapi.RouterDeps{
		Env:           "local",
		AuthSecret:    routerSecret,
		AuthOptional:  false,
		AllowOrigins:  []string{"http://localhost:3000"},
		Collaboration: httpapi.NewCollaborationController(collaboration),
		Realtime:      httpapi.NewRealtimeController(hub, collaboration),
	})
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(routerSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func do(t *testing.T, router *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("Authorization", bearer(t, user))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"env":"local"`)
}

func TestRouter_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/rooms", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ReviewFlowOverREST(t *testing.T) {
	router := newTestRouter(t)

	// alice opens a room.
	rec := do(t, router, http.MethodPost, "/api/rooms", "alice", `{"name":"payments review","repository":"org/payments"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Room struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"room"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "owner", created.Room.Role)
	roomID := created.Room.ID

	// bob joins as reviewer.
	rec = do(t, router, http.MethodPost, "/api/rooms/"+roomID+"/participants", "alice", `{"user_id":"bob","role":"reviewer"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// bob opens a thread.
	rec = do(t, router, http.MethodPost, "/api/rooms/"+roomID+"/threads", "bob", `{"title":"double charge on retry"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var thread struct {
		Thread struct {
			ID string `json:"id"`
		} `json:"thread"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))

	// An outsider cannot comment.
	rec = do(t, router, http.MethodPost, "/api/threads/"+thread.Thread.ID+"/comments", "mallory", `{"body":"drive-by"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// alice can, and the result lists in order.
	rec = do(t, router, http.MethodPost, "/api/threads/"+thread.Thread.ID+"/comments", "alice", `{"body":"confirmed, reproducing now"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/threads/"+thread.Thread.ID+"/comments", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "confirmed, reproducing now")

	// The thread landed in alice's notifications, not bob's.
	rec = do(t, router, http.MethodGet, "/api/notifications", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New review thread")

	// Unknown room ids are a 400, malformed uuids never hit the service.
	rec = do(t, router, http.MethodPost, "/api/rooms/not-a-uuid/threads", "alice", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_WebsocketJoinRequiresMembership(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/rooms", "alice", `{"name":"review"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Room struct {
			ID string `json:"id"`
		} `json:"room"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(t, router, http.MethodGet, "/api/rooms/"+created.Room.ID+"/ws", "mallory", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
