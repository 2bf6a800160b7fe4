package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devconnector/internal/core/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func msgOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Msg
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "devconnector", TTL: time.Hour}
	tok, err := j.Issue("u-1")
	require.NoError(t, err)

	r := gin.New()
	reached := false
	r.GET("/p", AuthJWT(j), func(c *gin.Context) {
		reached = true
		c.String(http.StatusOK, c.GetString(KeyUserID))
	})

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	w := do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token, authorization denied", msgOf(t, w))
	assert.False(t, reached)

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(HeaderAuthToken, tok+"x")
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is not valid", msgOf(t, w))
	assert.False(t, reached)

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(HeaderAuthToken, tok)
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitPerIP(0.0001, 2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return do(r, req).Code
	}
	assert.Equal(t, http.StatusNoContent, from("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, from("10.0.0.2"))
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", Timeout(20*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	w := do(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })
	w := do(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
	assert.Equal(t, w.Header().Get(KeyRequestID), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	w = do(r, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestMaskQuery(t *testing.T) {
	got := maskQuery(map[string][]string{"Password": {"x"}, "page": {"2"}})
	assert.Equal(t, []string{"****"}, got["Password"])
	assert.Equal(t, []string{"2"}, got["page"])
}
