package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLimitKeyPrefersBearerToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/stats", nil)
	c.Request.Header.Set("Authorization", "Bearer abc123")

	if got := limitKey(c); got != "token:abc123" {
		t.Errorf("limitKey = %q, want token:abc123", got)
	}
}

func TestLimitKeyFallsBackToIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/health", nil)
	c.Request.RemoteAddr = "10.0.0.7:4312"

	if got := limitKey(c); got != "ip:10.0.0.7" {
		t.Errorf("limitKey = %q, want ip:10.0.0.7", got)
	}
}

func TestRateLimiterKeyedPerToken(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(2, time.Minute))
	router.GET("/api/stats", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(token string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("alice"); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := do("alice"); code != http.StatusOK {
		t.Fatalf("second request = %d, want 200", code)
	}
	if code := do("alice"); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}
	// 另一个用户不受影响
	if code := do("bob"); code != http.StatusOK {
		t.Errorf("other token = %d, want 200", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q, want the whitelisted origin", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); strings.Contains(got, "PATCH") {
		t.Errorf("Allow-Methods = %q, PATCH is not part of this API", got)
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty for non-whitelisted origin", got)
	}
}
