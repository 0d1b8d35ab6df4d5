package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"hall-management-backend/internal/hall"
)

type fakeAuth map[string]hall.User

func (f fakeAuth) Authenticate(username, password string) (hall.User, error) {
	u, ok := f[username]
	if !ok || password != "secret" {
		return hall.User{}, hall.ErrInvalidCredentials
	}
	return u, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter() *gin.Engine {
	auth := fakeAuth{
		"admin": {Username: "admin", Role: hall.RoleAdmin},
		"S001":  {Username: "S001", Role: hall.RoleStudent},
	}
	r := gin.New()
	r.Use(BasicAuth(auth))
	r.GET("/admin", RequireRole(hall.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UserKey))
	})
	return r
}

func TestBasicAuth(t *testing.T) {
	testCases := []struct {
		name           string
		username       string
		password       string
		setAuth        bool
		expectedStatus int
	}{
		{name: "No credentials", expectedStatus: http.StatusUnauthorized},
		{name: "Wrong password", username: "admin", password: "nope", setAuth: true, expectedStatus: http.StatusUnauthorized},
		{name: "Student on admin route", username: "S001", password: "secret", setAuth: true, expectedStatus: http.StatusForbidden},
		{name: "Admin", username: "admin", password: "secret", setAuth: true, expectedStatus: http.StatusOK},
	}

	router := newAuthRouter()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.setAuth {
				req.SetBasicAuth(tc.username, tc.password)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestResponseCache_PerUserAndInvalidate(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	calls := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(UserKey, c.GetHeader("X-User"))
		c.Next()
	})
	r.Use(rc.Handler())
	r.GET("/rooms", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	get := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := get("admin")
	second := get("admin")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	get("S001")
	assert.Equal(t, 2, calls, "entries are not shared between users")

	rc.Invalidate()
	get("admin")
	assert.Equal(t, 3, calls)
}

func TestResponseCache_DropsResponseRenderedBeforeInvalidate(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	calls := 0
	r := gin.New()
	r.Use(rc.Handler())
	r.GET("/rooms", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
		if calls == 1 {
			// A change lands while the first response is still in flight.
			rc.Invalidate()
		}
	})

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms", nil))
		return w
	}

	get()
	w := get()
	assert.Equal(t, 2, calls, "stale response must not be cached")
	assert.Empty(t, w.Header().Get("X-Cache"))

	hit := get()
	assert.Equal(t, 2, calls)
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per client")
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1, time.Minute)
	assert.Same(t, l.GetLimiter("1.2.3.4"), l.GetLimiter("1.2.3.4"))
	assert.NotSame(t, l.GetLimiter("1.2.3.4"), l.GetLimiter("5.6.7.8"))
}
