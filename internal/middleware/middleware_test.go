package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/handler"
	"github.com/SezginYurdakul/catering-api/internal/model"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.Response {
	t.Helper()
	var resp handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(logger.Nop()))

	failWith := func(err error) gin.HandlerFunc {
		return func(c *gin.Context) { _ = c.Error(err) }
	}
	r.GET("/validation", failWith(apperrors.InvalidField("city", "is required")))
	r.GET("/not-found", failWith(apperrors.NewNotFound("location", 7)))
	r.GET("/in-use", failWith(apperrors.NewResourceInUse("tag", 3, "facilities")))
	r.GET("/unauthorized", failWith(apperrors.Unauthorized("invalid credentials")))
	r.GET("/storage", failWith(apperrors.NewStorage(errors.New("pq: connection refused"))))
	r.GET("/plain", failWith(errors.New("boom")))
	r.GET("/deadline", failWith(apperrors.NewStorage(fmt.Errorf("failed to list tags: %w", context.DeadlineExceeded))))
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.NewMessageResponse("done"))
		_ = c.Error(errors.New("late"))
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/validation", http.StatusBadRequest, "validation failed"},
		{"/not-found", http.StatusNotFound, "location with id 7 not found"},
		{"/in-use", http.StatusConflict, "tag with id 3 is in use by one or more facilities"},
		{"/unauthorized", http.StatusUnauthorized, "invalid credentials"},
		{"/storage", http.StatusInternalServerError, "internal server error"},
		{"/plain", http.StatusInternalServerError, "internal server error"},
		{"/deadline", http.StatusGatewayTimeout, "request timeout"},
		{"/written", http.StatusOK, "done"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := perform(r, http.MethodGet, tt.path, "", nil)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.message, resp.Message)
			assert.NotContains(t, w.Body.String(), "pq:")
			if tt.status != http.StatusOK {
				assert.Equal(t, "error", resp.Status)
				assert.Equal(t, w.Header().Get(HeaderXRequestID), resp.RequestID)
			}
		})
	}
}

func TestErrorHandlerRendersFieldErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.Nop()))
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(apperrors.NewValidation("validation failed",
			apperrors.FieldError{Field: "zip_code", Message: "must be a valid zip code"},
			apperrors.FieldError{Field: "city", Message: "is required"},
		))
	})

	w := perform(r, http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, []apperrors.FieldError{
		{Field: "zip_code", Message: "must be a valid zip code"},
		{Field: "city", Message: "is required"},
	}, resp.Errors)
}

type stubTokens struct {
	valid string
}

func (s stubTokens) ValidateToken(token string) (*model.TokenClaims, error) {
	if token != s.valid {
		return nil, errors.New("invalid token")
	}
	claims := &model.TokenClaims{Username: "admin"}
	claims.Subject = "admin"
	return claims, nil
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthMiddleware(stubTokens{valid: "good-token"})

	r := gin.New()
	r.Use(ErrorHandler(logger.Nop()))
	r.GET("/private", auth.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(c.GetString(ContextUsername)))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer forged", http.StatusUnauthorized},
		{"valid token", "Bearer good-token", http.StatusOK},
		{"lowercase scheme", "bearer good-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := perform(r, http.MethodGet, "/private", "", headers)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin", decode(t, w).Data)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := perform(r, http.MethodGet, "/", "", map[string]string{HeaderXRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	w = perform(r, http.MethodGet, "/", "", nil)
	assert.Len(t, w.Header().Get(HeaderXRequestID), 36)

	long := strings.Repeat("x", maxRequestIDLen+1)
	w = perform(r, http.MethodGet, "/", "", map[string]string{HeaderXRequestID: long})
	assert.NotEqual(t, long, w.Header().Get(HeaderXRequestID))
	assert.Len(t, w.Header().Get(HeaderXRequestID), 36)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(logger.Nop()))
	r.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	w := perform(r, http.MethodGet, "/panic", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotEmpty(t, resp.RequestID)
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 2, TTL: time.Minute})

	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := perform(r, http.MethodGet, "/", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := perform(r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "rate limit exceeded", decode(t, w).Message)

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	other := httptest.NewRecorder()
	r.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeoutDisabled(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(0))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	perform(r, http.MethodGet, "/", "", nil)
}

func TestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(SizeLimit(16))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := perform(r, http.MethodPost, "/", `{"name":"a very long tag name"}`, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = perform(r, http.MethodPost, "/", `{"name":"x"}`, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		AllowedOrigins: []string{"https://app.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}))
	r.GET("/locations", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodOptions, "/locations", "", map[string]string{
		"Origin":                        "https://app.example.com",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/locations", "", map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/locations", "", map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodPost, "/", "", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.NewNop()

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/locations/:id", func(c *gin.Context) {
		_ = c.Error(apperrors.NewNotFound("location", c.Param("id")))
		c.Status(http.StatusNotFound)
	})

	perform(r, http.MethodGet, "/locations/42", "", nil)
	perform(r, http.MethodGet, "/locations/43", "", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "/locations/:id", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ErrorTotal.WithLabelValues("GET", "/locations/:id", "not_found")))
}
