package middlewares

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	token   string
	account *models.Account
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*models.Account, error) {
	if token != s.token {
		return nil, apperrors.Authentication("Given token not valid for any token type")
	}
	return s.account, nil
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account_id": AccountIDFromContext(c.Request.Context())})
	})
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestBearerToken(t *testing.T) {
	tests := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"missing":      {"", "", false},
		"bearer":       {"Bearer abc", "abc", true},
		"lowercase":    {"bearer abc", "abc", true},
		"basic scheme": {"Basic abc", "", false},
		"no token":     {"Bearer ", "", false},
		"no separator": {"Bearerabc", "", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			token, ok := BearerToken(c)
			if token != tt.token || ok != tt.ok {
				t.Errorf("got (%q, %v), want (%q, %v)", token, ok, tt.token, tt.ok)
			}
		})
	}
}

func TestTokenAuthMiddleware(t *testing.T) {
	r := newTestRouter(TokenAuthMiddleware(stubAuth{token: "good", account: &models.Account{ID: 7}}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != apperrors.CodeAuthentication {
		t.Errorf("unexpected code %q", body.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("good token: expected 200, got %d", rec.Code)
	}
	var body map[string]uint
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["account_id"] != 7 {
		t.Errorf("expected account 7 in context, got %v", body)
	}
}

func TestAccountFromContext_Missing(t *testing.T) {
	if _, err := AccountFromContext(context.Background()); err == nil {
		t.Error("expected an error for an anonymous context")
	}
	if id := AccountIDFromContext(context.Background()); id != 0 {
		t.Errorf("expected 0, got %d", id)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.Field("email", "Enter a valid email address."), http.StatusBadRequest, apperrors.CodeValidationError},
		{apperrors.DuplicateMapping(), http.StatusBadRequest, apperrors.CodeDuplicateMapping},
		{apperrors.Forbidden("no"), http.StatusForbidden, apperrors.CodeForbidden},
		{apperrors.NotFound("patient"), http.StatusNotFound, apperrors.CodeResourceNotFound},
		{errors.New("connection refused"), http.StatusInternalServerError, apperrors.CodeInternal},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondError(c, tt.err)

		if rec.Code != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, rec.Code)
		}
		body := decodeError(t, rec)
		if body.Code != tt.code {
			t.Errorf("%v: expected code %s, got %s", tt.err, tt.code, body.Code)
		}
		if tt.status == http.StatusInternalServerError && body.Message == tt.err.Error() {
			t.Error("internal error details must not leak to the client")
		}
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondError(c, apperrors.DuplicateMapping())
	body := decodeError(t, rec)
	if body.Details[apperrors.NonFieldErrors] != "This patient is already assigned to this doctor" {
		t.Errorf("unexpected details %v", body.Details)
	}
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(RequestID())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected my-custom-id, got %q", got)
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	r := newTestRouter(NewRateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 2}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := do("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := do("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other clients keep their own bucket, got %d", code)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestRouter(SecurityHeaders())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected nosniff header")
	}
}
