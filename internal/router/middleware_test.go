package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type stubAuthenticator struct {
	identities map[string]service.Identity
	err        error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (service.Identity, error) {
	if s.err != nil {
		return service.Identity{}, s.err
	}
	identity, ok := s.identities[token]
	if !ok {
		return service.Identity{}, service.ErrTokenInvalid
	}
	return identity, nil
}

type stubEnforcer struct {
	allowed map[string]bool
	err     error
}

func (s stubEnforcer) EnforceUser(userID, role, obj, act string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.allowed[role+" "+act+" "+obj], nil
}

func decodeReason(t *testing.T, w *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var resp struct {
		StatusCode int    `json:"status_code"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp.StatusCode, resp.Reason
}

func newIdentityEcho(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		identity := handlershared.GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "role": identity.Role})
	})
	r.GET("/api/v1/admin/orders/stats", handlers...)
	return r
}

func TestUserAuthMiddlewareRequired(t *testing.T) {
	auth := stubAuthenticator{identities: map[string]service.Identity{
		"good": {UserID: "u-1", Role: "staff"},
	}}
	r := newIdentityEcho(UserAuthMiddleware(auth, false))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "bad scheme", header: "Token good", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer good", want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status want %d got %d body=%s", tc.want, w.Code, w.Body.String())
			}
			if tc.want == http.StatusUnauthorized {
				code, reason := decodeReason(t, w)
				if code != 401 || reason != "unauthorized" {
					t.Fatalf("unexpected error body: code=%d reason=%s", code, reason)
				}
			}
		})
	}
}

func TestUserAuthMiddlewareOptional(t *testing.T) {
	r := newIdentityEcho(UserAuthMiddleware(stubAuthenticator{}, true))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("guest should pass optional auth, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"user_id":""`) {
		t.Fatalf("guest identity should be empty, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil)
	req.Header.Set("Authorization", "Bearer forged")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token should be rejected even when optional, got %d", w.Code)
	}
}

func TestUserAuthMiddlewareDisabledUser(t *testing.T) {
	r := newIdentityEcho(UserAuthMiddleware(stubAuthenticator{err: service.ErrUserDisabled}, false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil)
	req.Header.Set("Authorization", "Bearer any")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("disabled user want 401 got %d", w.Code)
	}
}

func TestUserAuthMiddlewareMissingAuthenticator(t *testing.T) {
	r := newIdentityEcho(UserAuthMiddleware(nil, false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil)
	req.Header.Set("Authorization", "Bearer any")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
}

func TestRBACMiddleware(t *testing.T) {
	auth := stubAuthenticator{identities: map[string]service.Identity{
		"staff":    {UserID: "u-staff", Role: "staff"},
		"customer": {UserID: "u-cust", Role: "customer"},
	}}
	enforcer := stubEnforcer{allowed: map[string]bool{
		"staff GET /api/v1/admin/orders/stats": true,
	}}
	r := newIdentityEcho(UserAuthMiddleware(auth, false), RBACMiddleware(enforcer))

	for token, want := range map[string]int{"staff": http.StatusOK, "customer": http.StatusForbidden} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("%s want %d got %d", token, want, w.Code)
		}
		if want == http.StatusForbidden {
			if _, reason := decodeReason(t, w); reason != "forbidden" {
				t.Fatalf("reason want forbidden got %s", reason)
			}
		}
	}

	failing := newIdentityEcho(UserAuthMiddleware(auth, false), RBACMiddleware(stubEnforcer{err: errors.New("adapter down")}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil)
	req.Header.Set("Authorization", "Bearer staff")
	failing.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("enforce error should deny, got %d", w.Code)
	}

	guest := newIdentityEcho(RBACMiddleware(enforcer))
	w = httptest.NewRecorder()
	guest.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/stats", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("guest should get 401 from rbac, got %d", w.Code)
	}
}
