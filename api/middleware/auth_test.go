package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
)

type stubResolver struct {
	sessions map[string]*session.Session
	err      error
}

func (s stubResolver) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or unknown")
}

func newResolver() stubResolver {
	return stubResolver{sessions: map[string]*session.Session{
		"buyer":  {ID: "buyer", UserID: 1, Role: enums.UserRoleBuyer},
		"seller": {ID: "seller", UserID: 2, Role: enums.UserRoleSeller},
	}}
}

func TestSessionAuthRejectsMissingSession(t *testing.T) {
	handler := SessionAuth("artemisia_session", newResolver(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSessionAuthRejectsUnknownSession(t *testing.T) {
	handler := SessionAuth("artemisia_session", newResolver(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSessionAuthAcceptsCookieAndBearer(t *testing.T) {
	var captured *session.Session
	handler := SessionAuth("artemisia_session", newResolver(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "artemisia_session", Value: "buyer"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || captured == nil || captured.ID != "buyer" {
		t.Fatalf("expected buyer session from cookie, got %d %+v", resp.Code, captured)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer seller")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || captured.ID != "seller" {
		t.Fatalf("expected seller session from header, got %d %+v", resp.Code, captured)
	}
}

func TestSessionAuthSurfacesStoreOutage(t *testing.T) {
	resolver := stubResolver{err: pkgerrors.New(pkgerrors.CodeDependency, "redis down")}
	handler := SessionAuth("artemisia_session", resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer buyer")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestOptionalSessionLetsAnonymousThrough(t *testing.T) {
	var captured *session.Session
	handler := OptionalSession("artemisia_session", newResolver(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || captured != nil {
		t.Fatalf("expected anonymous pass-through, got %d %+v", resp.Code, captured)
	}
}

func TestRequireRole(t *testing.T) {
	handler := SessionAuth("artemisia_session", newResolver(), nil)(
		RequireRole(nil, enums.UserRoleSeller)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	for id, want := range map[string]int{"buyer": http.StatusForbidden, "seller": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+id)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("%s: expected %d got %d", id, want, resp.Code)
		}
	}
}
