package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/artemisia-corp/storefront/internal/address"
	"github.com/artemisia-corp/storefront/internal/auth"
	"github.com/artemisia-corp/storefront/internal/workspace"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/config"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
	"github.com/artemisia-corp/storefront/pkg/redis"
)

type stubAuthService struct {
	sessions map[string]*session.Session
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "Incorrect User or Password")
}

func (s stubAuthService) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or unknown")
}

func (s stubAuthService) Logout(ctx context.Context, sessionID string) error {
	return nil
}

type noWorkspaces struct{}

func (noWorkspaces) Get(sess *session.Session) (*workspace.Workspace, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired in router tests")
}

type noAddresses struct{}

func (noAddresses) List(ctx context.Context, sess *session.Session) ([]address.Address, error) {
	return []address.Address{}, nil
}

func (noAddresses) Create(ctx context.Context, sess *session.Session, input address.CreateInput) (*address.Address, error) {
	return &address.Address{AddressID: 1}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		Session: config.SessionConfig{CookieName: "artemisia_session", DefaultTTL: time.Hour},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginUsernameLimit: 1,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	handler := NewRouter(Deps{
		Config: cfg,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Redis:  client,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		}),
		Auth: stubAuthService{sessions: map[string]*session.Session{
			"buyer": {ID: "buyer", UserID: 1, Role: enums.UserRoleBuyer},
		}},
		Addresses:  noAddresses{},
		Workspaces: noWorkspaces{},
	})
	return handler, mr
}

func TestHealthRoutes(t *testing.T) {
	handler, mr := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected live 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready 200, got %d", rec.Code)
	}

	mr.Close()
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected ready 503 once redis is gone, got %d", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	handler, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "# metrics") {
		t.Fatalf("unexpected metrics response %d %q", rec.Code, rec.Body.String())
	}
}

func TestCartRequiresSession(t *testing.T) {
	handler, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSellerRoutesRejectBuyers(t *testing.T) {
	handler, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/seller/products", nil)
	req.AddCookie(&http.Cookie{Name: "artemisia_session", Value: "buyer"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAddressesReachableWithSession(t *testing.T) {
	handler, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/addresses", nil)
	req.Header.Set("Authorization", "Bearer buyer")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginIsRateLimitedPerUsername(t *testing.T) {
	handler, _ := newTestRouter(t)
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"ana","password":"bad"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 401 then 429, got %v", codes)
	}
}
