package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/config"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/golang-jwt/jwt/v5"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestServiceLoginStoresSessionWithTokenTTL(t *testing.T) {
	token := mustToken(t, jwt.MapClaims{
		"sub":       "ana",
		"user_id":   "12",
		"user_role": "SELLER",
		"exp":       fixedNow.Add(2 * time.Hour).Unix(),
	})
	upstream := &stubUpstream{resp: &gateway.LoginResponse{IDToken: token, Username: "ana", UserID: 12, UserRole: "SELLER"}}
	sessions := &stubSessions{}
	svc := buildTestService(t, upstream, sessions, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: " ana ", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if upstream.req.Username != "ana" {
		t.Fatalf("expected trimmed username, got %q", upstream.req.Username)
	}
	if sessions.ttl != 2*time.Hour {
		t.Fatalf("expected ttl from token exp, got %s", sessions.ttl)
	}
	if resp.SessionID != "sess-1" || resp.User.ID != 12 || resp.User.Role != enums.UserRoleSeller {
		t.Fatalf("unexpected response %+v", resp)
	}
	if sessions.created.Token != token {
		t.Fatalf("expected upstream token stored on session")
	}
}

func TestServiceLoginFallsBackToDefaultTTL(t *testing.T) {
	upstream := &stubUpstream{resp: &gateway.LoginResponse{IDToken: "opaque", UserID: 3, Role: "ROLE_BUYER"}}
	sessions := &stubSessions{}
	svc := buildTestService(t, upstream, sessions, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "bob", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sessions.ttl != 10*time.Hour {
		t.Fatalf("expected default ttl, got %s", sessions.ttl)
	}
	if resp.User.Username != "bob" || resp.User.Role != enums.UserRoleBuyer {
		t.Fatalf("unexpected user %+v", resp.User)
	}
}

func TestServiceLoginInvalidCredentials(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
		upstream := &stubUpstream{err: upstreamStatusError(status)}
		sessions := &stubSessions{}
		svc := buildTestService(t, upstream, sessions, nil)

		_, err := svc.Login(context.Background(), LoginRequest{Username: "ana", Password: "wrong"})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeInvalidCredentials {
			t.Fatalf("status %d: expected invalid credentials, got %v", status, err)
		}
		if typed.Message() != "Incorrect User or Password" {
			t.Fatalf("unexpected message %q", typed.Message())
		}
		if sessions.calls != 0 {
			t.Fatalf("status %d: expected no session stored", status)
		}
	}
}

func TestServiceLoginPropagatesUpstreamFailure(t *testing.T) {
	upstream := &stubUpstream{err: upstreamStatusError(http.StatusBadGateway)}
	svc := buildTestService(t, upstream, &stubSessions{}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ana", Password: "pw"})
	if !pkgerrors.Is(err, pkgerrors.CodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestServiceLoginRejectsExpiredToken(t *testing.T) {
	token := mustToken(t, jwt.MapClaims{"user_id": 3, "exp": fixedNow.Add(-time.Minute).Unix()})
	sessions := &stubSessions{}
	svc := buildTestService(t, &stubUpstream{resp: &gateway.LoginResponse{IDToken: token, UserID: 3}}, sessions, nil)

	if _, err := svc.Login(context.Background(), LoginRequest{Username: "ana", Password: "pw"}); err == nil {
		t.Fatalf("expected error for expired token")
	}
	if sessions.calls != 0 {
		t.Fatalf("expected no session stored")
	}
}

func TestServiceResolveUnknownSession(t *testing.T) {
	svc := buildTestService(t, &stubUpstream{}, &stubSessions{getErr: session.ErrSessionNotFound}, nil)

	_, err := svc.Resolve(context.Background(), "missing")
	if !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLogoutDropsWorkspace(t *testing.T) {
	sessions := &stubSessions{}
	dropper := &stubDropper{}
	svc := buildTestService(t, &stubUpstream{}, sessions, dropper)

	if err := svc.Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if dropper.dropped != "sess-1" || sessions.revoked != "sess-1" {
		t.Fatalf("expected workspace drop and revoke, got %q %q", dropper.dropped, sessions.revoked)
	}
}

func buildTestService(t *testing.T, upstream *stubUpstream, sessions *stubSessions, dropper *stubDropper) Service {
	t.Helper()
	params := ServiceParams{
		Upstream:      upstream,
		Sessions:      sessions,
		SessionConfig: config.SessionConfig{DefaultTTL: 10 * time.Hour, MaxTTL: 24 * time.Hour},
		Now:           func() time.Time { return fixedNow },
	}
	if dropper != nil {
		params.Workspaces = dropper
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func upstreamStatusError(status int) error {
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, &gateway.StatusError{Endpoint: "auth.token", Status: status}, "rejected")
}

type stubUpstream struct {
	req  gateway.LoginRequest
	resp *gateway.LoginResponse
	err  error
}

func (s *stubUpstream) Login(ctx context.Context, req gateway.LoginRequest) (*gateway.LoginResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	if s.resp == nil {
		return nil, errors.New("no response configured")
	}
	return s.resp, nil
}

type stubSessions struct {
	calls   int
	created session.Session
	ttl     time.Duration
	getErr  error
	revoked string
}

func (s *stubSessions) Create(ctx context.Context, sess session.Session, ttl time.Duration) (*session.Session, error) {
	s.calls++
	s.created = sess
	s.ttl = ttl
	sess.ID = "sess-1"
	sess.CreatedAt = fixedNow
	sess.ExpiresAt = fixedNow.Add(ttl)
	return &sess, nil
}

func (s *stubSessions) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &session.Session{ID: sessionID, Token: "tok", UserID: 3}, nil
}

func (s *stubSessions) Revoke(ctx context.Context, sessionID string) error {
	s.revoked = sessionID
	return nil
}

type stubDropper struct {
	dropped string
}

func (s *stubDropper) Drop(sessionID string) {
	s.dropped = sessionID
}
