package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgAuth "github.com/artemisia-corp/storefront/pkg/auth"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/config"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
)

const invalidCredentialsMessage = "Incorrect User or Password"

// Service defines the behavior needed by the auth controller and session middleware.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Resolve(ctx context.Context, sessionID string) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type upstreamAuth interface {
	Login(ctx context.Context, req gateway.LoginRequest) (*gateway.LoginResponse, error)
}

type sessionStore interface {
	Create(ctx context.Context, sess session.Session, ttl time.Duration) (*session.Session, error)
	Get(ctx context.Context, sessionID string) (*session.Session, error)
	Revoke(ctx context.Context, sessionID string) error
}

type workspaceDropper interface {
	Drop(sessionID string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Upstream      upstreamAuth
	Sessions      sessionStore
	Workspaces    workspaceDropper
	SessionConfig config.SessionConfig
	Now           func() time.Time
}

type service struct {
	upstream   upstreamAuth
	sessions   sessionStore
	workspaces workspaceDropper
	cfg        config.SessionConfig
	now        func() time.Time
}

// NewService constructs the login service.
func NewService(params ServiceParams) (Service, error) {
	if params.Upstream == nil {
		return nil, fmt.Errorf("upstream auth client is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		upstream:   params.Upstream,
		sessions:   params.Sessions,
		workspaces: params.Workspaces,
		cfg:        params.SessionConfig,
		now:        now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	resp, err := s.upstream.Login(ctx, gateway.LoginRequest{Username: username, Password: req.Password})
	if err != nil {
		switch gateway.StatusOf(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidCredentials, err, invalidCredentialsMessage)
		}
		return nil, err
	}
	if strings.TrimSpace(resp.IDToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "login response carried no token")
	}

	now := s.now()
	var tokenTTL time.Duration
	claims, claimsErr := pkgAuth.InspectUpstreamToken(resp.IDToken)
	if claimsErr == nil {
		if claims.Expired(now) {
			return nil, pkgerrors.New(pkgerrors.CodeUpstream, "login returned an expired token")
		}
		tokenTTL = claims.RemainingTTL(now)
	}

	userID := resp.UserID.Int64()
	if userID == 0 && claims != nil {
		if parsed, err := claims.UserID.Int64(); err == nil {
			userID = parsed
		}
	}
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "login response carried no user id")
	}

	roleName := resp.RoleName()
	if strings.TrimSpace(roleName) == "" && claims != nil {
		roleName = claims.UserRole
	}
	role, err := enums.ParseUserRole(roleName)
	if err != nil {
		role = enums.UserRoleBuyer
	}

	name := strings.TrimSpace(resp.Username)
	if name == "" {
		name = username
	}

	stored, err := s.sessions.Create(ctx, session.Session{
		Token:      resp.IDToken,
		UserID:     userID,
		Username:   name,
		Role:       role,
		FirstLogin: resp.FirstLogin,
	}, s.cfg.TTLFor(tokenTTL))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &LoginResponse{
		SessionID: stored.ID,
		ExpiresAt: stored.ExpiresAt,
		User: SessionUser{
			ID:         stored.UserID,
			Username:   stored.Username,
			Role:       stored.Role,
			FirstLogin: stored.FirstLogin,
		},
	}, nil
}

func (s *service) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or unknown")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return sess, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if s.workspaces != nil {
		s.workspaces.Drop(sessionID)
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
