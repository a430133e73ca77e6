package users

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
)

type accountGateway interface {
	CreateUser(ctx context.Context, req gateway.UserRequest) (*gateway.User, error)
	GetUser(ctx context.Context, token string, userID int64) (*gateway.User, error)
}

// Service manages marketplace accounts.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Profile(ctx context.Context, sess *session.Session) (*UserDTO, error)
}

type service struct {
	gw accountGateway
}

// NewService builds the account service.
func NewService(gw accountGateway) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("account gateway is required")
	}
	return &service{gw: gw}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	mail := strings.ToLower(strings.TrimSpace(input.Mail))
	if name == "" || mail == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, mail and password are required")
	}
	role, err := enums.ParseUserRole(input.Role)
	if err != nil || !role.CanSelfRegister() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be BUYER or SELLER").
			WithDetails(map[string]any{"role": input.Role})
	}

	created, err := s.gw.CreateUser(ctx, gateway.UserRequest{
		Name:     name,
		Mail:     mail,
		Password: input.Password,
		Role:     role.String(),
	})
	if err != nil {
		if gateway.StatusOf(err) == http.StatusConflict {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "an account with this mail already exists")
		}
		return nil, err
	}
	dto := FromGateway(*created)
	return &dto, nil
}

func (s *service) Profile(ctx context.Context, sess *session.Session) (*UserDTO, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	u, err := s.gw.GetUser(ctx, sess.BearerToken(), sess.UserID)
	if err != nil {
		return nil, err
	}
	dto := FromGateway(*u)
	return &dto, nil
}
