package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
)

// Service lists and registers buyer addresses.
type Service interface {
	List(ctx context.Context, sess *session.Session) ([]Address, error)
	Create(ctx context.Context, sess *session.Session, input CreateInput) (*Address, error)
}

type addressGateway interface {
	ListAddresses(ctx context.Context, token string, userID int64) ([]gateway.Address, error)
	CreateAddress(ctx context.Context, token string, req gateway.AddressRequest) (*gateway.Address, error)
}

type service struct {
	gw addressGateway
}

// NewService builds the address service.
func NewService(gw addressGateway) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("address gateway is required")
	}
	return &service{gw: gw}, nil
}

func (s *service) List(ctx context.Context, sess *session.Session) ([]Address, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	records, err := s.gw.ListAddresses(ctx, sess.BearerToken(), sess.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]Address, 0, len(records))
	for _, record := range records {
		out = append(out, FromGateway(record))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, sess *session.Session, input CreateInput) (*Address, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	req := gateway.AddressRequest{
		RecipientName:    strings.TrimSpace(input.RecipientName),
		RecipientSurname: strings.TrimSpace(input.RecipientSurname),
		Country:          strings.TrimSpace(input.Country),
		City:             strings.TrimSpace(input.City),
		Street:           strings.TrimSpace(input.Street),
		HouseNumber:      strings.TrimSpace(input.HouseNumber),
		Extra:            strings.TrimSpace(input.Extra),
		UserID:           sess.UserID,
	}
	if missing := missingFields(req); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	created, err := s.gw.CreateAddress(ctx, sess.BearerToken(), req)
	if err != nil {
		return nil, err
	}
	out := FromGateway(*created)
	if out.UserID == 0 {
		out.UserID = sess.UserID
	}
	return &out, nil
}

func missingFields(req gateway.AddressRequest) []string {
	var missing []string
	checks := []struct {
		name  string
		value string
	}{
		{"recipient_name", req.RecipientName},
		{"recipient_surname", req.RecipientSurname},
		{"country", req.Country},
		{"city", req.City},
		{"street", req.Street},
		{"house_number", req.HouseNumber},
	}
	for _, check := range checks {
		if check.value == "" {
			missing = append(missing, check.name)
		}
	}
	return missing
}
