package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/artemisia-corp/storefront/pkg/logger"
	"github.com/artemisia-corp/storefront/pkg/pagination"
)

// Service exposes the catalog and the seller's listing management.
type Service interface {
	List(ctx context.Context, sess *session.Session, params pagination.Params, filters Filters) (*pagination.Page[ProductDTO], error)
	Get(ctx context.Context, sess *session.Session, productID int64) (*ProductDTO, error)
	Search(ctx context.Context, sess *session.Session, criteria SearchInput, params pagination.Params) (*pagination.Page[ProductDTO], error)
	ListBySeller(ctx context.Context, sess *session.Session, params pagination.Params) (*pagination.Page[ProductDTO], error)
	Create(ctx context.Context, sess *session.Session, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, sess *session.Session, productID int64, input ProductInput) (*ProductDTO, error)
	UploadImage(ctx context.Context, sess *session.Session, productID int64, image ImageInput) error
}

type productGateway interface {
	ListProducts(ctx context.Context, token string, params pagination.Params, filters map[string]string) (*pagination.Page[gateway.Product], error)
	GetProduct(ctx context.Context, token string, productID int64) (*gateway.Product, error)
	TrackView(ctx context.Context, token string, productID int64) error
	SearchProducts(ctx context.Context, token string, criteria gateway.ProductSearch, params pagination.Params) (*pagination.Page[gateway.Product], error)
	ListSellerProducts(ctx context.Context, token string, sellerID int64, params pagination.Params) (*pagination.Page[gateway.Product], error)
	CreateProduct(ctx context.Context, token string, req gateway.ProductRequest) (*gateway.Product, error)
	UpdateProduct(ctx context.Context, token string, productID int64, req gateway.ProductRequest) (*gateway.Product, error)
	UploadImage(ctx context.Context, token string, req gateway.ImageUpload) error
}

// ServiceParams bundles the catalog dependencies.
type ServiceParams struct {
	Gateway       productGateway
	Logger        *logger.Logger
	MaxImageBytes int
}

type service struct {
	gw            productGateway
	logg          *logger.Logger
	maxImageBytes int
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("product gateway is required")
	}
	return &service{
		gw:            params.Gateway,
		logg:          params.Logger.Component("catalog"),
		maxImageBytes: params.MaxImageBytes,
	}, nil
}

func (s *service) List(ctx context.Context, sess *session.Session, params pagination.Params, filters Filters) (*pagination.Page[ProductDTO], error) {
	page, err := s.gw.ListProducts(ctx, tokenOf(sess), params.Normalize(), filters.toQuery())
	if err != nil {
		return nil, err
	}
	return mapPage(page), nil
}

// Get returns one listing. The view is tracked best-effort for signed-in buyers.
func (s *service) Get(ctx context.Context, sess *session.Session, productID int64) (*ProductDTO, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	p, err := s.gw.GetProduct(ctx, tokenOf(sess), productID)
	if err != nil {
		if gateway.StatusOf(err) == 404 {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, err
	}
	if sess != nil {
		if err := s.gw.TrackView(ctx, sess.BearerToken(), productID); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", productID), "track product view failed")
		}
	}
	dto := FromGateway(*p)
	return &dto, nil
}

func (s *service) Search(ctx context.Context, sess *session.Session, criteria SearchInput, params pagination.Params) (*pagination.Page[ProductDTO], error) {
	if criteria.PriceMin != nil && criteria.PriceMax != nil && criteria.PriceMin.GreaterThan(*criteria.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min must not exceed price_max")
	}
	page, err := s.gw.SearchProducts(ctx, tokenOf(sess), gateway.ProductSearch{
		Categories: normalizeTags(criteria.Categories),
		Techniques: normalizeTags(criteria.Techniques),
		PriceMin:   criteria.PriceMin,
		PriceMax:   criteria.PriceMax,
	}, params.Normalize())
	if err != nil {
		return nil, err
	}
	return mapPage(page), nil
}

func (s *service) ListBySeller(ctx context.Context, sess *session.Session, params pagination.Params) (*pagination.Page[ProductDTO], error) {
	if err := requireSeller(sess); err != nil {
		return nil, err
	}
	page, err := s.gw.ListSellerProducts(ctx, sess.BearerToken(), sess.UserID, params.Normalize())
	if err != nil {
		return nil, err
	}
	return mapPage(page), nil
}

// Create publishes a listing and then uploads its image when one is attached.
func (s *service) Create(ctx context.Context, sess *session.Session, input ProductInput) (*ProductDTO, error) {
	if err := requireSeller(sess); err != nil {
		return nil, err
	}
	req, err := buildRequest(sess.UserID, input)
	if err != nil {
		return nil, err
	}

	var image string
	if input.Image != nil {
		image, _, err = decodeImage(input.Image.Base64Image, s.maxImageBytes)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.gw.CreateProduct(ctx, sess.BearerToken(), req)
	if err != nil {
		return nil, err
	}
	if input.Image != nil {
		if err := s.gw.UploadImage(ctx, sess.BearerToken(), gateway.ImageUpload{
			ProductID:   created.ProductID,
			FileName:    strings.TrimSpace(input.Image.FileName),
			Base64Image: image,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "product created but the image upload failed").
				WithDetails(map[string]any{"product_id": created.ProductID})
		}
	}
	dto := FromGateway(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, sess *session.Session, productID int64, input ProductInput) (*ProductDTO, error) {
	if err := requireSeller(sess); err != nil {
		return nil, err
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	req, err := buildRequest(sess.UserID, input)
	if err != nil {
		return nil, err
	}
	updated, err := s.gw.UpdateProduct(ctx, sess.BearerToken(), productID, req)
	if err != nil {
		return nil, err
	}
	dto := FromGateway(*updated)
	return &dto, nil
}

func (s *service) UploadImage(ctx context.Context, sess *session.Session, productID int64, image ImageInput) error {
	if err := requireSeller(sess); err != nil {
		return err
	}
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	fileName := strings.TrimSpace(image.FileName)
	if fileName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	payload, contentType, err := decodeImage(image.Base64Image, s.maxImageBytes)
	if err != nil {
		return err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"product_id":   productID,
			"content_type": contentType,
		}), "uploading product image")
	}
	return s.gw.UploadImage(ctx, sess.BearerToken(), gateway.ImageUpload{
		ProductID:   productID,
		FileName:    fileName,
		Base64Image: payload,
	})
}

func buildRequest(sellerID int64, input ProductInput) (gateway.ProductRequest, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return gateway.ProductRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return gateway.ProductRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return gateway.ProductRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if status == "" {
		status = enums.ProductStatusAvailable.String()
	}
	if _, err := enums.ParseProductStatus(status); err != nil {
		return gateway.ProductRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product status")
	}
	return gateway.ProductRequest{
		SellerID:    sellerID,
		Name:        name,
		Technique:   strings.ToUpper(strings.TrimSpace(input.Technique)),
		Category:    strings.ToUpper(strings.TrimSpace(input.Category)),
		Materials:   strings.TrimSpace(input.Materials),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price.Round(2),
		Stock:       input.Stock,
		Status:      status,
	}, nil
}

func requireSeller(sess *session.Session) error {
	if sess == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if !sess.IsSeller() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "seller role required")
	}
	return nil
}

func tokenOf(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.BearerToken()
}

func normalizeTags(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapPage(page *pagination.Page[gateway.Product]) *pagination.Page[ProductDTO] {
	out := pagination.Map(*page, FromGateway)
	return &out
}
