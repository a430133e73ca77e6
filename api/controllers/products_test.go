package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artemisia-corp/storefront/api/middleware"
	product "github.com/artemisia-corp/storefront/internal/products"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	"github.com/artemisia-corp/storefront/pkg/pagination"
	"github.com/artemisia-corp/storefront/pkg/types"
)

type stubProducts struct {
	product.Service
	filters product.Filters
	params  pagination.Params
	sess    *session.Session
	created product.ProductInput
}

func (s *stubProducts) List(ctx context.Context, sess *session.Session, params pagination.Params, filters product.Filters) (*pagination.Page[product.ProductDTO], error) {
	s.sess = sess
	s.params = params
	s.filters = filters
	return &pagination.Page[product.ProductDTO]{
		Content:       []product.ProductDTO{{ProductID: 1, Name: "Sunset"}},
		Number:        params.Page,
		Size:          params.Size,
		TotalElements: 1,
		TotalPages:    1,
		Last:          true,
	}, nil
}

func (s *stubProducts) Create(ctx context.Context, sess *session.Session, input product.ProductInput) (*product.ProductDTO, error) {
	s.sess = sess
	s.created = input
	return &product.ProductDTO{ProductID: 77, Name: input.Name}, nil
}

func TestProductListIsPublicAndPaged(t *testing.T) {
	svc := &stubProducts{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1&size=5&category=%20PAINTING%20", nil)
	rec := httptest.NewRecorder()
	ProductList(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.sess != nil {
		t.Fatalf("expected anonymous call")
	}
	if svc.filters.Category != "PAINTING" || svc.params.Page != 1 || svc.params.Size != 5 {
		t.Fatalf("unexpected inputs %+v %+v", svc.filters, svc.params)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Meta == nil || body.Meta.Page != 1 || body.Meta.TotalElements != 1 {
		t.Fatalf("unexpected meta %+v", body.Meta)
	}
}

func TestSellerCreateProduct(t *testing.T) {
	svc := &stubProducts{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", strings.NewReader(`{"name":"Sunset","price":"120.50","stock":2}`))
	seller := &session.Session{ID: "s", UserID: 9, Role: enums.UserRoleSeller}
	req = req.WithContext(middleware.WithSession(req.Context(), seller))
	rec := httptest.NewRecorder()
	SellerCreateProduct(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created.Name != "Sunset" || svc.created.Price.String() != "120.5" || svc.created.Stock != 2 {
		t.Fatalf("unexpected input %+v", svc.created)
	}
}

func TestSellerCreateProductRejectsBadStatus(t *testing.T) {
	svc := &stubProducts{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", strings.NewReader(`{"name":"Sunset","status":"SOLD"}`))
	req = req.WithContext(middleware.WithSession(req.Context(), &session.Session{ID: "s", UserID: 9, Role: enums.UserRoleSeller}))
	rec := httptest.NewRecorder()
	SellerCreateProduct(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
