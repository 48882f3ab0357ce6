package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type stubProductService struct {
	listFn   func(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Product], error)
	getFn    func(ctx context.Context, id int64) (*domain.Product, error)
	createFn func(ctx context.Context, p domain.Product) (*domain.Product, error)
	updateFn func(ctx context.Context, p domain.Product) error
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubProductService) List(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Product], error) {
	return s.listFn(ctx, pageNumber, pageSize)
}

func (s *stubProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return s.createFn(ctx, p)
}

func (s *stubProductService) Update(ctx context.Context, p domain.Product) error {
	return s.updateFn(ctx, p)
}

func (s *stubProductService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

var fixedTime = time.Date(2025, 8, 15, 10, 13, 8, 0, time.UTC)

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestProductHandler_List_Defaults(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Product], error) {
			if pageNumber != 1 || pageSize != 10 {
				t.Fatalf("expected defaults 1/10, got %d/%d", pageNumber, pageSize)
			}
			return &domain.Page[domain.Product]{
				Items:      []domain.Product{{ID: 1, Name: "Laptop Pro", Price: decimal.RequireFromString("1200"), CreatedAt: fixedTime}},
				TotalCount: 5,
				PageNumber: 1,
				PageSize:   10,
			}, nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/product", nil), rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{`"totalCount":5`, `"pageNumber":1`, `"pageSize":10`, `"price":1200.00`, `"createdAt":"2025-08-15T10:13:08Z"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
}

func TestProductHandler_List_QueryParams(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Product], error) {
			if pageNumber != 3 || pageSize != 2 {
				t.Fatalf("expected 3/2, got %d/%d", pageNumber, pageSize)
			}
			return &domain.Page[domain.Product]{Items: []domain.Product{}, TotalCount: 5, PageNumber: 3, PageSize: 2}, nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/product?pageNumber=3&pageSize=2", nil), rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", rec.Body.String())
	}
}

func TestProductHandler_List_NonNumericQuery(t *testing.T) {
	e := newEcho()
	handler := NewProductHandler(&stubProductService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/product?pageNumber=abc", nil), httptest.NewRecorder())

	if err := handler.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProductHandler_Get_NonNumericID(t *testing.T) {
	e := newEcho()
	handler := NewProductHandler(&stubProductService{})

	for _, id := range []string{"abc", "0", "-4", "1.5"} {
		c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()), id)
		if err := handler.Get(c); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("id %q: expected ErrValidation, got %v", id, err)
		}
	}
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		getFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return nil, domain.ErrProductNotFound
		},
	}
	handler := NewProductHandler(stub)

	c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()), "99")
	if err := handler.Get(c); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductHandler_Create_Success(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, p domain.Product) (*domain.Product, error) {
			if p.Name != "Gamepad" || !p.Price.Equal(decimal.RequireFromString("39.90")) {
				t.Fatalf("unexpected product: %+v", p)
			}
			p.ID = 6
			p.CreatedAt = fixedTime
			return &p, nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/product", `{"id":123,"name":"Gamepad","price":39.90}`), rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/api/product/6" {
		t.Fatalf("unexpected Location header %q", loc)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(6) || resp["price"] != 39.9 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProductHandler_Create_Validation(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, p domain.Product) (*domain.Product, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewProductHandler(stub)

	cases := map[string]string{
		"missing name":   `{"price":10}`,
		"zero price":     `{"name":"Thing","price":0}`,
		"negative price": `{"name":"Thing","price":-1}`,
		"long name":      `{"name":"` + strings.Repeat("x", 101) + `","price":1}`,
	}
	for name, body := range cases {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/product", body), httptest.NewRecorder())
		if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestProductHandler_Update_Success(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		updateFn: func(ctx context.Context, p domain.Product) error {
			if p.ID != 2 || p.Name != "Mouse" {
				t.Fatalf("unexpected product: %+v", p)
			}
			return nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(jsonRequest(http.MethodPut, "/", `{"id":2,"name":"Mouse","price":20.00}`), rec), "2")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestProductHandler_Update_IDMismatch(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		updateFn: func(ctx context.Context, p domain.Product) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewProductHandler(stub)

	c := withID(e.NewContext(jsonRequest(http.MethodPut, "/", `{"id":3,"name":"Mouse","price":20}`), httptest.NewRecorder()), "2")

	err := handler.Update(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["id"] == "" {
		t.Fatalf("expected id ValidationError, got %v", err)
	}
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		updateFn: func(ctx context.Context, p domain.Product) error {
			return domain.ErrProductNotFound
		},
	}
	handler := NewProductHandler(stub)

	c := withID(e.NewContext(jsonRequest(http.MethodPut, "/", `{"id":9,"name":"Ghost","price":1}`), httptest.NewRecorder()), "9")
	if err := handler.Update(c); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductHandler_Delete(t *testing.T) {
	e := newEcho()
	calls := 0
	stub := &stubProductService{
		deleteFn: func(ctx context.Context, id int64) error {
			calls++
			if calls > 1 {
				return domain.ErrProductNotFound
			}
			return nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec), "4")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c = withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder()), "4")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
