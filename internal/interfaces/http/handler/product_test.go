package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/retail/backoffice/internal/application/catalog"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
)

// fakeProductRepo is a map-backed catalog.ProductRepository.
type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.IsDeleted() {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.StoreID == storeID && p.Code == strings.ToUpper(code) && !p.IsDeleted() {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) List(_ context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	filter.Normalize()
	items := make([]*catalog.Product, 0)
	for _, p := range r.products {
		if p.StoreID == storeID && !p.IsDeleted() {
			items = append(items, p)
		}
	}
	return &shared.Paginated[*catalog.Product]{
		Items:      items,
		TotalCount: int64(len(items)),
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

func (r *fakeProductRepo) ListBelowThreshold(_ context.Context, storeID uuid.UUID) ([]*catalog.Product, error) {
	items := make([]*catalog.Product, 0)
	for _, p := range r.products {
		if p.StoreID == storeID && !p.IsDeleted() && p.IsBelowThreshold() {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return shared.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok || p.IsDeleted() || p.Stock.LessThan(amount) {
		return shared.ErrInsufficientStock
	}
	p.Stock = p.Stock.Sub(amount)
	return nil
}

func (r *fakeProductRepo) IncrementStock(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Stock = p.Stock.Add(amount)
	return nil
}

func newProductTestServer(t *testing.T) (*gin.Engine, *fakeProductRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeProductRepo()
	svc := catalogapp.NewProductService(repo, nil, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewProductHandler(svc).RegisterRoutes(api)
	return engine, repo
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestProductHandlerCreate(t *testing.T) {
	t.Run("creates a product", func(t *testing.T) {
		engine, repo := newProductTestServer(t)

		rec := performJSON(t, engine, http.MethodPost, "/api/v1/products", gin.H{
			"code": "RICE-25KG",
			"name": "Rice Sack 25kg",
			"unit": "sack",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, repo.products, 1)

		var envelope struct {
			Success bool            `json:"success"`
			Data    ProductResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, "RICE-25KG", envelope.Data.Code)
	})

	t.Run("duplicate code maps to 409", func(t *testing.T) {
		engine, _ := newProductTestServer(t)

		body := gin.H{"code": "RICE-25KG", "name": "Rice", "unit": "sack"}
		first := performJSON(t, engine, http.MethodPost, "/api/v1/products", body)
		require.Equal(t, http.StatusCreated, first.Code)

		second := performJSON(t, engine, http.MethodPost, "/api/v1/products", body)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "DUPLICATE_CODE")
	})

	t.Run("missing fields map to 400", func(t *testing.T) {
		engine, _ := newProductTestServer(t)

		rec := performJSON(t, engine, http.MethodPost, "/api/v1/products", gin.H{"code": "X"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandlerGet(t *testing.T) {
	t.Run("unknown product maps to 404", func(t *testing.T) {
		engine, _ := newProductTestServer(t)

		rec := performJSON(t, engine, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_FOUND")
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		engine, _ := newProductTestServer(t)

		rec := performJSON(t, engine, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandlerDelete(t *testing.T) {
	engine, repo := newProductTestServer(t)

	create := performJSON(t, engine, http.MethodPost, "/api/v1/products", gin.H{
		"code": "RICE-25KG", "name": "Rice", "unit": "sack",
	})
	require.Equal(t, http.StatusCreated, create.Code)

	var productID uuid.UUID
	for id := range repo.products {
		productID = id
	}

	rec := performJSON(t, engine, http.MethodDelete, "/api/v1/products/"+productID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	get := performJSON(t, engine, http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	assert.Equal(t, http.StatusNotFound, get.Code)
}
