package registryserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/gift-registry/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/gift-registry/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/gift-registry/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	checkoutmemory "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/memory"
	checkoutapp "github.com/Apurer/gift-registry/internal/domains/checkout/application"
	checkoutdomain "github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/gift-registry/internal/domains/checkout/ports"
	apierrors "github.com/Apurer/gift-registry/internal/shared/errors"
)

const testCartID = "4b0c2a3e-5d6f-4a1b-9c8d-7e6f5a4b3c2d"

type fixture struct {
	router  *gin.Engine
	catalog *catalogmemory.Repository
	service *catalogapp.Service
	orders  *checkoutmemory.Repository
}

func newFixture(t *testing.T, refresh bool) fixture {
	t.Helper()
	return newFixtureWithOrders(t, refresh, nil)
}

// brokenOrders fails every write the way an unreachable database does.
type brokenOrders struct {
	*checkoutmemory.Repository
}

func (brokenOrders) Create(context.Context, *checkoutdomain.Order) (*checkoutdomain.Order, error) {
	return nil, errors.New(`pq: relation "orders" does not exist`)
}

func newFixtureWithOrders(t *testing.T, refresh bool, override checkoutports.OrderRepository) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := catalogmemory.NewRepository([]catalogdomain.Item{
		{ID: "patagonia", Title: "Patagonia", TotalPackages: 3, PackagesSold: 1, Active: true, DisplayOrder: 1, UnitPrice: catalogdomain.Price(5000)},
		{ID: "iceland", Title: "Iceland", TotalPackages: 2, PackagesSold: 2, Active: true, DisplayOrder: 2, UnitPrice: catalogdomain.Price(8000)},
		{ID: catalogdomain.FreeContributionID, Title: "Back Home", Active: true, DisplayOrder: 3},
	})
	catalog := catalogapp.NewService(repo)
	if refresh {
		require.NoError(t, catalog.Refresh(context.Background()))
	}
	carts := cartapp.NewService(cartmemory.NewStore(), catalog)
	orders := checkoutmemory.NewRepository()
	var orderRepo checkoutports.OrderRepository = orders
	if override != nil {
		orderRepo = override
	}
	fulfiller := checkoutapp.NewFulfiller(catalogapp.NewAtomicIncrement(repo))
	checkout := checkoutapp.NewService(orderRepo, catalog, carts, fulfiller)

	router := NewRouter(ApiHandleFunctions{
		CatalogAPI:  NewCatalogAPI(catalog),
		CartAPI:     NewCartAPI(carts),
		CheckoutAPI: NewCheckoutAPI(checkout),
		HealthAPI:   NewHealthAPI(catalog, catalogapp.StrategyAtomic),
	})
	return fixture{router: router, catalog: repo, service: catalog, orders: orders}
}

func (f fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
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
	req.Header.Set(CartHeaderName, testCartID)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListExperiences(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/v1/experiences", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[CatalogListing](t, rec)
	require.Equal(t, 3, listing.Count)
	require.Equal(t, "patagonia", listing.Experiences[0].ID)
	require.Equal(t, "€50.00", listing.Experiences[0].PriceLabel)
	require.True(t, listing.Experiences[1].SoldOut)
	require.True(t, listing.Experiences[2].FreeContribution)
	require.Equal(t, "Free offer", listing.Experiences[2].PriceLabel)
}

func TestCatalogUnavailableIsServiceUnavailable(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/v1/experiences", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	health := decode[Health](t, f.do(t, http.MethodGet, "/healthz", nil))
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, catalogapp.StrategyAtomic, health.InventoryStrategy)
}

func TestGetExperience_NotFound(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, http.MethodGet, "/v1/experiences/atlantis", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartLifecycle(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPut, "/v1/cart/items/patagonia", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testCartID, rec.Header().Get(CartHeaderName))

	rec = f.do(t, http.MethodPut, "/v1/cart/items/"+catalogdomain.FreeContributionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/v1/cart/items/patagonia", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	require.Equal(t, []any{"patagonia", catalogdomain.FreeContributionID}, body["ids"])
	summary := body["summary"].(map[string]any)
	require.Equal(t, "50.00", summary["total"])
	require.Equal(t, "mixed", summary["mode"])

	rec = f.do(t, http.MethodDelete, "/v1/cart/items/patagonia", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/v1/cart", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	body = decode[map[string]any](t, f.do(t, http.MethodGet, "/v1/cart", nil))
	require.Empty(t, body["ids"])
}

func TestAddItem_Errors(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPut, "/v1/cart/items/atlantis", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/v1/cart/items/iceland", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeSoldOut, problem.Type)
}

func TestCartIssuesCookieWithoutID(t *testing.T) {
	f := newFixture(t, true)
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	issued := rec.Header().Get(CartHeaderName)
	require.NotEmpty(t, issued)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CartCookieName, cookies[0].Name)
	require.Equal(t, issued, cookies[0].Value)
}

func TestCheckout_Validation(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/v1/checkout", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, f.orders.Len())

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/v1/cart/items/patagonia", nil).Code)
	rec = f.do(t, http.MethodPost, "/v1/checkout", map[string]string{"name": "  ", "email": "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	fields, ok := problem.Extensions["fields"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, fields, "name")
	require.Zero(t, f.orders.Len())
}

func TestCheckout_PlacesOrderAndVerifies(t *testing.T) {
	f := newFixture(t, true)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/v1/cart/items/patagonia", nil).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/v1/cart/items/"+catalogdomain.FreeContributionID, nil).Code)

	rec := f.do(t, http.MethodPost, "/v1/checkout", map[string]string{"name": "Ana", "email": "ana@example.com", "message": "Enjoy"})
	require.Equal(t, http.StatusCreated, rec.Code)
	confirmation := decode[map[string]any](t, rec)
	code, _ := confirmation["sessionCode"].(string)
	require.Regexp(t, `^\d{6}-[0-9A-Z]{5}$`, code)
	require.Equal(t, 1, f.orders.Len())

	sold, _, err := f.catalog.SoldCount(context.Background(), "patagonia")
	require.NoError(t, err)
	require.Equal(t, 2, sold)

	body := decode[map[string]any](t, f.do(t, http.MethodGet, "/v1/cart", nil))
	require.Empty(t, body["ids"])

	rec = f.do(t, http.MethodGet, "/v1/cart/last-order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, code, decode[map[string]any](t, rec)["code"])

	rec = f.do(t, http.MethodGet, "/v1/orders/"+code, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	verified := decode[map[string]any](t, rec)
	require.Equal(t, "Ana", verified["order"].(map[string]any)["guestName"])

	rec = f.do(t, http.MethodGet, "/v1/orders/991231-ZZZZZ", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/v1/orders/not-a-code", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_SoldOutSinceAddedIsConflict(t *testing.T) {
	f := newFixture(t, true)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/v1/cart/items/patagonia", nil).Code)

	require.NoError(t, f.catalog.UpdateSoldCount(context.Background(), "patagonia", 3))
	require.NoError(t, f.service.Refresh(context.Background()))

	rec := f.do(t, http.MethodPost, "/v1/checkout", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeSoldOut, problem.Type)
	require.Equal(t, []any{"patagonia"}, problem.Extensions["unavailable"])
	require.Zero(t, f.orders.Len())
}

func TestCheckout_InventoryFailureStillConfirms(t *testing.T) {
	f := newFixture(t, true)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/v1/cart/items/patagonia", nil).Code)

	// The snapshot still shows stock; the store refuses the increment.
	require.NoError(t, f.catalog.UpdateSoldCount(context.Background(), "patagonia", 3))

	rec := f.do(t, http.MethodPost, "/v1/checkout", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)
	confirmation := decode[map[string]any](t, rec)
	fulfillment := confirmation["fulfillment"].(map[string]any)
	require.EqualValues(t, 1, fulfillment["inventoryFailures"])
	require.Equal(t, 1, f.orders.Len())
}

func TestLastOrder_NotFound(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, http.MethodGet, "/v1/cart/last-order", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_OrderStoreFailureHidesCause(t *testing.T) {
	f := newFixtureWithOrders(t, true, brokenOrders{checkoutmemory.NewRepository()})
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/v1/cart/items/patagonia", nil).Code)

	rec := f.do(t, http.MethodPost, "/v1/checkout", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeBadGateway, problem.Type)
	require.NotContains(t, problem.Detail, "pq:")
	require.NotContains(t, problem.Detail, "orders")

	cart := decode[map[string]any](t, f.do(t, http.MethodGet, "/v1/cart", nil))
	require.Len(t, cart["ids"], 1)
}
