package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saheli-store/internal/cache"
	"saheli-store/internal/handlers"
	"saheli-store/internal/receipt"
	"saheli-store/internal/repository"
	"saheli-store/internal/routes"
)

// setupRouter arma el router completo con repositorios en memoria.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	productRepo := repository.NewMemoryProductRepository()
	orderRepo := repository.NewMemoryOrderRepository()
	queryCache := cache.New(10 * time.Second)
	generator := receipt.New("Saheli Store")

	productHandler := handlers.NewProductHandler(productRepo, queryCache, true)
	orderHandler := handlers.NewOrderHandler(orderRepo, generator, true)

	router := gin.New()
	routes.RegisterRoutes(router, productHandler, orderHandler, "test")
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func createProduct(t *testing.T, router *gin.Engine, payload map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/products", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return parseBody(t, w)["product"].(map[string]interface{})
}

func TestCreateProductAndFetch(t *testing.T) {
	router := setupRouter()

	product := createProduct(t, router, map[string]interface{}{"title": "Soap", "price": 100})
	assert.Equal(t, 100.0, product["finalPrice"])
	assert.Equal(t, "uncategorized", product["category"])
	assert.Equal(t, 10.0, product["stock"])

	w := doJSON(t, router, http.MethodGet, "/api/products/"+product["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Soap", body["product"].(map[string]interface{})["title"])
}

func TestCreateProduct_Validation(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodPost, "/api/products", map[string]interface{}{"price": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "title & price")

	w = doJSON(t, router, http.MethodPost, "/api/products", map[string]interface{}{"title": "Soap", "price": "not-a-number"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProduct_ClampsOutOfRangeInput(t *testing.T) {
	router := setupRouter()

	product := createProduct(t, router, map[string]interface{}{
		"title": "Soap", "price": 100, "discount": 300, "rating": 12,
	})
	assert.Equal(t, 100.0, product["discount"])
	assert.Equal(t, 5.0, product["rating"])
}

func TestUpdateProduct_DiscountScenario(t *testing.T) {
	router := setupRouter()

	product := createProduct(t, router, map[string]interface{}{"title": "Soap", "price": 100})
	assert.Equal(t, 100.0, product["finalPrice"])

	w := doJSON(t, router, http.MethodPut, "/api/products/"+product["id"].(string), map[string]interface{}{"discount": 20})
	require.Equal(t, http.StatusOK, w.Code)
	updated := parseBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, 80.0, updated["finalPrice"])
}

func TestUpdateProduct_NotFound(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodPut, "/api/products/64f000000000000000000000", map[string]interface{}{"price": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, parseBody(t, w)["message"], "Product not found")
}

func TestToggleHighlight(t *testing.T) {
	router := setupRouter()

	product := createProduct(t, router, map[string]interface{}{"title": "Soap", "price": 100})
	id := product["id"].(string)
	assert.Equal(t, false, product["bestSeller"])

	// campo fuera del allow-list
	w := doJSON(t, router, http.MethodPatch, "/api/products/"+id+"/toggle", map[string]interface{}{"field": "price"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, parseBody(t, w)["message"], "Invalid field!")

	// dos toggles vuelven al valor original
	w = doJSON(t, router, http.MethodPatch, "/api/products/"+id+"/toggle", map[string]interface{}{"field": "bestSeller"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parseBody(t, w)["product"].(map[string]interface{})["bestSeller"])

	w = doJSON(t, router, http.MethodPatch, "/api/products/"+id+"/toggle", map[string]interface{}{"field": "bestSeller"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, parseBody(t, w)["product"].(map[string]interface{})["bestSeller"])
}

func TestDeleteProduct(t *testing.T) {
	router := setupRouter()

	product := createProduct(t, router, map[string]interface{}{"title": "Soap", "price": 100})
	id := product["id"].(string)

	w := doJSON(t, router, http.MethodDelete, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProducts_CacheWindowAndInvalidation(t *testing.T) {
	router := setupRouter()

	createProduct(t, router, map[string]interface{}{"title": "Soap", "price": 100})

	// primera lectura llena el caché
	w := doJSON(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := parseBody(t, w)
	assert.Nil(t, first["fromCache"])
	assert.Equal(t, 1.0, first["count"])

	// segunda lectura idéntica dentro de la ventana: hit
	w = doJSON(t, router, http.MethodGet, "/api/products", nil)
	second := parseBody(t, w)
	assert.Equal(t, true, second["fromCache"])
	assert.Equal(t, first["products"], second["products"])

	// una mutación invalida: la siguiente lectura recomputa y la refleja
	createProduct(t, router, map[string]interface{}{"title": "Oil", "price": 250})

	w = doJSON(t, router, http.MethodGet, "/api/products", nil)
	third := parseBody(t, w)
	assert.Nil(t, third["fromCache"])
	assert.Equal(t, 2.0, third["count"])
}

func TestListProducts_FilterKeysAreIndependent(t *testing.T) {
	router := setupRouter()

	createProduct(t, router, map[string]interface{}{"title": "Rose Soap", "price": 100, "category": "skin"})
	createProduct(t, router, map[string]interface{}{"title": "Hair Oil", "price": 250, "category": "hair"})

	// calentar el caché con el listado completo
	w := doJSON(t, router, http.MethodGet, "/api/products", nil)
	assert.Equal(t, 2.0, parseBody(t, w)["count"])

	// un filtro distinto nunca comparte entrada con el listado completo
	w = doJSON(t, router, http.MethodGet, "/api/products?category=skin", nil)
	body := parseBody(t, w)
	assert.Nil(t, body["fromCache"])
	assert.Equal(t, 1.0, body["count"])

	w = doJSON(t, router, http.MethodGet, "/api/products?minPrice=200", nil)
	assert.Equal(t, 1.0, parseBody(t, w)["count"])

	w = doJSON(t, router, http.MethodGet, "/api/products?search=rose", nil)
	assert.Equal(t, 1.0, parseBody(t, w)["count"])
}

func TestRouteNotFoundEnvelope(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "/api/nothing-here")
}
