package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"saheli-store/internal/cache"
	"saheli-store/internal/models"
	"saheli-store/internal/repository"
)

// ProductHandler traduce requests HTTP en operaciones del catálogo.
type ProductHandler struct {
	repo         repository.ProductRepository
	cache        *cache.QueryCache
	exposeErrors bool
}

func NewProductHandler(repo repository.ProductRepository, qc *cache.QueryCache, exposeErrors bool) *ProductHandler {
	return &ProductHandler{
		repo:         repo,
		cache:        qc,
		exposeErrors: exposeErrors,
	}
}

// parseFilter arma el filtro de listado desde la query string.
func parseFilter(c *gin.Context) models.ProductFilter {
	filter := models.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, ok := c.GetQuery("bestSeller"); ok {
		b := v == "true"
		filter.BestSeller = &b
	}
	if v, ok := c.GetQuery("recommended"); ok {
		b := v == "true"
		filter.Recommended = &b
	}
	return filter
}

// GetProducts lista productos con filtros, sirviendo del caché dentro de la
// ventana de validez. La clave es el filtro serializado: filtros distintos
// nunca comparten entrada.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := parseFilter(c)
	cacheKey := filter.CacheKey()

	if cached, found := h.cache.Get(cacheKey); found {
		products := cached.([]*models.Product)
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"count":     len(products),
			"fromCache": true,
			"products":  products,
		})
		return
	}

	products, err := h.repo.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch products", err, h.exposeErrors)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	h.cache.Set(cacheKey, products)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

// GetProductByID obtiene un producto. Nunca consulta el caché de listados.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	product, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFailure(c, err, "Product not found", "Failed to fetch product", h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// CreateProduct valida el input, aplica defaults y clamps, y persiste.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input models.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err, h.exposeErrors)
		return
	}

	product, err := models.NewProduct(input)
	if err != nil {
		respondFailure(c, err, "Product not found", "Failed to create product", h.exposeErrors)
		return
	}

	if err := h.repo.Create(c.Request.Context(), product); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create product", err, h.exposeErrors)
		return
	}

	h.cache.Invalidate()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product added successfully!",
		"product": product,
	})
}

// UpdateProduct aplica un update parcial con clamps en discount/rating.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err, h.exposeErrors)
		return
	}

	product, err := h.repo.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondFailure(c, err, "Product not found", "Failed to update product", h.exposeErrors)
		return
	}

	h.cache.Invalidate()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully!",
		"product": product,
	})
}

// DeleteProduct elimina físicamente el producto.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondFailure(c, err, "Product not found", "Failed to delete product", h.exposeErrors)
		return
	}

	h.cache.Invalidate()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully!",
	})
}

// ToggleHighlight invierte recommended o bestSeller.
func (h *ProductHandler) ToggleHighlight(c *gin.Context) {
	var body struct {
		Field string `json:"field"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err, h.exposeErrors)
		return
	}

	product, err := h.repo.ToggleFlag(c.Request.Context(), c.Param("id"), body.Field)
	if err != nil {
		respondFailure(c, err, "Product not found", "Failed to toggle", h.exposeErrors)
		return
	}

	h.cache.Invalidate()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": body.Field + " toggled successfully!",
		"product": product,
	})
}
