package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"saheli-store/internal/models"
	"saheli-store/internal/receipt"
	"saheli-store/internal/repository"
)

// OrderHandler traduce requests HTTP en operaciones sobre pedidos, incluido
// el ciclo de generación y descarga de recibos.
type OrderHandler struct {
	repo         repository.OrderRepository
	generator    *receipt.Generator
	exposeErrors bool
}

func NewOrderHandler(repo repository.OrderRepository, generator *receipt.Generator, exposeErrors bool) *OrderHandler {
	return &OrderHandler{
		repo:         repo,
		generator:    generator,
		exposeErrors: exposeErrors,
	}
}

// GetOrders lista pedidos activos paginados, sin el buffer del recibo.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	orders, total, err := h.repo.FindAll(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders", err, h.exposeErrors)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"total":   total,
		"page":    page,
		"orders":  orders,
	})
}

// GetOrdersByStatus filtra pedidos activos por estado exacto.
func (h *OrderHandler) GetOrdersByStatus(c *gin.Context) {
	status := c.Param("status")
	if !models.ValidOrderStatus(status) {
		respondError(c, http.StatusBadRequest, "Invalid order status: "+status, nil, h.exposeErrors)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, err := h.repo.FindByStatus(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch filtered orders", err, h.exposeErrors)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}

// GetOrderByID obtiene un pedido activo.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	order, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFailure(c, err, "Order not found", "Failed to fetch order", h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// CreateOrder valida el checkout y crea el pedido en Pending/Pending.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input models.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err, h.exposeErrors)
		return
	}

	order, err := models.NewOrder(input)
	if err != nil {
		respondFailure(c, err, "Order not found", "Failed to create order", h.exposeErrors)
		return
	}

	if err := h.repo.Create(c.Request.Context(), order); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create order", err, h.exposeErrors)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully!",
		"order":   order,
	})
}

// UpdateOrder aplica el allow-list tipado: solo orderStatus, paymentStatus y
// paymentMethod; el binding descarta cualquier otro campo del body.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var update models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err, h.exposeErrors)
		return
	}

	if err := update.Validate(); err != nil {
		respondFailure(c, err, "Order not found", "Failed to update order", h.exposeErrors)
		return
	}

	order, err := h.repo.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondFailure(c, err, "Order not found", "Failed to update order", h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order updated successfully",
		"order":   order,
	})
}

// DeleteOrder marca el pedido como eliminado (borrado lógico).
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.repo.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		respondFailure(c, err, "Order not found", "Failed to delete order", h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted successfully",
	})
}

// GenerateReceipt renderiza el recibo del pedido, lo adjunta reemplazando
// cualquier recibo anterior y responde con el PDF inline. Adjuntar es una
// sola escritura: nunca queda un recibo a medio persistir.
func (h *OrderHandler) GenerateReceipt(c *gin.Context) {
	id := c.Param("id")

	order, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, err, "Order not found", "Failed to generate receipt", h.exposeErrors)
		return
	}

	pdf, err := h.generator.Render(order)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate receipt", err, h.exposeErrors)
		return
	}

	if err := h.repo.AttachReceipt(c.Request.Context(), id, pdf); err != nil {
		respondFailure(c, err, "Order not found", "Failed to generate receipt", h.exposeErrors)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=Receipt_%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// DownloadReceipt devuelve los bytes del recibo generado previamente.
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	id := c.Param("id")

	pdf, err := h.repo.GetReceipt(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNoReceipt) {
			respondError(c, http.StatusNotFound, "Receipt not generated yet", nil, h.exposeErrors)
			return
		}
		respondFailure(c, err, "Order not found", "Failed to fetch receipt", h.exposeErrors)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=Receipt_%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
