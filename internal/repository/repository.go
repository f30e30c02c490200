package repository

import (
	"context"
	"errors"

	"saheli-store/internal/models"
)

// ErrNotFound se devuelve cuando el id no resuelve a un registro activo.
var ErrNotFound = errors.New("not found")

// ErrNoReceipt se devuelve al descargar un recibo nunca generado.
var ErrNoReceipt = errors.New("receipt not generated")

// ProductRepository define el acceso a datos del catálogo.
type ProductRepository interface {
	FindAll(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	ToggleFlag(ctx context.Context, id, field string) (*models.Product, error)
}

// OrderRepository define el acceso a datos de pedidos. Toda lectura excluye
// pedidos con borrado lógico; esa exclusión vive en un único punto de cada
// implementación, nunca en los call sites.
type OrderRepository interface {
	FindAll(ctx context.Context, page, pageSize int) ([]*models.Order, int64, error)
	FindByStatus(ctx context.Context, status string, limit int) ([]*models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id string, update models.OrderStatusUpdate) (*models.Order, error)
	SoftDelete(ctx context.Context, id string) error
	AttachReceipt(ctx context.Context, id string, pdf []byte) error
	GetReceipt(ctx context.Context, id string) ([]byte, error)
}
