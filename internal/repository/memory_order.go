package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"saheli-store/internal/models"
)

// MemoryOrderRepository es una implementación en memoria de OrderRepository,
// usada por los tests de handlers y del generador de recibos.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// active centraliza la exclusión del borrado lógico para todas las lecturas.
func (r *MemoryOrderRepository) active(id string) (models.Order, bool) {
	order, ok := r.orders[id]
	if !ok || order.IsDeleted {
		return models.Order{}, false
	}
	return order, true
}

// withoutReceiptBytes replica la proyección de lectura: el metadato del
// recibo viaja, el buffer no.
func withoutReceiptBytes(order models.Order) models.Order {
	if order.Receipt != nil {
		receipt := *order.Receipt
		receipt.PDF = nil
		order.Receipt = &receipt
	}
	return order
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = primitive.NewObjectID()
	if order.TrackingID == "" {
		order.TrackingID = uuid.NewString()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	order.IsDeleted = false

	r.orders[order.ID.Hex()] = *order
	return nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.active(id)
	if !ok {
		return nil, ErrNotFound
	}
	order = withoutReceiptBytes(order)
	order.Derive()
	return &order, nil
}

func (r *MemoryOrderRepository) FindAll(_ context.Context, page, pageSize int) ([]*models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	all := make([]models.Order, 0, len(r.orders))
	for id := range r.orders {
		if order, ok := r.active(id); ok {
			all = append(all, order)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	pageOrders := make([]*models.Order, 0, end-start)
	for _, order := range all[start:end] {
		order := withoutReceiptBytes(order)
		order.Derive()
		pageOrders = append(pageOrders, &order)
	}
	return pageOrders, total, nil
}

func (r *MemoryOrderRepository) FindByStatus(_ context.Context, status string, limit int) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit < 1 {
		limit = 10
	}

	matched := make([]models.Order, 0)
	for id := range r.orders {
		if order, ok := r.active(id); ok && order.OrderStatus == status {
			matched = append(matched, order)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	orders := make([]*models.Order, 0, len(matched))
	for _, order := range matched {
		order := withoutReceiptBytes(order)
		order.Derive()
		orders = append(orders, &order)
	}
	return orders, nil
}

func (r *MemoryOrderRepository) Update(_ context.Context, id string, update models.OrderStatusUpdate) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.active(id)
	if !ok {
		return nil, ErrNotFound
	}

	if update.OrderStatus != nil {
		order.OrderStatus = *update.OrderStatus
		if order.OrderStatus == models.StatusDelivered && order.DeliveredAt == nil {
			now := time.Now()
			order.DeliveredAt = &now
		}
	}
	if update.PaymentStatus != nil {
		order.PaymentStatus = *update.PaymentStatus
	}
	if update.PaymentMethod != nil {
		order.PaymentMethod = *update.PaymentMethod
	}
	order.UpdatedAt = time.Now()

	r.orders[id] = order

	result := withoutReceiptBytes(order)
	result.Derive()
	return &result, nil
}

func (r *MemoryOrderRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.IsDeleted {
		return ErrNotFound
	}
	order.IsDeleted = true
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

func (r *MemoryOrderRepository) AttachReceipt(_ context.Context, id string, pdf []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.active(id)
	if !ok {
		return ErrNotFound
	}

	now := time.Now()
	buf := make([]byte, len(pdf))
	copy(buf, pdf)
	order.Receipt = &models.Receipt{PDF: buf, CreatedAt: &now}
	order.UpdatedAt = now
	r.orders[id] = order
	return nil
}

func (r *MemoryOrderRepository) GetReceipt(_ context.Context, id string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.active(id)
	if !ok {
		return nil, ErrNotFound
	}
	if order.Receipt == nil || len(order.Receipt.PDF) == 0 {
		return nil, ErrNoReceipt
	}
	return order.Receipt.PDF, nil
}
