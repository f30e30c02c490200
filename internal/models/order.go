package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados de pago
const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentRefunded = "Refunded"
)

// Estados del pedido
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusPacked     = "Packed"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Métodos de pago
const (
	PaymentCOD  = "Cash on Delivery"
	PaymentCard = "Card"
	PaymentUPI  = "UPI"
)

var orderStatuses = map[string]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusPacked:     true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

var paymentStatuses = map[string]bool{
	PaymentPending:  true,
	PaymentPaid:     true,
	PaymentRefunded: true,
}

var paymentMethods = map[string]bool{
	PaymentCOD:  true,
	PaymentCard: true,
	PaymentUPI:  true,
}

func ValidOrderStatus(s string) bool   { return orderStatuses[s] }
func ValidPaymentStatus(s string) bool { return paymentStatuses[s] }
func ValidPaymentMethod(s string) bool { return paymentMethods[s] }

var phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)

// Address es la dirección de entrega; solo line1 es obligatoria.
type Address struct {
	Line1   string `json:"line1" bson:"line1"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
}

type Customer struct {
	Name    string  `json:"name" bson:"name"`
	Phone   string  `json:"phone" bson:"phone"`
	Email   string  `json:"email" bson:"email"`
	Address Address `json:"address" bson:"address"`
}

// OrderItem es un snapshot de los campos del producto al momento del pedido,
// desacoplado a propósito de ediciones posteriores del catálogo.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"product_id"`
	Title     string  `json:"title" bson:"title"`
	Price     float64 `json:"price" bson:"price"`
	Qty       int     `json:"qty" bson:"qty"`
	Image     string  `json:"image" bson:"image"`
}

// Receipt es el recibo PDF incrustado en el pedido. Los bytes nunca se
// serializan en respuestas JSON.
type Receipt struct {
	PDF       []byte     `json:"-" bson:"pdf"`
	CreatedAt *time.Time `json:"createdAt" bson:"created_at"`
}

type Order struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Customer      Customer           `json:"customer" bson:"customer"`
	CartItems     []OrderItem        `json:"cartItems" bson:"cart_items"`
	TotalPrice    float64            `json:"totalPrice" bson:"total_price"`
	PaymentMethod string             `json:"paymentMethod" bson:"payment_method"`
	PaymentStatus string             `json:"paymentStatus" bson:"payment_status"`
	OrderStatus   string             `json:"orderStatus" bson:"order_status"`
	Receipt       *Receipt           `json:"receipt,omitempty" bson:"receipt,omitempty"`
	OrderedAt     time.Time          `json:"orderedAt" bson:"ordered_at"`
	DeliveredAt   *time.Time         `json:"deliveredAt" bson:"delivered_at"`
	AdminNotes    string             `json:"adminNotes" bson:"admin_notes"`
	TrackingID    string             `json:"trackingId" bson:"tracking_id"`
	IsDeleted     bool               `json:"-" bson:"is_deleted"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updated_at"`

	// TotalItems se recalcula en cada lectura, nunca se persiste.
	TotalItems int `json:"totalItems" bson:"-"`
}

// CreateOrderInput es el cuerpo aceptado al crear un pedido. Items es el
// alias heredado de cartItems; se acepta cualquiera de los dos.
type CreateOrderInput struct {
	Customer      Customer    `json:"customer"`
	CartItems     []OrderItem `json:"cartItems"`
	Items         []OrderItem `json:"items"`
	TotalPrice    float64     `json:"totalPrice"`
	PaymentMethod string      `json:"paymentMethod"`
}

// OrderStatusUpdate contiene los únicos tres campos escribibles de un pedido.
// Cualquier otro campo enviado en el body se descarta en el binding.
type OrderStatusUpdate struct {
	OrderStatus   *string `json:"orderStatus,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
}

// Validate comprueba que los valores enviados pertenezcan a sus enums.
func (u OrderStatusUpdate) Validate() error {
	if u.OrderStatus != nil && !ValidOrderStatus(*u.OrderStatus) {
		return NewValidationError("Invalid order status: " + *u.OrderStatus)
	}
	if u.PaymentStatus != nil && !ValidPaymentStatus(*u.PaymentStatus) {
		return NewValidationError("Invalid payment status: " + *u.PaymentStatus)
	}
	if u.PaymentMethod != nil && !ValidPaymentMethod(*u.PaymentMethod) {
		return NewValidationError("Invalid payment method: " + *u.PaymentMethod)
	}
	return nil
}

// Empty reporta si el update no trae ningún campo permitido.
func (u OrderStatusUpdate) Empty() bool {
	return u.OrderStatus == nil && u.PaymentStatus == nil && u.PaymentMethod == nil
}

// NormalizePhone quita ceros a la izquierda antes de validar el patrón.
func NormalizePhone(phone string) string {
	return strings.TrimLeft(strings.TrimSpace(phone), "0")
}

// NormalizeItems fuerza valores numéricos no negativos en cada línea:
// qty por defecto 1, price por defecto 0, título de respaldo.
func NormalizeItems(items []OrderItem) []OrderItem {
	out := make([]OrderItem, len(items))
	for i, item := range items {
		if item.Title == "" {
			item.Title = "Unnamed Product"
		}
		if item.Price < 0 {
			item.Price = 0
		}
		if item.Qty < 1 {
			item.Qty = 1
		}
		out[i] = item
	}
	return out
}

// NewOrder valida el input de checkout y construye el pedido con estado
// forzado a Pending/Pending.
func NewOrder(in CreateOrderInput) (*Order, error) {
	items := in.CartItems
	if len(items) == 0 {
		items = in.Items
	}

	var missing []string
	if strings.TrimSpace(in.Customer.Name) == "" {
		missing = append(missing, "customer.name")
	}
	phone := NormalizePhone(in.Customer.Phone)
	if phone == "" {
		missing = append(missing, "customer.phone")
	}
	if strings.TrimSpace(in.Customer.Address.Line1) == "" {
		missing = append(missing, "customer.address.line1")
	}
	if len(items) == 0 {
		missing = append(missing, "cartItems")
	}
	if len(missing) > 0 {
		return nil, NewValidationError("Missing required customer or order details: " + strings.Join(missing, ", "))
	}

	if !phonePattern.MatchString(phone) {
		return nil, NewValidationError("Enter valid 10-11 digit phone number")
	}
	if in.TotalPrice < 0 {
		return nil, NewValidationError("Total price cannot be negative")
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, NewValidationError("Each cart item requires a productId")
		}
	}

	method := in.PaymentMethod
	if method == "" {
		method = PaymentCOD
	}
	if !ValidPaymentMethod(method) {
		return nil, NewValidationError("Invalid payment method: " + method)
	}

	o := &Order{
		Customer: Customer{
			Name:  strings.TrimSpace(in.Customer.Name),
			Phone: phone,
			Email: strings.ToLower(strings.TrimSpace(in.Customer.Email)),
			Address: Address{
				Line1:   strings.TrimSpace(in.Customer.Address.Line1),
				City:    in.Customer.Address.City,
				State:   in.Customer.Address.State,
				Pincode: in.Customer.Address.Pincode,
			},
		},
		CartItems:     NormalizeItems(items),
		TotalPrice:    in.TotalPrice,
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
		OrderedAt:     time.Now(),
		IsDeleted:     false,
	}
	o.Derive()
	return o, nil
}

// Derive recalcula totalItems.
func (o *Order) Derive() {
	total := 0
	for _, item := range o.CartItems {
		total += item.Qty
	}
	o.TotalItems = total
}
