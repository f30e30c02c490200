package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saheli-store/internal/models"
)

func validOrderInput() models.CreateOrderInput {
	return models.CreateOrderInput{
		Customer: models.Customer{
			Name:  "Asha",
			Phone: "9876543210",
			Email: "ASHA@Example.com",
			Address: models.Address{
				Line1: "12 MG Road",
				City:  "Pune",
			},
		},
		CartItems: []models.OrderItem{
			{ProductID: "PID-1", Title: "Soap", Price: 50, Qty: 2},
			{ProductID: "PID-2", Title: "Shampoo", Price: 30, Qty: 1},
		},
		TotalPrice: 130,
	}
}

func TestNewOrder_Defaults(t *testing.T) {
	order, err := models.NewOrder(validOrderInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)
	assert.False(t, order.IsDeleted)
	assert.Nil(t, order.DeliveredAt)
	assert.Equal(t, "asha@example.com", order.Customer.Email)
	assert.Equal(t, 3, order.TotalItems)
}

func TestNewOrder_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.CreateOrderInput)
		want   string
	}{
		{"sin nombre", func(in *models.CreateOrderInput) { in.Customer.Name = "" }, "customer.name"},
		{"sin teléfono", func(in *models.CreateOrderInput) { in.Customer.Phone = "" }, "customer.phone"},
		{"sin línea 1", func(in *models.CreateOrderInput) { in.Customer.Address.Line1 = " " }, "customer.address.line1"},
		{"sin items", func(in *models.CreateOrderInput) { in.CartItems = nil }, "cartItems"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validOrderInput()
			tc.mutate(&in)
			_, err := models.NewOrder(in)
			require.Error(t, err)
			assert.True(t, models.IsValidation(err))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewOrder_PhoneValidation(t *testing.T) {
	in := validOrderInput()
	in.Customer.Phone = "12345"
	_, err := models.NewOrder(in)
	assert.Error(t, err)

	in.Customer.Phone = "98765abc43"
	_, err = models.NewOrder(in)
	assert.Error(t, err)

	// los ceros a la izquierda se quitan antes de validar
	in.Customer.Phone = "009876543210"
	order, err := models.NewOrder(in)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", order.Customer.Phone)
}

func TestNewOrder_ItemsAlias(t *testing.T) {
	in := validOrderInput()
	in.Items = in.CartItems
	in.CartItems = nil

	order, err := models.NewOrder(in)
	require.NoError(t, err)
	assert.Len(t, order.CartItems, 2)
}

func TestNewOrder_InvalidPaymentMethod(t *testing.T) {
	in := validOrderInput()
	in.PaymentMethod = "Barter"
	_, err := models.NewOrder(in)
	assert.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestNewOrder_NegativeTotal(t *testing.T) {
	in := validOrderInput()
	in.TotalPrice = -1
	_, err := models.NewOrder(in)
	assert.Error(t, err)
}

func TestNormalizeItems(t *testing.T) {
	items := models.NormalizeItems([]models.OrderItem{
		{ProductID: "PID-1"},
		{ProductID: "PID-2", Title: "Soap", Price: -5, Qty: -3},
	})

	assert.Equal(t, "Unnamed Product", items[0].Title)
	assert.Equal(t, 0.0, items[0].Price)
	assert.Equal(t, 1, items[0].Qty)

	assert.Equal(t, 0.0, items[1].Price)
	assert.Equal(t, 1, items[1].Qty)
}

func TestOrderStatusUpdate_Validate(t *testing.T) {
	good := "Shipped"
	bad := "Teleported"

	assert.NoError(t, models.OrderStatusUpdate{OrderStatus: &good}.Validate())
	assert.Error(t, models.OrderStatusUpdate{OrderStatus: &bad}.Validate())

	paid := "Paid"
	assert.NoError(t, models.OrderStatusUpdate{PaymentStatus: &paid}.Validate())
	assert.Error(t, models.OrderStatusUpdate{PaymentStatus: &bad}.Validate())

	upi := "UPI"
	assert.NoError(t, models.OrderStatusUpdate{PaymentMethod: &upi}.Validate())
	assert.Error(t, models.OrderStatusUpdate{PaymentMethod: &bad}.Validate())

	assert.True(t, models.OrderStatusUpdate{}.Empty())
	assert.False(t, models.OrderStatusUpdate{OrderStatus: &good}.Empty())
}
