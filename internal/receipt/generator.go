package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"saheli-store/internal/models"
)

// Generator renderiza el recibo PDF de un pedido con el layout fijo de la
// tienda: encabezado, bloque del cliente, líneas con subtotal, total y datos
// de pago.
type Generator struct {
	storeName string
}

func New(storeName string) *Generator {
	return &Generator{storeName: storeName}
}

// Render produce los bytes del PDF a partir del snapshot del pedido.
// No persiste nada; adjuntar el resultado es responsabilidad del caller.
func (g *Generator) Render(order *models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, g.storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, "Order Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Customer: %s", order.Customer.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Phone: %s", order.Customer.Phone), "", 1, "L", false, 0, "")

	addr := order.Customer.Address
	pdf.CellFormat(0, 7, fmt.Sprintf("Address: %s, %s, %s - %s", addr.Line1, addr.City, addr.State, addr.Pincode), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "U", 12)
	pdf.CellFormat(0, 7, "Items:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)

	for i, item := range order.CartItems {
		line := fmt.Sprintf("%d. %s (x%d) - Rs. %.2f", i+1, item.Title, item.Qty, item.Price*float64(item.Qty))
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.CellFormat(0, 7, fmt.Sprintf("Total Price: Rs. %.2f", order.TotalPrice), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Payment Method: %s", order.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Order Status: %s", order.OrderStatus), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006 15:04")), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
