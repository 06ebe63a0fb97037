package entity

import "github.com/shopspring/decimal"

const StatusPending = "PENDING"

// DraftItem is one row of the order creation form.
type DraftItem struct {
	Producto       string          `json:"producto" validate:"notblank"`
	Talla          string          `json:"talla" validate:"notblank"`
	Color          string          `json:"color" validate:"notblank"`
	Cantidad       int             `json:"cantidad" validate:"min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"gt=0"`
}

// Subtotal is cantidad * precio_unitario.
func (i DraftItem) Subtotal() decimal.Decimal {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// OrderDraft is an unsubmitted order under construction. Field order matters:
// validation reports failures in declaration order.
type OrderDraft struct {
	Cliente string      `json:"cliente" validate:"notblank"`
	Items   []DraftItem `json:"items" validate:"min=1,dive"`
}

// Total sums the subtotals of every item.
func (d OrderDraft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// OrderItem is the normalized wire form of a DraftItem.
type OrderItem struct {
	Producto       string  `json:"producto"`
	Talla          string  `json:"talla"`
	Color          string  `json:"color"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
}

// NewOrder is the body of POST /orders.
type NewOrder struct {
	Cliente string      `json:"cliente"`
	Items   []OrderItem `json:"items"`
}

// Order is the order representation returned by the order service.
type Order struct {
	ID        string          `json:"id"`
	Cliente   string          `json:"cliente"`
	Items     []OrderItem     `json:"items,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Estado    string          `json:"estado,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// PendingOrder is the read-only summary listed by GET /orders/pending.
type PendingOrder struct {
	ID        string          `json:"id"`
	Cliente   string          `json:"cliente"`
	Total     decimal.Decimal `json:"total"`
	Estado    string          `json:"estado,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// Status returns Estado, defaulting to PENDING when the service omitted it.
func (o PendingOrder) Status() string {
	if o.Estado == "" {
		return StatusPending
	}
	return o.Estado
}

// ShortID returns the first eight characters of the id, as shown in lists.
func (o PendingOrder) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}
