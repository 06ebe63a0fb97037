// Package draft holds the order creation form: editing, validation and the
// guarded submission that triggers an immediate resync.
package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/scheduler"
)

var (
	ErrSubmissionInFlight = errors.New("draft: an order is already being created")
	ErrLastItem           = errors.New("draft: an order needs at least one item")
	ErrItemIndex          = errors.New("draft: item index out of range")
)

// OrderCreator posts a new order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order entity.NewOrder) (*entity.Order, error)
}

// Syncer runs an out-of-band refresh of the view.
type Syncer interface {
	SyncNow(ctx context.Context) scheduler.TickResult
}

// EmptyItem is the row added by AddItem.
func EmptyItem() entity.DraftItem {
	return entity.DraftItem{Cantidad: 1, PrecioUnitario: decimal.NewFromInt(1)}
}

type Builder struct {
	orders   OrderCreator
	syncer   Syncer
	validate *validator.Validate
	logger   *slog.Logger

	mu    sync.RWMutex
	draft entity.OrderDraft

	creating atomic.Bool
}

// NewBuilder returns a builder whose draft starts with cliente and a single
// empty item.
func NewBuilder(orders OrderCreator, syncer Syncer, cliente string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		orders:   orders,
		syncer:   syncer,
		validate: newValidator(),
		logger:   logger,
		draft: entity.OrderDraft{
			Cliente: cliente,
			Items:   []entity.DraftItem{EmptyItem()},
		},
	}
}

// Draft returns a copy of the current draft.
func (b *Builder) Draft() entity.OrderDraft {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyDraft(b.draft)
}

func (b *Builder) SetCliente(cliente string) {
	b.mu.Lock()
	b.draft.Cliente = cliente
	b.mu.Unlock()
}

// Replace swaps the whole draft, as when a form is saved in one go.
func (b *Builder) Replace(d entity.OrderDraft) {
	b.mu.Lock()
	b.draft = copyDraft(d)
	b.mu.Unlock()
}

// AddItem appends an empty item and returns its index.
func (b *Builder) AddItem() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft.Items = append(b.draft.Items, EmptyItem())
	return len(b.draft.Items) - 1
}

func (b *Builder) UpdateItem(i int, item entity.DraftItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.draft.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, i)
	}
	b.draft.Items[i] = item
	return nil
}

// RemoveItem deletes item i. The last remaining item cannot be removed.
func (b *Builder) RemoveItem(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i < 0 || i >= len(b.draft.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, i)
	}
	if len(b.draft.Items) == 1 {
		return ErrLastItem
	}
	items := make([]entity.DraftItem, 0, len(b.draft.Items)-1)
	items = append(items, b.draft.Items[:i]...)
	items = append(items, b.draft.Items[i+1:]...)
	b.draft.Items = items
	return nil
}

func (b *Builder) Total() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.draft.Total()
}

func (b *Builder) Subtotal(i int) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i < 0 || i >= len(b.draft.Items) {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrItemIndex, i)
	}
	return b.draft.Items[i].Subtotal(), nil
}

// Validate checks the current draft.
func (b *Builder) Validate() error {
	return validate(b.validate, b.Draft())
}

// Creating reports whether a submission is outstanding.
func (b *Builder) Creating() bool {
	return b.creating.Load()
}

// Submit validates and posts the draft once. On success it triggers exactly
// one SyncNow before returning. On failure the draft is left as it was.
// A call made while another submission is outstanding fails with
// ErrSubmissionInFlight.
func (b *Builder) Submit(ctx context.Context) (*entity.Order, error) {
	if !b.creating.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer b.creating.Store(false)

	d := b.Draft()
	if err := validate(b.validate, d); err != nil {
		return nil, err
	}

	order, err := b.orders.CreateOrder(ctx, Normalize(d))
	if err != nil {
		b.logger.ErrorContext(ctx, "order creation failed", "cliente", d.Cliente, "error", err)
		return nil, err
	}
	b.logger.InfoContext(ctx, "order created", "order_id", order.ID, "items", len(d.Items))

	b.syncer.SyncNow(ctx)
	return order, nil
}

// Normalize converts a validated draft into the wire payload.
func Normalize(d entity.OrderDraft) entity.NewOrder {
	items := make([]entity.OrderItem, len(d.Items))
	for i, it := range d.Items {
		price, _ := it.PrecioUnitario.Float64()
		items[i] = entity.OrderItem{
			Producto:       it.Producto,
			Talla:          it.Talla,
			Color:          it.Color,
			Cantidad:       it.Cantidad,
			PrecioUnitario: price,
		}
	}
	return entity.NewOrder{Cliente: d.Cliente, Items: items}
}

func copyDraft(d entity.OrderDraft) entity.OrderDraft {
	items := make([]entity.DraftItem, len(d.Items))
	copy(items, d.Items)
	return entity.OrderDraft{Cliente: d.Cliente, Items: items}
}
