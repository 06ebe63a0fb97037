package draft

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/scheduler"
)

type mockCreator struct {
	mu      sync.Mutex
	calls   int
	got     entity.NewOrder
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (m *mockCreator) CreateOrder(ctx context.Context, order entity.NewOrder) (*entity.Order, error) {
	m.mu.Lock()
	m.calls++
	m.got = order
	m.mu.Unlock()

	if m.entered != nil {
		close(m.entered)
	}
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return nil, m.err
	}
	return &entity.Order{ID: "order-1", Cliente: order.Cliente}, nil
}

type mockSyncer struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	entered chan struct{}
}

func (m *mockSyncer) SyncNow(ctx context.Context) scheduler.TickResult {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.entered != nil {
		close(m.entered)
	}
	if m.block != nil {
		<-m.block
	}
	return scheduler.TickResult{}
}

func (m *mockSyncer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validItem(price int64) entity.DraftItem {
	return entity.DraftItem{
		Producto:       "Chaqueta Vintage",
		Talla:          "M",
		Color:          "Negro",
		Cantidad:       1,
		PrecioUnitario: decimal.NewFromInt(price),
	}
}

func TestValidate_FirstFailingRuleWins(t *testing.T) {
	tests := []struct {
		name      string
		draft     entity.OrderDraft
		wantMsg   string
		wantField string
	}{
		{
			name:      "blank cliente",
			draft:     entity.OrderDraft{Cliente: "   ", Items: []entity.DraftItem{validItem(10)}},
			wantMsg:   MsgClienteRequired,
			wantField: "cliente",
		},
		{
			name:      "blank cliente beats empty items",
			draft:     entity.OrderDraft{Cliente: "", Items: nil},
			wantMsg:   MsgClienteRequired,
			wantField: "cliente",
		},
		{
			name:      "no items",
			draft:     entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{}},
			wantMsg:   MsgItemsRequired,
			wantField: "items",
		},
		{
			name: "blank color",
			draft: entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{
				{Producto: "x", Talla: "M", Color: " ", Cantidad: 1, PrecioUnitario: decimal.NewFromInt(1)},
			}},
			wantMsg:   MsgItemIncomplete,
			wantField: "items[0].color",
		},
		{
			name: "cantidad below one",
			draft: entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{
				{Producto: "x", Talla: "M", Color: "Rojo", Cantidad: 0, PrecioUnitario: decimal.NewFromInt(1)},
			}},
			wantMsg:   MsgCantidadMin,
			wantField: "items[0].cantidad",
		},
		{
			name: "cantidad checked before precio",
			draft: entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{
				{Producto: "x", Talla: "M", Color: "Rojo", Cantidad: -2, PrecioUnitario: decimal.Zero},
			}},
			wantMsg:   MsgCantidadMin,
			wantField: "items[0].cantidad",
		},
		{
			name: "precio zero",
			draft: entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{
				{Producto: "x", Talla: "M", Color: "Rojo", Cantidad: 1, PrecioUnitario: decimal.Zero},
			}},
			wantMsg:   MsgPrecioPositive,
			wantField: "items[0].precio_unitario",
		},
		{
			name: "precio negative",
			draft: entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{
				{Producto: "x", Talla: "M", Color: "Rojo", Cantidad: 1, PrecioUnitario: decimal.RequireFromString("-0.5")},
			}},
			wantMsg:   MsgPrecioPositive,
			wantField: "items[0].precio_unitario",
		},
		{
			name: "items are checked in order",
			draft: entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{
				validItem(5),
				{Producto: "x", Talla: "M", Color: "Rojo", Cantidad: 1, PrecioUnitario: decimal.Zero},
				{Producto: "", Talla: "M", Color: "Rojo", Cantidad: 1, PrecioUnitario: decimal.NewFromInt(1)},
			}},
			wantMsg:   MsgPrecioPositive,
			wantField: "items[1].precio_unitario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.draft)

			var verr *entity.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("message: want %q, got %q", tt.wantMsg, verr.Message)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field: want %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	d := entity.OrderDraft{Cliente: "Ana", Items: []entity.DraftItem{validItem(10), validItem(20)}}
	if err := Validate(d); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestTotal(t *testing.T) {
	b := NewBuilder(&mockCreator{}, &mockSyncer{}, "Ana", quietLogger())
	_ = b.UpdateItem(0, validItem(10))
	i := b.AddItem()
	_ = b.UpdateItem(i, validItem(20))

	if got := b.Total(); !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total 30, got %s", got)
	}

	sub, err := b.Subtotal(1)
	if err != nil || !sub.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected subtotal 20, got %s (%v)", sub, err)
	}
	if _, err := b.Subtotal(5); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("expected ErrItemIndex, got %v", err)
	}
}

func TestEditing(t *testing.T) {
	b := NewBuilder(&mockCreator{}, &mockSyncer{}, "Ana", quietLogger())

	d := b.Draft()
	if d.Cliente != "Ana" || len(d.Items) != 1 ||
		d.Items[0].Cantidad != 1 || !d.Items[0].PrecioUnitario.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected initial draft %+v", d)
	}

	if err := b.RemoveItem(0); !errors.Is(err, ErrLastItem) {
		t.Fatalf("expected ErrLastItem, got %v", err)
	}

	b.AddItem()
	_ = b.UpdateItem(1, validItem(7))
	if err := b.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if d := b.Draft(); len(d.Items) != 1 || !d.Items[0].PrecioUnitario.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("wrong item removed: %+v", d.Items)
	}

	if err := b.UpdateItem(3, validItem(1)); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("expected ErrItemIndex, got %v", err)
	}

	// snapshots are copies
	snap := b.Draft()
	snap.Items[0].Producto = "mutated"
	if b.Draft().Items[0].Producto == "mutated" {
		t.Fatal("Draft returned shared storage")
	}
}

func TestSubmit_SuccessSyncsOnce(t *testing.T) {
	creator := &mockCreator{}
	syncer := &mockSyncer{}
	b := NewBuilder(creator, syncer, "Ana", quietLogger())
	_ = b.UpdateItem(0, validItem(10))
	b.AddItem()
	_ = b.UpdateItem(1, validItem(20))

	order, err := b.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.ID != "order-1" {
		t.Fatalf("unexpected order %+v", order)
	}
	if syncer.Calls() != 1 {
		t.Fatalf("expected exactly one resync, got %d", syncer.Calls())
	}
	if creator.calls != 1 {
		t.Fatalf("expected one post, got %d", creator.calls)
	}
	if len(creator.got.Items) != 2 || creator.got.Items[1].PrecioUnitario != 20 || creator.got.Items[1].Cantidad != 1 {
		t.Fatalf("unexpected payload %+v", creator.got)
	}
	if b.Creating() {
		t.Fatal("creating flag not released")
	}
}

func TestSubmit_ValidationErrorNeverPosts(t *testing.T) {
	creator := &mockCreator{}
	syncer := &mockSyncer{}
	b := NewBuilder(creator, syncer, "", quietLogger())

	_, err := b.Submit(context.Background())
	var verr *entity.ValidationError
	if !errors.As(err, &verr) || verr.Message != MsgClienteRequired {
		t.Fatalf("expected cliente validation error, got %v", err)
	}
	if creator.calls != 0 || syncer.Calls() != 0 {
		t.Fatalf("validation failure reached the network: posts=%d syncs=%d", creator.calls, syncer.Calls())
	}
}

func TestSubmit_ServerErrorKeepsDraft(t *testing.T) {
	creator := &mockCreator{err: &entity.ServerError{Status: 500, Body: "boom"}}
	syncer := &mockSyncer{}
	b := NewBuilder(creator, syncer, "Ana", quietLogger())
	_ = b.UpdateItem(0, validItem(10))
	before := b.Draft()

	_, err := b.Submit(context.Background())
	if err == nil || err.Error() != "Error 500: boom" {
		t.Fatalf("expected raw server error, got %v", err)
	}
	if syncer.Calls() != 0 {
		t.Fatal("failed submission must not resync")
	}
	after := b.Draft()
	if after.Cliente != before.Cliente || len(after.Items) != 1 ||
		after.Items[0].Producto != before.Items[0].Producto ||
		!after.Items[0].PrecioUnitario.Equal(before.Items[0].PrecioUnitario) {
		t.Fatalf("draft changed after failure: %+v", after)
	}
	if b.Creating() {
		t.Fatal("creating flag not released")
	}
}

func TestSubmit_RejectsWhileInFlight(t *testing.T) {
	creator := &mockCreator{block: make(chan struct{}), entered: make(chan struct{})}
	syncer := &mockSyncer{}
	b := NewBuilder(creator, syncer, "Ana", quietLogger())
	_ = b.UpdateItem(0, validItem(10))

	done := make(chan error, 1)
	go func() {
		_, err := b.Submit(context.Background())
		done <- err
	}()
	<-creator.entered

	if !b.Creating() {
		t.Fatal("expected creating flag while posting")
	}
	if _, err := b.Submit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(creator.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if creator.calls != 1 || syncer.Calls() != 1 {
		t.Fatalf("expected one post and one sync, got posts=%d syncs=%d", creator.calls, syncer.Calls())
	}
}

func TestSubmit_RejectsDuringResync(t *testing.T) {
	creator := &mockCreator{}
	syncer := &mockSyncer{block: make(chan struct{}), entered: make(chan struct{})}
	b := NewBuilder(creator, syncer, "Ana", quietLogger())
	_ = b.UpdateItem(0, validItem(10))

	done := make(chan error, 1)
	go func() {
		_, err := b.Submit(context.Background())
		done <- err
	}()
	<-syncer.entered

	if !b.Creating() {
		t.Fatal("expected creating flag while resyncing")
	}
	if _, err := b.Submit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight during resync, got %v", err)
	}

	close(syncer.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	creator.mu.Lock()
	calls := creator.calls
	creator.mu.Unlock()
	if calls != 1 || syncer.Calls() != 1 {
		t.Fatalf("expected one post and one sync, got posts=%d syncs=%d", calls, syncer.Calls())
	}
	if b.Creating() {
		t.Fatal("creating flag should clear after the resync")
	}
}
