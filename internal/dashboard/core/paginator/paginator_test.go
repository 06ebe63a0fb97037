package paginator

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
)

func feed(t *testing.T, n int) []entity.Notification {
	t.Helper()
	out := make([]entity.Notification, n)
	for i := range out {
		nt, err := entity.NewNotification(json.RawMessage(fmt.Sprintf(`{"evento":"E%d"}`, i)))
		if err != nil {
			t.Fatalf("notification: %v", err)
		}
		out[i] = nt
	}
	return out
}

func eventos(items []entity.Notification) []string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.Evento()
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ n, size, want int }{
		{0, 3, 1},
		{1, 3, 1},
		{3, 3, 1},
		{4, 3, 2},
		{6, 3, 2},
		{7, 3, 3},
		{100, 3, 34},
		{5, 0, 2},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ page, total, want int }{
		{-5, 3, 1},
		{0, 3, 1},
		{2, 3, 2},
		{9, 3, 3},
		{4, 0, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.page, tt.total); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestSlice_NewestFirst(t *testing.T) {
	notifs := feed(t, 7)

	got := eventos(Slice(notifs, 1, 3))
	want := []string{"E6", "E5", "E4"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("page 1: want %v, got %v", want, got)
	}

	if got := eventos(Slice(notifs, 3, 3)); fmt.Sprint(got) != "[E0]" {
		t.Fatalf("page 3: got %v", got)
	}

	if got := eventos(Slice(notifs, 42, 3)); fmt.Sprint(got) != "[E0]" {
		t.Fatalf("out of range page should clamp to last, got %v", got)
	}

	if got := Slice(nil, 1, 3); len(got) != 0 {
		t.Fatalf("empty feed should give empty page, got %v", got)
	}

	if notifs[0].Evento() != "E0" {
		t.Fatal("input was reordered")
	}
}

func TestPaginator_PageAlwaysInRange(t *testing.T) {
	p := New(3)
	for n := 0; n <= 10; n++ {
		notifs := feed(t, n)
		for _, step := range []func() Page{
			func() Page { return p.Next(notifs) },
			func() Page { return p.Next(notifs) },
			func() Page { return p.Prev(notifs) },
			func() Page { return p.GoTo(99, notifs) },
			func() Page { return p.GoTo(-3, notifs) },
			func() Page { return p.Page(notifs) },
		} {
			pg := step()
			if pg.Number < 1 || pg.Number > pg.TotalPages {
				t.Fatalf("n=%d: page %d outside [1, %d]", n, pg.Number, pg.TotalPages)
			}
			if pg.TotalPages != TotalPages(n, 3) {
				t.Fatalf("n=%d: total pages %d", n, pg.TotalPages)
			}
		}
	}
}

func TestPaginator_ResetsWhenCountChanges(t *testing.T) {
	p := New(3)
	notifs := feed(t, 9)

	p.Page(notifs)
	p.Next(notifs)
	pg := p.Next(notifs)
	if pg.Number != 3 || pg.HasNext || !pg.HasPrevious {
		t.Fatalf("expected last page, got %+v", pg)
	}

	// same count: page is kept
	if pg := p.Page(notifs); pg.Number != 3 {
		t.Fatalf("page changed without new data: %d", pg.Number)
	}

	grown := feed(t, 10)
	pg = p.Page(grown)
	if pg.Number != 1 {
		t.Fatalf("expected reset to page 1 after growth, got %d", pg.Number)
	}
	if eventos(pg.Items)[0] != "E9" {
		t.Fatalf("expected newest first, got %v", eventos(pg.Items))
	}

	// navigation on changed data resets first, then moves
	p.GoTo(4, grown)
	pg = p.Next(feed(t, 11))
	if pg.Number != 2 {
		t.Fatalf("expected reset then next to land on 2, got %d", pg.Number)
	}
}

func TestPaginator_EmptyFeed(t *testing.T) {
	p := New(0)
	pg := p.Next(nil)
	if pg.Number != 1 || pg.TotalPages != 1 || pg.HasNext || pg.HasPrevious || pg.Total != 0 {
		t.Fatalf("unexpected empty page %+v", pg)
	}
	if p.PageSize() != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", p.PageSize())
	}
}
