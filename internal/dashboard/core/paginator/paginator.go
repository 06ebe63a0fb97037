// Package paginator derives fixed-size pages of the notification feed,
// newest first.
package paginator

import (
	"sync"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
)

const DefaultPageSize = 3

// TotalPages returns max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp bounds page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	switch {
	case page < 1:
		return 1
	case page > totalPages:
		return totalPages
	default:
		return page
	}
}

// Slice returns page (1-based, clamped) of notifs in reverse arrival order.
// notifs is not modified.
func Slice(notifs []entity.Notification, page, size int) []entity.Notification {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = Clamp(page, TotalPages(len(notifs), size))

	start := (page - 1) * size
	end := min(start+size, len(notifs))
	if start >= end {
		return []entity.Notification{}
	}

	out := make([]entity.Notification, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, notifs[len(notifs)-1-i])
	}
	return out
}

// Page is one rendered page of the feed.
type Page struct {
	Items       []entity.Notification
	Number      int
	TotalPages  int
	Total       int
	HasNext     bool
	HasPrevious bool
}

// Paginator tracks the current page across feed updates. Whenever the
// observed feed length changes the page goes back to 1.
type Paginator struct {
	size int

	mu       sync.Mutex
	page     int
	lastSeen int
}

func New(size int) *Paginator {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Paginator{size: size, page: 1}
}

func (p *Paginator) PageSize() int { return p.size }

// Current returns the page number without observing the feed.
func (p *Paginator) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Page observes notifs and returns the current page of it.
func (p *Paginator) Page(notifs []entity.Notification) Page {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.observeLocked(len(notifs))
	return p.buildLocked(notifs)
}

func (p *Paginator) Next(notifs []entity.Notification) Page {
	return p.move(notifs, func(cur int) int { return cur + 1 })
}

func (p *Paginator) Prev(notifs []entity.Notification) Page {
	return p.move(notifs, func(cur int) int { return cur - 1 })
}

// GoTo jumps to page, clamped into range.
func (p *Paginator) GoTo(page int, notifs []entity.Notification) Page {
	return p.move(notifs, func(int) int { return page })
}

func (p *Paginator) move(notifs []entity.Notification, to func(int) int) Page {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.observeLocked(len(notifs))
	p.page = Clamp(to(p.page), TotalPages(len(notifs), p.size))
	return p.buildLocked(notifs)
}

func (p *Paginator) observeLocked(n int) {
	if n != p.lastSeen {
		p.lastSeen = n
		p.page = 1
	}
	p.page = Clamp(p.page, TotalPages(n, p.size))
}

func (p *Paginator) buildLocked(notifs []entity.Notification) Page {
	total := TotalPages(len(notifs), p.size)
	return Page{
		Items:       Slice(notifs, p.page, p.size),
		Number:      p.page,
		TotalPages:  total,
		Total:       len(notifs),
		HasNext:     p.page < total,
		HasPrevious: p.page > 1,
	}
}
