package view

import (
	"fmt"
	"strings"
)

// Pager tracks a bounded window over an ordered list. It only knows indices;
// callers slice their own items with Window so the same pager serves keyword
// records, personas and text pages alike.
type Pager struct {
	total int
	size  int
	page  int
}

// NewPager creates a pager over total items with the given page size. An empty
// list still renders a single placeholder page.
func NewPager(total, size int) *Pager {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	return &Pager{total: total, size: size}
}

// Pages is the page count: floor((n-1)/size)+1, never below 1.
func (p *Pager) Pages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total-1)/p.size + 1
}

// Page is the zero-based cursor.
func (p *Pager) Page() int { return p.page }

// Next advances the cursor, clamped to the last page.
func (p *Pager) Next() {
	if p.page < p.Pages()-1 {
		p.page++
	}
}

// Previous moves the cursor back, clamped to 0.
func (p *Pager) Previous() {
	if p.page > 0 {
		p.page--
	}
}

// Reset returns the cursor to the first page. Used when switching between
// independent lists so the window never points past the new list's end.
func (p *Pager) Reset() { p.page = 0 }

// Retarget repoints the pager at a list of a different length, clamping the
// cursor rather than resetting it (used after deleting an item).
func (p *Pager) Retarget(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	if last := p.Pages() - 1; p.page > last {
		p.page = last
	}
}

// Bounds returns the half-open index range of the visible window.
func (p *Pager) Bounds() (start, end int) {
	start = p.page * p.size
	if start > p.total {
		start = p.total
	}
	end = start + p.size
	if end > p.total {
		end = p.total
	}
	return start, end
}

func (p *Pager) HasPrevious() bool { return p.page > 0 }

func (p *Pager) HasNext() bool { return p.page < p.Pages()-1 }

// Footer renders the human-readable position line.
func (p *Pager) Footer() string {
	return fmt.Sprintf("Page %d of %d", p.page+1, p.Pages())
}

// Window slices the visible page out of items using the pager's cursor.
func Window[T any](items []T, p *Pager) []T {
	start, end := p.Bounds()
	if start >= len(items) {
		return nil
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// SplitText chunks free text into pages of at most maxChars, breaking on line
// boundaries. A line longer than maxChars gets a page of its own.
func SplitText(data string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var pages []string
	var current strings.Builder
	for _, line := range strings.Split(data, "\n") {
		if current.Len() > 0 && current.Len()+len(line)+1 > maxChars {
			pages = append(pages, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if strings.TrimSpace(current.String()) != "" {
		pages = append(pages, strings.TrimSpace(current.String()))
	}
	if len(pages) == 0 {
		pages = []string{""}
	}
	return pages
}
