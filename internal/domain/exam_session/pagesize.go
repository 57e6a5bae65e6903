package examsession

import "sync"

// DefaultBreakpoint is the viewport width at or below which the layout is narrow.
const DefaultBreakpoint = 768

// PageSizer picks how many questions fit on a page. A narrow viewport always
// gets one question per page whatever the requested size.
type PageSizer struct {
	mu         sync.RWMutex
	base       int
	breakpoint int
	narrow     bool
}

// NewPageSizer classifies width immediately. A non-positive breakpoint means
// DefaultBreakpoint; a non-positive base means 1.
func NewPageSizer(base, breakpoint, width int) *PageSizer {
	if base < 1 {
		base = 1
	}
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	p := &PageSizer{base: base, breakpoint: breakpoint}
	p.Resize(width)
	return p
}

// Resize reclassifies the viewport for a new width.
func (p *PageSizer) Resize(width int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.narrow = width <= p.breakpoint
}

func (p *PageSizer) Narrow() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.narrow
}

// PageSize is 1 when narrow, the base size otherwise.
func (p *PageSizer) PageSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.narrow {
		return 1
	}
	return p.base
}

// PageCount is the number of pages needed for total questions.
func (p *PageSizer) PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	size := p.PageSize()
	return (total + size - 1) / size
}

// PageBounds returns the half-open question range [start, end) of page
// (0-based), clamped to total.
func (p *PageSizer) PageBounds(page, total int) (start, end int) {
	size := p.PageSize()
	if page < 0 {
		page = 0
	}
	start = page * size
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}

// PageOf returns the page holding question index.
func (p *PageSizer) PageOf(index int) int {
	if index < 0 {
		return 0
	}
	return index / p.PageSize()
}
