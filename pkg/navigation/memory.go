package navigation

import (
	"strings"

	"github.com/vango-dev/maproute/pkg/routepath"
)

// HashChange records a synthetic hashchange event.
type HashChange struct {
	Old string
	New string
}

// MemoryPort is an in-memory Port with a browser-like history stack.
// It records every write so tests can assert on them.
type MemoryPort struct {
	origin  string
	entries []routepath.Location
	index   int

	onPop   func(routepath.Location)
	onClick func(LinkClick) bool

	// Writes lists every push and replace, in order.
	Writes []Write

	// HashChanges lists every synthetic hashchange event.
	HashChanges []HashChange

	// Loads lists the URLs of clicks that fell through to a full page load.
	Loads []string
}

var (
	_ Port      = (*MemoryPort)(nil)
	_ Historian = (*MemoryPort)(nil)
)

// NewMemoryPort returns a port whose history holds the single entry initial.
func NewMemoryPort(origin string, initial routepath.Location) *MemoryPort {
	return &MemoryPort{
		origin:  origin,
		entries: []routepath.Location{initial},
	}
}

// Origin implements Port.
func (p *MemoryPort) Origin() string {
	return p.origin
}

// Location implements Port.
func (p *MemoryPort) Location() routepath.Location {
	return p.entries[p.index]
}

// PushPath implements Port. Forward entries are discarded.
func (p *MemoryPort) PushPath(url string) error {
	loc, err := routepath.Parse(url)
	if err != nil {
		return err
	}
	p.entries = append(p.entries[:p.index+1], loc)
	p.index++
	p.Writes = append(p.Writes, Write{Kind: WritePush, URL: url})
	return nil
}

// ReplacePath implements Port.
func (p *MemoryPort) ReplacePath(url string) error {
	loc, err := routepath.Parse(url)
	if err != nil {
		return err
	}
	p.entries[p.index] = loc
	p.Writes = append(p.Writes, Write{Kind: WriteReplace, URL: url})
	return nil
}

// NotifyHashChange implements Port.
func (p *MemoryPort) NotifyHashChange(oldURL, newURL string) {
	p.HashChanges = append(p.HashChanges, HashChange{Old: oldURL, New: newURL})
}

// OnPopNavigation implements Port.
func (p *MemoryPort) OnPopNavigation(fn func(routepath.Location)) {
	p.onPop = fn
}

// OnLinkIntercept implements Port.
func (p *MemoryPort) OnLinkIntercept(fn func(LinkClick) bool) {
	p.onClick = fn
}

// Back moves one entry back and raises a pop navigation.
func (p *MemoryPort) Back() {
	p.Go(-1)
}

// Forward moves one entry forward and raises a pop navigation.
func (p *MemoryPort) Forward() {
	p.Go(1)
}

// Go moves delta entries through history. Moves past either end are
// ignored, as in browsers.
func (p *MemoryPort) Go(delta int) {
	next := p.index + delta
	if delta == 0 || next < 0 || next >= len(p.entries) {
		return
	}
	p.index = next
	if p.onPop != nil {
		p.onPop(p.entries[p.index])
	}
}

// Click simulates a click on an anchor and reports whether the handler took
// it over. Clicks left to the browser either change the hash of the current
// document, which pushes an entry and raises a pop navigation, or load a new
// page, which is recorded in Loads.
func (p *MemoryPort) Click(c LinkClick) bool {
	if p.onClick != nil && p.onClick(c) {
		return true
	}

	loc, err := routepath.Parse(strings.TrimPrefix(c.Href, p.origin))
	if err != nil {
		p.Loads = append(p.Loads, c.Href)
		return false
	}
	if c.plain() && loc.Path() == p.Location().Path() && loc.Hash != p.Location().Hash {
		p.entries = append(p.entries[:p.index+1], loc)
		p.index++
		if p.onPop != nil {
			p.onPop(loc)
		}
		return false
	}
	p.Loads = append(p.Loads, c.Href)
	return false
}

// Len returns the number of history entries.
func (p *MemoryPort) Len() int {
	return len(p.entries)
}

// Index returns the position of the current entry.
func (p *MemoryPort) Index() int {
	return p.index
}
