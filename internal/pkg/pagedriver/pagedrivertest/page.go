// Package pagedrivertest provides an in-memory pagedriver.Driver whose elements are
// registered by locator and whose clicks can rewrite the page.
package pagedrivertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

type Element struct {
	Text     string
	HTML     string
	Hidden   bool
	Disabled bool
	// OnClick runs after the click is recorded, without the page lock held.
	OnClick func(p *Page)
}

type Page struct {
	mu         sync.Mutex
	elements   map[string]Element
	lists      map[string]int
	clicks     map[string]int
	typed      map[string]string
	navigated  []string
	closeCalls int

	NavigateErr error
	ClickErr    map[string]error
}

func New() *Page {
	return &Page{
		elements: make(map[string]Element),
		lists:    make(map[string]int),
		clicks:   make(map[string]int),
		typed:    make(map[string]string),
		ClickErr: make(map[string]error),
	}
}

func (p *Page) Set(loc pagedriver.Locator, el Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[loc.String()] = el
}

// SetList registers els as the matches of loc, addressable through loc.Nth(i).
func (p *Page) SetList(loc pagedriver.Locator, els ...Element) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < p.lists[loc.String()]; i++ {
		delete(p.elements, loc.Nth(i).String())
	}

	p.lists[loc.String()] = len(els)
	for i, el := range els {
		p.elements[loc.Nth(i).String()] = el
	}
}

func (p *Page) Remove(loc pagedriver.Locator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, loc.String())
}

func (p *Page) Clicks(loc pagedriver.Locator) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clicks[loc.String()]
}

func (p *Page) Typed(loc pagedriver.Locator) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typed[loc.String()]
}

func (p *Page) Navigated() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigated...)
}

func (p *Page) CloseCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeCalls
}

func (p *Page) lookup(loc pagedriver.Locator) (Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elements[loc.String()]
	return el, ok
}

func (p *Page) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *Page) Wait(ctx context.Context, loc pagedriver.Locator, state pagedriver.State, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	el, ok := p.lookup(loc)

	var satisfied bool
	switch state {
	case pagedriver.Present:
		satisfied = ok
	case pagedriver.Visible:
		satisfied = ok && !el.Hidden
	case pagedriver.Clickable:
		satisfied = ok && !el.Hidden && !el.Disabled
	case pagedriver.Absent:
		satisfied = !ok
	}

	if !satisfied {
		return fmt.Errorf("%s %s: %w", loc, state, pagedriver.ErrTimeout)
	}
	return nil
}

func (p *Page) Click(_ context.Context, loc pagedriver.Locator) error {
	el, ok := p.lookup(loc)
	if !ok {
		return fmt.Errorf("click %s: %w", loc, pagedriver.ErrNotFound)
	}

	p.mu.Lock()
	err := p.ClickErr[loc.String()]
	p.clicks[loc.String()]++
	p.mu.Unlock()

	if err != nil {
		return err
	}

	if el.OnClick != nil {
		el.OnClick(p)
	}
	return nil
}

func (p *Page) ScrollIntoView(_ context.Context, loc pagedriver.Locator) error {
	if _, ok := p.lookup(loc); !ok {
		return fmt.Errorf("scroll %s: %w", loc, pagedriver.ErrNotFound)
	}
	return nil
}

func (p *Page) Type(_ context.Context, loc pagedriver.Locator, text string) error {
	if _, ok := p.lookup(loc); !ok {
		return fmt.Errorf("type %s: %w", loc, pagedriver.ErrNotFound)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.typed[loc.String()] = text
	return nil
}

func (p *Page) Text(_ context.Context, loc pagedriver.Locator) (string, error) {
	el, ok := p.lookup(loc)
	if !ok {
		return "", fmt.Errorf("text %s: %w", loc, pagedriver.ErrNotFound)
	}
	return el.Text, nil
}

func (p *Page) Count(_ context.Context, loc pagedriver.Locator) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n, ok := p.lists[loc.String()]; ok {
		return n, nil
	}
	if _, ok := p.elements[loc.String()]; ok {
		return 1, nil
	}
	return 0, nil
}

func (p *Page) HTML(_ context.Context, loc pagedriver.Locator) (string, error) {
	el, ok := p.lookup(loc)
	if !ok {
		return "", fmt.Errorf("html %s: %w", loc, pagedriver.ErrNotFound)
	}
	return el.HTML, nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalls++
	return nil
}
