package browser

import (
	"context"
	"fmt"

	"go-linkedin-jobs/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

// Page adapts a playwright.Page to scraper.Page.
type Page struct {
	raw playwright.Page
}

func NewPage(page playwright.Page) *Page {
	return &Page{raw: page}
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.raw.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (p *Page) Query(ctx context.Context, sel scraper.Selector) (scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return first(withText(p.raw.Locator(sel.CSS), sel), sel)
}

func (p *Page) QueryAll(ctx context.Context, sel scraper.Selector) ([]scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locators, err := withText(p.raw.Locator(sel.CSS), sel).All()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", sel, err)
	}
	out := make([]scraper.Element, len(locators))
	for i, loc := range locators {
		out[i] = &Element{loc: loc}
	}
	return out, nil
}

func (p *Page) ScrollHeight(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v, err := p.raw.Evaluate("() => document.body.scrollHeight")
	if err != nil {
		return 0, fmt.Errorf("read scroll height: %w", err)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected scroll height %T", v)
	}
}

func (p *Page) ScrollToBottom(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.raw.Evaluate("() => window.scrollTo(0, document.body.scrollHeight)")
	return err
}

func (p *Page) ScrollBy(ctx context.Context, dy int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.raw.Evaluate("dy => window.scrollBy(0, dy)", dy)
	return err
}

// Element adapts a playwright.Locator that resolves to a single node.
type Element struct {
	loc playwright.Locator
}

func (e *Element) Query(ctx context.Context, sel scraper.Selector) (scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return first(withText(e.loc.Locator(sel.CSS), sel), sel)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.InnerText()
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.loc.IsVisible()
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Click()
}

func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Fill(value)
}

func (e *Element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Clear()
}

func (e *Element) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Press(key)
}

func withText(loc playwright.Locator, sel scraper.Selector) playwright.Locator {
	if sel.Text == "" {
		return loc
	}
	return loc.Filter(playwright.LocatorFilterOptions{HasText: sel.Text})
}

// first resolves loc to its first match. Count does not wait, so an absent node is reported immediately.
func first(loc playwright.Locator, sel scraper.Selector) (scraper.Element, error) {
	loc = loc.First()
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", sel, err)
	}
	if count == 0 {
		return nil, scraper.NotFound(sel)
	}
	return &Element{loc: loc}, nil
}
