// Package htmlpage serves a saved results page through the scraper.Page interface,
// so pages captured with --snapshot can be extracted again without a browser.
package htmlpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go-linkedin-jobs/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

// ErrReadOnly is returned by interactions a static document cannot perform.
var ErrReadOnly = errors.New("static page is read-only")

type Page struct {
	doc *goquery.Document
}

func New(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{doc: doc}, nil
}

func Load(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return New(f)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return fmt.Errorf("navigate to %s: %w", url, ErrReadOnly)
}

func (p *Page) Query(ctx context.Context, sel scraper.Selector) (scraper.Element, error) {
	return query(ctx, p.doc.Selection, sel)
}

func (p *Page) QueryAll(ctx context.Context, sel scraper.Selector) ([]scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []scraper.Element
	match(p.doc.Selection, sel).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s})
	})
	return out, nil
}

// ScrollHeight is constant: nothing loads into a saved document.
func (p *Page) ScrollHeight(ctx context.Context) (int, error) {
	return 0, ctx.Err()
}

func (p *Page) ScrollToBottom(ctx context.Context) error {
	return ctx.Err()
}

func (p *Page) ScrollBy(ctx context.Context, dy int) error {
	return ctx.Err()
}

// Element wraps a single-node goquery selection.
type Element struct {
	sel *goquery.Selection
}

func (e *Element) Query(ctx context.Context, sel scraper.Selector) (scraper.Element, error) {
	return query(ctx, e.sel, sel)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(e.sel.Text()), " "), nil
}

// Visible is false when the node or an ancestor is hidden by attribute or inline style.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for s := e.sel; s.Length() > 0; s = s.Parent() {
		if hidden(s) {
			return false, nil
		}
	}
	return true, nil
}

func (e *Element) Click(ctx context.Context) error { return ErrReadOnly }
func (e *Element) Fill(ctx context.Context, value string) error { return ErrReadOnly }
func (e *Element) Clear(ctx context.Context) error { return ErrReadOnly }
func (e *Element) Press(ctx context.Context, key string) error { return ErrReadOnly }

func query(ctx context.Context, root *goquery.Selection, sel scraper.Selector) (scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found := match(root, sel).First()
	if found.Length() == 0 {
		return nil, scraper.NotFound(sel)
	}
	return &Element{sel: found}, nil
}

func match(root *goquery.Selection, sel scraper.Selector) *goquery.Selection {
	found := root.Find(sel.CSS)
	if sel.Text == "" {
		return found
	}
	return found.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), sel.Text)
	})
}

func hidden(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	if v, ok := s.Attr("aria-hidden"); ok && v == "true" {
		return true
	}
	style, _ := s.Attr("style")
	style = strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}
