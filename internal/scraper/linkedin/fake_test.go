package linkedin

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go-linkedin-jobs/internal/scraper"
)

// fakeElement is a node of fakePage. Children are keyed by CSS selector.
type fakeElement struct {
	text     string
	hidden   func() bool
	children map[string]*fakeElement
	onClick  func()
	clickErr error

	clicks  int
	value   string
	cleared bool
	pressed []string
}

func (e *fakeElement) Query(ctx context.Context, sel scraper.Selector) (scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	child, ok := e.children[sel.CSS]
	if !ok {
		return nil, scraper.NotFound(sel)
	}
	return child, nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) { return e.text, ctx.Err() }

func (e *fakeElement) Visible(ctx context.Context) (bool, error) {
	return e.hidden == nil || !e.hidden(), ctx.Err()
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) Fill(ctx context.Context, value string) error {
	e.value = value
	return nil
}

func (e *fakeElement) Clear(ctx context.Context) error {
	e.value = ""
	e.cleared = true
	return nil
}

func (e *fakeElement) Press(ctx context.Context, key string) error {
	e.pressed = append(e.pressed, key)
	return nil
}

// fakePage grows through heights: every scroll to the bottom and every "see more" click advances one step.
type fakePage struct {
	elements map[string]*fakeElement
	items    []*fakeElement
	heights  []int

	step      int
	scrolls   int
	jitter    []int
	navigated []string
	heightErr func(reads int) error
	reads     int
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return ctx.Err()
}

func (p *fakePage) Query(ctx context.Context, sel scraper.Selector) (scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	el, ok := p.elements[sel.CSS]
	if !ok {
		return nil, scraper.NotFound(sel)
	}
	return el, nil
}

func (p *fakePage) QueryAll(ctx context.Context, sel scraper.Selector) ([]scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]scraper.Element, len(p.items))
	for i, item := range p.items {
		out[i] = item
	}
	return out, nil
}

func (p *fakePage) ScrollHeight(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.reads++
	if p.heightErr != nil {
		if err := p.heightErr(p.reads); err != nil {
			return 0, err
		}
	}
	if len(p.heights) == 0 {
		return 0, nil
	}
	i := p.step
	if i >= len(p.heights) {
		i = len(p.heights) - 1
	}
	return p.heights[i], nil
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	p.scrolls++
	p.step++
	return ctx.Err()
}

func (p *fakePage) ScrollBy(ctx context.Context, dy int) error {
	p.jitter = append(p.jitter, dy)
	return ctx.Err()
}

// card builds a result item; an empty field is left out of the card.
func card(title, subtitle, location, date string) *fakeElement {
	sel := testSelectors()
	children := map[string]*fakeElement{}
	for css, text := range map[string]string{
		sel.Title.CSS:      title,
		sel.Subtitle.CSS:   subtitle,
		sel.Location.CSS:   location,
		sel.DatePosted.CSS: date,
	} {
		if text != "" {
			children[css] = &fakeElement{text: text}
		}
	}
	return &fakeElement{children: children}
}

// searchPage returns a landing page whose search form works and shows items.
func searchPage(items ...*fakeElement) *fakePage {
	sel := testSelectors()
	return &fakePage{
		elements: map[string]*fakeElement{
			sel.JobsNav.CSS:       {},
			sel.KeywordsInput.CSS: {},
			sel.LocationInput.CSS: {value: "Worldwide"},
			sel.ResultsList.CSS:   {},
		},
		items:   items,
		heights: []int{800},
	}
}

type fakeSession struct {
	page     scraper.Page
	closes   int
	shots    []string
	html     string
	shotErr  error
	closeErr error
}

func (s *fakeSession) Page() scraper.Page { return s.page }

func (s *fakeSession) Close() error {
	s.closes++
	return s.closeErr
}

func (s *fakeSession) Screenshot(path string) error {
	if s.shotErr != nil {
		return s.shotErr
	}
	s.shots = append(s.shots, path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (s *fakeSession) Content() (string, error) {
	if s.html == "" {
		return "", errors.New("no content")
	}
	return s.html, nil
}

func opener(sess *fakeSession) scraper.Opener {
	return func(ctx context.Context) (scraper.Session, error) {
		return sess, nil
	}
}
