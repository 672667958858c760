// Page model shared by every collector.
// Implementations: internal/browser (Playwright) and internal/htmlpage (saved HTML).

package scraper

import (
	"context"
	"errors"
	"fmt"
)

// ErrElementNotFound is returned by lookups when the requested element is not on the page.
var ErrElementNotFound = errors.New("element not found")

// Selector locates an element. CSS is required; when Text is set only elements
// whose text contains it match.
type Selector struct {
	CSS  string `yaml:"css" json:"css"`
	Text string `yaml:"text,omitempty" json:"text,omitempty"`
}

func (s Selector) String() string {
	if s.Text == "" {
		return s.CSS
	}
	return fmt.Sprintf("%s:has-text(%q)", s.CSS, s.Text)
}

// NotFound wraps ErrElementNotFound with the selector that failed.
func NotFound(sel Selector) error {
	return fmt.Errorf("%w: %s", ErrElementNotFound, sel)
}

// Element is one node on a page.
type Element interface {
	// Query returns the first descendant matching sel, or ErrElementNotFound.
	Query(ctx context.Context, sel Selector) (Element, error)
	Text(ctx context.Context) (string, error)
	Visible(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Clear(ctx context.Context) error
	Press(ctx context.Context, key string) error
}

// Page is the document a collector drives.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Query returns the first element matching sel, or ErrElementNotFound.
	Query(ctx context.Context, sel Selector) (Element, error)
	QueryAll(ctx context.Context, sel Selector) ([]Element, error)
	ScrollHeight(ctx context.Context) (int, error)
	ScrollToBottom(ctx context.Context) error
	ScrollBy(ctx context.Context, dy int) error
}

// Session owns a page and whatever process backs it. Close must be safe to call more than once.
type Session interface {
	Page() Page
	Close() error
}

// Opener acquires a new session.
type Opener func(ctx context.Context) (Session, error)

// Screenshotter is implemented by sessions that can capture the current page.
type Screenshotter interface {
	Screenshot(path string) error
}

// Snapshotter is implemented by sessions that can dump the current page HTML.
type Snapshotter interface {
	Content() (string, error)
}
