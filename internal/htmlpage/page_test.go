package htmlpage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-linkedin-jobs/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SearchResultsFixture(t *testing.T) {
	page, err := Load("testdata/search-results.html")
	require.NoError(t, err)

	ctx := context.Background()
	items, err := page.QueryAll(ctx, scraper.Selector{CSS: "ul.jobs-search__results-list > li"})
	require.NoError(t, err)
	require.Len(t, items, 5)

	title, err := items[1].Query(ctx, scraper.Selector{CSS: "h3.base-search-card__title"})
	require.NoError(t, err)
	text, err := title.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer (Go)", text, "whitespace is collapsed")

	_, err = items[2].Query(ctx, scraper.Selector{CSS: "time"})
	assert.True(t, errors.Is(err, scraper.ErrElementNotFound))
}

func TestVisibility(t *testing.T) {
	page, err := New(strings.NewReader(`<div>
		<button id="a" style="display: none">a</button>
		<section hidden><button id="b">b</button></section>
		<button id="c">c</button>
		<p>You've viewed all jobs for this search</p>
	</div>`))
	require.NoError(t, err)
	ctx := context.Background()

	for id, want := range map[string]bool{"#a": false, "#b": false, "#c": true} {
		el, err := page.Query(ctx, scraper.Selector{CSS: id})
		require.NoError(t, err)
		visible, err := el.Visible(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, visible, id)
	}

	end, err := page.Query(ctx, scraper.Selector{CSS: "p", Text: "viewed all jobs for this search"})
	require.NoError(t, err)
	visible, err := end.Visible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	_, err = page.Query(ctx, scraper.Selector{CSS: "p", Text: "no such text"})
	assert.True(t, errors.Is(err, scraper.ErrElementNotFound))
}

func TestReadOnly(t *testing.T) {
	page, err := New(strings.NewReader(`<input id="q">`))
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, page.Navigate(ctx, "https://www.linkedin.com/"), ErrReadOnly)

	el, err := page.Query(ctx, scraper.Selector{CSS: "#q"})
	require.NoError(t, err)
	assert.ErrorIs(t, el.Click(ctx), ErrReadOnly)
	assert.ErrorIs(t, el.Fill(ctx, "go"), ErrReadOnly)

	h, err := page.ScrollHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, h)
}

func TestCancelledContext(t *testing.T) {
	page, err := New(strings.NewReader(`<p>x</p>`))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = page.QueryAll(ctx, scraper.Selector{CSS: "p"})
	assert.ErrorIs(t, err, context.Canceled)
}
