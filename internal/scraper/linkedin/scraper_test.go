package linkedin

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-linkedin-jobs/internal/config"
	"go-linkedin-jobs/internal/htmlpage"
	"go-linkedin-jobs/internal/scraper"
	"go-linkedin-jobs/internal/wait"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSelectors() config.Selectors {
	return config.DefaultSelectors()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.JobTitle = "Software Engineer"
	cfg.ClickInterval = 0
	cfg.DebugDir = t.TempDir()
	cfg.Timeouts.Run = 5 * time.Second
	cfg.Timeouts.Element = 50 * time.Millisecond
	cfg.Timeouts.Results = 50 * time.Millisecond
	cfg.Timeouts.Settle = 20 * time.Millisecond
	cfg.Timeouts.Poll = time.Millisecond
	return cfg
}

func newTestCollector(t *testing.T, cfg *config.Config, open scraper.Opener) *PageCollector {
	t.Helper()
	c := NewPageCollector(cfg, open, zerolog.Nop())
	c.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }
	return c
}

func growing(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = (i + 1) * 100
	}
	return out
}

func TestExpandAllResults_StopsWhenHeightUnchanged(t *testing.T) {
	page := searchPage()
	page.heights = []int{100, 250, 250}

	c := newTestCollector(t, testConfig(t), nil)
	res, err := c.ExpandAllResults(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, StopHeightUnchanged, res.Reason)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, 0, res.Clicks)
	assert.Equal(t, 2, page.scrolls)
	assert.Equal(t, []int{jitter, -jitter, jitter, -jitter}, page.jitter)
}

func TestExpandAllResults_ClicksSeeMoreUntilEndMarker(t *testing.T) {
	sel := testSelectors()
	page := searchPage()
	page.heights = growing(20)

	seeMore := &fakeElement{}
	seeMore.hidden = func() bool { return seeMore.clicks >= 2 }
	seeMore.onClick = func() { page.step++ }
	page.elements[sel.SeeMore.CSS] = seeMore
	page.elements[sel.EndOfResults.CSS] = &fakeElement{
		text:   "You've viewed all jobs for this search",
		hidden: func() bool { return seeMore.clicks < 2 },
	}

	c := newTestCollector(t, testConfig(t), nil)
	res, err := c.ExpandAllResults(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, StopEndMarker, res.Reason)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 2, res.Clicks)
	assert.Equal(t, 2, seeMore.clicks)
}

func TestExpandAllResults_EndMarkerOnFirstPass(t *testing.T) {
	sel := testSelectors()
	page := searchPage()
	page.heights = growing(5)
	page.elements[sel.EndOfResults.CSS] = &fakeElement{}

	c := newTestCollector(t, testConfig(t), nil)
	res, err := c.ExpandAllResults(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, StopEndMarker, res.Reason)
	assert.Equal(t, 1, res.Iterations)
}

func TestExpandAllResults_MaxIterations(t *testing.T) {
	page := searchPage()
	page.heights = growing(50)

	cfg := testConfig(t)
	cfg.MaxScrollIterations = 3
	c := newTestCollector(t, cfg, nil)
	res, err := c.ExpandAllResults(context.Background(), page)

	require.NoError(t, err, "hitting the bound is not a failure")
	assert.Equal(t, StopMaxIterations, res.Reason)
	assert.Equal(t, 3, res.Iterations)
}

func TestExpandAllResults_HiddenSeeMoreIsNotClicked(t *testing.T) {
	sel := testSelectors()
	page := searchPage()
	page.heights = []int{100, 100}
	seeMore := &fakeElement{hidden: func() bool { return true }}
	page.elements[sel.SeeMore.CSS] = seeMore

	c := newTestCollector(t, testConfig(t), nil)
	res, err := c.ExpandAllResults(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, StopHeightUnchanged, res.Reason)
	assert.Zero(t, seeMore.clicks)
}

func TestExpandAllResults_HeightError(t *testing.T) {
	page := searchPage()
	page.heightErr = func(int) error { return errors.New("target closed") }

	c := newTestCollector(t, testConfig(t), nil)
	_, err := c.ExpandAllResults(context.Background(), page)

	assert.ErrorContains(t, err, "target closed")
}

func TestSubmitSearch(t *testing.T) {
	sel := testSelectors()
	page := searchPage()
	query, err := scraper.NewSearchQuery(" Software Engineer ", "Pakistan")
	require.NoError(t, err)

	c := newTestCollector(t, testConfig(t), nil)
	require.NoError(t, c.SubmitSearch(context.Background(), page, query))

	assert.Equal(t, 1, page.elements[sel.JobsNav.CSS].clicks)
	assert.Equal(t, "Software Engineer", page.elements[sel.KeywordsInput.CSS].value)

	location := page.elements[sel.LocationInput.CSS]
	assert.True(t, location.cleared, "pre-filled location is cleared first")
	assert.Equal(t, "Pakistan", location.value)
	assert.Equal(t, []string{"Enter"}, location.pressed)
}

func TestSubmitSearch_MissingKeywordsInput(t *testing.T) {
	sel := testSelectors()
	page := searchPage()
	delete(page.elements, sel.KeywordsInput.CSS)

	c := newTestCollector(t, testConfig(t), nil)
	err := c.SubmitSearch(context.Background(), page, scraper.SearchQuery{Title: "Go"})

	require.Error(t, err)
	assert.ErrorIs(t, err, scraper.ErrElementNotFound)
	assert.ErrorIs(t, err, wait.ErrTimeout)
	assert.ErrorContains(t, err, "keywords input")
}

func TestSubmitSearch_ResultsNeverRender(t *testing.T) {
	sel := testSelectors()
	page := searchPage()
	delete(page.elements, sel.ResultsList.CSS)

	c := newTestCollector(t, testConfig(t), nil)
	err := c.SubmitSearch(context.Background(), page, scraper.SearchQuery{Title: "Go"})

	assert.ErrorIs(t, err, wait.ErrTimeout)
	assert.ErrorContains(t, err, "results list")
}

func TestExtractVisible_Fixture(t *testing.T) {
	page, err := htmlpage.Load("../../htmlpage/testdata/search-results.html")
	require.NoError(t, err)

	c := newTestCollector(t, testConfig(t), nil)
	set, missing, err := c.ExtractVisible(context.Background(), page)
	require.NoError(t, err)

	require.Equal(t, 5, set.Len())
	records := set.Records()
	assert.Equal(t, scraper.Record{
		Title:      "Software Engineer",
		Subtitle:   "Systems Limited",
		Location:   "Lahore, Punjab, Pakistan",
		DatePosted: "2 days ago",
	}, records[0])
	assert.Equal(t, "Senior Software Engineer", records[2].Title)
	assert.Equal(t, "", records[2].DatePosted, "missing field keeps the row aligned")
	assert.Equal(t, "Full Stack Engineer", records[4].Title)

	assert.Equal(t, []scraper.Missing{{Index: 2, Field: scraper.FieldDatePosted}}, missing)
}

func TestExtractVisible_NoItems(t *testing.T) {
	c := newTestCollector(t, testConfig(t), nil)
	set, missing, err := c.ExtractVisible(context.Background(), searchPage())

	require.NoError(t, err)
	assert.Zero(t, set.Len())
	assert.Empty(t, missing)
}

func TestExtractVisible_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCollector(t, testConfig(t), nil)
	_, _, err := c.ExtractVisible(ctx, searchPage(card("a", "b", "c", "d")))

	assert.ErrorIs(t, err, context.Canceled)
}
