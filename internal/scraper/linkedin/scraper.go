package linkedin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-linkedin-jobs/internal/config"
	"go-linkedin-jobs/internal/export"
	"go-linkedin-jobs/internal/scraper"
	"go-linkedin-jobs/internal/wait"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// jitter is the scroll nudge used to trigger lazy loading after jumping to the bottom.
const jitter = 100

type StopReason string

const (
	StopEndMarker       StopReason = "end-of-results"
	StopHeightUnchanged StopReason = "height-unchanged"
	StopMaxIterations   StopReason = "max-iterations"
)

// ExpandResult describes how the scroll loop ended.
type ExpandResult struct {
	Iterations int        `json:"iterations"`
	Clicks     int        `json:"clicks"`
	Reason     StopReason `json:"reason"`
}

// PageCollector runs one end-to-end search on the LinkedIn guest jobs pages.
type PageCollector struct {
	cfg     *config.Config
	open    scraper.Opener
	log     zerolog.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

func NewPageCollector(cfg *config.Config, open scraper.Opener, log zerolog.Logger) *PageCollector {
	return &PageCollector{
		cfg:     cfg,
		open:    open,
		log:     log,
		limiter: rate.NewLimiter(rate.Every(cfg.ClickInterval), 1),
		now:     time.Now,
	}
}

func (c *PageCollector) waitOptions(timeout time.Duration) wait.Options {
	return wait.Options{Timeout: timeout, Interval: c.cfg.Timeouts.Poll}
}

// waitFor polls until sel is present. A timeout is reported as ErrElementNotFound wrapping the wait.TimeoutError.
func (c *PageCollector) waitFor(ctx context.Context, page scraper.Page, sel scraper.Selector, name string, timeout time.Duration) (scraper.Element, error) {
	var found scraper.Element
	err := wait.Until(ctx, c.waitOptions(timeout), name, func(ctx context.Context) (bool, error) {
		el, err := page.Query(ctx, sel)
		if errors.Is(err, scraper.ErrElementNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		found = el
		return true, nil
	})
	if errors.Is(err, wait.ErrTimeout) {
		return nil, fmt.Errorf("%s: %w: %w", name, scraper.NotFound(sel), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return found, nil
}

// SubmitSearch opens the jobs search form, types the query and submits it with Enter on the location field.
// It returns once the results list has rendered.
func (c *PageCollector) SubmitSearch(ctx context.Context, page scraper.Page, query scraper.SearchQuery) error {
	sel := c.cfg.Selectors
	elementTimeout := c.cfg.Timeouts.Element

	jobsBtn, err := c.waitFor(ctx, page, sel.JobsNav, "jobs navigation link", elementTimeout)
	if err != nil {
		return err
	}
	if err := jobsBtn.Click(ctx); err != nil {
		return fmt.Errorf("click jobs navigation link: %w", err)
	}

	keywords, err := c.waitFor(ctx, page, sel.KeywordsInput, "keywords input", elementTimeout)
	if err != nil {
		return err
	}
	if err := keywords.Fill(ctx, query.Title); err != nil {
		return fmt.Errorf("type job title: %w", err)
	}

	location, err := c.waitFor(ctx, page, sel.LocationInput, "location input", elementTimeout)
	if err != nil {
		return err
	}
	if err := location.Clear(ctx); err != nil {
		return fmt.Errorf("clear location: %w", err)
	}
	if err := location.Fill(ctx, query.Location); err != nil {
		return fmt.Errorf("type location: %w", err)
	}
	if err := location.Press(ctx, "Enter"); err != nil {
		return fmt.Errorf("submit search: %w", err)
	}
	c.log.Info().Str("title", query.Title).Str("location", query.Location).Msg("🔍 search submitted")

	if _, err := c.waitFor(ctx, page, sel.ResultsList, "results list", c.cfg.Timeouts.Results); err != nil {
		return err
	}
	return nil
}

// ExpandAllResults scrolls and clicks "See more jobs" until the end-of-results marker shows,
// the page stops growing, or MaxScrollIterations is reached, whichever comes first.
// Absent controls count as hidden.
func (c *PageCollector) ExpandAllResults(ctx context.Context, page scraper.Page) (ExpandResult, error) {
	var res ExpandResult

	for res.Iterations < c.cfg.MaxScrollIterations {
		res.Iterations++

		before, err := page.ScrollHeight(ctx)
		if err != nil {
			return res, err
		}
		if err := page.ScrollToBottom(ctx); err != nil {
			return res, fmt.Errorf("scroll to bottom: %w", err)
		}
		if _, err := c.settle(ctx, page); err != nil {
			return res, err
		}
		if err := page.ScrollBy(ctx, jitter); err != nil {
			return res, fmt.Errorf("jitter scroll: %w", err)
		}
		if err := page.ScrollBy(ctx, -jitter); err != nil {
			return res, fmt.Errorf("jitter scroll: %w", err)
		}

		clicked, err := c.clickSeeMore(ctx, page)
		if err != nil {
			return res, err
		}
		if clicked {
			res.Clicks++
		} else {
			done, err := c.displayed(ctx, page, c.cfg.Selectors.EndOfResults)
			if err != nil {
				return res, err
			}
			if done {
				res.Reason = StopEndMarker
				break
			}
		}

		after, err := c.settle(ctx, page)
		if err != nil {
			return res, err
		}
		c.log.Debug().Int("iteration", res.Iterations).Int("before", before).Int("after", after).Bool("clicked", clicked).Msg("scrolled")
		if after == before {
			res.Reason = StopHeightUnchanged
			break
		}
	}

	if res.Reason == "" {
		res.Reason = StopMaxIterations
		c.log.Warn().Int("iterations", res.Iterations).Msg("scroll limit reached before results were exhausted")
	}
	c.log.Info().Int("iterations", res.Iterations).Int("clicks", res.Clicks).Str("reason", string(res.Reason)).Msg("📜 results expanded")
	return res, nil
}

// settle waits for the page height to stop changing. Never settling is not an error; the last height is used.
func (c *PageCollector) settle(ctx context.Context, page scraper.Page) (int, error) {
	height, err := wait.Stable(ctx, c.waitOptions(c.cfg.Timeouts.Settle), "page height to settle", page.ScrollHeight)
	if errors.Is(err, wait.ErrTimeout) {
		c.log.Debug().Int("height", height).Msg("page height still changing")
		return height, nil
	}
	return height, err
}

// displayed reports whether sel is present and visible.
func (c *PageCollector) displayed(ctx context.Context, page scraper.Page, sel scraper.Selector) (bool, error) {
	el, err := page.Query(ctx, sel)
	if errors.Is(err, scraper.ErrElementNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return el.Visible(ctx)
}

func (c *PageCollector) clickSeeMore(ctx context.Context, page scraper.Page) (bool, error) {
	sel := c.cfg.Selectors.SeeMore
	el, err := page.Query(ctx, sel)
	if errors.Is(err, scraper.ErrElementNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	visible, err := el.Visible(ctx)
	if err != nil || !visible {
		return false, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}
	from, err := page.ScrollHeight(ctx)
	if err != nil {
		return false, err
	}
	if err := el.Click(ctx); err != nil {
		return false, fmt.Errorf("click %s: %w", sel, err)
	}

	err = wait.Until(ctx, c.waitOptions(c.cfg.Timeouts.Settle), "more results", func(ctx context.Context) (bool, error) {
		h, err := page.ScrollHeight(ctx)
		return h > from, err
	})
	if errors.Is(err, wait.ErrTimeout) {
		c.log.Debug().Int("height", from).Msg("see more clicked but nothing loaded")
		return true, nil
	}
	return true, err
}

// ExtractVisible reads every rendered result card. A field that cannot be read is left empty and
// reported in the returned Missing list; only failing to enumerate the cards is an error.
func (c *PageCollector) ExtractVisible(ctx context.Context, page scraper.Page) (*scraper.ResultSet, []scraper.Missing, error) {
	sel := c.cfg.Selectors
	set := scraper.NewResultSet()

	items, err := page.QueryAll(ctx, sel.ResultItem)
	if err != nil {
		return set, nil, fmt.Errorf("list result items: %w", err)
	}
	c.log.Info().Int("total", len(items)).Msg("jobs found")

	var missing []scraper.Missing
	for i, item := range items {
		var rec scraper.Record
		fields := []struct {
			name string
			sel  scraper.Selector
			dst  *string
		}{
			{scraper.FieldTitle, sel.Title, &rec.Title},
			{scraper.FieldSubtitle, sel.Subtitle, &rec.Subtitle},
			{scraper.FieldLocation, sel.Location, &rec.Location},
			{scraper.FieldDatePosted, sel.DatePosted, &rec.DatePosted},
		}
		for _, f := range fields {
			text, err := fieldText(ctx, item, f.sel)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return set, missing, ctxErr
				}
				missing = append(missing, scraper.Missing{Index: i, Field: f.name})
				ev := c.log.Warn()
				if errors.Is(err, scraper.ErrElementNotFound) {
					ev = c.log.Debug()
				}
				ev.Err(err).Int("item", i).Str("field", f.name).Msg("field missing, left empty")
				continue
			}
			*f.dst = text
		}
		set.Append(rec)
	}

	if len(missing) > 0 {
		c.log.Warn().Int("fields", len(missing)).Int("records", set.Len()).Msg("some records are incomplete")
	}
	return set, missing, nil
}

func fieldText(ctx context.Context, item scraper.Element, sel scraper.Selector) (string, error) {
	el, err := item.Query(ctx, sel)
	if err != nil {
		return "", err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// snapshot saves the page HTML for offline extraction when snapshot_path is set.
func (c *PageCollector) snapshot(sess scraper.Session) {
	if c.cfg.SnapshotPath == "" {
		return
	}
	snap, ok := sess.(scraper.Snapshotter)
	if !ok {
		return
	}
	html, err := snap.Content()
	if err == nil {
		if err = os.MkdirAll(filepath.Dir(c.cfg.SnapshotPath), 0o755); err == nil {
			err = os.WriteFile(c.cfg.SnapshotPath, []byte(html), 0o644)
		}
	}
	if err != nil {
		c.log.Warn().Err(err).Str("path", c.cfg.SnapshotPath).Msg("could not save page snapshot")
		return
	}
	c.log.Info().Str("path", c.cfg.SnapshotPath).Msg("page snapshot saved")
}

// screenshot captures the page after a failed stage, when the session supports it.
func (c *PageCollector) screenshot(sess scraper.Session, stage Stage) string {
	shooter, ok := sess.(scraper.Screenshotter)
	if !ok || c.cfg.DebugDir == "" {
		return ""
	}
	name := fmt.Sprintf("linkedin-%s_%s.png", stage, c.now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(c.cfg.DebugDir, name)
	if err := shooter.Screenshot(path); err != nil {
		c.log.Warn().Err(err).Msg("failed to capture screenshot")
		return ""
	}
	c.log.Info().Str("path", path).Msg("📸 screenshot saved")
	return path
}

// save writes set to dest in the configured format.
func (c *PageCollector) save(set *scraper.ResultSet, dest string) error {
	format, err := export.ParseFormat(c.cfg.OutputFormat)
	if err != nil {
		return err
	}
	if err := export.WriteFile(dest, set, format); err != nil {
		return err
	}
	c.log.Info().Str("path", dest).Int("records", set.Len()).Msg("💾 data saved")
	return nil
}
