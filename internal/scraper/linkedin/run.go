package linkedin

import (
	"context"
	"fmt"
	"strings"

	"go-linkedin-jobs/internal/scraper"

	"github.com/hashicorp/go-multierror"
)

type Stage string

const (
	StageOpen     Stage = "open"
	StageNavigate Stage = "navigate"
	StageSearch   Stage = "search"
	StageExpand   Stage = "expand"
	StageExtract  Stage = "extract"
	StageSave     Stage = "save"
)

// StageError names the step of a run that failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Report summarises one run, successful or not.
type Report struct {
	Query       scraper.SearchQuery `json:"query"`
	Records     int                 `json:"records"`
	Incomplete  []scraper.Missing   `json:"incomplete,omitempty"`
	Expand      ExpandResult        `json:"expand"`
	Output      string              `json:"output,omitempty"`
	Screenshot  string              `json:"screenshot,omitempty"`
	FailedStage Stage               `json:"failed_stage,omitempty"`
}

// Run opens a session, searches, expands, extracts and saves to dest. The session is always released.
//
// Failures come back as *StageError (several are combined). Records collected before a failure are
// still written to dest; when nothing was collected dest is left untouched.
func (c *PageCollector) Run(ctx context.Context, query scraper.SearchQuery, dest string) (*Report, error) {
	report := &Report{Query: query}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeouts.Run)
	defer cancel()

	var errs *multierror.Error
	fail := func(sess scraper.Session, stage Stage, err error) {
		c.log.Error().Err(err).Str("stage", string(stage)).Msg("❌ stage failed")
		if report.FailedStage == "" {
			report.FailedStage = stage
			if sess != nil {
				report.Screenshot = c.screenshot(sess, stage)
			}
		}
		errs = multierror.Append(errs, &StageError{Stage: stage, Err: err})
	}
	result := func() error {
		if errs == nil {
			return nil
		}
		errs.ErrorFormat = joinErrors
		return errs.ErrorOrNil()
	}

	c.log.Info().Str("title", query.Title).Str("location", query.Location).Msg("💼 starting LinkedIn job search")

	sess, err := c.open(ctx)
	if err != nil {
		fail(nil, StageOpen, err)
		return report, result()
	}
	defer func() {
		if err := sess.Close(); err != nil {
			c.log.Warn().Err(err).Msg("failed to release browser session")
		} else {
			c.log.Debug().Msg("browser session released")
		}
	}()
	page := sess.Page()

	if err := page.Navigate(ctx, c.cfg.LandingURL); err != nil {
		fail(sess, StageNavigate, err)
		return report, result()
	}
	if err := c.SubmitSearch(ctx, page, query); err != nil {
		fail(sess, StageSearch, err)
		return report, result()
	}

	expand, err := c.ExpandAllResults(ctx, page)
	report.Expand = expand
	if err != nil {
		fail(sess, StageExpand, err)
	}

	// extract what is rendered even after an expand failure or a passed run deadline
	extractCtx := ctx
	if ctx.Err() != nil {
		var cancelExtract context.CancelFunc
		extractCtx, cancelExtract = context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeouts.Element)
		defer cancelExtract()
	}

	c.snapshot(sess)
	set, missing, err := c.ExtractVisible(extractCtx, page)
	report.Records = set.Len()
	report.Incomplete = missing
	if err != nil {
		fail(sess, StageExtract, err)
	}

	if set.Len() == 0 && errs != nil {
		c.log.Warn().Msg("nothing collected, output left untouched")
		return report, result()
	}
	if err := c.save(set, dest); err != nil {
		fail(sess, StageSave, err)
		return report, result()
	}
	report.Output = dest

	return report, result()
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
