package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go-linkedin-jobs/internal/browser"
	"go-linkedin-jobs/internal/config"
	"go-linkedin-jobs/internal/export"
	"go-linkedin-jobs/internal/scraper"
	"go-linkedin-jobs/internal/scraper/linkedin"
	"go-linkedin-jobs/internal/telegram"
	"go-linkedin-jobs/internal/ui"
)

type ScrapeCmd struct {
	Title       string        `arg:"" optional:"" help:"Job title to search for. Defaults to job_title from the config."`
	Location    string        `short:"l" help:"Job location. Defaults to job_location from the config."`
	Output      string        `short:"o" help:"Output file. Defaults to linkedIn_<title>.<format> in output_dir."`
	Format      string        `help:"Output format: csv, tsv, json." enum:",csv,tsv,json" default:""`
	DriverPath  string        `help:"Playwright driver directory." type:"path"`
	BrowserPath string        `help:"Chromium executable to launch instead of the bundled one." type:"path"`
	Cookies     string        `help:"JSON cookie export to load into the browser." type:"path"`
	Headed      bool          `help:"Show the browser window."`
	MaxScrolls  int           `help:"Upper bound on scroll iterations."`
	Timeout     time.Duration `help:"Deadline for the whole run."`
	Snapshot    string        `help:"Save the results page HTML here for the extract command." type:"path"`
	Notify      bool          `help:"Send a Telegram summary when the run ends."`
}

func (s *ScrapeCmd) Run(ctx *Context) error {
	cfg := *ctx.Config
	s.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s.Notify && !cfg.NotifyEnabled() {
		return errors.New("--notify requires telegram_token and telegram_chat_id")
	}

	query, err := scraper.NewSearchQuery(cfg.JobTitle, cfg.JobLocation)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}
	dest := outputPath(s.Output, cfg.OutputDir, query.Title, format)

	log := ctx.Logger.With().Str("scraper", "linkedin").Logger()
	collector := linkedin.NewPageCollector(&cfg, browser.Opener(&cfg, log), log)

	stop := func() {}
	if !ctx.Verbose {
		stop = ctx.UI.StartIndicator("Searching LinkedIn...")
	}
	report, runErr := collector.Run(runContext(ctx), query, dest)
	stop()

	printReport(ctx.UI, report)

	if s.Notify {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err == nil {
			err = bot.SendReport(report, runErr)
		}
		if err != nil {
			ctx.Logger.Warn().Err(err).Msg("telegram notification failed")
		} else {
			ctx.Logger.Info().Msg("📨 telegram summary sent")
		}
	}
	return runErr
}

// apply copies flags that were set onto cfg.
func (s *ScrapeCmd) apply(cfg *config.Config) {
	if title := strings.TrimSpace(s.Title); title != "" {
		cfg.JobTitle = title
	}
	if s.Location != "" {
		cfg.JobLocation = s.Location
	}
	if s.DriverPath != "" {
		cfg.DriverPath = s.DriverPath
	}
	if s.BrowserPath != "" {
		cfg.BrowserPath = s.BrowserPath
	}
	if s.Cookies != "" {
		cfg.CookiesPath = s.Cookies
	}
	if s.Headed {
		cfg.Headless = false
	}
	if s.MaxScrolls > 0 {
		cfg.MaxScrollIterations = s.MaxScrolls
	}
	if s.Timeout > 0 {
		cfg.Timeouts.Run = s.Timeout
	}
	if s.Snapshot != "" {
		cfg.SnapshotPath = s.Snapshot
	}
	cfg.OutputFormat = resolveFormat(s.Format, s.Output, cfg.OutputFormat)
}

// resolveFormat picks the explicit flag, then the output file extension, then the configured format.
func resolveFormat(flag, output, configured string) string {
	if flag != "" {
		return flag
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(output), ".")); ext {
	case config.FormatCSV, config.FormatTSV, config.FormatJSON:
		return ext
	}
	return configured
}

func outputPath(output, dir, title string, format export.Format) string {
	if output != "" {
		return output
	}
	return filepath.Join(dir, export.DefaultFileName(title, format))
}

func runContext(ctx *Context) context.Context {
	if ctx.Ctx == nil {
		return context.Background()
	}
	return ctx.Ctx
}

func printReport(u *ui.UI, report *linkedin.Report) {
	if report == nil {
		return
	}
	if report.Output != "" {
		u.Successf("✅ Saved %d jobs to %s", report.Records, u.Path(report.Output))
	}
	if n := len(report.Incomplete); n > 0 {
		u.Warnf("⚠️  %d fields could not be read and were left empty", n)
	}
	if report.Expand.Reason != "" {
		u.Infof("Stopped after %d scrolls and %d clicks: %s", report.Expand.Iterations, report.Expand.Clicks, report.Expand.Reason)
	}
	if report.Screenshot != "" {
		u.Warnf("📸 Screenshot of the failed %s step: %s", report.FailedStage, u.Path(report.Screenshot))
	}
}
