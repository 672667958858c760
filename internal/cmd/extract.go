package cmd

import (
	"path/filepath"
	"strings"

	"go-linkedin-jobs/internal/export"
	"go-linkedin-jobs/internal/htmlpage"
	"go-linkedin-jobs/internal/scraper/linkedin"
)

type ExtractCmd struct {
	HTML   string `arg:"" type:"existingfile" help:"Saved results page, as written by scrape --snapshot."`
	Title  string `help:"Job title used to name the output file. Defaults to job_title from the config."`
	Output string `short:"o" help:"Output file, or - for stdout."`
	Format string `help:"Output format: csv, tsv, json." enum:",csv,tsv,json" default:""`
}

func (e *ExtractCmd) Run(ctx *Context) error {
	cfg := *ctx.Config
	cfg.OutputFormat = resolveFormat(e.Format, e.Output, cfg.OutputFormat)
	if err := cfg.ValidateOutput(); err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}

	page, err := htmlpage.Load(e.HTML)
	if err != nil {
		return err
	}

	log := ctx.Logger.With().Str("source", e.HTML).Logger()
	collector := linkedin.NewPageCollector(&cfg, nil, log)
	set, missing, err := collector.ExtractVisible(runContext(ctx), page)
	if err != nil {
		return err
	}

	if e.Output == "-" {
		return export.Write(ctx.Out, set.Records(), format)
	}

	dest := outputPath(e.Output, cfg.OutputDir, e.title(cfg.JobTitle), format)
	if err := export.WriteFile(dest, set, format); err != nil {
		return err
	}

	ctx.UI.Successf("✅ Extracted %d jobs to %s", set.Len(), ctx.UI.Path(dest))
	if len(missing) > 0 {
		ctx.UI.Warnf("⚠️  %d fields could not be read and were left empty", len(missing))
	}
	return nil
}

func (e *ExtractCmd) title(configured string) string {
	if t := strings.TrimSpace(e.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(configured); t != "" {
		return t
	}
	base := filepath.Base(e.HTML)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
