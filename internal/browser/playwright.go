package browser

import (
	"context"
	"fmt"
	"sync"

	"go-linkedin-jobs/internal/config"
	"go-linkedin-jobs/internal/scraper"

	"github.com/hashicorp/go-multierror"
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// PlaywrightManager owns the driver process and the launched browser.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	log     zerolog.Logger
}

// NewPlaywright starts the driver found at cfg.DriverPath (or the default install) and launches Chromium.
func NewPlaywright(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run(&playwright.RunOptions{
		DriverDirectory:     cfg.DriverPath,
		SkipInstallBrowsers: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Timeout:  playwright.Float(float64(cfg.Timeouts.Navigation.Milliseconds())),
	}
	if cfg.BrowserPath != "" {
		launch.ExecutablePath = playwright.String(cfg.BrowserPath)
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	log.Debug().Bool("headless", cfg.Headless).Str("driver", cfg.DriverPath).Msg("browser launched")
	return &PlaywrightManager{pw: pw, browser: browser, log: log}, nil
}

// NewContext opens a fresh browser context with the given cookies preloaded.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1440, Height: 900},
		Locale:   playwright.String("en-US"),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return bctx, nil
}

// Close shuts the browser down and stops the driver.
func (pm *PlaywrightManager) Close() error {
	var result error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close browser: %w", err))
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil {
			result = multierror.Append(result, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return result
}

// Session is one browser, one context and one page. It implements scraper.Session.
type Session struct {
	manager *PlaywrightManager
	bctx    playwright.BrowserContext
	page    *Page

	closeOnce sync.Once
	closeErr  error
}

// Opener returns a scraper.Opener that launches a new Playwright session per call.
func Opener(cfg *config.Config, log zerolog.Logger) scraper.Opener {
	return func(ctx context.Context) (scraper.Session, error) {
		return Open(ctx, cfg, log)
	}
}

// Open launches the browser, loads cookies from cfg.CookiesPath when set and opens a page.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Session, error) {
	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		loaded, err := LoadCookies(cfg.CookiesPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.CookiesPath).Msg("could not load cookies, continuing without them")
		} else {
			log.Info().Int("count", len(loaded)).Msg("🍪 cookies loaded")
			cookies = loaded
		}
	}

	pm, err := NewPlaywright(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	bctx, err := pm.NewContext(cookies)
	if err != nil {
		_ = pm.Close()
		return nil, err
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = pm.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.Timeouts.Element.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(cfg.Timeouts.Navigation.Milliseconds()))

	return &Session{
		manager: pm,
		bctx:    bctx,
		page:    NewPage(page),
	}, nil
}

func (s *Session) Page() scraper.Page {
	return s.page
}

// Close releases the context, browser and driver. Only the first call does any work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var result error
		if err := s.bctx.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close context: %w", err))
		}
		if err := s.manager.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		s.closeErr = result
	})
	return s.closeErr
}

// Content returns the current page HTML.
func (s *Session) Content() (string, error) {
	return s.page.raw.Content()
}

// Screenshot captures the full page to path.
func (s *Session) Screenshot(path string) error {
	return CaptureFullPage(s.page.raw, path)
}
