package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-linkedin-jobs/internal/browser"
	"go-linkedin-jobs/internal/config"

	"github.com/rs/zerolog"
)

// Opens the landing page in a real browser, prints the page height and takes a screenshot.
func main() {
	configPath := flag.String("config", config.DefaultPath, "config file")
	shot := flag.String("screenshot", "linkedin-test.png", "screenshot path")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	fmt.Println("🌐 Testing browser session...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.Headless = false

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Navigation*2)
	defer cancel()

	sess, err := browser.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open browser session")
	}
	defer sess.Close()
	fmt.Println("✅ Browser session opened")

	page := sess.Page()
	fmt.Printf("🔍 Navigating to %s...\n", cfg.LandingURL)
	if err := page.Navigate(ctx, cfg.LandingURL); err != nil {
		log.Error().Err(err).Msg("failed to navigate")
		return
	}

	height, err := page.ScrollHeight(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read page height")
	}
	fmt.Printf("✅ Page height: %d\n", height)

	if _, err := page.Query(ctx, cfg.Selectors.JobsNav); err != nil {
		fmt.Printf("⚠️ Jobs link not found: %v\n", err)
	} else {
		fmt.Println("✅ Jobs link found")
	}

	if err := sess.Screenshot(*shot); err != nil {
		log.Error().Err(err).Msg("failed to take screenshot")
	} else {
		fmt.Printf("📸 Screenshot saved: %s\n", *shot)
	}
	fmt.Println("✨ Test complete!")
}
