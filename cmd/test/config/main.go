package main

import (
	"flag"
	"fmt"
	"os"

	"go-linkedin-jobs/internal/config"
)

func main() {
	path := flag.String("config", config.DefaultPath, "config file")
	flag.Parse()

	fmt.Println("🔧 Testing config loading...")
	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Job title: %q\n", cfg.JobTitle)
	fmt.Printf("   Location: %q\n", cfg.JobLocation)
	fmt.Printf("   Driver path: %s\n", cfg.DriverPath)
	fmt.Printf("   Headless: %t\n", cfg.Headless)
	fmt.Printf("   Output: %s (%s)\n", cfg.OutputDir, cfg.OutputFormat)
	fmt.Printf("   Max scroll iterations: %d\n", cfg.MaxScrollIterations)
	fmt.Printf("   Timeouts: %+v\n", cfg.Timeouts)
	fmt.Printf("   Telegram: %t\n", cfg.NotifyEnabled())
	fmt.Printf("   Result items: %s\n", cfg.Selectors.ResultItem)

	if err := cfg.Validate(); err != nil {
		fmt.Printf("⚠️ %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Config is valid")
}
