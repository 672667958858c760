package main

import (
	"flag"
	"fmt"
	"os"

	"go-linkedin-jobs/internal/browser"
)

func main() {
	path := flag.String("file", ".cookies/cookies-linkedin.json", "cookie export to check")
	flag.Parse()

	fmt.Printf("🍪 Testing cookie loading from %s...\n", *path)

	cookies, err := browser.LoadCookies(*path)
	if err != nil {
		fmt.Printf("❌ Failed to load cookies: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	for _, c := range cookies {
		secure := c.Secure != nil && *c.Secure
		fmt.Printf("   %s (%s) secure=%t\n", c.Name, *c.Domain, secure)
	}
}
