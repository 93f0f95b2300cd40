package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go-upwork-opener/internal/browser"
	"go-upwork-opener/internal/config"
	"go-upwork-opener/internal/messages"
	"go-upwork-opener/internal/server"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pwManager, err := browser.NewPlaywright(ctx, cfg.Headless)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()
	//log.Fatalf skips deferred calls
	fatalf := func(format string, args ...any) {
		pwManager.Close()
		log.Fatalf(format, args...)
	}

	cookies, err := browser.LoadCookies(filepath.Join(cfg.CookiesPath, "cookies-upwork.json"))
	if err != nil {
		log.Printf("⚠️ Could not load upwork cookies: %v. Continuing logged out.", err)
	}

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		fatalf("❌ Failed to create browser context: %v", err)
	}
	rawPage, err := browserCtx.NewPage()
	if err != nil {
		fatalf("❌ Failed to create new page: %v", err)
	}
	page := browser.NewPage(rawPage)
	if err := page.Navigate(ctx, cfg.StartURL, cfg.SettleTime()); err != nil {
		log.Printf("⚠️ Navigation incomplete: %v", err)
	}

	transport := &messages.LocalTransport{
		Page: page,
		Tabs: browser.NewTabOpener(browserCtx, rawPage),
	}
	r := server.New(transport, cfg.OpenRequestsPerMinute).Router()

	go func() {
		log.Printf("Server listening on %s", cfg.ServerAddr)
		if err := r.Run(cfg.ServerAddr); err != nil {
			fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("👋 Shutting down, closing browser")
}
