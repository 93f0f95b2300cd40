package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-upwork-opener/internal/browser"
	"go-upwork-opener/internal/config"
	"go-upwork-opener/internal/database"
	"go-upwork-opener/internal/dedup"
	"go-upwork-opener/internal/messages"
	"go-upwork-opener/internal/runner"
	"go-upwork-opener/internal/telegram"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Start page: %s", cfg.StartURL)

	//init telegram bot, optional
	var bot *telegram.Bot
	if cfg.TelegramEnabled() {
		b, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			bot = b
			log.Println("🤖 Telegram Bot initialized.")
		}
	}

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("🚀 Starting Upwork job opener...")

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
	} else {
		log.Printf("🍪 Loaded upwork cookies (%d)", len(cookies))
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

	log.Printf("🌐 Navigating to %s", cfg.StartURL)
	if err := page.Navigate(ctx, cfg.StartURL, cfg.SettleTime()); err != nil {
		log.Printf("⚠️ Navigation incomplete: %v", err)
	}

	transport := &messages.LocalTransport{
		Page: page,
		Tabs: browser.NewTabOpener(browserCtx, rawPage),
	}

	var seen runner.SeenStore
	if cfg.SkipSeen {
		cache := dedup.NewJobCache(cfg.CachePath)
		log.Printf("💾 Seen cache holds %d jobs", cache.Len())
		seen = cache
	}

	policy := runner.Policy{
		MaxTabs:          cfg.MaxTabs,
		OpenInBackground: *cfg.OpenInBackground,
		Delay:            cfg.Delay(),
		MaxAgeMinutes:    cfg.MaxAgeMinutes,
	}
	sum, runErr := runner.New(transport, policy, seen).Run(ctx)
	log.Printf("📊 %s", sum.Status)

	if runErr == nil && sum.Found == 0 {
		debugger := browser.NewScreenShotDebugger("")
		_ = debugger.CaptureAndLog(rawPage, "no_jobs", "No job links recognized, saving the page for a look")
	}

	if len(sum.OpenedURLs) > 0 && cfg.DatabaseURL != "" {
		recordHistory(ctx, cfg.DatabaseURL, sum.OpenedURLs)
	}

	if bot != nil {
		if err := bot.SendSummary(sum); err != nil {
			log.Printf("⚠️ Failed to send summary to Telegram: %v", err)
		}
		if runErr != nil && !errors.Is(runErr, runner.ErrNotUpworkPage) {
			if err := bot.SendError(runErr); err != nil {
				log.Printf("⚠️ Failed to send error to Telegram: %v", err)
			}
		}
	}

	if runErr != nil {
		var openErr *runner.OpenError
		if errors.As(runErr, &openErr) {
			fatalf("❌ Stopped after %d tabs: %s", openErr.Opened, openErr.Msg)
		}
		fatalf("❌ Run failed: %v", runErr)
	}

	log.Println("✅ Done. Tabs stay open until you close the browser (Ctrl+C).")
	if !cfg.Headless && sum.Opened > 0 {
		waitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-waitCtx.Done()
	}
}

func recordHistory(ctx context.Context, dbURL string, urls []string) {
	repo, err := database.ConnectDB(ctx, dbURL)
	if err != nil {
		log.Printf("⚠️ History not recorded: %v", err)
		return
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("⚠️ History not recorded: %v", err)
		return
	}
	if err := repo.RecordOpened(ctx, urls); err != nil {
		log.Printf("⚠️ History not recorded: %v", err)
		return
	}
	log.Printf("🗄️ Recorded %d opened jobs", len(urls))
}
