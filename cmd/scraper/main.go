package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"go-profiwatch-automation/internal/browser"
	"go-profiwatch-automation/internal/config"
	"go-profiwatch-automation/internal/database"
	"go-profiwatch-automation/internal/dedup"
	"go-profiwatch-automation/internal/filter"
	"go-profiwatch-automation/internal/scraper"
	"go-profiwatch-automation/internal/scraper/profi"
	"go-profiwatch-automation/internal/telegram"

	"github.com/playwright-community/playwright-go"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Filter mode: %s, interval: %ds", cfg.FilterMode, cfg.ParseIntervalSeconds)

	//runtime-adjustable interval (seconds), toggled via the /interval command
	var intervalSeconds atomic.Int64
	intervalSeconds.Store(int64(cfg.ParseIntervalSeconds))

	//init dedup store
	store := dedup.NewOrderStore(cfg.CachePath, cfg.MaxOrderAge())
	guard := dedup.NewShortTermGuard()

	//init telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatalf("❌ Failed to init Telegram Bot: %v", err)
	}
	bot.SetInterval = func(seconds int) (int, bool) {
		clamped := config.ClampInterval(seconds)
		if clamped != seconds {
			return int(intervalSeconds.Load()), false
		}
		intervalSeconds.Store(int64(clamped))
		return clamped, true
	}
	bot.Status = func() string {
		return fmt.Sprintf("Интервал: %d сек. Обработано заказов: %d.", intervalSeconds.Load(), store.Size())
	}
	go bot.ListenCommands()
	log.Println("🤖 Telegram Bot initialized.")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Println("🚀 Starting Profi order watcher...")

	//init playwright manager
	pwManager, err := browser.NewPlaywright(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()

	//load session cookies; without them the board never reaches ready state
	cookies, err := browser.LoadCookies(filepath.Join(cfg.CookiesPath, "cookies-profi.json"))
	if err != nil {
		log.Printf("⚠️ Could not load profi cookies: %v. Continuing.", err)
	} else {
		log.Printf("🍪 Loaded profi cookies (%d)", len(cookies))
	}

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		log.Fatalf("❌ Failed to create browser context: %v", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		log.Fatalf("❌ Failed to create new page: %v", err)
	}
	log.Println("✅ Browser initialized successfully!")

	//optional Postgres archive
	var repo *database.Repository
	if cfg.DatabaseURL != "" {
		repo, err = database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Order archive unavailable: %v. Continuing without it.", err)
			repo = nil
		} else {
			defer repo.Close()
			log.Println("🗄️ Order archive connected.")
		}
	}

	profiScraper := profi.NewProfiScraper(cfg, store)
	kwFilter := filter.NewKeywordFilter(cfg.FilterMode, cfg.IncludedWordsPath, cfg.ExcludedWordsPath)

	workStart, workEnd := parseWorkHours(cfg.WorkStart, cfg.WorkEnd)

	//main loop: cycles never overlap, the next one starts only after the
	//previous one fully completed or failed
	for {
		if ctx.Err() != nil {
			break
		}

		switch {
		case !isWorkTime(time.Now(), workStart, workEnd):
			log.Println("💤 Outside work hours, skipping cycle")
		case !bot.IsRunning():
			log.Println("⏸️ Delivery paused via /stop, skipping cycle")
		default:
			runCycle(ctx, page, profiScraper, kwFilter, guard, bot, repo)
		}

		interval := time.Duration(intervalSeconds.Load()) * time.Second
		select {
		case <-ctx.Done():
		case <-time.After(interval):
		}
	}

	log.Println("🏁 Shutting down.")
}

func runCycle(ctx context.Context, page playwright.Page, profiScraper *profi.ProfiScraper,
	kwFilter *filter.KeywordFilter, guard *dedup.ShortTermGuard, bot *telegram.Bot, repo *database.Repository) {

	//cycle-level failures produce zero orders and the loop carries on
	orders, err := profiScraper.Scrape(ctx, page)
	if err != nil {
		log.Printf("❌ Scrape cycle failed: %v", err)
		return
	}
	if len(orders) == 0 {
		log.Println("No new orders this cycle")
		return
	}

	//short-term guard: same id re-listed with changed metadata within one run
	var unseen []scraper.Order
	for _, order := range orders {
		key := dedup.CompositeKey(order.ID, order.DatePosted, order.Title)
		if guard.Seen(key) {
			log.Printf("⏭️ Order %s already seen this run", order.ID)
			continue
		}
		guard.Remember(key)
		unseen = append(unseen, order)
	}

	filtered := kwFilter.FilterOrders(unseen)
	log.Printf("📦 %d new orders, %d after keyword filtering", len(unseen), len(filtered))
	if len(filtered) == 0 {
		return
	}

	sent := 0
	failed := 0
	for _, order := range filtered {
		log.Printf("📤 Sending order %s: %.50s", order.ID, order.Title)
		if err := bot.SendOrder(order); err != nil {
			failed++
			log.Printf("⚠️ Failed to send order %s: %v", order.ID, err)
		} else {
			sent++
			if repo != nil {
				if err := repo.SaveOrder(ctx, order); err != nil {
					log.Printf("⚠️ Failed to archive order %s: %v", order.ID, err)
				}
			}
		}
		//fixed delay between deliveries to avoid flood control
		time.Sleep(1 * time.Second)
	}

	log.Printf("📤 Delivery stats: sent %d of %d, failed %d", sent, len(filtered), failed)
	if sent > 0 {
		if err := bot.SendStatus(fmt.Sprintf("Отправлено %d новых заказов.", sent)); err != nil {
			log.Printf("⚠️ Failed to send status: %v", err)
		}
	}
}

func parseWorkHours(start, end string) (time.Time, time.Time) {
	workStart, err := time.Parse("15:04", start)
	if err != nil {
		log.Printf("⚠️ Invalid work_start %q, using 06:00", start)
		workStart, _ = time.Parse("15:04", "06:00")
	}
	workEnd, err := time.Parse("15:04", end)
	if err != nil {
		log.Printf("⚠️ Invalid work_end %q, using 22:00", end)
		workEnd, _ = time.Parse("15:04", "22:00")
	}
	return workStart, workEnd
}

func isWorkTime(now time.Time, workStart, workEnd time.Time) bool {
	minutes := now.Hour()*60 + now.Minute()
	startMinutes := workStart.Hour()*60 + workStart.Minute()
	endMinutes := workEnd.Hour()*60 + workEnd.Minute()
	return minutes >= startMinutes && minutes <= endMinutes
}
