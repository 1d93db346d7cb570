package profi

import (
	"context"
	"fmt"
	"log"

	"go-profiwatch-automation/internal/config"
	"go-profiwatch-automation/internal/dedup"
	"go-profiwatch-automation/internal/scraper"
	"go-profiwatch-automation/utils"

	"github.com/playwright-community/playwright-go"
)

// ProfiScraper runs one scrape cycle against the Profi.ru backoffice board:
// locate snippets, extract records, gate them through the dedup store, fetch
// additional info for accepted ones. The page is exclusively owned by the
// scraper for the duration of a cycle.
type ProfiScraper struct {
	cfg   *config.Config
	store *dedup.OrderStore
	shots *utils.ScreenShotDebugger
}

func NewProfiScraper(cfg *config.Config, store *dedup.OrderStore) *ProfiScraper {
	return &ProfiScraper{
		cfg:   cfg,
		store: store,
		shots: utils.NewScreenShotDebugger(),
	}
}

func (s *ProfiScraper) Name() string {
	return "Profi"
}

func (s *ProfiScraper) Scrape(ctx context.Context, page playwright.Page) ([]scraper.Order, error) {
	log.Println("📋 Fetching orders board...")

	if _, err := page.Goto(s.cfg.OrdersURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		s.shots.CaptureAndLog(page, "profi-board-navigation", "🚨 Profi: orders board navigation failed")
		return nil, fmt.Errorf("failed to open orders board: %w", err)
	}
	utils.RandomDelay(1500, 2500)

	//the board is ready when the title says so and rendering settled;
	//a logged-out session never reaches this state and fails the cycle here
	if _, err := page.WaitForFunction(
		`() => document.title.includes('Заказы') && document.readyState === 'complete'`,
		nil,
		playwright.PageWaitForFunctionOptions{Timeout: playwright.Float(10000)},
	); err != nil {
		s.shots.CaptureAndLog(page, "profi-board-not-ready", "🚨 Profi: orders board did not become ready")
		return nil, fmt.Errorf("orders board did not load: %w", err)
	}

	//settle on the board the way a person would before reading it
	utils.MouseJiggle(page)
	utils.SmoothScroll(page)

	handles, err := locateValidOrders(page, s.cfg.MaxOrdersPerCycle)
	if err != nil {
		s.shots.CaptureAndLog(page, "profi-no-orders", "🚨 Profi: no order elements located")
		return nil, err
	}

	var newOrders []scraper.Order
	alreadyProcessed := 0
	dropped := 0

	for i, handle := range handles {
		if ctx.Err() != nil {
			return newOrders, ctx.Err()
		}
		log.Printf("  Processing order %d/%d", i+1, len(handles))

		element := getOrderElementSafe(page, handle)
		if element == nil {
			log.Printf("  ⚠️ Order %d unavailable after DOM redraw, abandoning", i+1)
			dropped++
			continue
		}

		raw := captureRawData(element, handle.tag)
		order := extractOrder(element, raw)

		if order.ID == "" {
			log.Printf("  ❌ Order %d: no id resolvable, dropping", i+1)
			dropped++
			continue
		}

		if !s.store.IsNewOrder(order.ID, order.DatePosted) {
			log.Printf("  ⏭️ Order %s already processed or too old", order.ID)
			alreadyProcessed++
			continue
		}

		log.Printf("  🆕 Order %s is new: %s", order.ID, order.Title)

		//detail round trip only for accepted orders
		if order.Link != "" {
			order.AdditionalInfo = getAdditionalInfo(page, order.Link)
		}

		newOrders = append(newOrders, order)
		s.store.MarkProcessed(order.ID)
	}

	log.Printf("📊 Cycle stats: %d handled, %d new, %d already processed, %d dropped",
		len(handles), len(newOrders), alreadyProcessed, dropped)

	return newOrders, nil
}
