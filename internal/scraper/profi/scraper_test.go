package profi

import (
	"context"
	"testing"
	"time"

	"go-profiwatch-automation/internal/config"
	"go-profiwatch-automation/internal/dedup"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//helper start mock browser
func setupPlaywright(t *testing.T) (*playwright.Playwright, playwright.Browser, playwright.Page) {
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("could not launch playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("could not launch browser: %v", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	return pw, browser, page
}

func testConfig() *config.Config {
	return &config.Config{
		OrdersURL:         "https://profi.ru/backoffice/n.php",
		MaxOrderAgeHours:  2,
		MaxOrdersPerCycle: 10,
	}
}

const mockBoardHTML = `<html><head><title>Заказы — Профи</title></head><body>
<div id="BOARD_GRID_CONTAINER_ID">
  <div class="OrderSnippetStyles__CardContainer-sc-aaa111">
    <a data-testid="80340822_order-snippet" href="https://profi.ru/backoffice/n.php?o=80340822">
      <h3 class="SubjectAndPriceStyles__SubjectsText-sc-bbb222">Настроить Яндекс Директ</h3>
      <span class="SubjectAndPriceStyles__PriceLine-sc-ccc333">до 10 000 ₽</span>
      <span class="StatusAndClientInfoStyles__Name-sc-ddd444">Анна</span>
      <span class="PrefixText-sc-eee555">Москва</span>
      <span class="Date__DateText-sc-fff666">5 минут назад</span>
      <p class="SnippetBodyStyles__MainInfo-sc-ggg777">Нужна настройка кампании</p>
    </a>
  </div>
  <div class="OrderSnippetStyles__CardContainer-sc-aaa111">
    <a data-testid="80340823_order-snippet" href="https://profi.ru/backoffice/n.php?o=80340823">
      <h3 class="SubjectAndPriceStyles__SubjectsText-sc-bbb222">Аудит рекламных кампаний</h3>
      <span class="Date__DateText-sc-fff666">10 минут назад</span>
      <p class="SnippetBodyStyles__MainInfo-sc-ggg777">Нужен аудит Директа и Adwords</p>
    </a>
  </div>
</div>
</body></html>`

func TestProfiScraper_Scrape_MockBoard(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	//route everything back to the mock board
	page.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status: playwright.Int(200),
			Body:   mockBoardHTML,
		})
	})

	store := dedup.NewOrderStore(t.TempDir(), 2*time.Hour)
	scraper := NewProfiScraper(testConfig(), store)

	orders, err := scraper.Scrape(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "80340822", first.ID)
	assert.Equal(t, "Настроить Яндекс Директ", first.Title)
	assert.Equal(t, "до 10 000 ₽", first.Budget)
	assert.Equal(t, "Анна", first.ClientName)
	assert.Equal(t, "Москва", first.Location)
	assert.Equal(t, "5 минут назад", first.DatePosted)
	assert.Equal(t, "Нужна настройка кампании", first.MainInfo)
	assert.Contains(t, first.Link, "o=80340822")

	second := orders[1]
	assert.Equal(t, "80340823", second.ID)
	assert.Equal(t, "Нужен аудит Директа и Adwords", second.MainInfo)

	//a second cycle over the same board yields nothing new
	again, err := scraper.Scrape(context.Background(), page)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestLocateValidOrders_DecorationOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	//the loose container selector matches, but nothing inside is an order:
	//resolution must retry and then fail instead of returning an empty batch
	page.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status: playwright.Int(200),
			Body: `<html><head><title>Заказы — Профи</title></head><body>
<div id="BOARD_GRID_CONTAINER_ID">
  <div class="OrderSnippetStyles__CardContainer-sc-zzz999">
    <span class="Banner">Реклама сервиса</span>
  </div>
</div>
</body></html>`,
		})
	})

	_, err := page.Goto("https://profi.ru/backoffice/n.php")
	require.NoError(t, err)

	handles, err := locateValidOrders(page, 10)
	assert.Error(t, err)
	assert.Empty(t, handles)
}

func TestGetOrderElementSafe_Redraw(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	page.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status: playwright.Int(200),
			Body:   mockBoardHTML,
		})
	})

	_, err := page.Goto("https://profi.ru/backoffice/n.php")
	require.NoError(t, err)

	handles, err := locateValidOrders(page, 10)
	require.NoError(t, err)
	require.Len(t, handles, 2)

	//a dead reference re-resolves through the recorded selector and ordinal
	stale := orderHandle{
		index:    1,
		selector: handles[1].selector,
		element:  page.Locator("#gone-from-dom"),
		tag:      "a",
	}
	element := getOrderElementSafe(page, stale)
	require.NotNil(t, element)
	testID, err := element.GetAttribute("data-testid")
	require.NoError(t, err)
	assert.Equal(t, "80340823_order-snippet", testID)

	//board redraw drops the first card; ordinal 1 is now out of range and the
	//handle is abandoned for the cycle
	_, err = page.Evaluate(`() => document.querySelectorAll('div[class*="OrderSnippetStyles__CardContainer"]')[0].remove()`)
	require.NoError(t, err)

	assert.Nil(t, getOrderElementSafe(page, handles[1]))
}

func TestProfiScraper_Scrape_LoggedOut(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	//an expired session lands on the login page instead of the board
	page.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status: playwright.Int(200),
			Body:   `<html><head><title>Вход — Профи</title></head><body><h1>Войдите в аккаунт</h1></body></html>`,
		})
	})

	store := dedup.NewOrderStore(t.TempDir(), 2*time.Hour)
	scraper := NewProfiScraper(testConfig(), store)

	orders, err := scraper.Scrape(context.Background(), page)
	assert.Error(t, err)
	assert.Empty(t, orders)
}
