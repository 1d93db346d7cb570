package profi

import (
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	additionalInfoSelector = `[class*="order-card-additional-info__container"]`

	additionalInfoMaxRetries = 2
	additionalInfoRetrySleep = time.Second
)

// getAdditionalInfo opens the order's own page, reads the additional-info
// paragraphs and navigates back. Two attempts total; the way back is taken
// even on failure so the board page is restored for the rest of the cycle.
// Exhausting retries yields "", never an error.
func getAdditionalInfo(page playwright.Page, orderLink string) string {
	for attempt := 1; attempt <= additionalInfoMaxRetries; attempt++ {
		currentURL := page.URL()

		_, err := page.Goto(orderLink, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(30000),
		})
		if err != nil {
			log.Printf("    ⚠️ Failed to open order page (attempt %d/%d): %v", attempt, additionalInfoMaxRetries, err)
			navigateBack(page, currentURL)
			if attempt < additionalInfoMaxRetries {
				time.Sleep(additionalInfoRetrySleep)
				continue
			}
			return ""
		}
		time.Sleep(time.Second)

		info := readAdditionalInfo(page)
		navigateBack(page, currentURL)
		return info
	}
	return ""
}

func readAdditionalInfo(page playwright.Page) string {
	container := page.Locator(additionalInfoSelector)
	count, err := container.Count()
	if err != nil || count == 0 {
		log.Println("    Additional info container not found on order page")
		return ""
	}

	paragraphs, err := container.First().Locator("p").All()
	if err != nil {
		return ""
	}

	var parts []string
	for _, p := range paragraphs {
		if text := readText(p); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func navigateBack(page playwright.Page, url string) {
	if url == "" {
		return
	}
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		log.Printf("    ⚠️ Failed to navigate back to %s: %v", url, err)
		return
	}
	time.Sleep(500 * time.Millisecond)
}
