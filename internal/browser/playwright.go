package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywright(ctx context.Context) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	return &PlaywrightManager{
		pw:      pw,
		browser: browser,
	}, nil
}

// NewContext creates a browser context pre-loaded with session cookies.
// Authentication itself happens outside this program; a valid cookie jar is
// the precondition for every scrape cycle.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
		Locale:    playwright.String("ru-RU"),
		Viewport: &playwright.Size{
			Width:  1366,
			Height: 768,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			browserCtx.Close()
			return nil, fmt.Errorf("failed to add cookies: %w", err)
		}
	}

	return browserCtx, nil
}

func (pm *PlaywrightManager) Close() error {
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			return err
		}
	}
	if pm.pw != nil {
		return pm.pw.Stop()
	}
	return nil
}
