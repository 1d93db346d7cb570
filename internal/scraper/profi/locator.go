package profi

import (
	"fmt"
	"log"
	"strings"
	"time"

	"go-profiwatch-automation/utils"

	"github.com/playwright-community/playwright-go"
)

// The board is a styled-components SPA: class names carry build hashes that
// change between deployments, so every selector chain goes from the most
// specific shape to the loosest substring match.
var containerSelectors = []string{
	"div#BOARD_GRID_CONTAINER_ID",
	`div[class*="OrderSnippetStyles__CardContainer"]`,
	`div[data-testid="ORDER_SNIPPET"]`,
}

var orderSelectors = []string{
	`a[data-testid*="_order-snippet"]`,
	`a[href*="/backoffice/n.php?o="]`,
	`div[class*="OrderSnippetStyles__CardContainer"]`,
	`div[data-testid="ORDER_SNIPPET"]`,
	`div[class*="OrderSnippetContainerStyles__Container"]`,
}

const (
	titleSelector = `h3[class*="SubjectAndPriceStyles__SubjectsText"]`
	dateSelector  = `[class*="Date__DateText"]`

	selectorWaitMs   = 5000
	maxLocateRetries = 3
)

// orderHandle is a live reference to one order element plus the selector and
// ordinal that produced it, so the element can be re-resolved after a redraw.
type orderHandle struct {
	index    int
	selector string
	element  playwright.Locator
	tag      string
}

// findOrdersContainer walks the container selector chain until one matches.
func findOrdersContainer(page playwright.Page) (string, error) {
	for _, selector := range containerSelectors {
		loc := page.Locator(selector).First()
		err := loc.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(selectorWaitMs),
		})
		if err == nil {
			log.Printf("    📦 Orders container found via selector: %s", selector)
			return selector, nil
		}
		log.Printf("    Selector %s did not match, trying next...", selector)
	}
	return "", fmt.Errorf("orders container not found by any selector")
}

// findOrderElements walks the order selector chain until one yields elements.
func findOrderElements(page playwright.Page) ([]playwright.Locator, string, error) {
	for _, selector := range orderSelectors {
		loc := page.Locator(selector)
		err := loc.First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(selectorWaitMs),
		})
		if err != nil {
			continue
		}
		elements, err := loc.All()
		if err != nil || len(elements) == 0 {
			continue
		}
		log.Printf("    📋 Found %d order elements via selector: %s", len(elements), selector)
		return elements, selector, nil
	}
	return nil, "", fmt.Errorf("no order elements matched any selector")
}

// tagName reports the lowercase tag of an element, or "" when the element is
// gone from the current render.
func tagName(element playwright.Locator) string {
	result, err := element.Evaluate("el => el.tagName.toLowerCase()", nil, playwright.LocatorEvaluateOptions{
		Timeout: playwright.Float(2000),
	})
	if err != nil {
		return ""
	}
	tag, _ := result.(string)
	return tag
}

// isValidOrderElement filters out decoration that matched a loose selector.
// Anchors must carry an order testid or an order href; containers must hold
// both a title-shaped and a date-shaped descendant.
func isValidOrderElement(element playwright.Locator, tag string) bool {
	switch tag {
	case "a":
		testID, _ := element.GetAttribute("data-testid", playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(2000),
		})
		if strings.Contains(testID, "_order-snippet") {
			return true
		}
		href, _ := element.GetAttribute("href", playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(2000),
		})
		return strings.Contains(href, "/backoffice/n.php?o=") || strings.Contains(href, "/order/")
	case "div":
		titleCount, _ := element.Locator(titleSelector).Count()
		dateCount, _ := element.Locator(dateSelector).Count()
		return titleCount > 0 && dateCount > 0
	default:
		return false
	}
}

// locateValidOrders resolves, validates and caps the order elements for one
// cycle. Ordering is document order; the cap keeps the first maxOrders.
// The whole resolution is retried with a growing delay and a scroll nudge,
// both when no selector matches and when every match fails validation:
// snippets render lazily after the container appears, so a loose selector can
// briefly see only decoration.
func locateValidOrders(page playwright.Page, maxOrders int) ([]orderHandle, error) {
	if _, err := findOrdersContainer(page); err != nil {
		return nil, err
	}

	for retry := 1; retry <= maxLocateRetries; retry++ {
		elements, selector, err := findOrderElements(page)
		if err == nil {
			if len(elements) > maxOrders {
				elements = elements[:maxOrders]
				log.Printf("    Capping processing to %d orders", maxOrders)
			}
			handles := validateOrderElements(elements, selector)
			if len(handles) > 0 {
				log.Printf("    ✅ %d valid orders out of %d elements", len(handles), len(elements))
				return handles, nil
			}
			log.Printf("    ⚠️ Attempt %d/%d: all %d elements rejected by validation", retry, maxLocateRetries, len(elements))
		} else {
			log.Printf("    ⚠️ Attempt %d/%d: %v", retry, maxLocateRetries, err)
		}

		if retry < maxLocateRetries {
			time.Sleep(time.Duration(retry) * 2 * time.Second)
			//nudge lazy content into rendering
			utils.ScrollToBottom(page)
			time.Sleep(2 * time.Second)
		}
	}
	return nil, fmt.Errorf("no valid order elements after %d attempts", maxLocateRetries)
}

func validateOrderElements(elements []playwright.Locator, selector string) []orderHandle {
	var handles []orderHandle
	for i, element := range elements {
		tag := tagName(element)
		if tag == "" {
			log.Printf("    ⚠️ Element %d vanished before validation, skipping", i+1)
			continue
		}
		if !isValidOrderElement(element, tag) {
			log.Printf("    Element %d rejected by validation (tag=%s)", i+1, tag)
			continue
		}
		handles = append(handles, orderHandle{
			index:    i,
			selector: selector,
			element:  element,
			tag:      tag,
		})
	}
	return handles
}

// getOrderElementSafe returns a live element for the handle. If the original
// reference went stale it re-resolves by the recorded selector and ordinal;
// when re-resolution yields fewer elements than the ordinal requires, the
// handle is unrecoverable for this cycle and nil is returned.
func getOrderElementSafe(page playwright.Page, handle orderHandle) playwright.Locator {
	if tagName(handle.element) != "" {
		return handle.element
	}

	log.Printf("    ⚠️ Order element %d went stale, re-resolving...", handle.index+1)
	if handle.selector == "" {
		return nil
	}

	elements, err := page.Locator(handle.selector).All()
	if err != nil {
		log.Printf("    ⚠️ Re-resolution failed: %v", err)
		return nil
	}
	if handle.index >= len(elements) {
		log.Printf("    ⚠️ Re-resolution returned %d elements, index %d out of range", len(elements), handle.index)
		return nil
	}
	return elements[handle.index]
}
