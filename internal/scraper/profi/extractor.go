package profi

import (
	"log"
	"regexp"
	"strings"

	"go-profiwatch-automation/internal/scraper"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/text/unicode/norm"
)

// Field defaults when every fallback path comes up empty.
const (
	defaultTitle    = "Без названия"
	defaultLocation = "Не указана"
	defaultDate     = "Не указано"
)

const (
	ancestorContainerXPath = `xpath=ancestor::div[contains(@class, "OrderSnippet") or contains(@class, "SnippetBody") or contains(@data-testid, "ORDERS_BOARD")]`

	innerLinkSelector = `a[data-testid*="_order-snippet"], a[href*="/order/"], a[href*="o="], a[href*="/backoffice/n.php"]`

	readTimeoutMs = 2000
)

// Field selector chains, most specific first. Each chain is walked one
// selector at a time: a CSS comma list resolves in document order, which lets
// a loose pattern shadow a specific one (the title's class carries "Price").
var (
	titleSelectorChain    = []string{`h3[class*="SubjectAndPriceStyles__SubjectsText"]`, `h3[class*="SubjectsText"]`, `[class*="SubjectsText"]`}
	budgetSelectorChain   = []string{`[class*="SubjectAndPriceStyles__PriceLine"]`, `[class*="PriceValue"]`}
	clientSelectorChain   = []string{`[class*="StatusAndClientInfoStyles__Name"]`, `[class*="ClientName"]`}
	locationSelectorChain = []string{`[class*="PrefixText"]`, `[class*="Location"]`, `[aria-label*="Дистанционно"]`}
	dateSelectorChain     = []string{`[class*="Date__DateText"]`, `[class*="DateText"]`}
	mainInfoSelectorChain = []string{`[class*="SnippetBodyStyles__MainInfo"]`, `[class*="MainInfo"]`, `p[class*="sc-xb0Fq"]`}
)

// LinkData is one hyperlink discovered on an order element.
type LinkData struct {
	Href   string
	TestID string
}

// RawOrderData is everything read off a live order element before it can go
// stale. Extraction below works on this snapshot only, which keeps it pure and
// repeatable.
type RawOrderData struct {
	Tag        string
	Attributes map[string]string
	Text       string
	Links      []LinkData
}

var capturedAttributes = []string{"data-testid", "data-order-id", "data-id", "id", "onclick", "aria-label"}

// normalizeText trims and NFC-normalizes scraped text; the board mixes
// composed and decomposed Cyrillic depending on the render path.
func normalizeText(str string) string {
	return strings.TrimSpace(norm.NFC.String(str))
}

func readAttribute(element playwright.Locator, name string) string {
	value, err := element.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(readTimeoutMs),
	})
	if err != nil {
		return ""
	}
	return value
}

func readText(element playwright.Locator) string {
	text, err := element.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(readTimeoutMs),
	})
	if err != nil {
		return ""
	}
	return normalizeText(text)
}

// firstText walks a selector chain scoped to container and returns the first
// non-empty text, or "".
func firstText(container playwright.Locator, selectors []string) string {
	for _, selector := range selectors {
		loc := container.Locator(selector)
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		if text := readText(loc.First()); text != "" {
			return text
		}
	}
	return ""
}

// captureRawData snapshots attributes, visible text and links from a live
// element. Anchors with no text of their own borrow the ancestor card's text.
func captureRawData(element playwright.Locator, tag string) RawOrderData {
	raw := RawOrderData{
		Tag:        tag,
		Attributes: make(map[string]string),
	}

	for _, name := range capturedAttributes {
		if value := readAttribute(element, name); value != "" {
			raw.Attributes[name] = value
		}
	}

	raw.Text = readText(element)
	if raw.Text == "" && tag == "a" {
		ancestor := element.Locator(ancestorContainerXPath)
		if count, _ := ancestor.Count(); count > 0 {
			raw.Text = readText(ancestor.First())
		}
	}

	if tag == "a" {
		href := raw.Attributes["href"]
		if href == "" {
			href = readAttribute(element, "href")
		}
		testID := raw.Attributes["data-testid"]
		if href != "" || testID != "" {
			raw.Links = append(raw.Links, LinkData{Href: href, TestID: testID})
		}
	} else {
		links, err := element.Locator(innerLinkSelector).All()
		if err == nil {
			for _, link := range links {
				href := readAttribute(link, "href")
				testID := readAttribute(link, "data-testid")
				if href != "" || testID != "" {
					raw.Links = append(raw.Links, LinkData{Href: href, TestID: testID})
				}
			}
		}
	}

	return raw
}

var (
	reSnippetID  = regexp.MustCompile(`(\d+)_order-snippet`)
	reAnyDigits  = regexp.MustCompile(`(\d+)`)
	reOrderPath  = regexp.MustCompile(`/order/(\d+)`)
	reOrderParam = regexp.MustCompile(`o=(\d+)`)

	// Free-text order-number markers, tightest first. The bare digit run is
	// last because titles can embed prices and phone fragments.
	textIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`№\s*(\d+)`),
		regexp.MustCompile(`(?i)Заказ\s*№?\s*(\d+)`),
		regexp.MustCompile(`(?i)ID:\s*(\d+)`),
		regexp.MustCompile(`(?i)Номер:\s*(\d+)`),
		regexp.MustCompile(`\b(\d{6,})\b`),
	}
)

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// ExtractOrderID derives the order id from a snapshot, trying each source in
// priority order. Returns "" when every path fails; such orders are dropped
// before deduplication.
func ExtractOrderID(raw RawOrderData) string {
	//1: data-testid, "80340822_order-snippet" shape first, then loose digits
	if testID := raw.Attributes["data-testid"]; testID != "" {
		if id := firstGroup(reSnippetID, testID); id != "" {
			return id
		}
		if id := firstGroup(reAnyDigits, testID); id != "" {
			return id
		}
	}

	//2: dedicated order-id attribute
	if id := raw.Attributes["data-order-id"]; id != "" {
		return id
	}

	//3: discovered links, path id then query-param id then link testid
	for _, link := range raw.Links {
		if link.Href != "" {
			if id := firstGroup(reOrderPath, link.Href); id != "" {
				return id
			}
			if id := firstGroup(reOrderParam, link.Href); id != "" {
				return id
			}
		}
		if link.TestID != "" {
			if id := firstGroup(reSnippetID, link.TestID); id != "" {
				return id
			}
		}
	}

	//4: data-id attribute
	if dataID := raw.Attributes["data-id"]; dataID != "" {
		if id := firstGroup(reAnyDigits, dataID); id != "" {
			return id
		}
	}

	//5: element's own id attribute
	if elementID := raw.Attributes["id"]; elementID != "" {
		if id := firstGroup(reAnyDigits, elementID); id != "" {
			return id
		}
	}

	//6: free-text order-number markers
	if raw.Text != "" {
		for _, re := range textIDPatterns {
			if id := firstGroup(re, raw.Text); id != "" {
				return id
			}
		}
	}

	//7: digits inside an inline handler
	if onclick := raw.Attributes["onclick"]; onclick != "" {
		if id := firstGroup(reAnyDigits, onclick); id != "" {
			return id
		}
	}

	return ""
}

// ExtractFallbackMainInfo recovers a description from the element's full text
// when no description block matched: drop every line containing the title and
// join the rest.
func ExtractFallbackMainInfo(elementText, title string) string {
	if elementText == "" {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(elementText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if title != "" && strings.Contains(line, title) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, " "))
}

// OrderLink picks the order's own page link out of the snapshot.
func OrderLink(raw RawOrderData) string {
	for _, link := range raw.Links {
		if link.Href != "" {
			return link.Href
		}
	}
	return ""
}

// searchContainer returns the scope for field lookups. Anchor elements carry
// almost no descriptive markup themselves, so lookups walk up to the nearest
// snippet/card ancestor when one exists.
func searchContainer(element playwright.Locator, tag string) playwright.Locator {
	if tag != "a" {
		return element
	}
	ancestor := element.Locator(ancestorContainerXPath)
	if count, _ := ancestor.Count(); count > 0 {
		return ancestor.First()
	}
	return element
}

// extractOrder builds an Order from a live element and its snapshot. Every
// field failure degrades to its default; nothing here aborts the record.
func extractOrder(element playwright.Locator, raw RawOrderData) scraper.Order {
	order := scraper.Order{
		ID:         ExtractOrderID(raw),
		Title:      defaultTitle,
		Location:   defaultLocation,
		DatePosted: defaultDate,
		Link:       OrderLink(raw),
	}

	container := searchContainer(element, raw.Tag)

	if title := firstText(container, titleSelectorChain); title != "" {
		order.Title = title
	} else if raw.Tag == "a" {
		//anchor fallback: accessible label doubles as the title
		if label := raw.Attributes["aria-label"]; label != "" {
			order.Title = normalizeText(label)
		}
	}

	if budget := firstText(container, budgetSelectorChain); budget != "" {
		order.Budget = budget
	}

	if client := firstText(container, clientSelectorChain); client != "" {
		order.ClientName = client
	}

	if location := extractLocation(container); location != "" {
		order.Location = location
	}

	if date := firstText(container, dateSelectorChain); date != "" {
		order.DatePosted = date
	}

	order.MainInfo = firstText(container, mainInfoSelectorChain)
	if order.MainInfo == "" && raw.Text != "" {
		order.MainInfo = ExtractFallbackMainInfo(raw.Text, order.Title)
		if order.MainInfo != "" {
			log.Printf("    Order %s: description recovered via text fallback", order.ID)
		}
	}

	return order
}

// extractLocation walks the location chain; remote-only orders expose the
// value through aria-label instead of text.
func extractLocation(container playwright.Locator) string {
	for _, selector := range locationSelectorChain {
		loc := container.Locator(selector)
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		if text := readText(loc.First()); text != "" {
			return text
		}
		if label := readAttribute(loc.First(), "aria-label"); label != "" {
			return normalizeText(label)
		}
	}
	return ""
}
