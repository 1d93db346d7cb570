package filter

import (
	"log"
	"sort"
	"strings"

	"go-profiwatch-automation/internal/scraper"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	ModeInclude = "include"
	ModeExclude = "exclude"
)

const (
	diagnosticsMaxOrders = 10
	diagnosticsTextLimit = 300
)

// KeywordFilter applies the plus-word or minus-word policy over an order's
// textual fields. Word lists are re-read on every pass so edits take effect
// without a restart.
type KeywordFilter struct {
	mode         string
	includedPath string
	excludedPath string
	diagnostics  bool
}

func NewKeywordFilter(mode, includedPath, excludedPath string) *KeywordFilter {
	return &KeywordFilter{
		mode:         mode,
		includedPath: includedPath,
		excludedPath: excludedPath,
		diagnostics:  true,
	}
}

// checkText builds the lowercase haystack the words are matched against.
// Budget and client name are deliberately excluded.
func checkText(order scraper.Order) string {
	return strings.ToLower(order.Title + " " + order.MainInfo + " " + order.AdditionalInfo)
}

// MatchWords returns the words contained in text as plain substrings, sorted
// for deterministic output. Matching is intentionally not word-bounded: the
// lists hold multi-word marketing phrases that boundaries would break.
func MatchWords(text string, words mapset.Set[string]) []string {
	var matched []string
	for word := range words.Iter() {
		if strings.Contains(text, word) {
			matched = append(matched, word)
		}
	}
	sort.Strings(matched)
	return matched
}

// FilterOrders returns the orders surviving the configured policy.
//
// include mode with an empty word list drops everything: a misconfigured
// plus-list must not flood the channel. exclude mode with an empty list keeps
// everything. The asymmetry is deliberate.
func (f *KeywordFilter) FilterOrders(orders []scraper.Order) []scraper.Order {
	if len(orders) == 0 {
		return nil
	}

	if f.mode == ModeInclude {
		return f.filterInclude(orders)
	}
	return f.filterExclude(orders)
}

func (f *KeywordFilter) filterInclude(orders []scraper.Order) []scraper.Order {
	words := LoadWords(f.includedPath)
	log.Printf("🔍 Loaded %d plus-words for filtering", words.Cardinality())
	if words.Cardinality() == 0 {
		log.Println("⚠️ No plus-words configured, no orders will be sent")
		return nil
	}

	var survivors []scraper.Order
	for i, order := range orders {
		text := checkText(order)
		matched := MatchWords(text, words)
		f.logDiagnostics(order, text, matched, i+1)

		if len(matched) == 0 {
			log.Printf("🚫 Order %s filtered out (no plus-words matched)", orderID(order))
			continue
		}

		log.Printf("✅ Order %s accepted, matched: %v", orderID(order), matched)
		order.MatchedKeywords = matched
		survivors = append(survivors, order)
	}

	log.Printf("Filtered %d/%d orders", len(orders)-len(survivors), len(orders))
	return survivors
}

func (f *KeywordFilter) filterExclude(orders []scraper.Order) []scraper.Order {
	words := LoadWords(f.excludedPath)
	log.Printf("🔍 Loaded %d minus-words for filtering", words.Cardinality())
	if words.Cardinality() == 0 {
		log.Println("⚠️ No minus-words configured, orders pass unfiltered")
		return orders
	}

	var survivors []scraper.Order
	for i, order := range orders {
		text := checkText(order)
		matched := MatchWords(text, words)
		f.logDiagnostics(order, text, matched, i+1)

		if len(matched) > 0 {
			log.Printf("🚫 Order %s filtered out by minus-words: %v", orderID(order), matched)
			continue
		}

		log.Printf("✅ Order %s accepted (no minus-words found)", orderID(order))
		survivors = append(survivors, order)
	}

	log.Printf("Filtered %d/%d orders", len(orders)-len(survivors), len(orders))
	return survivors
}

// logDiagnostics dumps the haystack and matches for the first few orders of a
// pass, enough to debug why a listing slipped through or got dropped.
func (f *KeywordFilter) logDiagnostics(order scraper.Order, text string, matched []string, index int) {
	if !f.diagnostics || index > diagnosticsMaxOrders {
		return
	}
	preview := text
	if runes := []rune(preview); len(runes) > diagnosticsTextLimit {
		preview = string(runes[:diagnosticsTextLimit])
	}
	log.Printf("[filter] order %d | id=%s | title=%.80q | matched=%v | text=%q",
		index, orderID(order), order.Title, matched, preview)
}

func orderID(order scraper.Order) string {
	if order.ID == "" {
		return "<no id>"
	}
	return order.ID
}
