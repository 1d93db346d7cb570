// Define an interface for all scrapers
// Ensure consistency

package scraper

import (
	"context"

	"github.com/playwright-community/playwright-go"
)

// Order is one scraped marketplace order. Fields that could not be resolved
// hold their documented defaults rather than failing the whole record.
type Order struct {
	ID              string
	Title           string
	Budget          string
	ClientName      string
	Location        string
	DatePosted      string
	Link            string
	MainInfo        string
	AdditionalInfo  string
	MatchedKeywords []string
}

//Scraper defines the interface that all marketplace scrapers must implement
type Scraper interface {
	//Scrape runs one full cycle and returns the new orders found
	Scrape(ctx context.Context, page playwright.Page) ([]Order, error)

	//Name is the marketplace name
	Name() string
}
