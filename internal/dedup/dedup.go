package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-profiwatch-automation/internal/filter"

	mapset "github.com/deckarep/golang-set/v2"
)

// OrderStore is the durable record of delivered order ids. The on-disk JSON
// array is the authority: it is loaded at startup, rewritten on every
// acceptance (write-through) and never pruned, so an id blocks redelivery for
// the lifetime of the store. A crash loses at most the in-flight cycle's
// not-yet-persisted acceptance.
type OrderStore struct {
	mu        sync.Mutex
	filePath  string
	processed mapset.Set[string]
	maxAge    time.Duration
}

// NewOrderStore creates or loads the store under cacheDir.
func NewOrderStore(cacheDir string, maxAge time.Duration) *OrderStore {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	store := &OrderStore{
		filePath:  filepath.Join(cacheDir, "processed_orders.json"),
		processed: mapset.NewSet[string](),
		maxAge:    maxAge,
	}
	store.load()
	return store
}

// IsNewOrder reports whether an order should be delivered: it needs a
// resolvable id, a posting age within the freshness threshold, and an id not
// seen before.
func (s *OrderStore) IsNewOrder(orderID, datePosted string) bool {
	if orderID == "" {
		return false
	}

	if !filter.IsOrderRecent(datePosted, s.maxAge) {
		log.Printf("Order %s too old: %s", orderID, datePosted)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.processed.Contains(orderID)
}

// MarkProcessed records an accepted id and persists immediately.
func (s *OrderStore) MarkProcessed(orderID string) {
	if orderID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processed.Contains(orderID) {
		return
	}
	s.processed.Add(orderID)
	s.save()
}

// Size returns the number of recorded ids.
func (s *OrderStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed.Cardinality()
}

func (s *OrderStore) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read processed_orders.json: %v", err)
		}
		return
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Printf("⚠️ Failed to parse processed_orders.json: %v", err)
		return
	}

	for _, id := range ids {
		s.processed.Add(id)
	}
	log.Printf("📋 Loaded %d previously processed orders", len(ids))
}

// save writes the full set; caller holds the lock.
func (s *OrderStore) save() {
	ids := s.processed.ToSlice()
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal processed orders: %v", err)
		return
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write processed_orders.json: %v", err)
	}
}
