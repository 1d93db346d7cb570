package dedup

import (
	"fmt"
	"log"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	guardSoftCap   = 100
	guardKeepAfter = 50
)

// ShortTermGuard is the in-process duplicate guard for a single run. Unlike
// OrderStore it keys on a composite of id, posting date and title, catching
// the board re-listing an order under the same id with changed metadata.
// Nothing here is persisted; the prune is a memory bound, not a correctness
// mechanism.
type ShortTermGuard struct {
	seen  mapset.Set[string]
	order []string
}

func NewShortTermGuard() *ShortTermGuard {
	return &ShortTermGuard{
		seen: mapset.NewSet[string](),
	}
}

// CompositeKey builds the short-term identity of an order. The title part is
// capped at 50 runes, not bytes, so Cyrillic titles truncate cleanly.
func CompositeKey(orderID, datePosted, title string) string {
	if runes := []rune(title); len(runes) > 50 {
		title = string(runes[:50])
	}
	return fmt.Sprintf("%s_%s_%s", orderID, datePosted, title)
}

// Seen reports whether the key was already remembered this run.
func (g *ShortTermGuard) Seen(key string) bool {
	return g.seen.Contains(key)
}

// Remember records a key, pruning the oldest entries past the soft cap.
func (g *ShortTermGuard) Remember(key string) {
	if g.seen.Contains(key) {
		return
	}
	g.seen.Add(key)
	g.order = append(g.order, key)

	if len(g.order) > guardSoftCap {
		drop := g.order[:len(g.order)-guardKeepAfter]
		g.order = append([]string(nil), g.order[len(g.order)-guardKeepAfter:]...)
		for _, old := range drop {
			g.seen.Remove(old)
		}
		log.Printf("Short-term guard pruned to %d entries", len(g.order))
	}
}
