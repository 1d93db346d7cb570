package dedup

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestShortTermGuard(t *testing.T) {
	guard := NewShortTermGuard()

	key := CompositeKey("80340822", "5 минут назад", "Настроить Директ")
	assert.False(t, guard.Seen(key))

	guard.Remember(key)
	assert.True(t, guard.Seen(key))

	//same id with different posting metadata is a different short-term key
	other := CompositeKey("80340822", "2 часа назад", "Настроить Директ")
	assert.NotEqual(t, key, other)
	assert.False(t, guard.Seen(other))
}

func TestCompositeKey_TruncatesTitle(t *testing.T) {
	//a Cyrillic title is cut at 50 runes, never inside a character
	long := strings.Repeat("дизайн логотипа ", 10)
	key := CompositeKey("1", "сегодня", long)
	short := CompositeKey("1", "сегодня", string([]rune(long)[:50]))
	assert.Equal(t, short, key)
	assert.True(t, utf8.ValidString(key))
}

func TestShortTermGuard_Prune(t *testing.T) {
	guard := NewShortTermGuard()

	for i := 0; i < guardSoftCap+1; i++ {
		guard.Remember(fmt.Sprintf("key-%03d", i))
	}

	//pruned down to the newest entries
	assert.Equal(t, guardKeepAfter, len(guard.order))
	assert.False(t, guard.Seen("key-000"))
	assert.True(t, guard.Seen(fmt.Sprintf("key-%03d", guardSoftCap)))
}
