package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRelativeAge(t *testing.T) {
	tests := []struct {
		text string
		want time.Duration
		ok   bool
	}{
		{"5 минут назад", 5 * time.Minute, true},
		{"1 минуту назад", time.Minute, true},
		{"2 минуты назад", 2 * time.Minute, true},
		{"3 часа назад", 3 * time.Hour, true},
		{"1 час назад", time.Hour, true},
		{"5 часов назад", 5 * time.Hour, true},
		{"2 дня назад", 48 * time.Hour, true},
		{"7 дней назад", 7 * 24 * time.Hour, true},
		{"Сегодня", 24 * time.Hour, true},
		{"вчера", 24 * time.Hour, true},
		{"позавчера в 18:00", 48 * time.Hour, true},
		{"12 мая", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			age, ok := ParseRelativeAge(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, age)
			}
		})
	}
}

func TestIsOrderRecent(t *testing.T) {
	maxAge := 2 * time.Hour

	//within threshold
	assert.True(t, IsOrderRecent("5 минут назад", maxAge))
	assert.True(t, IsOrderRecent("2 часа назад", maxAge))

	//past threshold
	assert.False(t, IsOrderRecent("3 часа назад", maxAge))
	assert.False(t, IsOrderRecent("вчера", maxAge))
	assert.False(t, IsOrderRecent("2 дня назад", maxAge))

	//fail open: missing or unparseable dates are never dropped
	assert.True(t, IsOrderRecent("", maxAge))
	assert.True(t, IsOrderRecent("Не указано", maxAge))
	assert.True(t, IsOrderRecent("когда-то давно", maxAge))
}
