package filter

import (
	"log"
	"regexp"
	"strconv"
	"time"
)

// The board shows posting age as Russian relative-time text. Patterns cover
// the declensions the board actually renders.
type agePattern struct {
	re  *regexp.Regexp
	age func(n int) time.Duration
}

var agePatterns = []agePattern{
	{
		re:  regexp.MustCompile(`(?i)(\d+)\s*минут[уы]?\s+назад`),
		age: func(n int) time.Duration { return time.Duration(n) * time.Minute },
	},
	{
		re:  regexp.MustCompile(`(?i)(\d+)\s*час(?:а|ов)?\s+назад`),
		age: func(n int) time.Duration { return time.Duration(n) * time.Hour },
	},
	{
		re:  regexp.MustCompile(`(?i)(\d+)\s*(?:день|дня|дней)\s+назад`),
		age: func(n int) time.Duration { return time.Duration(n) * 24 * time.Hour },
	},
	{
		re:  regexp.MustCompile(`(?i)сегодня`),
		age: func(int) time.Duration { return 24 * time.Hour },
	},
	{
		//must precede "вчера": it matches as a substring of "позавчера"
		re:  regexp.MustCompile(`(?i)позавчера`),
		age: func(int) time.Duration { return 48 * time.Hour },
	},
	{
		re:  regexp.MustCompile(`(?i)вчера`),
		age: func(int) time.Duration { return 24 * time.Hour },
	},
}

// ParseRelativeAge converts posting-age text like "5 минут назад" into an
// elapsed-duration estimate. ok is false when no pattern matches.
func ParseRelativeAge(datePosted string) (time.Duration, bool) {
	for _, p := range agePatterns {
		m := p.re.FindStringSubmatch(datePosted)
		if m == nil {
			continue
		}
		n := 0
		if len(m) > 1 {
			n, _ = strconv.Atoi(m[1])
		}
		return p.age(n), true
	}
	return 0, false
}

// IsOrderRecent reports whether the order's posting age is within maxAge.
// Absent or unparseable dates count as recent: ambiguous orders are delivered
// rather than silently dropped.
func IsOrderRecent(datePosted string, maxAge time.Duration) bool {
	if datePosted == "" || datePosted == "Не указано" {
		log.Println("Posting date not specified, treating order as recent")
		return true
	}

	age, ok := ParseRelativeAge(datePosted)
	if !ok {
		log.Printf("⚠️ Could not parse posting date %q, treating order as recent", datePosted)
		return true
	}

	return age <= maxAge
}
