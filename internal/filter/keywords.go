package filter

import (
	"bufio"
	"log"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// LoadWords reads a word-list file into a lowercase set. One word per line or
// comma-separated; blank lines and #-comments are skipped. Any read error
// yields an empty set, the filter modes decide what that means.
func LoadWords(path string) mapset.Set[string] {
	words := mapset.NewSet[string]()

	file, err := os.Open(path)
	if err != nil {
		log.Printf("⚠️ Could not read word list %s: %v", path, err)
		return words
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, word := range strings.Split(line, ",") {
			word = strings.ToLower(strings.TrimSpace(word))
			if word != "" {
				words.Add(word)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("⚠️ Error reading word list %s: %v", path, err)
	}

	return words
}
