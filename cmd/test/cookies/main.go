package main

import (
	"fmt"
	"log"

	"go-profiwatch-automation/internal/browser"
)

func main() {
	fmt.Println("🍪 Testing cookie loading...")

	cookies, err := browser.LoadCookies(".cookies/cookies-profi.json")
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}

	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	//Print first cookie as example
	if len(cookies) > 0 {
		c := cookies[0]
		fmt.Printf("\nExample cookie:\n")
		fmt.Printf("Name: %s\n", c.Name)
		fmt.Printf("Value: %s\n", c.Value)
		if c.Domain != nil {
			fmt.Printf("Domain: %s\n", *c.Domain)
		}
	}
}
