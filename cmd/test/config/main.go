package main

import (
	"fmt"

	"go-profiwatch-automation/internal/config"
)

func main() {
	fmt.Println("🔧 Testing config loading...")
	cfg := config.Load()
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Telegram Token: %s...\n", cfg.TelegramToken[:10])
	fmt.Printf("   Telegram Chat ID: %d\n", cfg.TelegramChatID)
	fmt.Printf("   Orders URL: %s\n", cfg.OrdersURL)
	fmt.Printf("   Filter mode: %s\n", cfg.FilterMode)
	fmt.Printf("   Interval: %ds\n", cfg.ParseIntervalSeconds)
	fmt.Printf("   Cookies Path: %s\n", cfg.CookiesPath)
	fmt.Printf("   Cache Path: %s\n", cfg.CachePath)
}
