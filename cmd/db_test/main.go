package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go-profiwatch-automation/internal/database"
	"go-profiwatch-automation/internal/scraper"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		godotenv.Load("../../.env") // Fallback
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set. Please check your .env file.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(ctx, dbURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}
	defer repo.Close()

	fmt.Println("✅ Database connected, orders table ensured")

	order := scraper.Order{
		ID:         fmt.Sprintf("test-%d", time.Now().Unix()),
		Title:      "Тестовый заказ",
		MainInfo:   "Проверка архива заказов",
		Location:   "Дистанционно",
		DatePosted: "5 минут назад",
	}
	if err := repo.SaveOrder(ctx, order); err != nil {
		log.Fatalf("❌ Failed to save order: %v", err)
	}
	fmt.Printf("✅ Saved test order %s\n", order.ID)

	count, err := repo.CountOrders(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count orders: %v", err)
	}
	fmt.Printf("📊 Archived orders: %d\n", count)
}
