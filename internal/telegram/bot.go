package telegram

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"go-profiwatch-automation/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot delivers orders to the configured chat and serves the control commands
// (/start, /stop, /interval, /status) over long polling.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64

	mu      sync.Mutex
	running bool

	//wired by the scraper loop
	SetInterval func(seconds int) (int, bool)
	Status      func() string
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:     api,
		chatID:  chatID,
		running: true,
	}, nil
}

// IsRunning reports whether delivery is enabled (toggled by /start and /stop).
func (b *Bot) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

func (b *Bot) setRunning(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = v
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// TruncateText cuts text to maxLength runes, preferring the last word
// boundary. Counting runes keeps the cut off the middle of a Cyrillic
// character, which the bot API rejects as invalid UTF-8.
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	truncated := runes[:maxLength]
	lastSpace := -1
	for i, r := range truncated {
		if r == ' ' {
			lastSpace = i
		}
	}

	//use the boundary only if it lands in the final 20%
	if lastSpace > maxLength*8/10 {
		return string(truncated[:lastSpace]) + "..."
	}
	return string(truncated) + "..."
}

// SendOrder formats one order and sends it to the chat.
func (b *Bot) SendOrder(order scraper.Order) error {
	title := order.Title
	if title == "" {
		title = "Без названия"
	}
	msgText := fmt.Sprintf("*%s*\n", b.escapeMarkdown(title))

	if client := strings.TrimSpace(order.ClientName); client != "" {
		msgText += fmt.Sprintf("👤 %s\n", b.escapeMarkdown(client))
	}

	if order.MainInfo != "" {
		//collapse whitespace runs from the scraped markup
		mainInfo := strings.Join(strings.Fields(order.MainInfo), " ")
		msgText += fmt.Sprintf("%s\n", b.escapeMarkdown(mainInfo))
	}

	//budget is skipped when the title already carries it
	if budget := strings.TrimSpace(order.Budget); budget != "" && !strings.Contains(order.Title, budget) {
		msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(budget))
	}

	if info := strings.TrimSpace(order.AdditionalInfo); info != "" {
		info = TruncateText(info, 300)
		msgText += fmt.Sprintf("\nℹ️ *Дополнительная информация:*\n%s\n", b.escapeMarkdown(info))
	}

	if len(order.MatchedKeywords) > 0 {
		msgText += fmt.Sprintf("\n✅ Ключевые слова: %s\n", b.escapeMarkdown(strings.Join(order.MatchedKeywords, ", ")))
	}

	msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(order.Location))
	msgText += fmt.Sprintf("⏰ %s\n", b.escapeMarkdown(order.DatePosted))

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"

	if order.Link != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 Открыть заказ", order.Link),
			),
		)
	}

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}

// ListenCommands consumes bot commands until the update channel closes.
// Meant to run in its own goroutine next to the scrape loop.
func (b *Bot) ListenCommands() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		if update.Message.Chat.ID != b.chatID {
			continue
		}

		switch update.Message.Command() {
		case "start":
			b.setRunning(true)
			b.SendStatus("Доставка заказов включена.")
			log.Println("🤖 Delivery enabled via /start")
		case "stop":
			b.setRunning(false)
			b.SendStatus("Доставка заказов остановлена. /start для запуска.")
			log.Println("🤖 Delivery paused via /stop")
		case "interval":
			b.handleInterval(update.Message.CommandArguments())
		case "status":
			if b.Status != nil {
				b.SendStatus(b.Status())
			}
		}
	}
}

func (b *Bot) handleInterval(args string) {
	if b.SetInterval == nil {
		return
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		b.SendStatus("Использование: /interval <секунды>")
		return
	}
	applied, changed := b.SetInterval(seconds)
	if !changed {
		b.SendStatus(fmt.Sprintf("Интервал вне диапазона, оставлен %d сек.", applied))
		return
	}
	b.SendStatus(fmt.Sprintf("Интервал обновления: %d сек.", applied))
	log.Printf("🤖 Interval set to %d seconds via /interval", applied)
}
