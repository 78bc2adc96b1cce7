package mock_bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MockBot records every Chattable it is asked to send.
type MockBot struct {
	mu           sync.Mutex
	nextID       int
	SentMessages []tgbotapi.Chattable
}

func (m *MockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.SentMessages = append(m.SentMessages, c)
	return tgbotapi.Message{MessageID: m.nextID, Chat: &tgbotapi.Chat{ID: 123}}, nil
}

func ClearSentMessages(bot *MockBot) {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	bot.SentMessages = nil
}
