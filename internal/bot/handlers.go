package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	ButtonDrill    = "🧠 Тренировка"
	ButtonStop     = "⏹ Завершить"
	ButtonProgress = "📊 Мой прогресс"
	ButtonMainMenu = "🏠 Главное меню"
	ButtonHelp     = "ℹ️ Помощь"
)

const (
	CallbackKnow     = "drill_know"
	CallbackForgot   = "drill_forgot"
	CallbackNewDrill = "drill_new"
	CallbackMainMenu = "main_menu"
)

func (t *TelegramAPI) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		t.handleStartCommand(message)
	case "help":
		t.handleHelpCommand(message)
	case "drill":
		t.drill.startDrill(message)
	case "stop":
		t.drill.stopDrill(message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Неизвестная команда. Используй /start")
		sendMessage(t.bot, msg, t.log)
	}
}

func (t *TelegramAPI) handleStartCommand(message *tgbotapi.Message) {
	welcomeText := "🤖 Привет! Я помогу учить слова без зубрёжки.\n\n" +
		"✨ Что я умею:\n" +
		"• 🧠 Подбирать порядок слов под твою память\n" +
		"• 🔁 Возвращать трудные слова вовремя\n" +
		"• 📊 Показывать прогресс\n\n" +
		"Нажми кнопку ниже, чтобы начать!"

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	msg.ReplyMarkup = t.generateMenuKeyboard()

	sendMessage(t.bot, msg, t.log)
}

func (t *TelegramAPI) showMainMenu(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "🏠 Главное меню:")
	msg.ReplyMarkup = t.generateMenuKeyboard()

	sendMessage(t.bot, msg, t.log)
}

func (t *TelegramAPI) generateMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonDrill),
			tgbotapi.NewKeyboardButton(ButtonStop),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonProgress),
			tgbotapi.NewKeyboardButton(ButtonHelp),
		),
	)

	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = false

	return keyboard
}

func (t *TelegramAPI) handleHelpCommand(message *tgbotapi.Message) {
	helpText := `
📚 Доступные команды:
/start — запустить бота
/drill — начать тренировку
/stop — завершить тренировку
/help — это сообщение

🎯 Используй кнопки:
• "Тренировка" — слова в порядке, который подходит твоей памяти
• "Завершить" — закончить сессию и увидеть итог
• "Мой прогресс" — сколько слов в каждой группе
`

	msg := tgbotapi.NewMessage(message.Chat.ID, helpText)
	sendMessage(t.bot, msg, t.log)
}

func (t *TelegramAPI) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		t.log.Warn("message without sender", zap.Int64("chat_id", message.Chat.ID))
		return
	}

	switch message.Text {
	case ButtonDrill:
		t.drill.startDrill(message)
	case ButtonStop:
		t.drill.stopDrill(message)
	case ButtonProgress:
		t.drill.sendSummary(message)
	case ButtonMainMenu:
		t.showMainMenu(message)
	case ButtonHelp:
		t.handleHelpCommand(message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Я не понял. Используй кнопки ниже.")
		sendMessage(t.bot, msg, t.log)
	}
}

func (t *TelegramAPI) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	callback := tgbotapi.NewCallback(query.ID, "")
	callback.ShowAlert = false
	if _, err := t.bot.Request(callback); err != nil {
		t.log.Warn("failed to answer callback", zap.Error(err))
	}

	switch query.Data {
	case CallbackKnow, CallbackForgot, CallbackNewDrill:
		t.drill.handleDrillCallbackQuery(query)
	case CallbackMainMenu:
		if query.Message != nil {
			t.showMainMenu(query.Message)
		}
	default:
		t.log.Warn("unknown callback data", zap.String("data", query.Data), zap.Int64("user_id", query.From.ID))
	}
}
