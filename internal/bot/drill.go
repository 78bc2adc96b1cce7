package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/service"
	"github.com/DanRulev/vocadrill/internal/storage/cache"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const answerMode = "telegram"

type DrillSI interface {
	StartSession(ctx context.Context, userID int64, items []models.Item) (models.SessionView, error)
	Next(ctx context.Context, userID int64) (models.Item, bool, error)
	Answer(ctx context.Context, userID int64, ans models.Answer) (models.AnswerResult, error)
	EndSession(ctx context.Context, userID int64) (models.ABSessionLog, error)
	Summary(ctx context.Context, userID int64) (models.ProgressSummary, error)
}

type DrillT struct {
	bot     BotSender
	cache   *cache.Cache
	service DrillSI
	deck    []models.Item
	log     *zap.Logger
	now     func() time.Time
}

func NewDrillTAPI(bot BotSender, cache *cache.Cache, service DrillSI, deck []models.Item, log *zap.Logger) *DrillT {
	return &DrillT{
		bot:     bot,
		cache:   cache,
		service: service,
		deck:    deck,
		log:     log,
		now:     time.Now,
	}
}

func (t *DrillT) startDrill(message *tgbotapi.Message) {
	if message.From == nil {
		t.log.Warn("message without sender", zap.Int64("chat_id", message.Chat.ID))
		return
	}
	userID := message.From.ID

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if len(t.deck) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "📭 Нет слов для тренировки.")
		sendMessage(t.bot, msg, t.log)
		return
	}

	view, err := t.service.StartSession(ctx, userID, t.deck)
	if err != nil {
		t.log.Error("failed to start session", zap.Int64("user_id", userID), zap.Error(err))
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Ошибка при запуске тренировки. Попробуй позже.")
		sendMessage(t.bot, msg, t.log)
		return
	}

	t.log.Info("session started",
		zap.Int64("user_id", userID),
		zap.String("session_id", view.SessionID),
		zap.String("variant", view.Variant),
		zap.Bool("overridden", view.Overridden))

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("🚀 Начинаем! Слов в очереди: %d", len(view.Items)))
	sendMessage(t.bot, msg, t.log)

	t.sendNext(ctx, message.Chat.ID, userID)
}

func (t *DrillT) sendNext(ctx context.Context, chatID, userID int64) {
	item, ok, err := t.service.Next(ctx, userID)
	if err != nil {
		t.log.Warn("failed to get next item", zap.Int64("user_id", userID), zap.Error(err))
		msg := tgbotapi.NewMessage(chatID, "Нет активной тренировки. Нажми «"+ButtonDrill+"».")
		sendMessage(t.bot, msg, t.log)
		return
	}
	if !ok {
		t.finish(ctx, chatID, userID)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ Знаю", CallbackKnow),
			tgbotapi.NewInlineKeyboardButtonData("❌ Не знаю", CallbackForgot),
		},
	)

	msg := tgbotapi.NewMessage(chatID, "❓ *"+item.ID+"*")
	msg.ParseMode = "markdown"
	msg.ReplyMarkup = &keyboard

	sent := sendMessage(t.bot, msg, t.log)

	t.cache.SetPrompt(userID, models.Prompt{
		UserID:    userID,
		Item:      item,
		SentAt:    t.now(),
		MessageID: sent.MessageID,
	})
}

func (t *DrillT) handleDrillCallbackQuery(query *tgbotapi.CallbackQuery) {
	switch query.Data {
	case CallbackKnow, CallbackForgot:
		t.handleAnswer(query)
	case CallbackNewDrill:
		if query.Message == nil {
			t.log.Warn("callback query without message", zap.String("query_id", query.ID))
			return
		}
		msg := *query.Message
		msg.From = query.From
		t.startDrill(&msg)
	default:
		t.log.Warn("unknown callback data", zap.String("data", query.Data))
	}
}

func (t *DrillT) handleAnswer(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID

	prompt, exists := t.cache.GetPrompt(userID)
	if !exists {
		msg := tgbotapi.NewMessage(userID, "Не удалось определить слово.")
		sendMessage(t.bot, msg, t.log)
		return
	}
	t.cache.DeletePrompt(userID)

	now := t.now()
	ans := models.Answer{
		ItemID:         prompt.Item.ID,
		WasCorrect:     query.Data == CallbackKnow,
		ResponseTimeMs: max(now.Sub(prompt.SentAt).Milliseconds(), 0),
		Mode:           answerMode,
		Timestamp:      now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := t.service.Answer(ctx, userID, ans)
	if err != nil {
		t.log.Error("failed to record answer", zap.Int64("user_id", userID), zap.Error(err))
		text := "❌ Ошибка при сохранении ответа."
		if errors.Is(err, service.ErrNoSession) {
			text = "Нет активной тренировки. Нажми «" + ButtonDrill + "»."
		}
		msg := tgbotapi.NewMessage(userID, text)
		sendMessage(t.bot, msg, t.log)
		return
	}

	if query.Message != nil {
		editMsg := tgbotapi.NewEditMessageText(
			query.Message.Chat.ID,
			query.Message.MessageID,
			answerText(prompt.Item, res),
		)
		editMsg.ParseMode = "markdown"
		sendMessage(t.bot, editMsg, t.log)
	}

	if res.RecommendedAction == models.ActionShorterSession {
		msg := tgbotapi.NewMessage(userID, "⏳ Слова начали повторяться слишком часто, сократим сессию.")
		sendMessage(t.bot, msg, t.log)
	}

	chatID := userID
	if query.Message != nil {
		chatID = query.Message.Chat.ID
	}
	t.sendNext(ctx, chatID, userID)
}

func answerText(item models.Item, res models.AnswerResult) string {
	var sb strings.Builder
	sb.WriteString("*" + item.ID + "*")
	if item.Meaning != "" {
		sb.WriteString(" — " + item.Meaning)
	}
	sb.WriteString("\n\n")

	switch res.Outcome {
	case models.CategoryMastered:
		sb.WriteString("🏆 Слово выучено!")
	case models.CategoryCorrect:
		sb.WriteString("✅ Отлично!")
	case models.CategoryIncorrect:
		sb.WriteString("❌ Запомнили. Повтори позже.")
	default:
		sb.WriteString("🔁 Ещё немного практики.")
	}

	return sb.String()
}

func (t *DrillT) stopDrill(message *tgbotapi.Message) {
	if message.From == nil {
		t.log.Warn("message without sender", zap.Int64("chat_id", message.Chat.ID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.cache.DeletePrompt(message.From.ID)
	t.finish(ctx, message.Chat.ID, message.From.ID)
}

func (t *DrillT) finish(ctx context.Context, chatID, userID int64) {
	entry, err := t.service.EndSession(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			msg := tgbotapi.NewMessage(chatID, "Нет активной тренировки.")
			sendMessage(t.bot, msg, t.log)
			return
		}
		t.log.Error("failed to end session", zap.Int64("user_id", userID), zap.Error(err))
		msg := tgbotapi.NewMessage(chatID, "❌ Ошибка при завершении тренировки.")
		sendMessage(t.bot, msg, t.log)
		return
	}

	text := fmt.Sprintf("🏁 Тренировка завершена!\n\nПоказано слов: %d\nВыучено: %d",
		len(entry.PresentedOrder), entry.AcquiredCount)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🧠 НОВАЯ ТРЕНИРОВКА", CallbackNewDrill),
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", CallbackMainMenu),
		},
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = &keyboard
	sendMessage(t.bot, msg, t.log)
}

var categoryTitles = []struct {
	category models.Category
	title    string
}{
	{models.CategoryMastered, "✅ Выучено"},
	{models.CategoryStillLearning, "📚 В процессе"},
	{models.CategoryIncorrect, "❌ Трудные"},
	{models.CategoryNew, "🆕 Новые"},
}

func (t *DrillT) sendSummary(message *tgbotapi.Message) {
	if message.From == nil {
		t.log.Warn("message without sender", zap.Int64("chat_id", message.Chat.ID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sum, err := t.service.Summary(ctx, message.From.ID)
	if err != nil {
		t.log.Error("failed to get summary", zap.Int64("user_id", message.From.ID), zap.Error(err))
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Ошибка получения статистики")
		sendMessage(t.bot, msg, t.log)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Твой прогресс*\n\nВсего слов: %d\n", sum.Total))
	for _, c := range categoryTitles {
		sb.WriteString(fmt.Sprintf("%s: %d\n", c.title, sum.ByCategory[c.category]))
	}
	sb.WriteString(fmt.Sprintf("\n🎯 Точность: %.0f%%", sum.Accuracy*100))

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	msg.ParseMode = "markdown"
	sendMessage(t.bot, msg, t.log)
}
