package bot

import (
	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/storage/cache"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type ServiceI interface {
	DrillSI
}

type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramAPI struct {
	bot   *tgbotapi.BotAPI
	drill *DrillT
	log   *zap.Logger
}

func NewTelegramAPI(botToken, env string, service ServiceI, cache *cache.Cache, deck []models.Item, log *zap.Logger) (*TelegramAPI, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}

	if env == "development" {
		bot.Debug = true
	} else {
		bot.Debug = false
	}

	return &TelegramAPI{
		bot:   bot,
		drill: NewDrillTAPI(bot, cache, service, deck, log),
		log:   log,
	}, nil
}

// Start polls updates until the bot is stopped.
func (t *TelegramAPI) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			if update.Message.IsCommand() {
				t.handleCommand(update.Message)
			} else {
				t.handleMessage(update.Message)
			}
			continue
		}

		if update.CallbackQuery != nil {
			t.handleCallbackQuery(update.CallbackQuery)
		}
	}
}

func (t *TelegramAPI) Stop() {
	t.bot.StopReceivingUpdates()
}

func sendMessage(bot BotSender, msg tgbotapi.Chattable, log *zap.Logger) tgbotapi.Message {
	sentMsg, err := bot.Send(msg)
	if err != nil {
		log.Warn("failed to send message", zap.Error(err))
		return sentMsg
	}
	if sentMsg.Chat != nil {
		log.Debug("message sent", zap.Int64("chat_id", sentMsg.Chat.ID))
	}
	return sentMsg
}
