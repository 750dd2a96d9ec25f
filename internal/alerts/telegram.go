// Package alerts шлет короткие оповещения о проблемах сметающих проходов
// в служебный Telegram-канал дежурных.
package alerts

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type TelegramAlerter struct {
	bot       *tgbotapi.BotAPI
	channelID string
	logger    *zap.Logger
}

// NewTelegramAlerter создает алертер; пустой токен выключает оповещения
func NewTelegramAlerter(token, channelID string, logger *zap.Logger) *TelegramAlerter {
	if token == "" || channelID == "" {
		logger.Warn("Telegram-оповещения выключены: не задан токен или канал")
		return &TelegramAlerter{logger: logger}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Ошибка создания Telegram-клиента, оповещения выключены",
			zap.Error(err),
		)
		return &TelegramAlerter{logger: logger}
	}

	return &TelegramAlerter{
		bot:       bot,
		channelID: channelID,
		logger:    logger,
	}
}

// SweepFailed сообщает, что проход не смог даже выбрать кандидатов
func (a *TelegramAlerter) SweepFailed(sweep string, err error) {
	a.send(fmt.Sprintf("❌ Sweep %s failed: %v", sweep, err))
}

// SweepFinishedWithErrors сообщает о проходе, завершившемся с ошибками
// по отдельным броням
func (a *TelegramAlerter) SweepFinishedWithErrors(sweep string, processed int, errs []string) {
	a.send(fmt.Sprintf(
		"⚠️ Sweep %s finished: %d processed, %d failed\n%s",
		sweep, processed, len(errs), strings.Join(errs, "\n"),
	))
}

func (a *TelegramAlerter) send(text string) {
	if a.bot == nil {
		return
	}

	channelID := a.channelID
	if !strings.HasPrefix(channelID, "-100") {
		channelID = "-100" + channelID
	}

	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		a.logger.Error("Некорректный ID канала оповещений", zap.Error(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		a.logger.Error("Ошибка при отправке оповещения в Telegram", zap.Error(err))
	}
}
