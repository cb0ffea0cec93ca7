package notify

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramTransport posts the message into a staff chat.
type TelegramTransport struct {
	bot    botSender
	chatID int64
}

func NewTelegramTransport(token string, chatID int64) (*TelegramTransport, error) {
	if token == "" || chatID == 0 {
		return nil, errors.New("telegram token and chat id are required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramTransport{bot: bot, chatID: chatID}, nil
}

func (t *TelegramTransport) Name() string { return "telegram" }

func (t *TelegramTransport) Deliver(ctx context.Context, msg Message) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m := tgbotapi.NewMessage(t.chatID, msg.Text)
	m.DisableWebPagePreview = true
	if _, err := t.bot.Send(m); err != nil {
		return false, err
	}
	return true, nil
}
