package alert

import (
	"fmt"
	"time"

	"gopkg.in/telebot.v3"
)

// TelegramNotifier pushes dispatch-run error summaries to an operator chat.
// It is send-only; no poller is started.
type TelegramNotifier struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(text string) error {
	_, err := n.bot.Send(&telebot.User{ID: n.chatID}, text)
	return err
}
