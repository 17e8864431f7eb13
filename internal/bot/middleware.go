package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// withRecovery runs handler and turns a panic into an error log line tagged
// with the update's chat and user.
func (b *Bot) withRecovery(l *zerolog.Logger, update tgbotapi.Update, handler func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}

		ev := l.Error().Interface("panic", r).Int("update_id", update.UpdateID)
		if chat := update.FromChat(); chat != nil {
			ev = ev.Int64("chat_id", chat.ID)
		}
		if user := update.SentFrom(); user != nil {
			ev = ev.Int64("user_id", user.ID)
		}
		ev.Msg("Recovered from panic in update handler")
	}()
	handler()
}
